package main

import (
	"github.com/spf13/cobra"

	"github.com/ayusman/chromacam/internal/config"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	cfg, envErr := config.Default().FromEnv(nil)

	cmd := &cobra.Command{
		Use:   "chromacam",
		Short: "Live webcam viewer with face detection and HSV tuning",
		Long: `chromacam shows the webcam feed next to a processed copy of each frame.

In detect mode faces and eyes are outlined and the hue, saturation and value
sliders shift and scale the picture. In mask mode the sliders pick the centre
of an HSV window and the processed pane shows which pixels fall inside it.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			if envErr != nil {
				return envErr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.Mode, "mode", cfg.Mode, "processing mode: detect or mask")
	f.StringVar(&cfg.Backend, "backend", cfg.Backend, "camera backend: gocv or v4l2")
	f.IntVar(&cfg.Device, "device", cfg.Device, "camera index for the gocv backend")
	f.StringVar(&cfg.DevicePath, "device-path", cfg.DevicePath, "device node for the v4l2 backend")
	f.StringVar(&cfg.CascadeDir, "cascade-dir", cfg.CascadeDir, "directory holding the Haar cascade models")
	f.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address of the HTTP viewer")
	f.StringVar(&cfg.WebDir, "web-dir", cfg.WebDir, "static files served at / by the HTTP viewer")
	f.StringVar(&cfg.Display, "display", cfg.Display, "viewer surface: http, window or both")
	f.BoolVar(&cfg.Tray, "tray", cfg.Tray, "show a system tray menu")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	f.DurationVar(&cfg.ReadRetryDelay, "read-retry-delay", cfg.ReadRetryDelay, "pause after a failed camera read")

	return cmd
}
