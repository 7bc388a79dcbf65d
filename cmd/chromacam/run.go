package main

import (
	"context"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/pkg/errors"

	"github.com/ayusman/chromacam/internal/app"
	"github.com/ayusman/chromacam/internal/capture"
	"github.com/ayusman/chromacam/internal/config"
	"github.com/ayusman/chromacam/internal/display"
	"github.com/ayusman/chromacam/internal/log"
	"github.com/ayusman/chromacam/internal/server"
	"github.com/ayusman/chromacam/internal/tray"
)

const shutdownTimeout = 5 * time.Second

func run(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Init(cfg.LogLevel)
	logger := log.Component("main")

	mode, err := app.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}

	camera := newCamera(cfg)
	worker, err := app.NewWorker(app.Config{
		Mode:           mode,
		Camera:         camera,
		CascadeDir:     cfg.CascadeDir,
		ReadRetryDelay: cfg.ReadRetryDelay,
	})
	if err != nil {
		return errors.Wrap(err, "create worker")
	}

	sink := display.NewSink(worker)
	defer sink.Close()

	var httpSrv *http.Server
	if cfg.ServesHTTP() {
		webDir := cfg.WebDir
		if webDir == "" {
			webDir = findWebDir()
		}
		if webDir != "" {
			logger.Info("serving static files", "dir", webDir)
		}

		viewer := server.New(server.Config{StaticDir: webDir, Sink: sink})
		defer viewer.Close()

		httpSrv = &http.Server{Addr: cfg.Addr, Handler: viewer}
		go func() {
			logger.Info("viewer listening", "addr", "http://"+cfg.Addr)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("viewer failed", "error", err)
				stop()
			}
		}()
	}

	var win *display.Window
	if cfg.ShowsWindow() {
		win = display.NewWindow(sink, "chromacam")
		sink.AddRenderer(win)
	}

	if err := sink.Start(); err != nil {
		return err
	}
	logger.Info("capture started", "camera", camera.String(), "mode", mode)

	if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		logger.Debug("sd_notify failed", "error", err)
	}

	var tr *tray.Tray
	if cfg.Tray {
		tr = newTray(mode, cfg, sink, stop)
		go func() {
			select {
			case <-sink.Stopped():
				tr.SetStatus(string(mode) + ": stopped")
			case <-ctx.Done():
			}
		}()
	}

	switch {
	case win != nil:
		if tr != nil {
			go tr.Run()
		}
		if err := win.Run(ctx); err != nil {
			logger.Error("window failed", "error", err)
		}
	case tr != nil:
		go func() {
			<-ctx.Done()
			tr.Quit()
		}()
		tr.Run()
	default:
		<-ctx.Done()
	}

	logger.Info("shutting down")
	daemon.SdNotify(false, daemon.SdNotifyStopping)

	if tr != nil {
		tr.Quit()
	}
	sink.Close()

	if httpSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("viewer shutdown", "error", err)
		}
	}
	return nil
}

func newCamera(cfg config.Config) capture.Camera {
	if cfg.Backend == config.BackendV4L2 {
		return capture.NewV4L2Camera(cfg.DevicePath)
	}
	return capture.NewCamera(cfg.Device)
}

func newTray(mode app.Mode, cfg config.Config, sink *display.Sink, quit func()) *tray.Tray {
	tr := tray.New(string(mode) + ": running")
	tr.OnCancel(sink.Cancel)
	tr.OnQuit(quit)
	if cfg.ServesHTTP() {
		url := "http://" + cfg.Addr
		tr.OnOpenViewer(func() {
			if err := openBrowser(url); err != nil {
				log.Warn("open viewer failed", "url", url, "error", err)
			}
		})
	}
	return tr
}

func openBrowser(url string) error {
	name := "xdg-open"
	switch runtime.GOOS {
	case "darwin":
		name = "open"
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	}
	return exec.Command(name, url).Start()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web" and ~/.chromacam/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	for _, p := range []string{"web", "../web"} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".chromacam", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}
	return ""
}
