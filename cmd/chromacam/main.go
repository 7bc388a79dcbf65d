package main

import (
	"os"
	"runtime"
)

// HighGUI and the tray both expect to own the main OS thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
