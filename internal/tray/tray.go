// Package tray provides a system tray menu for chromacam.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray menu.
type Tray struct {
	status     string
	onOpen     func()
	onCancel   func()
	onQuit     func()
	cancelled  bool
	mu         sync.RWMutex
	menuStatus *systray.MenuItem
	menuCancel *systray.MenuItem
}

// New creates a Tray whose status line starts as status.
func New(status string) *Tray {
	return &Tray{status: status}
}

// OnOpenViewer sets the callback for the "Open Viewer" item.
func (t *Tray) OnOpenViewer(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnCancel sets the callback for the "Stop Capture" item.
func (t *Tray) OnCancel(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onCancel = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until Quit is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit removes the tray icon and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("chromacam")
	systray.SetTooltip("chromacam webcam viewer")

	t.mu.Lock()
	t.menuStatus = systray.AddMenuItem(t.status, "Capture status")
	t.menuStatus.Disable()
	systray.AddSeparator()

	menuOpen := systray.AddMenuItem("Open Viewer", "Open the viewer in a browser")
	t.menuCancel = systray.AddMenuItem("Stop Capture", "Stop the camera and freeze the view")
	if t.cancelled {
		t.menuCancel.Disable()
	}
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit chromacam")
	t.mu.Unlock()

	go func() {
		for {
			select {
			case <-menuOpen.ClickedCh:
				t.handleOpen()
			case <-t.menuCancel.ClickedCh:
				t.handleCancel()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) handleOpen() {
	t.mu.RLock()
	callback := t.onOpen
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleCancel runs the cancel callback once and disables the item.
func (t *Tray) handleCancel() {
	t.mu.Lock()
	if t.cancelled {
		t.mu.Unlock()
		return
	}
	t.cancelled = true
	callback := t.onCancel
	if t.menuCancel != nil {
		t.menuCancel.Disable()
	}
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetStatus updates the status line.
func (t *Tray) SetStatus(status string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status = status
	if t.menuStatus != nil {
		t.menuStatus.SetTitle(status)
	}
}

// Status returns the current status line.
func (t *Tray) Status() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// Cancelled reports whether capture was stopped from the menu.
func (t *Tray) Cancelled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cancelled
}
