// Package tray provides a system tray interface for the Kathakali head tracking system.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggleMouse func(enabled bool)
	onCalibrate   func()
	onPerformance func(fast bool)
	onSettings    func()
	onQuit        func()
	mouseEnabled  bool
	fastMode      bool
	mu            sync.RWMutex

	// Menu items stored for later updates
	menuToggle      *systray.MenuItem
	menuPerformance *systray.MenuItem
}

// New creates a new Tray instance with mouse control enabled by default.
func New() *Tray {
	return &Tray{
		mouseEnabled: true,
	}
}

// OnToggleMouse sets the callback function to be called when mouse control is toggled.
func (t *Tray) OnToggleMouse(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggleMouse = fn
}

// OnCalibrate sets the callback function to be called when the calibrate menu item is clicked.
func (t *Tray) OnCalibrate(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onCalibrate = fn
}

// OnPerformance sets the callback function to be called when the performance mode is toggled.
func (t *Tray) OnPerformance(fn func(fast bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onPerformance = fn
}

// OnSettings sets the callback function to be called when the settings menu item is clicked.
func (t *Tray) OnSettings(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettings = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	// Set the tray title and tooltip
	systray.SetTitle("Kathakali")
	systray.SetTooltip("Kathakali Head Tracking")

	// Create menu items
	t.menuToggle = systray.AddMenuItem("● Mouse Control On", "Toggle head-controlled cursor")
	systray.AddSeparator()

	menuCalibrate := systray.AddMenuItem("Calibrate Center", "Capture the current head pose as screen center")
	t.menuPerformance = systray.AddMenuItemCheckbox("Performance Mode", "Higher cursor update rate", false)
	systray.AddSeparator()

	menuSettings := systray.AddMenuItem("Open Settings...", "Open settings in browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Kathakali")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggleMouse()
			case <-menuCalibrate.ClickedCh:
				t.handleCalibrate()
			case <-t.menuPerformance.ClickedCh:
				t.handlePerformance()
			case <-menuSettings.ClickedCh:
				t.handleSettings()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
	// Cleanup resources if needed
}

// handleToggleMouse handles the mouse control menu item click.
func (t *Tray) handleToggleMouse() {
	t.mu.Lock()
	t.mouseEnabled = !t.mouseEnabled
	enabled := t.mouseEnabled

	// Update menu item text based on new state
	if enabled {
		t.menuToggle.SetTitle("● Mouse Control On")
	} else {
		t.menuToggle.SetTitle("○ Mouse Control Off")
	}

	callback := t.onToggleMouse
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleCalibrate handles the calibrate menu item click.
func (t *Tray) handleCalibrate() {
	t.mu.RLock()
	callback := t.onCalibrate
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handlePerformance handles the performance mode menu item click.
func (t *Tray) handlePerformance() {
	t.mu.Lock()
	t.fastMode = !t.fastMode
	fast := t.fastMode

	if fast {
		t.menuPerformance.Check()
	} else {
		t.menuPerformance.Uncheck()
	}

	callback := t.onPerformance
	t.mu.Unlock()

	if callback != nil {
		callback(fast)
	}
}

// handleSettings handles the settings menu item click.
func (t *Tray) handleSettings() {
	t.mu.RLock()
	callback := t.onSettings
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// MouseControlEnabled returns the current mouse control state shown in the menu.
func (t *Tray) MouseControlEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mouseEnabled
}
