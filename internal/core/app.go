package core

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"

	"github.com/shadebar/shade/internal/autohide"
	"github.com/shadebar/shade/internal/config"
	"github.com/shadebar/shade/internal/hypr"
	"github.com/shadebar/shade/internal/sway"
)

var errNoCursorBackend = errors.New("no cursor position backend")

// noCursor is the cursor source used when the compositor offers events but no
// cursor query. The poller treats every sample as a transient failure.
type noCursor struct{}

func (noCursor) CursorPos() (int, int, error) { return 0, 0, errNoCursorBackend }

// App is the main application
type App struct {
	config  *config.Config
	running bool
	sigChan chan os.Signal

	bar        *Bar
	ipc        *IPCServer
	controller *autohide.Controller
	hyprEvents *hypr.Dispatcher
	swayEvents *sway.Dispatcher
}

// NewApp creates a new application
func NewApp(cfg *config.Config) (*App, error) {
	return &App{
		config:  cfg,
		sigChan: make(chan os.Signal, 1),
	}, nil
}

// Run starts the application and blocks until it quits
func (a *App) Run() error {
	a.running = true

	signal.Notify(a.sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-a.sigChan
		log.Printf("Received signal: %v", sig)
		glib.IdleAdd(a.Quit)
	}()

	log.Println("Shade starting...")

	gtk.Init(nil)

	a.initialize()

	gtk.Main()
	return nil
}

// initialize builds the bar, the autohide controller and the IPC server
func (a *App) initialize() {
	log.Println("Initializing components...")

	bar, err := NewBar(a, a.config)
	if err != nil {
		log.Printf("Failed to create bar: %v", err)
	} else {
		a.bar = bar
		if err := bar.Start(); err != nil {
			log.Printf("Failed to start bar: %v", err)
		}
	}

	if a.config.Autohide.Enabled && a.bar != nil {
		a.setupAutohide()
	}

	ipc := NewIPCServer(a, a.config)
	if err := ipc.Start(); err != nil {
		log.Printf("Failed to start IPC server: %v", err)
	} else {
		a.ipc = ipc
	}

	log.Println("Initialization complete")
}

// setupAutohide picks a compositor backend and wires the controller to the
// bar. Hyprland gets cursor polling and events; sway gets events only.
func (a *App) setupAutohide() {
	var cursor autohide.CursorSource = noCursor{}
	var registrar autohide.EventRegistrar

	if client, err := hypr.NewClient(); err == nil {
		cursor = client

		dispatcher, err := hypr.NewDispatcher()
		if err != nil {
			log.Printf("Failed to create Hyprland event dispatcher: %v", err)
		} else if err := dispatcher.Start(); err != nil {
			log.Printf("Failed to start Hyprland event dispatcher: %v", err)
		} else {
			a.hyprEvents = dispatcher
			registrar = dispatcher
		}
	} else if sway.Available() {
		dispatcher := sway.NewDispatcher()
		if err := dispatcher.Start(); err != nil {
			log.Printf("Failed to start sway event dispatcher: %v", err)
		} else {
			a.swayEvents = dispatcher
			registrar = dispatcher
		}
	} else {
		log.Println("No compositor backend found, autohide disabled")
		return
	}

	ahCfg := autohide.Config{
		ThresholdHiddenY:               a.config.Autohide.ThresholdHiddenY,
		ThresholdVisibleY:              a.config.Autohide.ThresholdVisibleY,
		DelayShow:                      a.config.Autohide.DelayShow,
		DelayHide:                      a.config.Autohide.DelayHide,
		CheckInterval:                  a.config.Autohide.CheckInterval,
		ConsecutiveChecksBeforeVisible: a.config.Autohide.ConsecutiveChecksBeforeVisible,
	}

	a.controller = autohide.NewController(ahCfg, cursor, a.bar, registrar, func(f func()) {
		glib.IdleAdd(f)
	})

	a.bar.SetGeometrySink(a.controller.PublishGeometry)
	a.bar.PublishGeometry()
}

// Quit gracefully quits the application. The controller shuts down before the
// event dispatchers so its poller never sees a dead registrar.
func (a *App) Quit() {
	if !a.running {
		return
	}
	a.running = false

	log.Println("Shutting down...")

	if a.ipc != nil {
		a.ipc.Stop()
	}

	if a.controller != nil {
		a.controller.Close()
	}

	if a.hyprEvents != nil {
		a.hyprEvents.Stop()
	}

	if a.swayEvents != nil {
		a.swayEvents.Stop()
	}

	if a.bar != nil {
		a.bar.Stop()
	}

	gtk.MainQuit()
}

// ForceVisible makes the bar visible immediately
func (a *App) ForceVisible() {
	if a.controller != nil {
		a.controller.ForceVisible()
		return
	}
	if a.bar != nil {
		a.bar.SetMode(autohide.ModeDefault)
	}
}

// ToggleModule toggles a status bar module's visibility
func (a *App) ToggleModule(name string) error {
	if a.bar == nil {
		return errors.New("bar is not running")
	}
	return a.bar.ToggleModule(name)
}
