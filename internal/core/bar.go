package core

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/gtk"

	"github.com/shadebar/shade/internal/autohide"
	"github.com/shadebar/shade/internal/config"
	"github.com/shadebar/shade/internal/statusbar"
	"github.com/shadebar/shade/internal/statusbar/modules"
)

var ErrBarAlreadyRunning = errors.New("bar is already running")

// Bar is the status bar window and the host the autohide controller drives.
// All methods that touch GTK run on the main loop.
type Bar struct {
	app       *App
	config    *config.Config
	window    *gtk.Window
	container *gtk.Box
	registry  *statusbar.Registry
	scheduler *statusbar.Scheduler
	widgets   map[string]gtk.IWidget

	// geometrySink receives a fresh monitor snapshot on every visibility
	// apply; it feeds the autohide controller's cross-thread cache.
	geometrySink func(autohide.Geometry)

	running bool
	mu      sync.RWMutex
}

// NewBar creates the bar window and its module registry
func NewBar(app *App, cfg *config.Config) (*Bar, error) {
	window, err := gtk.WindowNew(gtk.WINDOW_TOPLEVEL)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	container, err := gtk.BoxNew(gtk.ORIENTATION_HORIZONTAL, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	window.Add(container)

	registry := statusbar.NewRegistry()

	return &Bar{
		app:       app,
		config:    cfg,
		window:    window,
		container: container,
		registry:  registry,
		scheduler: statusbar.NewScheduler(registry),
		widgets:   make(map[string]gtk.IWidget),
	}, nil
}

// SetGeometrySink sets the consumer for monitor geometry snapshots
func (b *Bar) SetGeometrySink(sink func(autohide.Geometry)) {
	b.mu.Lock()
	b.geometrySink = sink
	b.mu.Unlock()
}

// Start configures the window, loads modules and shows the bar
func (b *Bar) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running {
		return ErrBarAlreadyRunning
	}

	b.window.SetTitle(b.config.AppName)
	b.window.SetDecorated(false)
	b.window.SetResizable(false)
	b.window.SetSkipTaskbarHint(true)
	b.window.SetSkipPagerHint(true)
	b.window.SetName("statusbar")
	b.window.SetTypeHint(gdk.WINDOW_TYPE_HINT_DOCK)

	if height := b.config.Bar.Height; height > 0 {
		b.window.SetDefaultSize(-1, height)
	}

	b.loadModules()

	b.window.Connect("destroy", func() {
		b.app.Quit()
	})

	b.window.ShowAll()

	if err := b.scheduler.Start(); err != nil {
		return err
	}

	b.running = true
	return nil
}

// loadModules creates, initializes and packs the configured modules
func (b *Bar) loadModules() {
	for _, name := range b.config.Modules {
		module, err := b.createModule(name)
		if err != nil {
			log.Printf("Failed to create module '%s': %v", name, err)
			continue
		}

		if err := b.registry.Register(module); err != nil {
			log.Printf("Failed to register module '%s': %v", name, err)
			continue
		}

		if err := module.Initialize(); err != nil {
			log.Printf("Failed to initialize module '%s': %v", name, err)
			continue
		}

		widget, err := module.CreateWidget()
		if err != nil {
			log.Printf("Failed to create widget for module '%s': %v", name, err)
			continue
		}

		b.widgets[name] = widget
		b.container.PackStart(widget, false, false, 0)

		if err := b.scheduler.Schedule(name, widget); err != nil {
			log.Printf("Failed to schedule module '%s': %v", name, err)
		}
	}
}

func (b *Bar) createModule(name string) (statusbar.Module, error) {
	switch name {
	case "image":
		m, err := modules.NewImageModule(b.config.Image, b.config.IconLabel)
		if err != nil {
			return nil, err
		}
		return m, nil
	case "cava":
		return modules.NewCavaModule(b.config.Cava), nil
	default:
		return nil, fmt.Errorf("unknown module: %s", name)
	}
}

// Stop tears down the bar
func (b *Bar) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.running {
		return nil
	}

	b.scheduler.Stop()
	b.registry.Cleanup()
	b.window.Close()

	b.running = false
	return nil
}

// IsRunning returns whether the bar is running
func (b *Bar) IsRunning() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.running
}

// SetMode applies a visibility mode. Called on the main loop only, either
// directly or through the controller's dispatch.
func (b *Bar) SetMode(mode autohide.Mode) {
	if b.window == nil {
		log.Printf("Bar window is gone, dropping visibility apply (%v)", mode)
		return
	}

	switch mode {
	case autohide.ModeDefault:
		b.window.Show()
	case autohide.ModeInvisible:
		b.window.Hide()
	}

	b.PublishGeometry()
}

// ToggleModule toggles a module widget's visibility; the name is
// fuzzy-matched against registered modules.
func (b *Bar) ToggleModule(query string) error {
	module, ok := b.registry.Find(query)
	if !ok {
		return fmt.Errorf("no module matches '%s'", query)
	}

	widget, ok := b.widgets[module.Name()]
	if !ok {
		return fmt.Errorf("module '%s' has no widget", module.Name())
	}

	w := widget.ToWidget()
	w.SetVisible(!w.GetVisible())

	log.Printf("Toggled module '%s'", module.Name())
	return nil
}

// PublishGeometry reads the primary monitor's bounds and pushes a snapshot
// to the geometry sink. Runs on the main loop; only plain scalars leave it.
func (b *Bar) PublishGeometry() {
	b.mu.RLock()
	sink := b.geometrySink
	b.mu.RUnlock()

	if sink == nil {
		return
	}

	name := b.config.Bar.Monitor
	if name == "" {
		name = "primary"
	}

	geo, err := primaryMonitorGeometry(name)
	if err != nil {
		log.Printf("Failed to read monitor geometry: %v", err)
		sink(autohide.Geometry{})
		return
	}

	sink(geo)
}

func primaryMonitorGeometry(name string) (autohide.Geometry, error) {
	display, err := gdk.DisplayGetDefault()
	if err != nil {
		return autohide.Geometry{}, fmt.Errorf("failed to get default display: %w", err)
	}

	if display.GetNMonitors() == 0 {
		return autohide.Geometry{}, fmt.Errorf("no monitors available")
	}

	monitor, err := display.GetMonitor(0)
	if err != nil {
		return autohide.Geometry{}, fmt.Errorf("failed to get monitor: %w", err)
	}

	rect := monitor.GetGeometry()

	return autohide.Geometry{
		X:      rect.GetX(),
		Y:      rect.GetY(),
		Width:  rect.GetWidth(),
		Height: rect.GetHeight(),
		Name:   name,
		Valid:  true,
	}, nil
}
