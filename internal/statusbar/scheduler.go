package statusbar

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
)

// Scheduler drives periodic module updates. Each periodic module gets its own
// timer goroutine; widget updates always run on the GTK main loop.
type Scheduler struct {
	registry *Registry

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.RWMutex
	widgetMap map[string]gtk.IWidget
	running   bool
}

// NewScheduler creates a scheduler over a module registry
func NewScheduler(registry *Registry) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		registry:  registry,
		ctx:       ctx,
		cancel:    cancel,
		widgetMap: make(map[string]gtk.IWidget),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}
	s.running = true

	log.Printf("Update scheduler started")
	return nil
}

// Stop stops the scheduler and all module timers
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	s.running = false

	log.Printf("Update scheduler stopped")
}

// IsRunning returns whether the scheduler is running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Schedule begins updates for a module's widget according to its update mode
func (s *Scheduler) Schedule(name string, widget gtk.IWidget) error {
	module, exists := s.registry.Get(name)
	if !exists {
		return fmt.Errorf("module '%s' not found", name)
	}

	s.mu.Lock()
	if _, exists := s.widgetMap[name]; exists {
		s.mu.Unlock()
		return fmt.Errorf("module '%s' is already scheduled", name)
	}
	s.widgetMap[name] = widget
	s.mu.Unlock()

	switch module.UpdateMode() {
	case UpdateModePeriodic:
		go s.runPeriodic(name, module)
	case UpdateModeStatic, UpdateModeEventDriven:
		// Static modules render once; event-driven modules push their own
		// updates through glib.IdleAdd.
		s.Update(name)
	}

	log.Printf("Scheduled module '%s' with update mode: %v", name, module.UpdateMode())
	return nil
}

// Update queues a widget update for a module on the GTK main loop
func (s *Scheduler) Update(name string) {
	s.mu.RLock()
	widget, ok := s.widgetMap[name]
	s.mu.RUnlock()

	if !ok {
		return
	}

	module, exists := s.registry.Get(name)
	if !exists {
		return
	}

	glib.IdleAdd(func() {
		if err := module.UpdateWidget(widget); err != nil {
			log.Printf("Failed to update module '%s': %v", name, err)
		}
	})
}

func (s *Scheduler) runPeriodic(name string, module Module) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic in periodic update for '%s': %v", name, r)
		}
	}()

	interval := module.UpdateInterval()
	if interval <= 0 {
		interval = time.Second
	}

	s.Update(name)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.Update(name)
		}
	}
}
