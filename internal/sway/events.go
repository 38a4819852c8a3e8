// Package sway adapts sway's IPC events to the same registrar contract the
// autohide controller uses with Hyprland. Sway has no cursor-position query,
// so only the forced-visible event path is available on sway.
package sway

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	gosway "github.com/joshuarubin/go-sway"

	"github.com/shadebar/shade/internal/hypr"
)

// Available reports whether a sway session is reachable
func Available() bool {
	return os.Getenv("SWAYSOCK") != ""
}

// Dispatcher subscribes to sway workspace events and fans them out to
// handlers registered under the same event names the Hyprland dispatcher
// uses, so the controller is backend-agnostic.
type Dispatcher struct {
	mu       sync.Mutex
	handlers map[string][]hypr.EventHandler
	cancel   context.CancelFunc
	running  bool
}

// NewDispatcher creates a sway event dispatcher
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string][]hypr.EventHandler),
	}
}

// RegisterForIPC registers a handler for a named event
func (d *Dispatcher) RegisterForIPC(event string, h hypr.EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers[event] = append(d.handlers[event], h)
}

// UnregisterForIPC removes a handler from all events it was registered for
func (d *Dispatcher) UnregisterForIPC(h hypr.EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for event, hs := range d.handlers {
		kept := hs[:0]
		for _, registered := range hs {
			if registered != h {
				kept = append(kept, registered)
			}
		}
		if len(kept) == 0 {
			delete(d.handlers, event)
		} else {
			d.handlers[event] = kept
		}
	}
}

// Start begins the sway event subscription
func (d *Dispatcher) Start() error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return fmt.Errorf("sway dispatcher is already running")
	}
	d.running = true
	d.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel

	go func() {
		h := &workspaceHandler{
			EventHandler: gosway.NoOpEventHandler(),
			dispatcher:   d,
		}
		if err := gosway.Subscribe(ctx, h, gosway.EventTypeWorkspace); err != nil && ctx.Err() == nil {
			log.Printf("sway event subscription ended: %v", err)
		}
	}()

	return nil
}

// Stop ends the subscription
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.running = false
}

func (d *Dispatcher) dispatch(ev string) {
	name := hypr.EventName(ev)

	d.mu.Lock()
	hs := append([]hypr.EventHandler(nil), d.handlers[name]...)
	d.mu.Unlock()

	for _, h := range hs {
		h.OnEvent(ev)
	}
}

type workspaceHandler struct {
	gosway.EventHandler
	dispatcher *Dispatcher
}

// Workspace translates sway workspace focus changes into the event name the
// controller registered for.
func (h *workspaceHandler) Workspace(ctx context.Context, ev gosway.WorkspaceEvent) {
	if ev.Change != "focus" {
		return
	}

	name := ""
	if ev.Current != nil {
		name = ev.Current.Name
	}
	h.dispatcher.dispatch(fmt.Sprintf("workspacev2>>%s", name))
}
