package hypr

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// EventHandler receives raw events from the Hyprland event socket
type EventHandler interface {
	OnEvent(ev string)
}

// EventName extracts the event name from a raw event line. Events arrive as
// "name>>data"; the name is everything before the first '>' or the whole
// string when no delimiter is present.
func EventName(ev string) string {
	if i := strings.IndexByte(ev, '>'); i >= 0 {
		return ev[:i]
	}
	return ev
}

// Dispatcher reads Hyprland's event socket and fans events out to handlers
// registered per event name. Handlers may register before the socket is
// connected; registration is independent of connection state.
type Dispatcher struct {
	socketPath     string
	reconnectDelay time.Duration
	maxRetries     int

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	handlers map[string][]EventHandler
	conn     net.Conn
	running  bool
}

// NewDispatcher creates a dispatcher for the current Hyprland instance
func NewDispatcher() (*Dispatcher, error) {
	dir, err := SocketDir()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Dispatcher{
		socketPath:     filepath.Join(dir, ".socket2.sock"),
		reconnectDelay: 5 * time.Second,
		maxRetries:     10,
		ctx:            ctx,
		cancel:         cancel,
		handlers:       make(map[string][]EventHandler),
	}, nil
}

// RegisterForIPC registers a handler for a named event
func (d *Dispatcher) RegisterForIPC(event string, h EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers[event] = append(d.handlers[event], h)
}

// UnregisterForIPC removes a handler from all events it was registered for
func (d *Dispatcher) UnregisterForIPC(h EventHandler) {
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

// Start connects to the event socket and begins dispatching
func (d *Dispatcher) Start() error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return fmt.Errorf("event dispatcher is already running")
	}
	d.running = true
	d.mu.Unlock()

	if err := d.connect(); err != nil {
		d.mu.Lock()
		d.running = false
		d.mu.Unlock()
		return err
	}

	go d.listen()

	return nil
}

// Stop disconnects and stops dispatching
func (d *Dispatcher) Stop() {
	d.cancel()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn != nil {
		d.conn.Close()
		d.conn = nil
	}
	d.running = false
}

func (d *Dispatcher) connect() error {
	conn, err := net.Dial("unix", d.socketPath)
	if err != nil {
		return fmt.Errorf("failed to connect to event socket %s: %w", d.socketPath, err)
	}

	d.mu.Lock()
	d.conn = conn
	d.mu.Unlock()

	log.Printf("Connected to Hyprland event socket: %s", d.socketPath)
	return nil
}

func (d *Dispatcher) listen() {
	for {
		d.mu.Lock()
		conn := d.conn
		d.mu.Unlock()

		if conn == nil {
			return
		}

		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			d.dispatch(scanner.Text())
		}

		select {
		case <-d.ctx.Done():
			log.Printf("Event dispatcher stopped")
			return
		default:
		}

		log.Printf("Event socket read error: %v", scanner.Err())
		if !d.reconnect() {
			return
		}
	}
}

func (d *Dispatcher) dispatch(ev string) {
	if ev == "" {
		return
	}

	name := EventName(ev)

	d.mu.Lock()
	hs := append([]EventHandler(nil), d.handlers[name]...)
	d.mu.Unlock()

	for _, h := range hs {
		h.OnEvent(ev)
	}
}

func (d *Dispatcher) reconnect() bool {
	for i := 0; i < d.maxRetries; i++ {
		select {
		case <-d.ctx.Done():
			return false
		case <-time.After(d.reconnectDelay):
			log.Printf("Attempting to reconnect to event socket (attempt %d/%d)...", i+1, d.maxRetries)

			if err := d.connect(); err == nil {
				log.Printf("Successfully reconnected to event socket")
				return true
			}
		}
	}

	log.Printf("Failed to reconnect after %d attempts", d.maxRetries)
	return false
}
