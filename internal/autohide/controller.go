package autohide

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/shadebar/shade/internal/hypr"
)

// CursorSource provides the global cursor position, typically via Hyprland's
// cursorpos IPC query.
type CursorSource interface {
	CursorPos() (x, y int, err error)
}

// Host is the bar surface the controller drives. SetMode is only ever called
// on the UI task, via the controller's dispatch function.
type Host interface {
	SetMode(mode Mode)
}

// EventRegistrar is the compositor event source the controller subscribes to
// for workspace and monitor changes.
type EventRegistrar interface {
	RegisterForIPC(event string, h hypr.EventHandler)
	UnregisterForIPC(h hypr.EventHandler)
}

// The compositor events that force the bar visible
const (
	eventWorkspace  = "workspacev2"
	eventFocusedMon = "focusedmonv2"
)

// Controller ties the state machine to a cursor poller, a geometry cache and
// a compositor event source. It polls the cursor on a background goroutine,
// feeds monitor-relative samples into the machine, and marshals visibility
// applications onto the UI task through the dispatch function.
type Controller struct {
	cfg     Config
	machine *Machine
	cache   *MonitorCache
	cursor  CursorSource
	host    Host
	ipc     EventRegistrar

	// dispatch hands a closure to the UI task. Production wiring uses
	// glib.IdleAdd; a nil dispatch runs closures inline, which is only
	// suitable for tests.
	dispatch func(func())

	trackerRunning atomic.Bool
	trackerExit    atomic.Bool
	trackerDone    chan struct{}
}

// NewController creates an autohide controller, registers for compositor
// events and starts the cursor poller. The poller runs until Close.
func NewController(cfg Config, cursor CursorSource, host Host, ipc EventRegistrar, dispatch func(func())) *Controller {
	if dispatch == nil {
		dispatch = func(f func()) { f() }
	}

	cfg = cfg.normalize()

	c := &Controller{
		cfg:      cfg,
		machine:  NewMachine(cfg),
		cache:    &MonitorCache{},
		cursor:   cursor,
		host:     host,
		ipc:      ipc,
		dispatch: dispatch,
	}

	log.Printf("autohide: initialized - hidden_y: %d, visible_y: %d, delay_show: %dms, delay_hide: %dms, interval: %dms, checks: %d",
		cfg.ThresholdHiddenY, cfg.ThresholdVisibleY, cfg.DelayShow, cfg.DelayHide, cfg.CheckInterval, cfg.ConsecutiveChecksBeforeVisible)

	if c.ipc != nil {
		c.ipc.RegisterForIPC(eventWorkspace, c)
		c.ipc.RegisterForIPC(eventFocusedMon, c)
	}

	c.StartTracking()

	return c
}

// Close stops the poller and then unregisters from the event source. The
// ordering matters: the poller must be fully stopped before deregistration so
// the background goroutine never observes a half-torn-down controller.
func (c *Controller) Close() {
	c.StopTracking()

	if c.ipc != nil {
		c.ipc.UnregisterForIPC(c)
	}
}

// State returns the machine's current visibility state
func (c *Controller) State() VisibilityState {
	return c.machine.State()
}

// Mode returns the visibility mode the host should currently display
func (c *Controller) Mode() Mode {
	return c.machine.Mode()
}

// PublishGeometry refreshes the cached monitor snapshot. Called from the UI
// task on every visibility-apply cycle.
func (c *Controller) PublishGeometry(geo Geometry) {
	c.cache.Publish(geo)
}

// StartTracking starts the cursor poller. A no-op when already running.
func (c *Controller) StartTracking() {
	if c.trackerRunning.Load() {
		return
	}

	c.trackerExit.Store(false)
	c.trackerDone = make(chan struct{})
	c.trackerRunning.Store(true)

	go c.trackCursor()
}

// StopTracking signals the poller to exit and waits for it. A no-op when
// already stopped.
func (c *Controller) StopTracking() {
	if !c.trackerRunning.Load() {
		return
	}

	c.trackerExit.Store(true)
	<-c.trackerDone
	c.trackerRunning.Store(false)
}

// IsTracking returns whether the cursor poller is running
func (c *Controller) IsTracking() bool {
	return c.trackerRunning.Load()
}

func (c *Controller) trackCursor() {
	defer close(c.trackerDone)

	interval := time.Duration(c.cfg.CheckInterval) * time.Millisecond

	for !c.trackerExit.Load() {
		c.checkCursor()
		time.Sleep(interval)
	}
}

// checkCursor runs one poll cycle. Every failure path skips the cycle with no
// state mutation; nothing here is fatal.
func (c *Controller) checkCursor() {
	x, y, err := c.cursor.CursorPos()
	if err != nil {
		// Transient IPC failures are expected; keep polling
		return
	}

	geo := c.cache.Snapshot()
	if !geo.Valid || !geo.Contains(x, y) {
		return
	}

	if c.machine.Observe(y-geo.Y, time.Now()) {
		c.applyMode()
	}
}

// OnEvent handles a compositor event. Workspace or focused-monitor changes
// force the bar visible regardless of the current state.
func (c *Controller) OnEvent(ev string) {
	switch hypr.EventName(ev) {
	case eventWorkspace, eventFocusedMon:
		c.ForceVisible()
	}
}

// ForceVisible makes the bar visible immediately, bypassing the pending
// delays. The poller will hide it again once the cursor leaves the bar zone.
func (c *Controller) ForceVisible() {
	c.machine.ForceVisible()
	c.applyMode()
}

// applyMode queues a visibility application on the UI task. The mode is read
// at execution time so the host always gets the latest state.
func (c *Controller) applyMode() {
	c.dispatch(func() {
		if c.host == nil {
			log.Printf("autohide: no bar available, dropping visibility apply")
			return
		}
		c.host.SetMode(c.machine.Mode())
	})
}
