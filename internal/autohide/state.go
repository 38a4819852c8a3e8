package autohide

import (
	"log"
	"sync/atomic"
	"time"
)

// VisibilityState represents the bar's autohide state. Exactly one value is
// active at a time; transitions happen only through Machine.Observe or
// Machine.ForceVisible.
type VisibilityState int32

const (
	StateVisible VisibilityState = iota
	StateHidden
	StatePendingVisible // hidden, show timer running
	StatePendingHidden  // visible, hide timer running
)

// String returns the string representation of VisibilityState
func (s VisibilityState) String() string {
	switch s {
	case StateVisible:
		return "visible"
	case StateHidden:
		return "hidden"
	case StatePendingVisible:
		return "pending-visible"
	case StatePendingHidden:
		return "pending-hidden"
	default:
		return "unknown"
	}
}

// Mode is the visibility mode applied to the bar host
type Mode int

const (
	ModeDefault   Mode = iota // bar shown
	ModeInvisible             // bar hidden
)

// String returns the string representation of Mode
func (m Mode) String() string {
	switch m {
	case ModeDefault:
		return "default"
	case ModeInvisible:
		return "invisible"
	default:
		return "unknown"
	}
}

// Config holds the autohide tuning knobs. All durations are milliseconds.
type Config struct {
	ThresholdHiddenY               uint
	ThresholdVisibleY              uint
	DelayShow                      uint
	DelayHide                      uint
	CheckInterval                  uint
	ConsecutiveChecksBeforeVisible uint
}

// DefaultConfig returns the default autohide configuration
func DefaultConfig() Config {
	return Config{
		ThresholdHiddenY:               1,
		ThresholdVisibleY:              50,
		DelayShow:                      0,
		DelayHide:                      3000,
		CheckInterval:                  100,
		ConsecutiveChecksBeforeVisible: 2,
	}
}

// normalize clamps zero values that would break the poller or the debounce
func (c Config) normalize() Config {
	if c.CheckInterval == 0 {
		c.CheckInterval = 100
	}
	if c.ConsecutiveChecksBeforeVisible == 0 {
		c.ConsecutiveChecksBeforeVisible = 1
	}
	return c
}

// minPendingDelay is the floor applied to both delays. Pending transitions
// never fire on the same sample that armed them.
const minPendingDelay = 10 * time.Millisecond

// Machine is the autohide state machine. The poller goroutine is the single
// writer for the state, timer and counter; the only exception is
// ForceVisible, which stores StateVisible from the event callback. That
// single-writer discipline is what makes the atomic state sufficient here --
// do not add more writers.
type Machine struct {
	cfg Config

	state           atomic.Int32
	timerStart      time.Time
	consecutiveShow uint
}

// NewMachine creates a state machine starting in StateVisible, matching the
// bar's initial on-screen state.
func NewMachine(cfg Config) *Machine {
	m := &Machine{cfg: cfg.normalize()}
	m.state.Store(int32(StateVisible))
	return m
}

// State returns the current visibility state
func (m *Machine) State() VisibilityState {
	return VisibilityState(m.state.Load())
}

func (m *Machine) setState(s VisibilityState) {
	m.state.Store(int32(s))
}

// Mode maps the current state to the mode the bar host should display.
// The bar stays shown during a hide countdown and hidden during a show
// countdown, flipping only when the timer fires.
func (m *Machine) Mode() Mode {
	switch m.State() {
	case StateVisible, StatePendingHidden:
		return ModeDefault
	default:
		return ModeInvisible
	}
}

// ForceVisible unconditionally moves the machine to StateVisible. The timer
// and counter are left alone; they are re-armed on the next pending entry.
func (m *Machine) ForceVisible() {
	m.setState(StateVisible)
}

// Observe feeds one monitor-relative cursor sample into the machine and
// returns true when a pending timer fired, i.e. when the applied mode
// changed. Entering a pending state never changes the applied mode, so only
// timer expiries report true.
//
// Must be called from the poller goroutine only.
func (m *Machine) Observe(relY int, now time.Time) bool {
	switch {
	case relY <= int(m.cfg.ThresholdHiddenY):
		// Top zone: count consecutive samples before scheduling a show
		m.consecutiveShow++
		if m.consecutiveShow >= m.cfg.ConsecutiveChecksBeforeVisible {
			switch m.State() {
			case StateHidden:
				log.Printf("autohide: scheduling show at y=%d", relY)
				m.setState(StatePendingVisible)
				m.timerStart = now
			case StatePendingHidden:
				log.Printf("autohide: canceling hide, scheduling show at y=%d", relY)
				m.setState(StatePendingVisible)
				m.timerStart = now
			}
		}
	case relY > int(m.cfg.ThresholdVisibleY):
		// Bottom zone
		m.consecutiveShow = 0
		switch m.State() {
		case StateVisible:
			log.Printf("autohide: scheduling hide at y=%d", relY)
			m.setState(StatePendingHidden)
			m.timerStart = now
		case StatePendingVisible:
			log.Printf("autohide: canceling show, scheduling hide at y=%d", relY)
			m.setState(StatePendingHidden)
			m.timerStart = now
		}
		// Already pending hidden: the countdown keeps running from its
		// first arming, it is not restarted by further bottom samples.
	default:
		// Middle zone: breaks a consecutive-show streak, nothing else
		m.consecutiveShow = 0
	}

	elapsed := now.Sub(m.timerStart)

	switch m.State() {
	case StatePendingVisible:
		if elapsed >= effectiveDelay(m.cfg.DelayShow) {
			log.Printf("autohide: executing delayed show after %v", elapsed)
			m.setState(StateVisible)
			return true
		}
	case StatePendingHidden:
		if elapsed >= effectiveDelay(m.cfg.DelayHide) {
			log.Printf("autohide: executing delayed hide after %v", elapsed)
			m.setState(StateHidden)
			return true
		}
	}

	return false
}

func effectiveDelay(ms uint) time.Duration {
	d := time.Duration(ms) * time.Millisecond
	if d < minPendingDelay {
		return minPendingDelay
	}
	return d
}
