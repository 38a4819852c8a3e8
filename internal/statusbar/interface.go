package statusbar

import (
	"time"

	"github.com/gotk3/gotk3/gtk"
)

// UpdateMode represents how a module updates its content
type UpdateMode int

const (
	UpdateModeStatic UpdateMode = iota
	UpdateModePeriodic
	UpdateModeEventDriven
)

// String returns the string representation of UpdateMode
func (u UpdateMode) String() string {
	switch u {
	case UpdateModeStatic:
		return "static"
	case UpdateModePeriodic:
		return "periodic"
	case UpdateModeEventDriven:
		return "event-driven"
	default:
		return "unknown"
	}
}

// Module is the interface that all status bar modules must implement
type Module interface {
	Name() string
	UpdateMode() UpdateMode
	UpdateInterval() time.Duration

	CreateWidget() (gtk.IWidget, error)
	UpdateWidget(widget gtk.IWidget) error

	Initialize() error
	Cleanup() error
	IsInitialized() bool
}

// BaseModule provides a common base implementation for modules
type BaseModule struct {
	name        string
	updateMode  UpdateMode
	interval    time.Duration
	initialized bool
}

// NewBaseModule creates a new base module with defaults
func NewBaseModule(name string, updateMode UpdateMode) *BaseModule {
	return &BaseModule{
		name:       name,
		updateMode: updateMode,
		interval:   time.Second,
	}
}

// Name returns the module name
func (m *BaseModule) Name() string {
	return m.name
}

// UpdateMode returns the update mode
func (m *BaseModule) UpdateMode() UpdateMode {
	return m.updateMode
}

// UpdateInterval returns the update interval
func (m *BaseModule) UpdateInterval() time.Duration {
	return m.interval
}

// SetUpdateInterval sets the update interval
func (m *BaseModule) SetUpdateInterval(interval time.Duration) {
	m.interval = interval
}

// Initialize marks the module as initialized
func (m *BaseModule) Initialize() error {
	m.initialized = true
	return nil
}

// Cleanup cleans up module resources (base implementation does nothing)
func (m *BaseModule) Cleanup() error {
	return nil
}

// IsInitialized returns whether the module has been initialized
func (m *BaseModule) IsInitialized() bool {
	return m.initialized
}
