package autohide

import "sync"

// Geometry is a plain-scalar snapshot of a monitor's bounds. It is the only
// monitor data that ever crosses the UI/poller thread boundary; GTK monitor
// objects stay on the UI thread.
type Geometry struct {
	X      int
	Y      int
	Width  int
	Height int
	Name   string
	Valid  bool
}

// Contains reports whether the global point (x, y) lies on this monitor
func (g Geometry) Contains(x, y int) bool {
	return x >= g.X && x < g.X+g.Width && y >= g.Y && y < g.Y+g.Height
}

// MonitorCache shares a monitor geometry snapshot between the UI task
// (writer) and the poller task (reader). The lock is held only for the copy.
type MonitorCache struct {
	mu  sync.Mutex
	geo Geometry
}

// Publish replaces the cached snapshot. Called from the UI task whenever a
// visibility change is applied.
func (c *MonitorCache) Publish(geo Geometry) {
	c.mu.Lock()
	c.geo = geo
	c.mu.Unlock()
}

// Invalidate marks the cached snapshot as unusable; the poller skips its
// cycles until the next Publish.
func (c *MonitorCache) Invalidate() {
	c.mu.Lock()
	c.geo = Geometry{}
	c.mu.Unlock()
}

// Snapshot returns a copy of the cached geometry. Called from the poller task.
func (c *MonitorCache) Snapshot() Geometry {
	c.mu.Lock()
	geo := c.geo
	c.mu.Unlock()
	return geo
}
