// Package window holds the identity of the window currently believed to have
// input focus, as last reported by the focus tracker.
package window

import "sync"

// Info is a snapshot of the focused window
type Info struct {
	Title string `json:"title"`
	Class string `json:"class"`
	Name  string `json:"name"`
}

// Context owns the focused window record. Updates replace all fields together
// and snapshots always observe a complete record.
type Context struct {
	mu      sync.RWMutex
	current Info
}

// NewContext creates an empty context
func NewContext() *Context {
	return &Context{}
}

// Update replaces the stored window identity
func (c *Context) Update(title, class, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = Info{Title: title, Class: class, Name: name}
}

// Snapshot returns a copy of the stored window identity
func (c *Context) Snapshot() Info {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}
