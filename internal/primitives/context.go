// Package primitives provides foundational data structures for the statechart
// engine. ExtendedContext is the engine's extended-state record: immutable
// across a microstep, so that guards and actions observe a stable view and
// assigns compose into a single replacement rather than racing in place.
package primitives

import "reflect"

// ExtendedContext is an immutable, copy-on-write key/value record threaded
// through guards, assigns, and actions. With never mutates the receiver; it
// returns a new ExtendedContext.
type ExtendedContext struct {
	data map[string]any
}

// NewExtendedContext creates an ExtendedContext seeded from the given map.
// The seed is copied; later mutation of seed does not affect the context.
func NewExtendedContext(seed map[string]any) *ExtendedContext {
	d := make(map[string]any, len(seed))
	for k, v := range seed {
		d[k] = v
	}
	return &ExtendedContext{data: d}
}

// Get retrieves a value by key.
func (c *ExtendedContext) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.data[key]
	return v, ok
}

// With returns a new ExtendedContext with updates layered over the receiver.
// A nil or empty updates map returns the receiver unchanged (no allocation).
func (c *ExtendedContext) With(updates map[string]any) *ExtendedContext {
	if len(updates) == 0 {
		return c
	}
	d := make(map[string]any, len(c.data)+len(updates))
	for k, v := range c.data {
		d[k] = v
	}
	for k, v := range updates {
		d[k] = v
	}
	return &ExtendedContext{data: d}
}

// Snapshot returns a defensive copy of the context's data, suitable for
// diagnostics or a host-owned persistence layer.
func (c *ExtendedContext) Snapshot() map[string]any {
	if c == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(c.data))
	for k, v := range c.data {
		out[k] = v
	}
	return out
}

// Equal reports structural equality of two contexts' data.
func (c *ExtendedContext) Equal(other *ExtendedContext) bool {
	if c == other {
		return true
	}
	if c == nil || other == nil {
		return false
	}
	return reflect.DeepEqual(c.data, other.data)
}
