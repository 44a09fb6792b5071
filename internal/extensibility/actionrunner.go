package extensibility

import (
	"log"
	"time"

	"github.com/latticefsm/statecore/internal/primitives"
)

// ActionBuilder accumulates named actions into a core.Registries. A named
// action is a primitives.PureFunc: given context and the triggering event,
// it returns the action descriptors to fold in its place, so a registered
// action can itself assign, raise, or forward further work.
type ActionBuilder struct {
	actions map[string]primitives.PureFunc
}

// NewActionBuilder creates an empty ActionBuilder.
func NewActionBuilder() *ActionBuilder {
	return &ActionBuilder{actions: make(map[string]primitives.PureFunc)}
}

// Register adds a named action, returning the builder for chaining.
func (b *ActionBuilder) Register(name string, fn primitives.PureFunc) *ActionBuilder {
	b.actions[name] = fn
	return b
}

// LoggedAction wraps fn so every invocation is logged with the descriptors
// it produced and its latency.
func LoggedAction(name string, fn primitives.PureFunc) primitives.PureFunc {
	return func(ctx *primitives.ExtendedContext, event primitives.Event) []primitives.ActionDescriptor {
		start := time.Now()
		out := fn(ctx, event)
		log.Printf("action %q on event %q produced %d descriptors (%v)", name, event.Type, len(out), time.Since(start))
		return out
	}
}

// Actions returns the accumulated map, ready to embed in a core.Registries.
func (b *ActionBuilder) Actions() map[string]primitives.PureFunc {
	return b.actions
}
