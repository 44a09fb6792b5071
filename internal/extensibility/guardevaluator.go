// Package extensibility builds the named guard and action registries a
// machine consults for primitives.GuardNamed and labeled-custom
// primitives.ActionDescriptor values, and wraps them with the diagnostic
// logging the engine's core resolvers never do themselves.
package extensibility

import (
	"log"
	"time"

	"github.com/latticefsm/statecore/internal/primitives"
)

// GuardBuilder accumulates named guards into a core.Registries.
type GuardBuilder struct {
	guards map[string]primitives.GuardFunc
}

// NewGuardBuilder creates an empty GuardBuilder.
func NewGuardBuilder() *GuardBuilder {
	return &GuardBuilder{guards: make(map[string]primitives.GuardFunc)}
}

// Register adds a named guard, returning the builder for chaining.
func (b *GuardBuilder) Register(name string, fn primitives.GuardFunc) *GuardBuilder {
	b.guards[name] = fn
	return b
}

// LoggedGuard wraps fn so every evaluation is logged with its outcome and
// latency, matching the logging wrapper idiom used for actions.
func LoggedGuard(name string, fn primitives.GuardFunc) primitives.GuardFunc {
	return func(ctx *primitives.ExtendedContext, event primitives.Event) bool {
		start := time.Now()
		result := fn(ctx, event)
		log.Printf("guard %q on event %q => %v (%v)", name, event.Type, result, time.Since(start))
		return result
	}
}

// Guards returns the accumulated map, ready to embed in a core.Registries.
func (b *GuardBuilder) Guards() map[string]primitives.GuardFunc {
	return b.guards
}
