package production

import (
	"log"

	"github.com/latticefsm/statecore/internal/primitives"
)

// Logger is the ambient diagnostics sink a host wires into a machine's
// forwarded log actions (primitives.ActionLog) and, optionally, transition
// tracing. It wraps the standard logger in the same bare, unconfigurable
// style the engine's other logging wrappers use.
type Logger struct {
	*log.Logger
}

// NewLogger wraps the given standard logger, or the package default if nil.
func NewLogger(l *log.Logger) *Logger {
	if l == nil {
		l = log.Default()
	}
	return &Logger{Logger: l}
}

// LogAction prints a forwarded log action's resolved expression.
func (l *Logger) LogAction(machineID string, d primitives.ActionDescriptor, ctx *primitives.ExtendedContext, event primitives.Event) {
	var value any
	if d.LogExpr != nil {
		value = d.LogExpr(ctx, event)
	}
	l.Printf("machine %q event %q: %s = %v", machineID, event.Type, d.LogLabel, value)
}

// Transition prints a one-line summary of a completed Transition call.
func (l *Logger) Transition(machineID string, event primitives.Event, changed bool) {
	l.Printf("machine %q event %q: changed=%v", machineID, event.Type, changed)
}
