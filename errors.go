package statecore

import "github.com/latticefsm/statecore/internal/primitives"

// Sentinel errors a caller compares against with errors.Is. These alias the
// engine's internal taxonomy directly; failures returned by Transition,
// InitialState, and ResolveState wrap one of these via fmt.Errorf's %w,
// with machine/state (and, at run time, event) context. The one exception
// is Transition called with a nil State, which returns a plain error.
var (
	ErrInvalidConfiguration   = primitives.ErrInvalidConfiguration
	ErrNoSuchState            = primitives.ErrNoSuchState
	ErrUnknownGuard           = primitives.ErrUnknownGuard
	ErrUnknownDelay           = primitives.ErrUnknownDelay
	ErrUnknownService         = primitives.ErrUnknownService
	ErrUnknownAction          = primitives.ErrUnknownAction
	ErrUnresolvableTarget     = primitives.ErrUnresolvableTarget
	ErrUnhandledEventInStrict = primitives.ErrUnhandledEventInStrict
	ErrGuardEvaluationFailed  = primitives.ErrGuardEvaluationFailed
	ErrAssignEvaluationFailed = primitives.ErrAssignEvaluationFailed
	ErrActionEvaluationFailed = primitives.ErrActionEvaluationFailed
	ErrTransientLoop          = primitives.ErrTransientLoop
)
