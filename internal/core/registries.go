package core

import "github.com/latticefsm/statecore/internal/primitives"

// Registries resolves the named (as opposed to inline/closure) options a
// machine was configured with: guards, custom actions, services (resolved
// against an invoke's `src`), activities, and delays. All five maps are
// supplied once at machine construction and consulted synchronously during
// Transition, so resolution never breaks the engine's purity - it is plain
// data lookup, not host I/O.
type Registries struct {
	Guards     map[string]primitives.GuardFunc
	Actions    map[string]primitives.PureFunc
	Services   map[string]struct{}
	Activities map[string]struct{}
	Delays     map[string]int
}

func (r *Registries) guard(name string) (primitives.GuardFunc, bool) {
	if r == nil || r.Guards == nil {
		return nil, false
	}
	fn, ok := r.Guards[name]
	return fn, ok
}

func (r *Registries) action(name string) (primitives.PureFunc, bool) {
	if r == nil || r.Actions == nil {
		return nil, false
	}
	fn, ok := r.Actions[name]
	return fn, ok
}

func (r *Registries) hasService(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.Services[name]
	return ok
}

func (r *Registries) hasActivity(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.Activities[name]
	return ok
}

func (r *Registries) delay(name string) (int, bool) {
	if r == nil {
		return 0, false
	}
	ms, ok := r.Delays[name]
	return ms, ok
}

// evalGuardWith resolves and evaluates a guard descriptor against context and
// event, consulting reg for GuardNamed descriptors.
func evalGuardWith(reg *Registries, desc *primitives.GuardDescriptor, ctx *primitives.ExtendedContext, event primitives.Event) (bool, error) {
	if desc == nil {
		return true, nil
	}
	switch desc.Kind {
	case primitives.GuardInline:
		if desc.Fn == nil {
			return false, primitives.ErrGuardEvaluationFailed
		}
		return desc.Fn(ctx, event), nil
	case primitives.GuardNamed:
		fn, ok := reg.guard(desc.Name)
		if !ok {
			return false, primitives.ErrUnknownGuard
		}
		return fn(ctx, event), nil
	default:
		return false, primitives.ErrGuardEvaluationFailed
	}
}
