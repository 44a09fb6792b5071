package extensibility

import "github.com/latticefsm/statecore/internal/core"

// Registry composes builders for every named options map a machine can
// resolve against - guards, actions, services (used by invoke), activities,
// and delays - into the core.Registries a machine is constructed with.
type Registry struct {
	Guards     *GuardBuilder
	Actions    *ActionBuilder
	Services   *NameBuilder
	Activities *NameBuilder
	Delays     *DelayBuilder
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		Guards:     NewGuardBuilder(),
		Actions:    NewActionBuilder(),
		Services:   NewNameBuilder(),
		Activities: NewNameBuilder(),
		Delays:     NewDelayBuilder(),
	}
}

// Build assembles every accumulated registry into a core.Registries.
func (r *Registry) Build() *core.Registries {
	return &core.Registries{
		Guards:     r.Guards.Guards(),
		Actions:    r.Actions.Actions(),
		Services:   r.Services.Names(),
		Activities: r.Activities.Names(),
		Delays:     r.Delays.Delays(),
	}
}
