package statecore

import (
	"fmt"

	"github.com/latticefsm/statecore/internal/core"
	"github.com/latticefsm/statecore/internal/extensibility"
	"github.com/latticefsm/statecore/internal/primitives"
	"github.com/latticefsm/statecore/internal/tree"
)

// Machine is a built, immutable statechart: a state tree plus the named
// options registries (guards, actions, services, activities, delays) and
// base context it was configured with. All of its methods are pure;
// WithContext and WithConfig return a new Machine rather than mutating the
// receiver.
type Machine struct {
	tree       *tree.Tree
	registries *core.Registries
	baseCtx    *primitives.ExtendedContext
}

// Option configures a Machine clone produced by WithConfig.
type Option func(*Machine)

// WithRegistry replaces the machine's named options registries, sourced from
// an extensibility.Registry built with GuardBuilder/ActionBuilder/NameBuilder/
// DelayBuilder.
func WithRegistry(r *extensibility.Registry) Option {
	return func(m *Machine) {
		m.registries = r.Build()
	}
}

// New builds a Machine from a declarative configuration.
func New(cfg *primitives.MachineConfig, opts ...Option) (*Machine, error) {
	built, err := tree.Build(cfg)
	if err != nil {
		return nil, err
	}
	m := &Machine{
		tree:       built,
		registries: &core.Registries{},
		baseCtx:    primitives.NewExtendedContext(nil),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// WithContext returns a clone of the machine whose base context (the
// context InitialState seeds entry actions with) is replaced by ctx. The
// receiver is untouched.
func (m *Machine) WithContext(ctx *primitives.ExtendedContext) *Machine {
	clone := *m
	clone.baseCtx = ctx
	return &clone
}

// WithConfig returns a clone of the machine with opts applied. The receiver
// is untouched.
func (m *Machine) WithConfig(opts ...Option) *Machine {
	clone := *m
	for _, opt := range opts {
		opt(&clone)
	}
	return &clone
}

// InitialState computes the machine's starting State: default descent from
// the root with no recorded history, running every entered node's entry
// actions in document order and draining anything they raise.
func (m *Machine) InitialState() (*State, error) {
	out, err := core.InitialStep(m.tree, m.baseCtx, nil, m.registries)
	if err != nil {
		return nil, err
	}
	return newState(out, m.tree.Root, primitives.NewEvent(primitives.NullEvent, nil), nil), nil
}

// Transition is the engine's pure, total core operation: given a current
// State and an event, it selects the enabled transitions, computes the
// exit/entry sets, folds every action in order, and drains any raised or
// transient events to a stable configuration before returning the new
// State. s is never mutated; on failure s remains the last valid State and,
// unless s is nil, the returned error wraps one of the package's sentinel
// errors.
func (m *Machine) Transition(s *State, event primitives.Event) (*State, error) {
	if s == nil {
		return nil, fmt.Errorf("transition: nil state")
	}
	out, err := core.RunToCompletion(m.tree, s.config, s.Context, s.History, event, m.registries)
	if err != nil {
		return nil, err
	}
	return newState(out, m.tree.Root, event, s), nil
}

// ResolveState completes a possibly partial StateValue - one naming only
// some of the active descendants - against the tree's default-descent and
// parallel-completion rules, and returns the State it identifies. No
// actions run; this is a pure projection used to restore a previously
// externalized value rather than to enter a machine from scratch.
func (m *Machine) ResolveState(value *primitives.StateValue) (*State, error) {
	leaves, err := core.ResolveValue(m.tree, value)
	if err != nil {
		return nil, err
	}
	cfg := core.NewConfiguration(leaves)
	out := &core.StepOutput{Config: cfg, Context: m.baseCtx, History: nil}
	return newState(out, m.tree.Root, primitives.NewEvent(primitives.NullEvent, nil), nil), nil
}
