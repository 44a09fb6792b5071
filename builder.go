package statecore

import "github.com/latticefsm/statecore/internal/primitives"

// MachineBuilder provides a fluent API for constructing a MachineConfig
// without hand-assembling StateConfig/TransitionConfig literals. The root
// state is implicit: NewMachineBuilder creates a compound root with the
// given initial child, and NewParallelMachineBuilder creates a parallel
// root. Every other state is created by descending from a StateBuilder
// (itself returned by the creating call) and returning with Up().
type MachineBuilder struct {
	cfg  *primitives.MachineConfig
	root *StateBuilder
}

// StateBuilder configures one state and its children. Nesting calls
// (Compound, Parallel, Atomic, Final, History) return a StateBuilder
// positioned at the new child; Up returns to the parent.
type StateBuilder struct {
	mb     *MachineBuilder
	state  *primitives.StateConfig
	parent *StateBuilder
}

// NewMachineBuilder creates a builder whose root is a compound state with
// the given initial child key.
func NewMachineBuilder(id, initial string) *MachineBuilder {
	return newMachineBuilder(id, primitives.NewStateConfig(id, primitives.Compound).WithInitial(initial))
}

// NewParallelMachineBuilder creates a builder whose root is a parallel
// state; every top-level child runs as an orthogonal region.
func NewParallelMachineBuilder(id string) *MachineBuilder {
	return newMachineBuilder(id, primitives.NewStateConfig(id, primitives.Parallel))
}

func newMachineBuilder(id string, root *primitives.StateConfig) *MachineBuilder {
	mb := &MachineBuilder{cfg: &primitives.MachineConfig{ID: id, Root: root}}
	mb.root = &StateBuilder{mb: mb, state: root}
	return mb
}

// WithDelimiter sets the path delimiter used by target strings and
// ToStrings output (default ".").
func (b *MachineBuilder) WithDelimiter(delimiter string) *MachineBuilder {
	b.cfg.Delimiter = delimiter
	return b
}

// WithStrict enables strict mode: transition fails with
// ErrUnhandledEventInStrict for any event type absent from the machine's
// alphabet.
func (b *MachineBuilder) WithStrict(strict bool) *MachineBuilder {
	b.cfg.Strict = strict
	return b
}

// Root returns the StateBuilder positioned at the machine's root, for
// attaching root-level transitions or entry/exit actions.
func (b *MachineBuilder) Root() *StateBuilder {
	return b.root
}

// Atomic creates a top-level atomic child of the root.
func (b *MachineBuilder) Atomic(key string) *StateBuilder { return b.root.Atomic(key) }

// Compound creates a top-level compound child of the root.
func (b *MachineBuilder) Compound(key, initial string) *StateBuilder {
	return b.root.Compound(key, initial)
}

// Parallel creates a top-level parallel child of the root.
func (b *MachineBuilder) Parallel(key string) *StateBuilder { return b.root.Parallel(key) }

// Final creates a top-level final child of the root.
func (b *MachineBuilder) Final(key string) *StateBuilder { return b.root.Final(key) }

// History creates a top-level history child of the root.
func (b *MachineBuilder) History(key string, depth primitives.HistoryDepth, defaultTarget string) *StateBuilder {
	return b.root.History(key, depth, defaultTarget)
}

// On adds a transition to the root state.
func (b *MachineBuilder) On(event, target string, opts ...primitives.TransitionConfig) *MachineBuilder {
	b.root.On(event, target, opts...)
	return b
}

// Build validates the accumulated configuration and constructs a Machine.
func (b *MachineBuilder) Build(opts ...Option) (*Machine, error) {
	return New(b.cfg, opts...)
}

// Config returns the accumulated declarative configuration without
// building a Machine, e.g. to serialize it via internal/production's YAML
// support.
func (b *MachineBuilder) Config() *primitives.MachineConfig {
	return b.cfg
}

func (b *MachineBuilder) child(parent *StateBuilder, key string, typ primitives.StateType) *StateBuilder {
	child := primitives.NewStateConfig(key, typ)
	parent.state.AddChild(child)
	return &StateBuilder{mb: b, state: child, parent: parent}
}

// Atomic creates and descends into an atomic child.
func (sb *StateBuilder) Atomic(key string) *StateBuilder {
	return sb.mb.child(sb, key, primitives.Atomic)
}

// Compound creates and descends into a compound child with the given
// initial grandchild key.
func (sb *StateBuilder) Compound(key, initial string) *StateBuilder {
	child := sb.mb.child(sb, key, primitives.Compound)
	child.state.WithInitial(initial)
	return child
}

// Parallel creates and descends into a parallel child.
func (sb *StateBuilder) Parallel(key string) *StateBuilder {
	return sb.mb.child(sb, key, primitives.Parallel)
}

// Final creates and descends into a final child.
func (sb *StateBuilder) Final(key string) *StateBuilder {
	return sb.mb.child(sb, key, primitives.Final)
}

// History creates and descends into a history child with the given depth
// and default target path (resolved at Build time; may be "").
func (sb *StateBuilder) History(key string, depth primitives.HistoryDepth, defaultTarget string) *StateBuilder {
	child := sb.mb.child(sb, key, primitives.History)
	child.state.HistoryDepth = depth
	child.state.HistoryTarget = defaultTarget
	return child
}

// Up returns to the parent StateBuilder, or the receiver itself at the root.
func (sb *StateBuilder) Up() *StateBuilder {
	if sb.parent != nil {
		return sb.parent
	}
	return sb
}

// On adds a transition triggered by event, targeting target (a path string
// per the target resolution policy, or "" for an action-only transition).
// opts, if given, supplies the full TransitionConfig (guard, actions,
// internal flag, in-predicate); a non-empty Target in opts is kept, and
// target is used only when opts supplies no Target.
func (sb *StateBuilder) On(event, target string, opts ...primitives.TransitionConfig) *StateBuilder {
	sb.state.Transition(event, target, opts...)
	return sb
}

// OnInternal adds an action-only internal transition: it fires without
// exiting or re-entering sb's subtree.
func (sb *StateBuilder) OnInternal(event string, guard *primitives.GuardDescriptor, actions ...primitives.ActionDescriptor) *StateBuilder {
	sb.state.AddTransition(event, primitives.TransitionConfig{
		Guard:    guard,
		Actions:  actions,
		Internal: true,
	})
	return sb
}

// Entry appends an entry action.
func (sb *StateBuilder) Entry(action primitives.ActionDescriptor) *StateBuilder {
	sb.state.AddEntry(action)
	return sb
}

// Exit appends an exit action.
func (sb *StateBuilder) Exit(action primitives.ActionDescriptor) *StateBuilder {
	sb.state.AddExit(action)
	return sb
}

// Invoke attaches an actor invocation, lowered by the tree builder into
// start/stop actions plus onDone/onError transitions on sb's state.
func (sb *StateBuilder) Invoke(invoke primitives.InvokeDescriptor) *StateBuilder {
	sb.state.Invoke = append(sb.state.Invoke, invoke)
	return sb
}

// Activity attaches a long-running activity, lowered by the tree builder
// into a start action on entry and a matching stop action on exit.
func (sb *StateBuilder) Activity(activity primitives.ActivityDescriptor) *StateBuilder {
	sb.state.Activities = append(sb.state.Activities, activity)
	return sb
}

// After attaches a delayed transition: delay is a ms literal or a name
// resolved against the delays registry, fired unless sb's state is exited
// first. opts, if given, supplies the transition's guard/actions/internal
// flag; a non-empty Target in opts is kept, and target is used only when
// opts supplies no Target.
func (sb *StateBuilder) After(delay, target string, opts ...primitives.TransitionConfig) *StateBuilder {
	var trans primitives.TransitionConfig
	if target != "" {
		trans.Target = []string{target}
	}
	if len(opts) > 0 {
		trans = opts[0]
		if len(trans.Target) == 0 && target != "" {
			trans.Target = []string{target}
		}
	}
	sb.state.AddAfter(delay, trans)
	return sb
}

// Machine returns the MachineBuilder that owns this state, for ending a
// chain of nested calls and invoking Build.
func (sb *StateBuilder) Machine() *MachineBuilder {
	return sb.mb
}
