// Package primitives defines the foundational data structures for the
// statechart engine. StateConfig represents one node of a machine's
// declarative tree, supporting atomic, compound, parallel, final, and
// history kinds with transitions, actions, and hierarchical nesting.
//
// Children and per-event transition lists are kept in insertion-ordered
// maps (github.com/wk8/go-ordered-map/v2) rather than plain Go maps, so
// that document order - used for exit/entry ordering and transition
// tie-breaking - is recoverable straight from the parsed configuration.
package primitives

import (
	"errors"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// StateType defines the possible kinds of states in the statechart.
type StateType string

const (
	Atomic   StateType = "atomic"
	Compound StateType = "compound"
	Parallel StateType = "parallel"
	Final    StateType = "final"
	History  StateType = "history"
)

// HistoryDepth distinguishes shallow from deep history nodes.
type HistoryDepth string

const (
	Shallow HistoryDepth = "shallow"
	Deep    HistoryDepth = "deep"
)

// ActivityDescriptor names a long-running activity a state starts on entry
// and stops on exit.
type ActivityDescriptor struct {
	Name string
	Spec *ActivitySpec
}

// InvokeDescriptor names an actor invocation, lowered by the tree builder
// into a start action on entry, a stop action on exit, and onDone/onError
// transitions on the owning state.
type InvokeDescriptor struct {
	ID      string
	Src     string
	Data    map[string]any
	OnDone  *TransitionConfig
	OnError *TransitionConfig
}

// StateConfig defines one node of a machine's declarative tree.
type StateConfig struct {
	Key  string    `json:"key" yaml:"key"`
	ID   string    `json:"id,omitempty" yaml:"id,omitempty"`
	Type StateType `json:"type" yaml:"type"`

	// Initial names the default child entered on a bare descent into a
	// compound node. Required for Compound, forbidden otherwise.
	Initial string `json:"initial,omitempty" yaml:"initial,omitempty"`

	// HistoryDepth and HistoryTarget apply only to Type==History.
	HistoryDepth  HistoryDepth `json:"historyDepth,omitempty" yaml:"historyDepth,omitempty"`
	HistoryTarget string       `json:"historyTarget,omitempty" yaml:"historyTarget,omitempty"`

	States *orderedmap.OrderedMap[string, *StateConfig] `json:"states,omitempty" yaml:"states,omitempty"`
	On     *orderedmap.OrderedMap[string, []TransitionConfig] `json:"on,omitempty" yaml:"on,omitempty"`

	Entry      []ActionDescriptor   `json:"-" yaml:"-"`
	Exit       []ActionDescriptor   `json:"-" yaml:"-"`
	Activities []ActivityDescriptor `json:"-" yaml:"-"`
	Invoke     []InvokeDescriptor   `json:"-" yaml:"-"`

	// After declares delayed transitions: each entry's Delay names a ms
	// literal or a delay resolved against the delays registry, and the rest
	// of the TransitionConfig (Guard/Target/Actions/Internal) describes the
	// transition taken when that delay elapses. The tree builder lowers
	// each entry into an entry-scheduled send paired with an exit-scheduled
	// cancel, same as Activities/Invoke lower into start/stop actions.
	After []TransitionConfig `json:"-" yaml:"-"`

	Meta any `json:"meta,omitempty" yaml:"meta,omitempty"`
	Data any `json:"data,omitempty" yaml:"data,omitempty"`
}

// NewStateConfig creates a StateConfig with the given local key and kind.
func NewStateConfig(key string, typ StateType) *StateConfig {
	return &StateConfig{Key: key, Type: typ}
}

// WithInitial sets the initial child key (compound only).
func (s *StateConfig) WithInitial(initial string) *StateConfig {
	s.Initial = initial
	return s
}

// AddTransition appends a transition for an event type (possibly
// NullEvent or Wildcard) to this state's On map, preserving insertion
// order within that event's list.
func (s *StateConfig) AddTransition(event string, trans TransitionConfig) *StateConfig {
	if s.On == nil {
		s.On = orderedmap.New[string, []TransitionConfig]()
	}
	trans.Event = event
	existing, _ := s.On.Get(event)
	s.On.Set(event, append(existing, trans))
	return s
}

// Transition adds a simple single-target transition. An empty target
// produces an action-only transition (Target left nil) unless opts itself
// supplies one or more targets.
func (s *StateConfig) Transition(event string, target string, opts ...TransitionConfig) *StateConfig {
	var trans TransitionConfig
	if target != "" {
		trans.Target = []string{target}
	}
	if len(opts) > 0 {
		trans = opts[0]
		if len(trans.Target) == 0 && target != "" {
			trans.Target = []string{target}
		}
	}
	return s.AddTransition(event, trans)
}

// AddEntry appends an entry action descriptor.
func (s *StateConfig) AddEntry(action ActionDescriptor) *StateConfig {
	s.Entry = append(s.Entry, action)
	return s
}

// AddExit appends an exit action descriptor.
func (s *StateConfig) AddExit(action ActionDescriptor) *StateConfig {
	s.Exit = append(s.Exit, action)
	return s
}

// AddAfter appends a delayed transition, fired once delay elapses with no
// intervening exit from this state.
func (s *StateConfig) AddAfter(delay string, trans TransitionConfig) *StateConfig {
	trans.Delay = delay
	s.After = append(s.After, trans)
	return s
}

// AddChild attaches a child StateConfig under its own key, preserving
// insertion (document) order.
func (s *StateConfig) AddChild(child *StateConfig) *StateConfig {
	if s.States == nil {
		s.States = orderedmap.New[string, *StateConfig]()
	}
	s.States.Set(child.Key, child)
	return s
}

// State creates, attaches, and returns a child state (atomic by default).
func (s *StateConfig) State(key string, typ ...StateType) *StateConfig {
	t := Atomic
	if len(typ) > 0 {
		t = typ[0]
	}
	child := NewStateConfig(key, t)
	s.AddChild(child)
	return child
}

// ChildKeys returns child keys in document order.
func (s *StateConfig) ChildKeys() []string {
	if s.States == nil {
		return nil
	}
	keys := make([]string, 0, s.States.Len())
	for pair := s.States.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// EventTypes returns the event types this state declares transitions for,
// in document order.
func (s *StateConfig) EventTypes() []string {
	if s.On == nil {
		return nil
	}
	types := make([]string, 0, s.On.Len())
	for pair := s.On.Oldest(); pair != nil; pair = pair.Next() {
		types = append(types, pair.Key)
	}
	return types
}

// Validate performs shape-only validation of this node and its descendants.
// Cross-reference checks (unknown transition targets, duplicate ids across
// the whole tree) happen once the tree builder has full context.
func (s *StateConfig) Validate() error {
	if s.Key == "" {
		return errors.New("state key is required")
	}

	switch s.Type {
	case Atomic, Compound, Parallel, Final, History:
	default:
		return fmt.Errorf("invalid state type %q for state %s", s.Type, s.Key)
	}

	childCount := 0
	if s.States != nil {
		childCount = s.States.Len()
	}

	switch s.Type {
	case Atomic, Final:
		if s.Initial != "" {
			return fmt.Errorf("%s state %s cannot declare Initial", s.Type, s.Key)
		}
		if childCount > 0 {
			return fmt.Errorf("%s state %s cannot have children", s.Type, s.Key)
		}
	case Compound:
		if childCount == 0 {
			return fmt.Errorf("compound state %s requires children", s.Key)
		}
		if s.Initial == "" {
			return fmt.Errorf("compound state %s requires an Initial child", s.Key)
		}
		if _, ok := s.States.Get(s.Initial); !ok {
			return fmt.Errorf("initial child %q not found in children of %s", s.Initial, s.Key)
		}
	case Parallel:
		if childCount == 0 {
			return fmt.Errorf("parallel state %s requires children", s.Key)
		}
		if s.Initial != "" {
			return fmt.Errorf("parallel state %s must not declare Initial", s.Key)
		}
	case History:
		if childCount > 0 {
			return fmt.Errorf("history state %s cannot have children", s.Key)
		}
		switch s.HistoryDepth {
		case Shallow, Deep:
		default:
			return fmt.Errorf("history state %s requires historyDepth shallow or deep", s.Key)
		}
	}

	if s.States != nil {
		for pair := s.States.Oldest(); pair != nil; pair = pair.Next() {
			if err := pair.Value.Validate(); err != nil {
				return fmt.Errorf("child %q of %s failed validation: %w", pair.Key, s.Key, err)
			}
		}
	}

	return nil
}
