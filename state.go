package statecore

import (
	"strings"

	"github.com/latticefsm/statecore/internal/core"
	"github.com/latticefsm/statecore/internal/primitives"
	"github.com/latticefsm/statecore/internal/tree"
)

// State is the immutable result of building or transitioning a Machine: the
// active configuration, extended context, recorded history, and the ordered
// actions the transition that produced it asked the host to run.
//
// Previous links back to the State a Transition call started from, one
// level deep only - Previous.Previous is always nil - so a caller can
// inspect what just changed without the engine retaining an unbounded chain.
type State struct {
	Value   *primitives.StateValue
	Context *primitives.ExtendedContext
	History core.HistorySnapshot
	Actions []primitives.ActionDescriptor
	Changed bool
	Event   primitives.Event

	Previous *State

	config core.Configuration
}

func newState(out *core.StepOutput, root *tree.Node, event primitives.Event, previous *State) *State {
	if previous != nil {
		trimmed := *previous
		trimmed.Previous = nil
		previous = &trimmed
	}
	return &State{
		Value:    core.ToStateValue(out.Config, root),
		Context:  out.Context,
		History:  out.History,
		Actions:  out.Actions,
		Changed:  out.Changed,
		Event:    event,
		Previous: previous,
		config:   out.Config,
	}
}

// ToStrings flattens value into the set of leaf paths it identifies, each
// joined by delimiter, e.g. {"light": {"red": <leaf "walk">}} with
// delimiter "." becomes []string{"light.red.walk"}.
func ToStrings(value *primitives.StateValue, delimiter string) []string {
	paths := primitives.ToPaths(value)
	out := make([]string, 0, len(paths))
	for _, segs := range paths {
		out = append(out, strings.Join(segs, delimiter))
	}
	return out
}
