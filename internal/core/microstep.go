package core

import (
	"github.com/latticefsm/statecore/internal/primitives"
	"github.com/latticefsm/statecore/internal/tree"
)

// maxTransientSteps bounds the run-to-completion loop so a misconfigured
// chain of null-event or raised-event transitions cannot hang the engine.
const maxTransientSteps = 10000

// StepOutput is the result of driving one external event to completion:
// every microstep the event and any events it raised triggered, folded
// into a single new configuration, context, history snapshot, and ordered
// action list.
type StepOutput struct {
	Config  Configuration
	Context *primitives.ExtendedContext
	History HistorySnapshot
	Actions []primitives.ActionDescriptor
	Changed bool
}

// RunToCompletion drives event, and every event it or its cascade of
// transitions raise, to a stable configuration. It never mutates its
// inputs; the returned StepOutput carries the new immutable state.
func RunToCompletion(t *tree.Tree, cfg Configuration, ctx *primitives.ExtendedContext, hist HistorySnapshot, event primitives.Event, reg *Registries) (*StepOutput, error) {
	out := &StepOutput{Config: cfg, Context: ctx, History: hist}
	return drain(t, out, []primitives.Event{event}, true, reg)
}

// drain processes queue to exhaustion against out's configuration,
// threading every side effect (context updates, history, actions, newly
// raised or done events) back into out. It is shared by RunToCompletion
// (seeded with the external event, leadIsExternal true) and InitialStep
// (seeded with whatever the initial entry cascade raises, leadIsExternal
// false so strict mode never rejects an internally generated event).
func drain(t *tree.Tree, out *StepOutput, queue []primitives.Event, leadIsExternal bool, reg *Registries) (*StepOutput, error) {
	seedType := primitives.NullEvent
	if len(queue) > 0 {
		seedType = queue[0].Type
	}
	for steps := 0; len(queue) > 0; steps++ {
		if steps >= maxTransientSteps {
			return nil, primitives.WrapStateError(primitives.ErrTransientLoop, t.MachineID, "", seedType)
		}

		ev := queue[0]
		queue = queue[1:]
		isExternal := steps == 0 && leadIsExternal

		enabled, err := SelectTransitions(out.Config, t, ev, out.Context, out.History, reg)
		if err != nil {
			return nil, err
		}

		if len(enabled) == 0 {
			if isExternal && t.Strict && ev.Type != primitives.NullEvent {
				if _, known := t.Alphabet[ev.Type]; !known {
					return nil, primitives.WrapStateError(primitives.ErrUnhandledEventInStrict, t.MachineID, "", ev.Type)
				}
			}
			continue
		}

		if hasTargets(enabled) {
			out.Changed = true
		}

		exitNodes := ExitSet(enabled, out.Config, out.History)
		newHist := RecordHistory(exitNodes, out.Config, out.History)

		curCtx := out.Context
		for _, n := range exitNodes {
			next, raised, fwd, err := FoldActions(n.Exit, curCtx, ev, reg)
			if err != nil {
				return nil, primitives.WrapStateError(err, t.MachineID, n.ID, ev.Type)
			}
			if next != curCtx {
				out.Changed = true
			}
			curCtx = next
			out.Actions = append(out.Actions, fwd...)
			queue = append(queue, raised...)
		}

		for _, tr := range enabled {
			next, raised, fwd, err := FoldActions(tr.Actions, curCtx, ev, reg)
			if err != nil {
				return nil, primitives.WrapStateError(err, t.MachineID, tr.Source.ID, ev.Type)
			}
			if next != curCtx {
				out.Changed = true
			}
			curCtx = next
			out.Actions = append(out.Actions, fwd...)
			queue = append(queue, raised...)
		}

		entryNodes := EntrySet(enabled, newHist)
		for _, n := range entryNodes {
			next, raised, fwd, err := FoldActions(n.Entry, curCtx, ev, reg)
			if err != nil {
				return nil, primitives.WrapStateError(err, t.MachineID, n.ID, ev.Type)
			}
			if next != curCtx {
				out.Changed = true
			}
			curCtx = next
			out.Actions = append(out.Actions, fwd...)
			queue = append(queue, raised...)
		}

		newCfg := out.Config.With(entryNodes, exitNodes)
		queue = append(queue, computeDoneEvents(newCfg, entryNodes)...)

		out.Config = newCfg
		out.Context = curCtx
		out.History = newHist

		// Any microstep - whether it moved the configuration or only ran
		// assign actions - can have changed a guard's outcome, so recheck
		// the active configuration for an eventless transition before
		// returning to quiescence.
		queue = append(queue, primitives.NewEvent(primitives.NullEvent, nil))
	}

	return out, nil
}

func hasTargets(transitions []*tree.Transition) bool {
	for _, t := range transitions {
		if !t.IsActionOnly() {
			return true
		}
	}
	return false
}

// computeDoneEvents raises "done.state.<id>" for every compound node whose
// active child just became Final, and for every parallel node all of whose
// regions are now done, cascading upward through nested compound/parallel
// ancestors.
func computeDoneEvents(cfg Configuration, entered []*tree.Node) []primitives.Event {
	var out []primitives.Event
	seen := make(map[string]bool)
	for _, n := range entered {
		if n.Kind == primitives.Final {
			bubbleDone(cfg, n.Parent, seen, &out)
		}
	}
	return out
}

func bubbleDone(cfg Configuration, n *tree.Node, seen map[string]bool, out *[]primitives.Event) {
	if n == nil || seen[n.ID] {
		return
	}
	switch n.Kind {
	case primitives.Compound:
		seen[n.ID] = true
		*out = append(*out, primitives.NewEvent(primitives.DoneEventType(n.ID), nil))
		if gp := n.Parent; gp != nil && gp.Kind == primitives.Parallel {
			bubbleDone(cfg, gp, seen, out)
		}
	case primitives.Parallel:
		if !isRegionDone(cfg, n) {
			return
		}
		seen[n.ID] = true
		*out = append(*out, primitives.NewEvent(primitives.DoneEventType(n.ID), nil))
		// Only a nested parallel keeps the cascade going automatically; an
		// ordinary compound ancestor's own done condition is driven by one
		// of its own children being a literal Final node, not by an
		// indirect parallel completion underneath it.
		if gp := n.Parent; gp != nil && gp.Kind == primitives.Parallel {
			bubbleDone(cfg, gp, seen, out)
		}
	}
}

// isRegionDone reports whether the active descent under region terminates
// in a Final state (for a compound region) or every child region is itself
// done (for a nested parallel region).
func isRegionDone(cfg Configuration, region *tree.Node) bool {
	cur := region
	for {
		switch cur.Kind {
		case primitives.Final:
			return true
		case primitives.Atomic, primitives.History:
			return false
		case primitives.Compound:
			var active *tree.Node
			for _, c := range cur.ChildInDocOrder() {
				if cfg.Active(c) {
					active = c
					break
				}
			}
			if active == nil {
				return false
			}
			cur = active
		case primitives.Parallel:
			for _, c := range cur.ChildInDocOrder() {
				if !isRegionDone(cfg, c) {
					return false
				}
			}
			return true
		default:
			return false
		}
	}
}
