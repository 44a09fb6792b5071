package core

import (
	"github.com/latticefsm/statecore/internal/primitives"
	"github.com/latticefsm/statecore/internal/tree"
)

// InitialStep computes the machine's starting configuration: the default
// (or, given a restored history snapshot, history-recalled) descent from
// the tree root, running every entered state's entry actions in document
// order. It is RunToCompletion's entry-only counterpart, used once when a
// machine has no prior configuration to transition from.
func InitialStep(t *tree.Tree, ctx *primitives.ExtendedContext, hist HistorySnapshot, reg *Registries) (*StepOutput, error) {
	b := &entryBuilder{set: make(map[string]*tree.Node), hist: hist}
	b.addDescendant(t.Root)
	entryNodes := sortedByDocOrder(b.set, false)

	out := &StepOutput{Config: Configuration{}, Context: ctx, History: hist, Changed: true}
	seedEvent := primitives.NewEvent(primitives.NullEvent, nil)
	var queue []primitives.Event
	curCtx := ctx
	for _, n := range entryNodes {
		next, raised, fwd, err := FoldActions(n.Entry, curCtx, seedEvent, reg)
		if err != nil {
			return nil, primitives.WrapStateError(err, t.MachineID, n.ID, primitives.NullEvent)
		}
		curCtx = next
		out.Actions = append(out.Actions, fwd...)
		out.Config = out.Config.With([]*tree.Node{n}, nil)
		queue = append(queue, raised...)
	}
	out.Context = curCtx
	queue = append(queue, computeDoneEvents(out.Config, entryNodes)...)

	for _, n := range entryNodes {
		if n.IsTransient() {
			queue = append(queue, primitives.NewEvent(primitives.NullEvent, nil))
			break
		}
	}

	return drain(t, out, queue, false, reg)
}
