package core

import (
	"fmt"
	"sort"

	"github.com/latticefsm/statecore/internal/primitives"
	"github.com/latticefsm/statecore/internal/tree"
)

// SelectTransitions finds the set of transitions enabled by event against
// the active configuration: for each active leaf, walk outward from the
// leaf through its ancestors, and take the first node whose candidates for
// event include a guard-passing transition (bubbling stops there for that
// leaf's chain). Enabled transitions sourced from different orthogonal
// regions are then checked for cross-region target collisions.
func SelectTransitions(cfg Configuration, t *tree.Tree, event primitives.Event, ctx *primitives.ExtendedContext, hist HistorySnapshot, reg *Registries) ([]*tree.Transition, error) {
	var enabled []*tree.Transition
	seen := make(map[*tree.Transition]bool)

	for _, leaf := range cfg.Leaves() {
		chain := leaf.Ancestors()
		for i := len(chain) - 1; i >= 0; i-- {
			node := chain[i]
			found, err := firstMatching(node, event, ctx, cfg, reg, t.MachineID)
			if err != nil {
				return nil, err
			}
			if found != nil {
				if !seen[found] {
					seen[found] = true
					enabled = append(enabled, found)
				}
				break
			}
		}
	}

	if err := checkRegionCollisions(enabled, hist, t); err != nil {
		return nil, err
	}

	return enabled, nil
}

func firstMatching(node *tree.Node, event primitives.Event, ctx *primitives.ExtendedContext, cfg Configuration, reg *Registries, machineID string) (*tree.Transition, error) {
	for _, candidate := range node.Candidates(event.Type) {
		if candidate.In != nil && !cfg.Active(candidate.In) {
			continue
		}
		if candidate.Guard == nil {
			return candidate, nil
		}
		ok, err := evalGuardWith(reg, candidate.Guard, ctx, event)
		if err != nil {
			return nil, primitives.WrapStateError(fmt.Errorf("%w: %w", primitives.ErrGuardEvaluationFailed, err), machineID, node.ID, event.Type)
		}
		if ok {
			return candidate, nil
		}
	}
	return nil, nil
}

// checkRegionCollisions rejects configurations where two transitions,
// sourced from different children of the same orthogonal (parallel)
// ancestor, each target a node inside the other's region. This engine
// treats that case as a configuration defect rather than silently
// resolving it by priority: unlike an ordinary hierarchical conflict
// (already pre-empted by bubbling within a single leaf's ancestor chain),
// a region crossing one way on its own is unambiguous, but two crossing in
// opposite directions on the same event leave the combined entry set
// dependent on evaluation order the spec does not define.
func checkRegionCollisions(enabled []*tree.Transition, hist HistorySnapshot, t *tree.Tree) error {
	for i := 0; i < len(enabled); i++ {
		for j := i + 1; j < len(enabled); j++ {
			a, b := enabled[i], enabled[j]
			parallel := tree.LCA(a.Source, b.Source)
			if parallel == nil || parallel.Kind != primitives.Parallel {
				continue
			}
			regionA := regionUnder(parallel, a.Source)
			regionB := regionUnder(parallel, b.Source)
			if regionA == nil || regionB == nil || regionA == regionB {
				continue
			}
			if targetsInto(a, hist, regionB) && targetsInto(b, hist, regionA) {
				return primitives.WrapConfigError(
					fmt.Errorf("%w: transitions from %q and %q target across sibling orthogonal regions %q/%q",
						primitives.ErrInvalidConfiguration, a.Source.ID, b.Source.ID, regionA.ID, regionB.ID),
					t.MachineID, a.Source.ID)
			}
		}
	}
	return nil
}

// regionUnder returns the direct child of parallel that is an ancestor of
// (or equal to) n, or nil if n does not descend from parallel at all.
func regionUnder(parallel, n *tree.Node) *tree.Node {
	if n == parallel {
		return nil
	}
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Parent == parallel {
			return cur
		}
	}
	return nil
}

// targetsInto reports whether any effective target of tr lands inside (or
// is) region.
func targetsInto(tr *tree.Transition, hist HistorySnapshot, region *tree.Node) bool {
	for _, target := range EffectiveTargets(tr.Targets, hist) {
		if target == region || target.IsDescendantOf(region) {
			return true
		}
	}
	return false
}

// OrderByDocOrder sorts transitions by their source node's document order,
// used to present deterministic output when callers need a stable listing.
func OrderByDocOrder(transitions []*tree.Transition) []*tree.Transition {
	out := append([]*tree.Transition(nil), transitions...)
	sort.Slice(out, func(i, j int) bool { return out[i].Source.DocOrder < out[j].Source.DocOrder })
	return out
}
