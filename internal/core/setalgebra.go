package core

import (
	"sort"

	"github.com/latticefsm/statecore/internal/primitives"
	"github.com/latticefsm/statecore/internal/tree"
)

// TransitionDomain returns the node whose descendants are eligible for
// exit/entry when t fires, following the standard external/internal
// distinction: an internal transition on a compound source whose targets
// are all proper descendants of the source keeps the source entered and is
// its own domain. Every other transition - including an external
// transition that targets the source itself or one of its own descendants
// - is computed over the source's PROPER ancestors, so the source always
// re-exits and re-enters rather than silently surviving the transition.
func TransitionDomain(t *tree.Transition, hist HistorySnapshot) *tree.Node {
	if t.IsActionOnly() {
		return t.Source
	}
	targets := EffectiveTargets(t.Targets, hist)
	if t.Internal && t.Source.Kind == primitives.Compound {
		allDescendants := true
		for _, target := range targets {
			if !target.IsDescendantOf(t.Source) {
				allDescendants = false
				break
			}
		}
		if allDescendants {
			return t.Source
		}
	}
	domain := t.Source.Parent
	if domain == nil {
		domain = t.Source
	}
	for _, target := range targets {
		domain = tree.LCA(domain, target)
	}
	return domain
}

// EffectiveTargets expands any History node appearing in targets into its
// recalled or default concrete target, per the history snapshot.
func EffectiveTargets(targets []*tree.Node, hist HistorySnapshot) []*tree.Node {
	var out []*tree.Node
	for _, target := range targets {
		out = append(out, resolveHistoryNode(target, hist)...)
	}
	return out
}

func resolveHistoryNode(n *tree.Node, hist HistorySnapshot) []*tree.Node {
	if n.Kind != primitives.History {
		return []*tree.Node{n}
	}
	if recalled, ok := hist.Recall(n.ID); ok {
		leaves := valueToLeaves(recalled, n.Parent)
		if len(leaves) > 0 {
			return leaves
		}
	}
	if n.HistoryTarget != nil {
		return resolveHistoryNode(n.HistoryTarget, hist)
	}
	return nil
}

// valueToLeaves walks a recorded StateValue back into concrete leaf nodes
// under base.
func valueToLeaves(v *primitives.StateValue, base *tree.Node) []*tree.Node {
	if v == nil || base == nil {
		return nil
	}
	if v.IsLeaf() {
		// A shallow-recorded leaf name may itself be a compound child;
		// addDescendant re-descends it via default entry or deeper history.
		if child, ok := base.Children[v.Leaf]; ok {
			return []*tree.Node{child}
		}
		return nil
	}
	var out []*tree.Node
	for key, sub := range v.Children {
		child, ok := base.Children[key]
		if !ok {
			continue
		}
		if child.Kind == primitives.Atomic || child.Kind == primitives.Final {
			out = append(out, child)
			continue
		}
		out = append(out, valueToLeaves(sub, child)...)
	}
	return out
}

// ExitSet returns the nodes that must exit for transitions to fire, deepest
// first (descending document order), so children always exit before their
// parents.
func ExitSet(transitions []*tree.Transition, cfg Configuration, hist HistorySnapshot) []*tree.Node {
	set := make(map[string]*tree.Node)
	for _, t := range transitions {
		if t.IsActionOnly() {
			continue
		}
		domain := TransitionDomain(t, hist)
		for _, n := range cfg {
			if n.IsDescendantOf(domain) {
				set[n.ID] = n
			}
		}
	}
	return sortedByDocOrder(set, true)
}

// EntrySet returns the nodes that must enter for transitions to fire,
// shallowest first (ascending document order), expanding compound default
// children, parallel sibling regions, and history recall.
func EntrySet(transitions []*tree.Transition, hist HistorySnapshot) []*tree.Node {
	b := &entryBuilder{set: make(map[string]*tree.Node), hist: hist}
	for _, t := range transitions {
		if t.IsActionOnly() {
			continue
		}
		targets := EffectiveTargets(t.Targets, hist)
		domain := TransitionDomain(t, hist)
		for _, target := range targets {
			b.addDescendant(target)
		}
		for _, target := range targets {
			b.addAncestors(target, domain)
		}
	}
	return sortedByDocOrder(b.set, false)
}

type entryBuilder struct {
	set  map[string]*tree.Node
	hist HistorySnapshot
}

func (b *entryBuilder) addDescendant(n *tree.Node) {
	if n.Kind == primitives.History {
		for _, resolved := range resolveHistoryNode(n, b.hist) {
			b.addDescendant(resolved)
			b.addAncestors(resolved, n.Parent)
		}
		return
	}
	b.set[n.ID] = n
	switch n.Kind {
	case primitives.Compound:
		if child, ok := n.Children[n.InitialChildKey]; ok {
			b.addDescendant(child)
			b.addAncestors(child, n)
		}
	case primitives.Parallel:
		for _, child := range n.ChildInDocOrder() {
			if !b.anyDescendantOf(child) {
				b.addDescendant(child)
			}
		}
	}
}

func (b *entryBuilder) addAncestors(n *tree.Node, stopAt *tree.Node) {
	for cur := n.Parent; cur != nil && cur != stopAt; cur = cur.Parent {
		b.set[cur.ID] = cur
		if cur.Kind == primitives.Parallel {
			for _, child := range cur.ChildInDocOrder() {
				if !b.anyDescendantOf(child) {
					b.addDescendant(child)
				}
			}
		}
	}
}

func (b *entryBuilder) anyDescendantOf(n *tree.Node) bool {
	for _, s := range b.set {
		if s == n || s.IsDescendantOf(n) {
			return true
		}
	}
	return false
}

func sortedByDocOrder(set map[string]*tree.Node, descending bool) []*tree.Node {
	out := make([]*tree.Node, 0, len(set))
	for _, n := range set {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if descending {
			return out[i].DocOrder > out[j].DocOrder
		}
		return out[i].DocOrder < out[j].DocOrder
	})
	return out
}

// RecordHistory scans the nodes about to be exited; for every compound or
// parallel node among them that owns a History child, it records that
// node's active sub-configuration (from cfgBeforeExit) against the history
// child's id.
func RecordHistory(exiting []*tree.Node, cfgBeforeExit Configuration, hist HistorySnapshot) HistorySnapshot {
	out := hist
	for _, n := range exiting {
		for _, child := range n.Children {
			if child.Kind != primitives.History {
				continue
			}
			var value *primitives.StateValue
			if child.HistoryDepth == primitives.Deep {
				value = deepValue(cfgBeforeExit, n)
			} else {
				value = shallowValue(cfgBeforeExit, n)
			}
			if value != nil {
				out = out.With(child.ID, value)
			}
		}
	}
	return out
}

func shallowValue(cfg Configuration, n *tree.Node) *primitives.StateValue {
	for _, child := range n.ChildInDocOrder() {
		if cfg.Active(child) {
			return primitives.Leaf(child.Key)
		}
	}
	return nil
}

func deepValue(cfg Configuration, n *tree.Node) *primitives.StateValue {
	return nodeValue(cfg, n)
}
