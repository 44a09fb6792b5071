// Package tree implements the state-tree model: the node tree built once
// from a machine configuration, with id/path indexing, parent/child links,
// LCA computation, and the per-node candidate indexes, computed once at
// build time, that the selector and microstep engine rely on.
package tree

import "github.com/latticefsm/statecore/internal/primitives"

// Transition is a resolved transition descriptor: a TransitionConfig whose
// target path strings have been resolved to concrete nodes and whose guard
// and "in" predicate are ready to evaluate.
type Transition struct {
	Source   *Node
	Event    string
	Guard    *primitives.GuardDescriptor
	In       *Node
	Targets  []*Node
	Actions  []primitives.ActionDescriptor
	Internal bool
	// DocOrder is this transition's position among the On-declared
	// transitions (in any event bucket) on Source, in source document
	// order; transitions lowered from invoke and after declarations leave
	// it at zero.
	DocOrder int
}

// IsActionOnly reports whether the transition fires without changing
// configuration.
func (t *Transition) IsActionOnly() bool {
	return len(t.Targets) == 0
}

// Node is one node of the built state tree.
type Node struct {
	Key  string
	ID   string
	Path []string // keys from (but excluding) the machine root to this node
	Kind primitives.StateType

	InitialChildKey string
	HistoryDepth    primitives.HistoryDepth
	HistoryTarget   *Node // resolved default target for a History node

	Entry      []primitives.ActionDescriptor
	Exit       []primitives.ActionDescriptor
	Activities []primitives.ActivityDescriptor
	Invoke     []primitives.InvokeDescriptor

	Parent     *Node
	Children   map[string]*Node
	ChildOrder []string // child keys in document order

	// DocOrder is this node's position in a full depth-first, child-order
	// traversal of the tree, used to order exit sets (descending) and
	// entry sets (ascending).
	DocOrder int

	Transitions []*Transition // all transitions declared on this node, flattened, in document order

	// transient is true when this node declares a null-event transition,
	// taken immediately on entry.
	transient bool

	// byEvent/wildcard are precomputed once at build time: typed
	// candidates for a given event type, and wildcard candidates, kept
	// separate so candidate enumeration can put typed transitions first
	// and wildcard transitions last without re-partitioning per call.
	byEvent  map[string][]*Transition
	wildcard []*Transition
}

// IsTransient reports whether this node has a null-event transition.
func (n *Node) IsTransient() bool {
	return n.transient
}

// IsAtomic reports whether a node has no children (atomic, final, or
// history - all leaves of the tree).
func (n *Node) IsAtomic() bool {
	return len(n.Children) == 0
}

// Candidates returns this node's candidate transitions for eventType, typed
// matches first (in document order) followed by wildcard matches (in
// document order). The null event matches only exact null-event
// transitions; no wildcard fallback applies to it.
func (n *Node) Candidates(eventType string) []*Transition {
	if eventType == primitives.NullEvent {
		return n.byEvent[primitives.NullEvent]
	}
	typed := n.byEvent[eventType]
	if len(n.wildcard) == 0 {
		return typed
	}
	out := make([]*Transition, 0, len(typed)+len(n.wildcard))
	out = append(out, typed...)
	out = append(out, n.wildcard...)
	return out
}

// Ancestors returns n's ancestor chain starting at the root and ending at
// n itself.
func (n *Node) Ancestors() []*Node {
	var chain []*Node
	for cur := n; cur != nil; cur = cur.Parent {
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// IsDescendantOf reports whether n is a (possibly indirect) descendant of
// ancestor.
func (n *Node) IsDescendantOf(ancestor *Node) bool {
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// LCA returns the least common ancestor of a and b. Two nodes in the same
// tree always share at least the root.
func LCA(a, b *Node) *Node {
	ancA := a.Ancestors()
	ancB := b.Ancestors()
	var lca *Node
	for i := 0; i < len(ancA) && i < len(ancB); i++ {
		if ancA[i] != ancB[i] {
			break
		}
		lca = ancA[i]
	}
	return lca
}

// ChildInDocOrder returns n's children in document order.
func (n *Node) ChildInDocOrder() []*Node {
	out := make([]*Node, 0, len(n.ChildOrder))
	for _, k := range n.ChildOrder {
		out = append(out, n.Children[k])
	}
	return out
}
