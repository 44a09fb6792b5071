package core

import (
	"sort"

	"github.com/latticefsm/statecore/internal/primitives"
	"github.com/latticefsm/statecore/internal/tree"
)

// Configuration is the set of active nodes: every atomic/final leaf the
// machine currently occupies, plus every compound/parallel ancestor on the
// path from the tree root down to each leaf. It is copy-on-write, never
// mutated once built.
type Configuration map[string]*tree.Node

// NewConfiguration builds a Configuration from a leaf set, adding every
// ancestor up to and including the tree root.
func NewConfiguration(leaves []*tree.Node) Configuration {
	cfg := make(Configuration)
	for _, leaf := range leaves {
		for _, anc := range leaf.Ancestors() {
			cfg[anc.ID] = anc
		}
	}
	return cfg
}

// Active reports whether a node is part of this configuration.
func (c Configuration) Active(n *tree.Node) bool {
	_, ok := c[n.ID]
	return ok
}

// Leaves returns the atomic/final nodes in this configuration, sorted by
// document order.
func (c Configuration) Leaves() []*tree.Node {
	var out []*tree.Node
	for _, n := range c {
		if n.Kind == primitives.Atomic || n.Kind == primitives.Final {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DocOrder < out[j].DocOrder })
	return out
}

// With returns a copy of c with add applied and remove removed; either may
// be nil.
func (c Configuration) With(add, remove []*tree.Node) Configuration {
	out := make(Configuration, len(c)+len(add))
	for k, v := range c {
		out[k] = v
	}
	for _, n := range remove {
		delete(out, n.ID)
	}
	for _, n := range add {
		out[n.ID] = n
	}
	return out
}

// ToStateValue projects the configuration, starting at root, into the
// public StateValue algebra.
func ToStateValue(cfg Configuration, root *tree.Node) *primitives.StateValue {
	return nodeValue(cfg, root)
}

func nodeValue(cfg Configuration, n *tree.Node) *primitives.StateValue {
	switch n.Kind {
	case primitives.Atomic, primitives.Final:
		return primitives.Leaf(n.Key)
	case primitives.Compound:
		for _, child := range n.ChildInDocOrder() {
			if cfg.Active(child) {
				if child.Kind == primitives.Atomic || child.Kind == primitives.Final {
					return primitives.Leaf(child.Key)
				}
				return primitives.Branch(map[string]*primitives.StateValue{child.Key: nodeValue(cfg, child)})
			}
		}
		return nil
	case primitives.Parallel:
		children := make(map[string]*primitives.StateValue, len(n.Children))
		for _, child := range n.ChildInDocOrder() {
			if cfg.Active(child) {
				children[child.Key] = nodeValue(cfg, child)
			}
		}
		return primitives.Branch(children)
	default:
		return nil
	}
}
