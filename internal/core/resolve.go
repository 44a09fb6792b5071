package core

import (
	"fmt"

	"github.com/latticefsm/statecore/internal/primitives"
	"github.com/latticefsm/statecore/internal/tree"
)

// ResolveValue completes a possibly partial StateValue into the full set of
// leaf nodes it identifies: a compound node missing a branch descends to its
// declared initial child, and a parallel node missing one or more regions
// completes each missing region via its own default descent. A value naming
// an atomic/final state directly is returned unchanged.
func ResolveValue(t *tree.Tree, value *primitives.StateValue) ([]*tree.Node, error) {
	leaves, err := resolveNode(t.Root, value)
	if err != nil {
		return nil, primitives.WrapStateError(err, t.MachineID, t.Root.ID, primitives.NullEvent)
	}
	return leaves, nil
}

func resolveNode(n *tree.Node, value *primitives.StateValue) ([]*tree.Node, error) {
	switch n.Kind {
	case primitives.Atomic, primitives.Final:
		return []*tree.Node{n}, nil

	case primitives.Compound:
		childKey := n.InitialChildKey
		var subValue *primitives.StateValue
		if value != nil {
			if value.IsLeaf() {
				childKey = value.Leaf
			} else {
				for k, v := range value.Children {
					childKey, subValue = k, v
					break
				}
			}
		}
		child, ok := n.Children[childKey]
		if !ok {
			return nil, fmt.Errorf("%w: state %q has no child %q", primitives.ErrNoSuchState, n.ID, childKey)
		}
		return resolveNode(child, subValue)

	case primitives.Parallel:
		var leaves []*tree.Node
		for _, child := range n.ChildInDocOrder() {
			var sub *primitives.StateValue
			if value != nil && !value.IsLeaf() {
				sub = value.Children[child.Key]
			}
			childLeaves, err := resolveNode(child, sub)
			if err != nil {
				return nil, err
			}
			leaves = append(leaves, childLeaves...)
		}
		return leaves, nil

	default:
		return nil, fmt.Errorf("%w: cannot resolve directly to state %q of kind %q", primitives.ErrUnresolvableTarget, n.ID, n.Kind)
	}
}
