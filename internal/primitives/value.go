// StateValue is the recursive value algebra described by the state value
// algebra component: either a leaf name or a mapping from child key to
// StateValue. A value is "full" when it identifies exactly one leaf per
// active branch; "partial" values omit descents and are completed against
// the state tree (see internal/core's ResolveValue).
package primitives

import "sort"

// StateValue is either a leaf (Children == nil) or a compound/parallel node
// (Children holds one entry per active child key).
type StateValue struct {
	Leaf     string
	Children map[string]*StateValue
}

// Leaf constructs a leaf StateValue.
func Leaf(name string) *StateValue {
	return &StateValue{Leaf: name}
}

// Branch constructs a compound/parallel StateValue from named children.
func Branch(children map[string]*StateValue) *StateValue {
	return &StateValue{Children: children}
}

// IsLeaf reports whether this value names a single atomic/final/history
// state rather than a set of active children.
func (v *StateValue) IsLeaf() bool {
	return v == nil || v.Children == nil
}

// Equal reports structural equality.
func Equal(a, b *StateValue) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.IsLeaf() != b.IsLeaf() {
		return false
	}
	if a.IsLeaf() {
		return a.Leaf == b.Leaf
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for k, av := range a.Children {
		bv, ok := b.Children[k]
		if !ok || !Equal(av, bv) {
			return false
		}
	}
	return true
}

// Matches reports whether ancestor is a prefix of value: every branch
// ancestor names is present in value and recursively matches.
func Matches(ancestor, value *StateValue) bool {
	if ancestor == nil {
		return true
	}
	if value == nil {
		return false
	}
	if ancestor.IsLeaf() {
		return value.IsLeaf() && ancestor.Leaf == value.Leaf
	}
	if value.IsLeaf() {
		return false
	}
	for k, av := range ancestor.Children {
		vv, ok := value.Children[k]
		if !ok || !Matches(av, vv) {
			return false
		}
	}
	return true
}

// ToPaths flattens a StateValue into the set of leaf paths it identifies,
// each expressed as an ordered slice of keys from the value's own root
// (excluding any machine-level root key, which callers prepend as needed).
func ToPaths(value *StateValue) [][]string {
	if value == nil {
		return nil
	}
	if value.IsLeaf() {
		return [][]string{{value.Leaf}}
	}
	keys := make([]string, 0, len(value.Children))
	for k := range value.Children {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var out [][]string
	for _, k := range keys {
		for _, sub := range ToPaths(value.Children[k]) {
			out = append(out, append([]string{k}, sub...))
		}
	}
	return out
}

// FromDottedPath builds the partial StateValue naming a single descent
// path, e.g. ["red", "walk"] -> {red: {walk: <leaf>}}. The final segment
// becomes a leaf; resolution against the tree fills in siblings and any
// further compound/parallel descent.
func FromDottedPath(segments []string) *StateValue {
	if len(segments) == 0 {
		return nil
	}
	if len(segments) == 1 {
		return Leaf(segments[0])
	}
	return Branch(map[string]*StateValue{segments[0]: FromDottedPath(segments[1:])})
}
