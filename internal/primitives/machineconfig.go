// Package primitives defines the foundational data structures for the
// statechart engine. MachineConfig is the top-level declarative
// configuration: a machine id, the root state node (itself a StateConfig,
// almost always Compound or Parallel), and machine-wide options.
package primitives

import (
	"errors"
	"fmt"
	"strings"
)

// MachineConfig defines the complete statechart configuration.
type MachineConfig struct {
	ID string `json:"id" yaml:"id"`

	// Delimiter separates path segments in target strings and in
	// ToStrings output. Defaults to "." when empty.
	Delimiter string `json:"delimiter,omitempty" yaml:"delimiter,omitempty"`

	// Strict enforces that every incoming event type appears somewhere in
	// the machine's alphabet (see Alphabet in the tree package).
	Strict bool `json:"strict,omitempty" yaml:"strict,omitempty"`

	Root *StateConfig `json:"root" yaml:"root"`
}

// EffectiveDelimiter returns Delimiter, defaulting to ".".
func (m *MachineConfig) EffectiveDelimiter() string {
	if m.Delimiter == "" {
		return "."
	}
	return m.Delimiter
}

// Validate performs shape-only validation of the machine and its state
// tree. It does not resolve transition targets or check for duplicate ids
// across the tree; that happens in the tree builder, which has the full
// picture needed to report InvalidConfiguration precisely.
func (m *MachineConfig) Validate() error {
	if m.ID == "" {
		return errors.New("machine id is required")
	}
	if m.Root == nil {
		return errors.New("root state is required")
	}
	if err := m.Root.Validate(); err != nil {
		return fmt.Errorf("root state validation failed: %w", err)
	}
	return nil
}

// FindByPath resolves a dot-delimited (or custom-delimiter) path of child
// keys starting at the root, e.g. "parent.child.grandchild".
func (m *MachineConfig) FindByPath(path string) (*StateConfig, error) {
	if path == "" {
		return m.Root, nil
	}
	segments := strings.Split(path, m.EffectiveDelimiter())
	current := m.Root
	for _, seg := range segments {
		if current.States == nil {
			return nil, fmt.Errorf("state %q not found: %q has no children", seg, current.Key)
		}
		child, ok := current.States.Get(seg)
		if !ok {
			return nil, fmt.Errorf("state %q not found", seg)
		}
		current = child
	}
	return current, nil
}
