// Package primitives defines the foundational data structures for the
// statechart engine. TransitionConfig describes a single outgoing edge:
// event type, optional guard and "in-state" predicate, zero or more targets,
// an ordered action list, and the internal/external flag.
package primitives

import (
	"errors"
	"fmt"
	"strings"
)

// TransitionConfig defines a transition triggered by an event type.
//
// Target is a list because SCXML allows a transition with no target at all
// (an action-only, self-targeted transition) as well as one that enters
// multiple parallel regions at once; an empty Target paired with
// Internal==false still fires without changing configuration.
type TransitionConfig struct {
	Event string `json:"event" yaml:"event"`

	Guard *GuardDescriptor `json:"-" yaml:"-"`

	// In names a state (by id or relative path) that must be active for
	// this transition to be a candidate, independent of its Guard.
	In string `json:"in,omitempty" yaml:"in,omitempty"`

	// Target holds raw path strings as written in configuration; the tree
	// builder resolves each into a node reference.
	Target []string `json:"target,omitempty" yaml:"target,omitempty"`

	Actions []ActionDescriptor `json:"-" yaml:"-"`

	// Internal marks a transition whose firing does not exit/re-enter its
	// LCA boundary, independent of whether Target is empty.
	Internal bool `json:"internal,omitempty" yaml:"internal,omitempty"`

	// Delay is set only for entries reached through StateConfig.After: the
	// ms literal or named delay that schedules this transition's synthetic
	// event. Empty for ordinary On entries.
	Delay string `json:"delay,omitempty" yaml:"delay,omitempty"`
}

// IsActionOnly reports whether the transition declares no target at all.
func (t TransitionConfig) IsActionOnly() bool {
	return len(t.Target) == 0
}

// Validate performs shape-only validation; target resolution and
// cross-reference checks happen once the state tree exists.
func (t *TransitionConfig) Validate() error {
	for i, seg := range t.Target {
		if strings.TrimSpace(seg) == "" {
			return fmt.Errorf("%w: empty target segment at index %d", errors.New("invalid transition"), i)
		}
	}
	return nil
}
