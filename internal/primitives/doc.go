// Package primitives defines the foundational data structures for the statechart
// engine: events, the extended context, and the tagged descriptors used to
// describe guards, actions, and transitions in a machine configuration.
//
// Configuration-facing types (StateConfig, MachineConfig, TransitionConfig) use
// gopkg.in/yaml.v3 struct tags and github.com/wk8/go-ordered-map/v2 for their
// child/event maps so that document order survives a round trip through YAML
// or a hand-built struct literal; everything else in this package is
// stdlib-only.
package primitives
