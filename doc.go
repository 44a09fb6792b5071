// Package statecore is a pure, deterministic statechart engine: hierarchical
// and parallel states, history pseudo-states, guarded transitions, and
// run-to-completion microstep processing, built on a declarative
// configuration rather than a fluent runtime API for state mutation.
//
// A Machine is built once from a MachineConfig (hand-built via the
// MachineBuilder/StateBuilder fluent API, or loaded from YAML through
// internal/production) and is itself immutable. Every call to Transition
// takes a State and an Event and returns a new State; nothing is mutated in
// place, and the only side effects an embedding host ever sees are the
// ordered ActionDescriptor list returned alongside the new State - logging,
// sending, starting/stopping activities, and invoking services are the
// host's job, not the engine's.
package statecore
