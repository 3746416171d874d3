// Package l4automaton owns Layer 4 (Mission) of the decision pipeline.
//
// Responsibilities: a generic timed-automaton interpreter driven by a
// declarative state table, and the attacker and goalkeeper mission tables
// built on it.
// Key types: Automaton, Spec, StateSpec, Transition, Env.
//
// Dependency rule: L4 may depend on L1-L3 and the navigator, never on L5.
package l4automaton
