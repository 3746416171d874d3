// Package cognition holds the types shared by every layer of the agent
// decision pipeline.
//
// Layer model (each layer may depend on lower layers, never higher):
//
//	L1 l1percepts    : percept smoothing, scene views
//	L2 l2pose        : landmark triangulation, pose lifecycle
//	L3 l3team        : team-wide ball fusion and role assignment
//	L4 l4automaton   : timed state-machine interpreter and mission tables
//	L5 l5arbitration : reflex/tactical/strategic controller chain
//
// The navigator package is a capability consumed by L4 and L5. The agent
// package owns one agent's state and wires the layers together per tick.
// Nothing in this tree reads or writes wire bytes.
package cognition
