// Package l5arbitration owns Layer 5 (Arbitration) of the decision
// pipeline.
//
// Responsibilities: an ordered chain of controllers that turns the team
// assignment and the current scene into one command. The default chain is
// Reflex (binding physical reactions), Tactical (task → locomotion, ball
// interception, man-marking, keeper positioning) and Strategic (shot,
// pass and dribble decisions).
// Key types: Chain, Controller, Decision, Features.
//
// Dependency rule: L5 may depend on L1-L3 and the navigator.
package l5arbitration
