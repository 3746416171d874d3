// Package l3team owns Layer 3 (Team) of the decision pipeline.
//
// Responsibilities: fusion of per-agent ball sightings into one team ball
// estimate, interception-cost ranking of field players, and per-agent
// role assignment (attacker, support, defender, seeker, keeper).
// Key types: Coordinator, Report, Assignment, BallEstimate, Roster.
//
// Dependency rule: L3 may depend on L1-L2, never on L4+.
// The Coordinator is the only type in the pipeline shared between agents;
// every method is safe for concurrent use.
package l3team
