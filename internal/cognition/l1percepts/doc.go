// Package l1percepts owns Layer 1 (Percepts) of the decision pipeline.
//
// Responsibilities: the per-tick Observation model, temporal smoothing of
// range and bearing (Filter), and read-only Scene views that pick out the
// ball, goals and nearest players from the filtered set.
//
// Dependency rule: L1 depends only on the shared cognition package.
package l1percepts
