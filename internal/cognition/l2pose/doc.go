// Package l2pose owns Layer 2 (Pose) of the decision pipeline.
//
// Responsibilities: self-localization from filtered landmark observations
// by pairwise circle intersection with a least-squares fallback, heading
// recovery by circular mean, temporal blending against the previous
// reliable pose, and the pose lifecycle (reliable → lost → discarded).
// Key types: Localizer, Estimate, Pose, Tracker.
//
// Dependency rule: L2 may depend on L1 and the landmark registry, never
// on L3+.
package l2pose
