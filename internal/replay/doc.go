// Package replay drives a team of agents from a recorded or synthetic
// scenario and collects diagnostics.
//
// A scenario is a JSON-lines stream of Frames, one per agent per tick.
// The Runner feeds each frame to its agent, writes one Record per frame
// and optionally paces ticks against a timeutil.Clock. Diagnostics turns
// the recorded poses into a trajectory PNG (gonum/plot) and a residual
// chart (go-echarts).
package replay
