// Package agent runs one player's sense → decide loop.
//
// Responsibilities: own the per-agent pipeline state (percept filter, pose
// tracker, behaviour automaton or arbitration chain, runtime counters),
// report each tick's sighting to the team coordinator and turn the chosen
// behaviour into one command plus auxiliary say commands.
//
// Dependency rule: the agent sits above every layer and may import all of
// them. Nothing in cognition imports the agent.
package agent
