package l4automaton

import (
	"math"

	"github.com/banshee-data/pitchside/internal/cognition"
	"github.com/banshee-data/pitchside/internal/cognition/l1percepts"
	"github.com/banshee-data/pitchside/internal/cognition/l2pose"
	"github.com/banshee-data/pitchside/internal/cognition/l3team"
	"github.com/banshee-data/pitchside/internal/cognition/navigator"
)

// MissionContext is the per-tick input of the mission machines. Pose may
// be nil; Assignment is the team's current order for this agent.
type MissionContext struct {
	Scene      l1percepts.Scene
	Pose       *l2pose.Pose
	Assignment l3team.Assignment
}

func (c *MissionContext) ball() *l1percepts.FilteredObject { return c.Scene.Ball }

// Localized reports whether the pose is present and reliable.
func (c *MissionContext) Localized() bool { return c.Pose != nil && c.Pose.Reliable }

// BallGlobal projects the seen ball onto the field. It needs a reliable
// pose.
func (c *MissionContext) BallGlobal() (cognition.Point, bool) {
	if c.Scene.Ball == nil {
		return cognition.Point{}, false
	}
	return l2pose.GlobalPosition(c.Pose, *c.Scene.Ball)
}

func (c *MissionContext) ballWithin(d float64) bool {
	b := c.ball()
	return b != nil && b.Dist(math.Inf(1)) <= d
}

func (c *MissionContext) ballUnder(d float64) bool {
	b := c.ball()
	return b != nil && b.Dist(math.Inf(1)) < d
}

// Mission context type shorthand for the tables below.
type (
	missionEnv   = Env[*MissionContext]
	missionState = StateSpec[*MissionContext]
	missionEdge  = Transition[*MissionContext]
)

// Attacker states.
const (
	StateSearchBall = "search_ball"
	StateRunToBall  = "run_to_ball"
	StateAlignShot  = "align_shot"
	StateKickGoal   = "kick_goal"
	StateRecover    = "recover"
)

// goalShot is the attacker's shot: harder from range, straight ahead
// when the goal is not in view.
var goalShot = navigator.KickProfile{Power: 75, StrongPower: 100, BlindPower: 40}

// VarKicks counts shots taken by the attacker since the last reset.
const VarKicks = "kicks"

func resetT() []string { return []string{TimerT} }

func searchStep(e missionEnv) int { return int(math.Floor(e.T())) }

// AttackerSpec is the striker mission: find the ball, run onto it, line
// up with the opponent goal, shoot and recover.
func AttackerSpec(nav *navigator.Navigator) Spec[*MissionContext] {
	return Spec[*MissionContext]{
		Name:    "attacker",
		Initial: StateSearchBall,
		Vars:    map[string]any{VarKicks: 0},
		States: map[string]missionState{
			StateSearchBall: {
				Action: func(e missionEnv) cognition.Command { return nav.Search(searchStep(e)) },
				Transitions: []missionEdge{
					{To: StateRunToBall, Guard: func(e missionEnv) bool { return e.Ctx.ball() != nil }, Reset: resetT()},
				},
			},
			StateRunToBall: {
				Action: func(e missionEnv) cognition.Command {
					if e.Ctx.ball() == nil {
						return nav.Search(searchStep(e))
					}
					if r := nav.ApproachBall(e.Ctx.ball(), e.Ctx.Scene.Players()); !r.Command.IsZero() {
						return r.Command
					}
					return cognition.Turn(0)
				},
				Transitions: []missionEdge{
					{To: StateSearchBall, Guard: func(e missionEnv) bool { return e.Ctx.ball() == nil && e.T() > 8 }, Reset: resetT()},
					{To: StateAlignShot, Guard: func(e missionEnv) bool { return e.Ctx.ballWithin(0.8) }, Reset: resetT()},
				},
			},
			StateAlignShot: {
				Action: alignShot,
				Transitions: []missionEdge{
					{To: StateRunToBall, Guard: func(e missionEnv) bool { return !e.Ctx.ballWithin(1.0) }, Reset: resetT()},
					{To: StateKickGoal, Guard: func(e missionEnv) bool {
						g := e.Ctx.Scene.OpponentGoal
						return g != nil && g.Direction != nil && math.Abs(*g.Direction) <= 8
					}, Reset: resetT()},
					{To: StateRecover, Guard: func(e missionEnv) bool { return e.T() > 8 }, Reset: resetT()},
				},
			},
			StateKickGoal: {
				Action: func(e missionEnv) cognition.Command {
					e.Store.Vars[VarKicks] = e.Store.Int(VarKicks) + 1
					g := e.Ctx.Scene.OpponentGoal
					return nav.KickTo(g, g != nil && g.Dist(0) > 18, goalShot)
				},
				// Hold for the tick the kick is issued on; t was reset on entry.
				Transitions: []missionEdge{
					{To: StateRecover, Guard: func(e missionEnv) bool { return e.T() > 0 }, Reset: resetT()},
				},
			},
			StateRecover: {
				Action: func(missionEnv) cognition.Command { return cognition.Turn(30) },
				Transitions: []missionEdge{
					{To: StateSearchBall, Guard: func(e missionEnv) bool { return e.T() > 6 }, Reset: resetT()},
				},
			},
		},
	}
}

func alignShot(e missionEnv) cognition.Command {
	s := e.Ctx.Scene
	if !e.Ctx.ballWithin(1.0) {
		return cognition.Dash(30)
	}
	if opp := s.NearestOpponent; opp != nil && opp.Dist(math.Inf(1)) < 2.5 {
		avoid := 50.0
		if opp.Dir(0) >= 0 {
			avoid = -50
		}
		return cognition.Kick(35, avoid)
	}
	if s.OpponentGoal == nil || s.OpponentGoal.Direction == nil {
		return cognition.Kick(30, 35)
	}
	if dir := *s.OpponentGoal.Direction; math.Abs(dir) > 8 {
		return cognition.Turn(dir)
	}
	return cognition.Turn(0)
}

// Goalkeeper states.
const (
	StateReturnGoal   = "return_goal"
	StateTrackBall    = "track_ball"
	StateIntercept    = "intercept"
	StateAttemptCatch = "attempt_catch"
	StateClearBall    = "clear_ball"
)

// goalieHomeReach is how close to its post the keeper stops when
// returning on the pose alone.
const goalieHomeReach = 1.8

// GoalieSpec is the keeper mission: hold the goal, track an approaching
// ball, rush it, catch and clear.
func GoalieSpec(nav *navigator.Navigator) Spec[*MissionContext] {
	return Spec[*MissionContext]{
		Name:    "goalie",
		Initial: StateReturnGoal,
		States: map[string]missionState{
			StateReturnGoal: {
				Action: func(e missionEnv) cognition.Command {
					g := e.Ctx.Scene.OwnGoal
					if g == nil || g.Direction == nil {
						// Goal out of view: walk back to the post on the pose.
						if e.Ctx.Localized() {
							r := nav.NavigateToPoint(e.Ctx.Pose, e.Ctx.Assignment.Target, goalieHomeReach, e.Ctx.Scene.Players())
							if r.Done {
								return cognition.Turn(20)
							}
							return r.Command
						}
						return nav.Search(searchStep(e))
					}
					if math.Abs(*g.Direction) > 8 {
						return cognition.Turn(*g.Direction)
					}
					if g.Dist(0) > goalieHomeReach {
						return cognition.Dash(50)
					}
					return cognition.Turn(20)
				},
				Transitions: []missionEdge{
					{To: StateTrackBall, Guard: func(e missionEnv) bool { return e.Ctx.ballUnder(20) }, Reset: resetT()},
				},
			},
			StateTrackBall: {
				Action: func(e missionEnv) cognition.Command {
					return faceThenDash(e.Ctx.ball(), 8, 70, 30)
				},
				Transitions: []missionEdge{
					{To: StateReturnGoal, Guard: func(e missionEnv) bool { return e.Ctx.ball() == nil && e.T() > 5 }, Reset: resetT()},
					{To: StateIntercept, Guard: func(e missionEnv) bool { return e.Ctx.ballUnder(8) }, Reset: resetT()},
					{To: StateAttemptCatch, Guard: func(e missionEnv) bool { return e.Ctx.ballUnder(2) }, Reset: resetT()},
				},
			},
			StateIntercept: {
				Action: func(e missionEnv) cognition.Command {
					return faceThenDash(e.Ctx.ball(), 10, 90, 35)
				},
				Transitions: []missionEdge{
					{To: StateAttemptCatch, Guard: func(e missionEnv) bool { return e.Ctx.ballUnder(2) }, Reset: resetT()},
					{To: StateReturnGoal, Guard: func(e missionEnv) bool {
						b := e.Ctx.ball()
						return (b == nil || b.Dist(math.Inf(1)) > 12) && e.T() > 5
					}, Reset: resetT()},
				},
			},
			StateAttemptCatch: {
				Action: func(e missionEnv) cognition.Command {
					if b := e.Ctx.ball(); e.Ctx.ballUnder(2) && math.Abs(b.Dir(180)) < 35 {
						return cognition.Catch(*b.Direction)
					}
					return cognition.Turn(0)
				},
				Transitions: []missionEdge{
					{To: StateClearBall, Guard: func(e missionEnv) bool { return e.T() > 1 }, Reset: resetT()},
				},
			},
			StateClearBall: {
				Action: func(e missionEnv) cognition.Command {
					b := e.Ctx.ball()
					if e.Ctx.ballUnder(1.2) {
						if g := e.Ctx.Scene.OpponentGoal; g != nil && g.Direction != nil {
							return cognition.Kick(100, *g.Direction)
						}
						return cognition.Kick(85, 0)
					}
					if b != nil && math.Abs(b.Dir(0)) > 10 {
						return cognition.Turn(*b.Direction)
					}
					return cognition.Dash(60)
				},
				Transitions: []missionEdge{
					{To: StateReturnGoal, Guard: func(e missionEnv) bool { return e.T() > 3 }, Reset: resetT()},
				},
			},
		},
	}
}

// faceThenDash turns towards the ball when it is off by more than
// threshold, otherwise dashes; with no ball it turns lostTurn.
func faceThenDash(b *l1percepts.FilteredObject, threshold, power, lostTurn float64) cognition.Command {
	if b == nil {
		return cognition.Turn(lostTurn)
	}
	if dir := b.Dir(0); math.Abs(dir) > threshold {
		return cognition.Turn(dir)
	}
	return cognition.Dash(power)
}
