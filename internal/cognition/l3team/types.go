package l3team

import (
	"math"

	"github.com/banshee-data/pitchside/internal/cognition"
	"github.com/banshee-data/pitchside/internal/cognition/l2pose"
)

// TaskKind is the closed set of tasks the coordinator hands out.
type TaskKind string

const (
	TaskAttackBall    TaskKind = "attack_ball"
	TaskSupportAttack TaskKind = "support_attack"
	TaskDefendLane    TaskKind = "defend_lane"
	TaskSeekBall      TaskKind = "seek_ball"
	TaskGuardGoal     TaskKind = "guard_goal"
	TaskHoldZone      TaskKind = "hold_zone"
)

// Valid reports whether k is one of the declared tasks.
func (k TaskKind) Valid() bool {
	switch k {
	case TaskAttackBall, TaskSupportAttack, TaskDefendLane, TaskSeekBall, TaskGuardGoal, TaskHoldZone:
		return true
	}
	return false
}

// Assignment is one agent's task for the current tick. ReceiverID is the
// preferred pass receiver for the attacker, 0 when there is none.
type Assignment struct {
	Task       TaskKind        `json:"task"`
	Target     cognition.Point `json:"target"`
	ReceiverID int             `json:"receiver_id,omitempty"`
}

// Report is what one agent tells the coordinator after sensing.
type Report struct {
	Time         int
	Pose         *l2pose.Pose
	PoseReliable bool
	// PoseAge counts ticks since the last successful fix. It is ignored
	// when Pose is nil, which counts as infinitely old.
	PoseAge      int
	BallGlobal   *cognition.Point
	BallDistance *float64
	Role         Role
}

// NewReport builds a report from an agent's pose and its local ball
// sighting. ball is the projected global position; distance is the raw
// observed range, either may be nil.
func NewReport(tick int, pose *l2pose.Pose, ball *cognition.Point, distance *float64, role Role) Report {
	r := Report{Time: tick, Pose: pose, BallDistance: distance, Role: role}
	if pose != nil {
		r.PoseReliable = pose.Reliable
		r.PoseAge = pose.LostTicks
	}
	if r.PoseReliable {
		r.BallGlobal = ball
	}
	return r
}

func (r Report) age() float64 {
	if r.Pose == nil {
		return math.Inf(1)
	}
	return float64(r.PoseAge)
}

func (r Report) hasBallSighting() bool {
	return r.BallGlobal != nil && r.BallDistance != nil && !math.IsNaN(*r.BallDistance) && !math.IsInf(*r.BallDistance, 0)
}

// BallEstimate is the team's fused ball position.
type BallEstimate struct {
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Time          int     `json:"time"`
	SourceAgentID int     `json:"source_agent_id"`
}

// Point returns the estimate position.
func (b BallEstimate) Point() cognition.Point { return cognition.Point{X: b.X, Y: b.Y} }
