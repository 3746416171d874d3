// Package navigator provides the locomotion primitives shared by the
// behaviour layers: scan patterns, turning, dash power profiles and
// short-range obstacle avoidance.
//
// Navigation towards a global point requires a reliable pose. When the
// pose is nil or unreliable the navigator returns no command and the
// caller must fall back to Search.
package navigator

import (
	"math"

	"github.com/banshee-data/pitchside/internal/cognition"
	"github.com/banshee-data/pitchside/internal/cognition/l1percepts"
	"github.com/banshee-data/pitchside/internal/cognition/l2pose"
)

// Config holds navigation thresholds.
type Config struct {
	AngleThreshold      float64 // Max heading error before turning instead of dashing (deg)
	CloseAngleThreshold float64 // Looser threshold when the target is under CloseRange
	CloseRange          float64
	AvoidAngleThreshold float64 // Minimum threshold while avoiding an obstacle (deg)
	ReachDistance       float64 // Default arrival radius (m)
	BallKickDistance    float64 // Arrival radius for the ball (m)

	ObstacleRange float64 // Players closer than this may block (m)
	ObstacleCone  float64 // Half-angle of the blocking cone around the heading (deg)
	SideBias      float64 // Heading offset used to step around a blocker (deg)
	NearObstacle  float64 // Below this range the stronger slow-down applies (m)
	NearFactor    float64
	FarFactor     float64

	MinDashPower float64
	MaxDashPower float64
}

// DefaultConfig returns the standard navigation thresholds.
func DefaultConfig() Config {
	return Config{
		AngleThreshold:      8,
		CloseAngleThreshold: 35,
		CloseRange:          1.5,
		AvoidAngleThreshold: 12,
		ReachDistance:       2.5,
		BallKickDistance:    0.7,
		ObstacleRange:       2.0,
		ObstacleCone:        18,
		SideBias:            35,
		NearObstacle:        1.2,
		NearFactor:          0.65,
		FarFactor:           0.8,
		MinDashPower:        20,
		MaxDashPower:        cognition.MaxDashPower,
	}
}

// Result is the outcome of one navigation step. Done means the target is
// within reach; a zero Command with Done unset means navigation was not
// possible (no pose, target not visible).
type Result struct {
	Done    bool
	Command cognition.Command
}

// Avoidance is the corrected heading after obstacle avoidance.
type Avoidance struct {
	Angle          float64
	ObstacleFactor float64
	Avoided        bool
}

// Navigator is stateless apart from its configuration.
type Navigator struct {
	cfg Config
}

// New creates a navigator.
func New(cfg Config) *Navigator {
	return &Navigator{cfg: cfg}
}

// Config returns the navigator thresholds.
func (n *Navigator) Config() Config { return n.cfg }

// Search returns the scan command for a step of the 8-phase pattern:
// six 35° turns, one dash and one large turn back.
func (n *Navigator) Search(step int) cognition.Command {
	switch mod(step, 8) {
	case 4:
		return cognition.Dash(55)
	case 7:
		return cognition.Turn(-120)
	default:
		return cognition.Turn(35)
	}
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// TurnTo turns towards a relative angle, at most 90° per tick.
func (n *Navigator) TurnTo(angle float64) cognition.Command {
	return cognition.Turn(cognition.Clamp(angle, -90, 90))
}

// DashTo returns a dash whose power grows with distance. Short runs keep a
// floor of 45 so the player does not stall, and obstacleFactor in
// [0.55, 1] softens the dash when the path is crowded.
func (n *Navigator) DashTo(distance, maxPower, obstacleFactor float64) cognition.Command {
	power := 25 + distance*14
	if distance < 5 {
		power = math.Max(45, power*0.8)
	}
	power *= cognition.Clamp(obstacleFactor, 0.55, 1)
	return cognition.Dash(math.Round(cognition.Clamp(power, n.cfg.MinDashPower, maxPower)))
}

// Avoid bends targetAngle away from the nearest player standing within
// ObstacleRange and ObstacleCone of it.
func (n *Navigator) Avoid(targetAngle float64, obstacles []l1percepts.Observation) Avoidance {
	found := false
	var blockerDist, blockerRel float64
	for _, o := range obstacles {
		if o.Kind != l1percepts.KindPlayer || !o.HasRange() {
			continue
		}
		if *o.Distance > n.cfg.ObstacleRange {
			continue
		}
		rel := cognition.AngleDiff(*o.Direction, targetAngle)
		if math.Abs(rel) > n.cfg.ObstacleCone {
			continue
		}
		if !found || *o.Distance < blockerDist {
			found = true
			blockerDist, blockerRel = *o.Distance, rel
		}
	}
	if !found {
		return Avoidance{Angle: targetAngle, ObstacleFactor: 1}
	}

	bias := -n.cfg.SideBias
	if blockerRel < 0 {
		bias = n.cfg.SideBias
	}
	factor := n.cfg.FarFactor
	if blockerDist < n.cfg.NearObstacle {
		factor = n.cfg.NearFactor
	}
	return Avoidance{Angle: cognition.NormalizeDeg(targetAngle + bias), ObstacleFactor: factor, Avoided: true}
}

// NavigateToVisible steers to an observed object: turn until roughly
// facing it, then dash. target may be nil.
func (n *Navigator) NavigateToVisible(target *l1percepts.Observation, reach float64, obstacles []l1percepts.Observation) Result {
	if target == nil || !target.HasRange() {
		return Result{}
	}
	dist := *target.Distance
	if dist <= reach {
		return Result{Done: true}
	}

	av := n.Avoid(*target.Direction, obstacles)
	threshold := n.cfg.AngleThreshold
	if dist < n.cfg.CloseRange {
		threshold = n.cfg.CloseAngleThreshold
	}
	if av.Avoided {
		threshold = math.Max(threshold, n.cfg.AvoidAngleThreshold)
	}
	if math.Abs(av.Angle) > threshold {
		return Result{Command: n.TurnTo(av.Angle)}
	}
	return Result{Command: n.DashTo(dist, n.cfg.MaxDashPower, av.ObstacleFactor)}
}

// NavigateToPoint steers to a global field point using the pose. It
// returns an empty Result when pose is nil or unreliable.
func (n *Navigator) NavigateToPoint(pose *l2pose.Pose, point cognition.Point, reach float64, obstacles []l1percepts.Observation) Result {
	if pose == nil || !pose.Reliable {
		return Result{}
	}
	here := pose.Point()
	dist := here.Dist(point)
	if dist <= reach {
		return Result{Done: true}
	}

	delta := cognition.AngleDiff(here.BearingTo(point), pose.Heading)
	av := n.Avoid(delta, obstacles)
	if math.Abs(av.Angle) > n.cfg.AngleThreshold {
		return Result{Command: n.TurnTo(av.Angle)}
	}
	return Result{Command: n.DashTo(dist, n.cfg.MaxDashPower, av.ObstacleFactor)}
}

// ApproachBall runs to the ball until it is within kicking distance.
func (n *Navigator) ApproachBall(ball *l1percepts.Observation, obstacles []l1percepts.Observation) Result {
	return n.NavigateToVisible(ball, n.cfg.BallKickDistance, obstacles)
}

// KickProfile sets the kick powers used by KickTo.
type KickProfile struct {
	Power          float64 // Normal kick at a visible target
	StrongPower    float64
	BlindPower     float64 // Kick issued when the target is not in view
	BlindDirection float64
}

// DefaultKickProfile is the plain kick-to-goal profile.
var DefaultKickProfile = KickProfile{Power: 70, StrongPower: 100, BlindPower: 30, BlindDirection: 45}

// KickTo kicks towards a visible goal, or a blind kick when the goal is
// not in view.
func (n *Navigator) KickTo(goal *l1percepts.Observation, strong bool, p KickProfile) cognition.Command {
	if goal != nil && goal.Direction != nil {
		power := p.Power
		if strong {
			power = p.StrongPower
		}
		return cognition.Kick(power, *goal.Direction)
	}
	return cognition.Kick(p.BlindPower, p.BlindDirection)
}
