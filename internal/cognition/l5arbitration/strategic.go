package l5arbitration

import (
	"math"

	"github.com/banshee-data/pitchside/internal/cognition"
	"github.com/banshee-data/pitchside/internal/cognition/l1percepts"
	"github.com/banshee-data/pitchside/internal/cognition/l3team"
)

// GoSignal is broadcast to teammates when a pass is played.
const GoSignal = "go"

// Strategic overrides the tentative command with scoring and passing
// decisions once the ball is kickable.
type Strategic struct {
	cfg Config
}

// NewStrategic creates the strategic tier.
func NewStrategic(cfg Config) *Strategic { return &Strategic{cfg: cfg} }

// Process implements Controller.
func (s *Strategic) Process(d *Decision, next Next) cognition.Command {
	if cmd := s.Decide(d); !cmd.IsZero() {
		return cmd
	}
	return next(d)
}

// Decide returns the strategic command or the zero command to defer.
func (s *Strategic) Decide(d *Decision) cognition.Command {
	ball := d.Scene.Ball
	if !d.Features.CanKick {
		if d.Assignment.Task == l3team.TaskAttackBall && ball != nil && ball.Direction != nil &&
			math.Abs(*ball.Direction) > s.cfg.AttackerTurnBearing {
			return cognition.Turn(*ball.Direction)
		}
		return cognition.Command{}
	}

	goalDir, goalDist, goalKnown := d.GoalBearing()
	if d.IsGoalie() {
		if goalKnown {
			return cognition.Kick(95, goalDir)
		}
		return cognition.Kick(80, 0)
	}

	mate, hasMate := s.ChoosePassTarget(d)
	if d.Features.OpponentPressure && hasMate {
		d.Say = GoSignal
		return cognition.Kick(45, *mate.Direction)
	}

	if goalKnown {
		if goalDist > s.cfg.DribbleGoalRange && !d.Features.OpponentPressure && s.CorridorFree(d.Scene, goalDir) {
			return cognition.Kick(25, goalDir)
		}
		power := 80.0
		if goalDist > s.cfg.ShotPowerRange {
			power = 100
		}
		return cognition.Kick(power, s.ShotAngle(d.Scene, goalDir))
	}

	if hasMate {
		d.Say = GoSignal
		return cognition.Kick(35, *mate.Direction)
	}

	side := -35.0
	if d.AgentID%2 == 0 {
		side = 35
	}
	return cognition.Kick(25, side)
}

// Threat scores how strongly opponents cover a kick direction: each
// opponent within ThreatRange and ThreatAngle of it contributes its
// proximity times its angular closeness, both in [0, 1].
func (s *Strategic) Threat(scene l1percepts.Scene, angle float64) float64 {
	var threat float64
	for _, o := range scene.Opponents() {
		dist := *o.Distance
		off := math.Abs(cognition.AngleDiff(*o.Direction, angle))
		if dist > s.cfg.ThreatRange || off > s.cfg.ThreatAngle {
			continue
		}
		threat += (1 - dist/s.cfg.ThreatRange) * (1 - off/s.cfg.ThreatAngle)
	}
	return threat
}

// ShotAngle aims at the goal centre when nothing covers it, otherwise at
// whichever of goal ± ShotAngleOffset is less threatened (the upper one
// on a tie).
func (s *Strategic) ShotAngle(scene l1percepts.Scene, goalDir float64) float64 {
	if s.Threat(scene, goalDir) == 0 {
		return goalDir
	}
	up := cognition.NormalizeDeg(goalDir + s.cfg.ShotAngleOffset)
	down := cognition.NormalizeDeg(goalDir - s.cfg.ShotAngleOffset)
	if s.Threat(scene, up) <= s.Threat(scene, down) {
		return up
	}
	return down
}

// PassCone is the half-angle around a pass of length dist inside which a
// nearer opponent blocks it.
func (s *Strategic) PassCone(dist float64) float64 {
	return cognition.Clamp(s.cfg.PassConeMax-s.cfg.PassConeSlope*dist, s.cfg.PassConeMin, s.cfg.PassConeMax)
}

// LaneBlocked reports whether an opponent nearer than mate sits inside
// the pass cone.
func (s *Strategic) LaneBlocked(scene l1percepts.Scene, mate l1percepts.FilteredObject) bool {
	cone := s.PassCone(*mate.Distance)
	for _, o := range scene.Opponents() {
		if *o.Distance >= *mate.Distance {
			continue
		}
		if math.Abs(cognition.AngleDiff(*o.Direction, *mate.Direction)) < cone {
			return true
		}
	}
	return false
}

// ChoosePassTarget returns the designated receiver when it is open and in
// front, otherwise the nearest open teammate in front.
func (s *Strategic) ChoosePassTarget(d *Decision) (l1percepts.FilteredObject, bool) {
	var preferred, fallback *l1percepts.FilteredObject
	mates := d.Scene.Mates()
	for i := range mates {
		m := &mates[i]
		if math.Abs(*m.Direction) > s.cfg.PassMaxBearing || s.LaneBlocked(d.Scene, *m) {
			continue
		}
		if fallback == nil || *m.Distance < *fallback.Distance {
			fallback = m
		}
		if d.Assignment.ReceiverID != 0 && m.Unum == d.Assignment.ReceiverID &&
			(preferred == nil || *m.Distance < *preferred.Distance) {
			preferred = m
		}
	}
	switch {
	case preferred != nil:
		return *preferred, true
	case fallback != nil:
		return *fallback, true
	}
	return l1percepts.FilteredObject{}, false
}

// CorridorFree reports whether no opponent stands within the dribble
// corridor around dir.
func (s *Strategic) CorridorFree(scene l1percepts.Scene, dir float64) bool {
	for _, o := range scene.Opponents() {
		if *o.Distance <= s.cfg.DribbleCorridorRange &&
			math.Abs(cognition.AngleDiff(*o.Direction, dir)) <= s.cfg.DribbleCorridorAngle {
			return false
		}
	}
	return true
}
