package l5arbitration

import (
	"math"

	"github.com/banshee-data/pitchside/internal/cognition"
	"github.com/banshee-data/pitchside/internal/cognition/l1percepts"
)

// PredictionHorizon returns how many ticks ahead to extrapolate a ball
// whose range changes by distRate per tick: one tick plus two per metre
// of closing speed, capped at max.
func PredictionHorizon(distRate, max float64) float64 {
	closing := math.Max(0, -distRate)
	return math.Min(max, 1+2*closing)
}

// PredictBall extrapolates the ball's range and bearing linearly along
// their rates. Without both rates the observation is returned unchanged.
func PredictBall(ball l1percepts.Observation, maxHorizon float64) l1percepts.Observation {
	if !ball.HasRange() || ball.DistanceRate == nil || ball.DirectionRate == nil {
		return ball
	}
	h := PredictionHorizon(*ball.DistanceRate, maxHorizon)
	out := ball.Clone()
	out.Distance = l1percepts.Float(math.Max(0, *ball.Distance+*ball.DistanceRate*h))
	out.Direction = l1percepts.Float(cognition.NormalizeDeg(*ball.Direction + *ball.DirectionRate*h))
	return out
}

// MostDangerous picks the opponent inside our half closest to our goal.
func MostDangerous(opponents []cognition.Point, side cognition.Side, ownGoal cognition.Point) (cognition.Point, bool) {
	var best cognition.Point
	found := false
	for _, p := range opponents {
		if !side.InOwnHalf(p.X) {
			continue
		}
		if !found || p.Dist(ownGoal) < best.Dist(ownGoal) {
			best, found = p, true
		}
	}
	return best, found
}

// MarkPoint is the goal-side point offset metres from the opponent along
// the opponent → goal segment. It never passes the goal itself.
func MarkPoint(opponent, ownGoal cognition.Point, offset float64) cognition.Point {
	v := ownGoal.Sub(opponent)
	l := v.Norm()
	if l == 0 {
		return opponent
	}
	return opponent.Add(v.Scale(math.Min(offset, l) / l))
}

// KeeperPoint places the keeper on the goal → ball segment, advanced by a
// fraction of the ball distance (at most KeeperRadiusMax) and clipped to
// the box in front of the goal line.
func KeeperPoint(ownGoal, ball cognition.Point, side cognition.Side, cfg Config) cognition.Point {
	v := ball.Sub(ownGoal)
	l := v.Norm()
	p := ownGoal
	if l > 0 {
		r := math.Min(cfg.KeeperRadiusMax, cfg.KeeperRadiusFrac*l)
		p = ownGoal.Add(v.Scale(r / l))
	}
	front := ownGoal.X + side.AttackDir()*cfg.KeeperBoxDepth
	lo, hi := math.Min(ownGoal.X, front), math.Max(ownGoal.X, front)
	return cognition.Point{
		X: cognition.Clamp(p.X, lo, hi),
		Y: cognition.Clamp(p.Y, ownGoal.Y-cfg.KeeperBoxHalfWidth, ownGoal.Y+cfg.KeeperBoxHalfWidth),
	}
}
