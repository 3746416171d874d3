package l5arbitration

import (
	"math"

	"github.com/banshee-data/pitchside/internal/cognition"
	"github.com/banshee-data/pitchside/internal/cognition/l1percepts"
)

// Reflex derives the scene features and fires the keeper catch. A catch
// is returned without consulting later tiers.
type Reflex struct {
	cfg Config
}

// NewReflex creates the reflex tier.
func NewReflex(cfg Config) *Reflex { return &Reflex{cfg: cfg} }

// Process implements Controller.
func (r *Reflex) Process(d *Decision, next Next) cognition.Command {
	d.Features = ComputeFeatures(d.Scene, r.cfg)
	if d.IsGoalie() && d.Features.BallClose {
		if dir := d.Scene.Ball.Dir(math.Inf(1)); math.Abs(dir) < r.cfg.CatchBearing {
			return cognition.Catch(dir)
		}
	}
	return next(d)
}

// ComputeFeatures evaluates kick range, ball proximity and opponent
// pressure from the scene.
func ComputeFeatures(s l1percepts.Scene, cfg Config) Features {
	var f Features
	if b := s.Ball; b != nil {
		f.HasBall = true
		if b.Distance != nil {
			f.CanKick = *b.Distance <= cfg.KickRange
			f.BallClose = *b.Distance <= cfg.BallCloseRange
		}
	}
	if o := s.NearestOpponent; o != nil && o.Distance != nil {
		f.OpponentPressure = *o.Distance < cfg.PressureRange
	}
	return f
}
