package l2pose

import (
	"math"

	"github.com/banshee-data/pitchside/internal/cognition"
	"github.com/banshee-data/pitchside/internal/cognition/l1percepts"
	"github.com/banshee-data/pitchside/internal/config"
	"github.com/banshee-data/pitchside/internal/monitoring"
)

var logf = monitoring.Component("pose")

// Pose is an agent's estimated position and heading.
type Pose struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Heading    float64 `json:"heading"`
	Error      float64 `json:"error"`
	References int     `json:"references"`
	Reliable   bool    `json:"reliable"`
	LostTicks  int     `json:"lost_ticks"`
}

// Point returns the pose position.
func (p Pose) Point() cognition.Point { return cognition.Point{X: p.X, Y: p.Y} }

// TrackerConfig holds pose lifecycle parameters.
type TrackerConfig struct {
	// LossTicks is the number of consecutive failed fixes after which the
	// pose is discarded.
	LossTicks int
}

// DefaultTrackerConfig returns the embedded default parameters.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfigFromTuning(config.Defaults())
}

// TrackerConfigFromTuning builds a TrackerConfig from a TuningConfig.
func TrackerConfigFromTuning(cfg *config.TuningConfig) TrackerConfig {
	return TrackerConfig{LossTicks: cfg.GetPoseLossTicks()}
}

// Tracker owns one agent's pose across ticks. It feeds only reliable
// poses back into the localizer and drops a pose that has been lost for
// too long, so stale coordinates are never presented as fresh.
type Tracker struct {
	cfg       TrackerConfig
	localizer *Localizer
	pose      *Pose
	missing   int
}

// NewTracker creates a tracker with no pose.
func NewTracker(cfg TrackerConfig, localizer *Localizer) *Tracker {
	if cfg.LossTicks < 1 {
		cfg.LossTicks = 1
	}
	return &Tracker{cfg: cfg, localizer: localizer}
}

// Update runs the localizer on this tick's observations and returns the
// resulting pose, which is nil once the pose has been discarded.
func (t *Tracker) Update(observations []l1percepts.FilteredObject) *Pose {
	var prev *Pose
	if t.pose != nil && t.pose.Reliable {
		prev = t.pose
	}

	est, ok := t.localizer.Estimate(observations, prev)
	if ok {
		t.missing = 0
		t.pose = &Pose{
			X:          est.X,
			Y:          est.Y,
			Heading:    est.Heading,
			Error:      est.Error,
			References: est.References,
			Reliable:   true,
		}
		return t.Pose()
	}

	t.missing++
	if t.pose != nil {
		lost := *t.pose
		lost.Reliable = false
		lost.LostTicks = t.missing
		t.pose = &lost
	}
	if t.missing >= t.cfg.LossTicks && t.pose != nil {
		logf("pose discarded after %d failed fixes", t.missing)
		t.pose = nil
	}
	return t.Pose()
}

// Pose returns a copy of the current pose or nil.
func (t *Tracker) Pose() *Pose {
	if t.pose == nil {
		return nil
	}
	p := *t.pose
	return &p
}

// Missing returns the number of consecutive failed fixes.
func (t *Tracker) Missing() int { return t.missing }

// Reset forgets the pose, e.g. after a kick-off move.
func (t *Tracker) Reset() {
	t.pose = nil
	t.missing = 0
}

// GlobalPosition projects an observation into field coordinates using
// pose. It returns false when pose is nil or unreliable, or when the
// observation lacks range or bearing.
func GlobalPosition(pose *Pose, o l1percepts.Observation) (cognition.Point, bool) {
	if pose == nil || !pose.Reliable || !o.HasRange() {
		return cognition.Point{}, false
	}
	angle := cognition.DegToRad(cognition.NormalizeDeg(pose.Heading + *o.Direction))
	return cognition.Point{
		X: pose.X + *o.Distance*math.Cos(angle),
		Y: pose.Y + *o.Distance*math.Sin(angle),
	}, true
}
