package l2pose

import (
	"math"
	"sort"

	"github.com/banshee-data/pitchside/internal/cognition"
	"github.com/banshee-data/pitchside/internal/cognition/l1percepts"
	"github.com/banshee-data/pitchside/internal/cognition/landmarks"
	"github.com/banshee-data/pitchside/internal/config"
)

// LocalizerConfig holds triangulation parameters.
type LocalizerConfig struct {
	MarginX float64 // Candidate sanity box margin beyond the touch lines (m)
	MarginY float64

	TrustError float64 // Residual at or below which the new fix is trusted highly
	TrustHigh  float64 // Blend weight of the new fix when residual ≤ TrustError
	TrustLow   float64 // Blend weight of the new fix otherwise
}

// DefaultLocalizerConfig returns the embedded default parameters.
func DefaultLocalizerConfig() LocalizerConfig {
	return LocalizerConfigFromTuning(config.Defaults())
}

// LocalizerConfigFromTuning builds a LocalizerConfig from a TuningConfig.
func LocalizerConfigFromTuning(cfg *config.TuningConfig) LocalizerConfig {
	return LocalizerConfig{
		MarginX:    cfg.GetFieldMarginX(),
		MarginY:    cfg.GetFieldMarginY(),
		TrustError: cfg.GetLocalizerTrustError(),
		TrustHigh:  cfg.GetLocalizerTrustHigh(),
		TrustLow:   cfg.GetLocalizerTrustLow(),
	}
}

// Reference pairs an observed range and bearing with a known landmark.
type Reference struct {
	Name     string
	Landmark cognition.Point
	Range    float64
	Bearing  float64
}

// Estimate is one localization result.
type Estimate struct {
	X          float64
	Y          float64
	Heading    float64 // Global body direction (deg)
	Error      float64 // Mean squared range residual (m²)
	References int
}

// Point returns the estimated position.
func (e Estimate) Point() cognition.Point { return cognition.Point{X: e.X, Y: e.Y} }

// Localizer turns landmark observations into a pose estimate. It holds no
// per-tick state and may be shared between agents.
type Localizer struct {
	cfg      LocalizerConfig
	registry landmarks.Registry
	bounds   cognition.Bounds
}

// NewLocalizer creates a localizer over a landmark registry.
func NewLocalizer(cfg LocalizerConfig, registry landmarks.Registry) *Localizer {
	return &Localizer{
		cfg:      cfg,
		registry: registry,
		bounds:   cognition.FieldBounds(cfg.MarginX, cfg.MarginY),
	}
}

// References keeps the observations that name a registered landmark and
// carry both range and bearing.
func (l *Localizer) References(observations []l1percepts.FilteredObject) []Reference {
	refs := make([]Reference, 0, len(observations))
	for _, o := range observations {
		if !o.HasRange() {
			continue
		}
		p, ok := l.registry.Lookup(o.Name)
		if !ok {
			continue
		}
		refs = append(refs, Reference{Name: o.Name, Landmark: p, Range: *o.Distance, Bearing: *o.Direction})
	}
	return refs
}

type scored struct {
	p   cognition.Point
	err float64
}

// Estimate localizes from filtered observations. prev, when non-nil, must
// be the previous reliable pose; the new fix is blended towards it. ok is
// false when fewer than two references exist or no candidate survives the
// field sanity box.
func (l *Localizer) Estimate(observations []l1percepts.FilteredObject, prev *Pose) (Estimate, bool) {
	refs := l.References(observations)
	if len(refs) < 2 {
		return Estimate{}, false
	}

	var candidates []cognition.Point
	for i := 0; i < len(refs); i++ {
		for j := i + 1; j < len(refs); j++ {
			for _, p := range CircleIntersections(refs[i].Landmark, refs[i].Range, refs[j].Landmark, refs[j].Range) {
				if l.bounds.Contains(p) {
					candidates = append(candidates, p)
				}
			}
		}
	}

	if len(candidates) == 0 {
		if p, ok := LeastSquares(refs); ok && l.bounds.Contains(p) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return Estimate{}, false
	}

	ranked := make([]scored, len(candidates))
	for i, c := range candidates {
		ranked[i] = scored{p: c, err: Residual(c, refs)}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].err != ranked[j].err {
			return ranked[i].err < ranked[j].err
		}
		if ranked[i].p.X != ranked[j].p.X {
			return ranked[i].p.X < ranked[j].p.X
		}
		return ranked[i].p.Y < ranked[j].p.Y
	})

	best := ranked[0]
	pos, residual := best.p, best.err
	heading := EstimateHeading(pos, refs)

	if prev != nil && prev.Reliable {
		alpha := l.cfg.TrustLow
		if residual <= l.cfg.TrustError {
			alpha = l.cfg.TrustHigh
		}
		pos = prev.Point().Lerp(pos, alpha)
		heading = cognition.LerpDeg(prev.Heading, heading, alpha)
		residual = Residual(pos, refs)
	}

	return Estimate{
		X:          pos.X,
		Y:          pos.Y,
		Heading:    heading,
		Error:      residual,
		References: len(refs),
	}, true
}

// Residual is the mean squared difference between predicted and observed
// ranges over all references.
func Residual(p cognition.Point, refs []Reference) float64 {
	if len(refs) == 0 {
		return math.Inf(1)
	}
	var sum float64
	for _, r := range refs {
		e := p.Dist(r.Landmark) - r.Range
		sum += e * e
	}
	return sum / float64(len(refs))
}

// EstimateHeading recovers the global body direction at p: each reference
// yields bearing-to-landmark minus observed relative bearing, and the
// samples are combined with a circular mean.
func EstimateHeading(p cognition.Point, refs []Reference) float64 {
	headings := make([]float64, 0, len(refs))
	for _, r := range refs {
		headings = append(headings, cognition.NormalizeDeg(p.BearingTo(r.Landmark)-r.Bearing))
	}
	return cognition.CircularMeanDeg(headings)
}
