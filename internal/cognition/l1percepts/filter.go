package l1percepts

import (
	"github.com/banshee-data/pitchside/internal/cognition"
	"github.com/banshee-data/pitchside/internal/config"
)

// FilterConfig holds percept smoothing parameters.
type FilterConfig struct {
	// Alpha is the weight of the new reading in the exponential moving
	// average (0 < Alpha ≤ 1; 1 disables smoothing).
	Alpha float64
}

// DefaultFilterConfig returns the embedded default smoothing parameters.
func DefaultFilterConfig() FilterConfig {
	return FilterConfigFromTuning(config.Defaults())
}

// FilterConfigFromTuning builds a FilterConfig from a loaded TuningConfig.
func FilterConfigFromTuning(cfg *config.TuningConfig) FilterConfig {
	return FilterConfig{Alpha: cfg.GetPerceptAlpha()}
}

type history struct {
	distance  *float64
	direction *float64
}

// Filter smooths per-name range and bearing across ticks. It is owned by
// a single agent loop and is not safe for concurrent use.
type Filter struct {
	cfg   FilterConfig
	state map[string]history
}

// NewFilter creates an empty filter.
func NewFilter(cfg FilterConfig) *Filter {
	return &Filter{cfg: cfg, state: make(map[string]history)}
}

// Update blends each observation against the stored history for its name
// and returns the filtered set in input order. Distance uses a plain EMA;
// direction is blended along the shorter arc so that ±180 never wraps the
// long way round. Names seen for the first time pass through unchanged.
func (f *Filter) Update(observations []Observation) []FilteredObject {
	out := make([]FilteredObject, 0, len(observations))
	a := f.cfg.Alpha
	for _, obs := range observations {
		filtered := obs.Clone()
		if prev, ok := f.state[obs.Name]; ok {
			if filtered.Distance != nil && prev.distance != nil {
				d := *prev.distance*(1-a) + *filtered.Distance*a
				filtered.Distance = &d
			}
			if filtered.Direction != nil && prev.direction != nil {
				dir := cognition.LerpDeg(*prev.direction, *filtered.Direction, a)
				filtered.Direction = &dir
			}
		}
		f.state[obs.Name] = history{
			distance:  clonePtr(filtered.Distance),
			direction: clonePtr(filtered.Direction),
		}
		out = append(out, filtered)
	}
	return out
}

// Len returns the number of names with stored history.
func (f *Filter) Len() int { return len(f.state) }
