// Package synth generates observations of a known world from a known
// pose. It backs localization tests and the synthetic scenario tool.
package synth

import (
	"math"
	"math/rand"
	"sort"

	"github.com/banshee-data/pitchside/internal/cognition"
	"github.com/banshee-data/pitchside/internal/cognition/l1percepts"
	"github.com/banshee-data/pitchside/internal/cognition/landmarks"
)

// Truth is the ground-truth placement of the observing agent.
type Truth struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"` // deg
}

// Point returns the true position.
func (t Truth) Point() cognition.Point { return cognition.Point{X: t.X, Y: t.Y} }

// Entity is a movable object placed in the world (ball or player).
type Entity struct {
	Kind   l1percepts.Kind
	Name   string
	Team   string
	Unum   int
	Goalie bool
	Pos    cognition.Point
	Vel    cognition.Point // metres per tick; drives the rate fields
}

// Sensor describes what the observer can see and how noisy it is.
type Sensor struct {
	// ViewAngle is the full horizontal field of view (deg); 0 or ≥360
	// means omnidirectional.
	ViewAngle float64
	// MaxRange hides objects farther than this (0 = unlimited).
	MaxRange float64
	// DistanceSigma is the relative Gaussian noise on range (0.05 = 5%).
	DistanceSigma float64
	// DirectionSigma is the absolute Gaussian noise on bearing (deg).
	DirectionSigma float64
	// Rand supplies noise; nil means noise-free.
	Rand *rand.Rand
}

// Perfect is a noise-free omnidirectional sensor.
var Perfect = Sensor{}

// Observe returns what an agent at truth perceives: every landmark of the
// registry and every entity inside the sensor cone. Output is sorted by
// name so results are deterministic.
func Observe(reg landmarks.Registry, truth Truth, entities []Entity, s Sensor) []l1percepts.Observation {
	var out []l1percepts.Observation
	for _, name := range reg.Names() {
		p, _ := reg.Lookup(name)
		kind := l1percepts.KindFlag
		if name == landmarks.GoalLeft || name == landmarks.GoalRight {
			kind = l1percepts.KindGoal
		}
		if o, ok := s.see(truth, p, cognition.Point{}, kind, name); ok {
			out = append(out, o)
		}
	}
	for _, e := range entities {
		o, ok := s.see(truth, e.Pos, e.Vel, e.Kind, e.Name)
		if !ok {
			continue
		}
		o.Team, o.Unum, o.Goalie = e.Team, e.Unum, e.Goalie
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s Sensor) see(truth Truth, p, vel cognition.Point, kind l1percepts.Kind, name string) (l1percepts.Observation, bool) {
	here := truth.Point()
	dist := here.Dist(p)
	dir := cognition.NormalizeDeg(here.BearingTo(p) - truth.Heading)
	if s.MaxRange > 0 && dist > s.MaxRange {
		return l1percepts.Observation{}, false
	}
	if s.ViewAngle > 0 && s.ViewAngle < 360 && math.Abs(dir) > s.ViewAngle/2 {
		return l1percepts.Observation{}, false
	}

	o := l1percepts.Observation{Kind: kind, Name: name}
	if vel != (cognition.Point{}) && dist > 0 {
		next := p.Add(vel)
		distRate := here.Dist(next) - dist
		dirRate := cognition.AngleDiff(here.BearingTo(next), here.BearingTo(p))
		o.DistanceRate = l1percepts.Float(distRate)
		o.DirectionRate = l1percepts.Float(dirRate)
	}
	if s.Rand != nil {
		dist *= 1 + s.Rand.NormFloat64()*s.DistanceSigma
		dist = math.Max(0, dist)
		dir = cognition.NormalizeDeg(dir + s.Rand.NormFloat64()*s.DirectionSigma)
	}
	o.Distance = l1percepts.Float(dist)
	o.Direction = l1percepts.Float(dir)
	return o, true
}
