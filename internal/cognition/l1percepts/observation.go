package l1percepts

// Kind classifies an observed object.
type Kind string

const (
	KindFlag    Kind = "flag"
	KindGoal    Kind = "goal"
	KindBall    Kind = "ball"
	KindPlayer  Kind = "player"
	KindLine    Kind = "line"
	KindUnknown Kind = "unknown"
)

// BallName is the name the protocol layer gives the ball.
const BallName = "b"

// Observation is one object seen during a tick. Range and bearing fields
// are nil when the sensor did not report them.
type Observation struct {
	Kind          Kind     `json:"kind"`
	Name          string   `json:"name"`
	Distance      *float64 `json:"distance,omitempty"`
	Direction     *float64 `json:"direction,omitempty"`
	DistanceRate  *float64 `json:"distance_rate,omitempty"`
	DirectionRate *float64 `json:"direction_rate,omitempty"`

	// Player identity, when the object is a player and the sensor was
	// close enough to read it.
	Team   string `json:"team,omitempty"`
	Unum   int    `json:"unum,omitempty"`
	Goalie bool   `json:"goalie,omitempty"`
}

// FilteredObject is an Observation whose range and bearing have been
// blended against history.
type FilteredObject = Observation

// Float returns a pointer to v, for building observations in literals.
func Float(v float64) *float64 { return &v }

// HasRange reports whether both distance and direction are present.
func (o Observation) HasRange() bool {
	return o.Distance != nil && o.Direction != nil
}

// Dist returns the distance or def when absent.
func (o Observation) Dist(def float64) float64 {
	if o.Distance == nil {
		return def
	}
	return *o.Distance
}

// Dir returns the direction or def when absent.
func (o Observation) Dir(def float64) float64 {
	if o.Direction == nil {
		return def
	}
	return *o.Direction
}

func clonePtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Clone returns a deep copy of o.
func (o Observation) Clone() Observation {
	o.Distance = clonePtr(o.Distance)
	o.Direction = clonePtr(o.Direction)
	o.DistanceRate = clonePtr(o.DistanceRate)
	o.DirectionRate = clonePtr(o.DirectionRate)
	return o
}
