package cognition

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Point is a position in field coordinates (metres, centre spot at origin).
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Dist returns the straight-line distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Scale returns p * k.
func (p Point) Scale(k float64) Point { return Point{X: p.X * k, Y: p.Y * k} }

// Norm returns the vector length of p.
func (p Point) Norm() float64 { return math.Hypot(p.X, p.Y) }

// BearingTo returns the global angle in degrees from p towards q.
func (p Point) BearingTo(q Point) float64 {
	return RadToDeg(math.Atan2(q.Y-p.Y, q.X-p.X))
}

// Lerp moves p towards q by fraction alpha.
func (p Point) Lerp(q Point, alpha float64) Point {
	return Point{
		X: p.X*(1-alpha) + q.X*alpha,
		Y: p.Y*(1-alpha) + q.Y*alpha,
	}
}

// Side is the half of the pitch a team defends.
type Side string

const (
	SideLeft  Side = "l"
	SideRight Side = "r"
)

// AttackDir is +1 when the team attacks towards +x, -1 otherwise.
func (s Side) AttackDir() float64 {
	if s == SideRight {
		return -1
	}
	return 1
}

// InOwnHalf reports whether x lies in the half this side defends.
func (s Side) InOwnHalf(x float64) bool {
	if s == SideRight {
		return x > 0
	}
	return x < 0
}

// Field half extents of the playable area, touch lines included.
const (
	FieldHalfLength = 57.5
	FieldHalfWidth  = 39.0
)

// Bounds is an axis-aligned rectangle centred on the origin.
type Bounds struct {
	HalfX float64
	HalfY float64
}

// FieldBounds returns the playable area expanded by the given margins.
func FieldBounds(marginX, marginY float64) Bounds {
	return Bounds{HalfX: FieldHalfLength + marginX, HalfY: FieldHalfWidth + marginY}
}

// Contains reports whether p lies inside b (edges inclusive).
func (b Bounds) Contains(p Point) bool {
	return p.X >= -b.HalfX && p.X <= b.HalfX && p.Y >= -b.HalfY && p.Y <= b.HalfY
}

// Clip clamps p into b.
func (b Bounds) Clip(p Point) Point {
	return Point{X: Clamp(p.X, -b.HalfX, b.HalfX), Y: Clamp(p.Y, -b.HalfY, b.HalfY)}
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 { return deg * math.Pi / 180 }

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 { return rad * 180 / math.Pi }

// NormalizeDeg maps an angle in degrees into (-180, 180].
func NormalizeDeg(a float64) float64 {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return a
	}
	a = math.Mod(a, 360)
	if a > 180 {
		a -= 360
	} else if a <= -180 {
		a += 360
	}
	return a
}

// AngleDiff returns the signed shortest rotation from `from` to `to`, in (-180, 180].
func AngleDiff(to, from float64) float64 {
	return NormalizeDeg(to - from)
}

// LerpDeg blends from towards to by alpha along the shorter arc.
// Blending 179 towards -179 passes through ±180, never through 0.
func LerpDeg(from, to, alpha float64) float64 {
	delta := AngleDiff(to, from)
	return NormalizeDeg(from + delta*alpha)
}

// CircularMeanDeg averages angles as unit vectors and returns the
// result in (-180, 180]. An empty input yields 0.
func CircularMeanDeg(angles []float64) float64 {
	if len(angles) == 0 {
		return 0
	}
	rad := make([]float64, len(angles))
	for i, a := range angles {
		rad[i] = DegToRad(a)
	}
	return NormalizeDeg(RadToDeg(stat.CircularMean(rad, nil)))
}
