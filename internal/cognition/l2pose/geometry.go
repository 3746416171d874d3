package l2pose

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/pitchside/internal/cognition"
)

// Internal numerical tolerances. Not user-tunable.
const (
	// IntersectEpsilon widens the touching/containment tests for circles.
	IntersectEpsilon = 1e-6
	// TangencyTolerance is the most negative h² still treated as a tangent.
	TangencyTolerance = -1e-4
	// MinDeterminant rejects near-singular least-squares systems.
	MinDeterminant = 1e-6
)

// CircleIntersections returns the intersection points of two circles.
// It yields two points for a proper intersection, one for tangency and
// none when the circles are apart, nested, or concentric.
func CircleIntersections(c1 cognition.Point, r1 float64, c2 cognition.Point, r2 float64) []cognition.Point {
	dx := c2.X - c1.X
	dy := c2.Y - c1.Y
	d := math.Hypot(dx, dy)

	if d == 0 {
		return nil
	}
	if d > r1+r2+IntersectEpsilon {
		return nil
	}
	if d < math.Abs(r1-r2)-IntersectEpsilon {
		return nil
	}

	a := (r1*r1 - r2*r2 + d*d) / (2 * d)
	h2 := r1*r1 - a*a
	if h2 < TangencyTolerance {
		return nil
	}
	h := math.Sqrt(math.Max(0, h2))

	mid := cognition.Point{X: c1.X + a*dx/d, Y: c1.Y + a*dy/d}
	if h == 0 {
		return []cognition.Point{mid}
	}

	rx := -dy * h / d
	ry := dx * h / d
	return []cognition.Point{
		{X: mid.X + rx, Y: mid.Y + ry},
		{X: mid.X - rx, Y: mid.Y - ry},
	}
}

// LeastSquares solves for the point whose distances best match the
// reference ranges. The first reference is the baseline; every other
// reference contributes one linearised range-difference row. The 2×2
// normal equations are solved by Cramer's rule. ok is false with fewer
// than two references or a near-singular system.
func LeastSquares(refs []Reference) (p cognition.Point, ok bool) {
	if len(refs) < 2 {
		return cognition.Point{}, false
	}

	base := refs[0]
	var a11, a12, a22, b1, b2 float64
	for _, r := range refs[1:] {
		ax := 2 * (r.Landmark.X - base.Landmark.X)
		ay := 2 * (r.Landmark.Y - base.Landmark.Y)
		b := r.Landmark.X*r.Landmark.X - base.Landmark.X*base.Landmark.X +
			r.Landmark.Y*r.Landmark.Y - base.Landmark.Y*base.Landmark.Y +
			base.Range*base.Range - r.Range*r.Range

		a11 += ax * ax
		a12 += ax * ay
		a22 += ay * ay
		b1 += ax * b
		b2 += ay * b
	}

	normal := mat.NewSymDense(2, []float64{a11, a12, a12, a22})
	det := mat.Det(normal)
	if math.Abs(det) < MinDeterminant {
		return cognition.Point{}, false
	}

	return cognition.Point{
		X: (b1*a22 - b2*a12) / det,
		Y: (a11*b2 - a12*b1) / det,
	}, true
}
