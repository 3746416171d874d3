// Package testutil provides shared test utilities and fixtures.
//
// This package centralises the numeric assertions used by the cognition
// layers so that tolerances are expressed the same way everywhere.
package testutil

import (
	"math"
	"testing"

	"github.com/banshee-data/pitchside/internal/cognition"
)

// Tolerances shared across layer tests.
const (
	Exact  = 1e-9
	Tight  = 1e-6
	Metric = 1e-3
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertNear checks |got-want| ≤ tol.
func AssertNear(t *testing.T, label string, got, want, tol float64) {
	t.Helper()
	if math.IsNaN(got) || math.Abs(got-want) > tol {
		t.Errorf("%s = %.9g, want %.9g (±%g)", label, got, want, tol)
	}
}

// AssertPointNear checks that got lies within tol metres of want.
func AssertPointNear(t *testing.T, label string, got, want cognition.Point, tol float64) {
	t.Helper()
	if d := got.Dist(want); math.IsNaN(d) || d > tol {
		t.Errorf("%s = (%.6f, %.6f), want (%.6f, %.6f) (±%g)", label, got.X, got.Y, want.X, want.Y, tol)
	}
}

// AssertAngleNear compares two angles in degrees along the shortest arc,
// so 179 and -179 are 2 degrees apart.
func AssertAngleNear(t *testing.T, label string, got, want, tol float64) {
	t.Helper()
	if d := math.Abs(cognition.AngleDiff(got, want)); math.IsNaN(d) || d > tol {
		t.Errorf("%s = %.6f°, want %.6f° (±%g)", label, got, want, tol)
	}
}
