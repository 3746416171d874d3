package l5arbitration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pitchside/internal/cognition"
	"github.com/banshee-data/pitchside/internal/cognition/l1percepts"
	"github.com/banshee-data/pitchside/internal/testutil"
)

func TestPredictionHorizon(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rate float64
		want float64
	}{
		{0, 1},
		{-1, 3},
		{-5, 6},
		{2, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PredictionHorizon(tt.rate, 6), "rate %v", tt.rate)
	}
}

func TestPredictBall(t *testing.T) {
	t.Parallel()

	still := ballAt(5, 10)
	assert.Equal(t, still, PredictBall(still, 6))

	b := ballAt(5, 0)
	b.DistanceRate = l1percepts.Float(-1)
	b.DirectionRate = l1percepts.Float(5)
	got := PredictBall(b, 6)
	testutil.AssertNear(t, "distance", *got.Distance, 2, testutil.Exact)
	testutil.AssertNear(t, "direction", *got.Direction, 15, testutil.Exact)
	assert.Equal(t, 5.0, *b.Distance, "input is not modified")

	// Range never goes negative.
	b = ballAt(1, 0)
	b.DistanceRate = l1percepts.Float(-2)
	b.DirectionRate = l1percepts.Float(0)
	assert.Zero(t, *PredictBall(b, 6).Distance)
}

func TestMostDangerous(t *testing.T) {
	t.Parallel()

	goal := cognition.Point{X: -52.5}
	opps := []cognition.Point{{X: -20}, {X: -40, Y: 10}, {X: 10}}
	got, ok := MostDangerous(opps, cognition.SideLeft, goal)
	require.True(t, ok)
	assert.Equal(t, cognition.Point{X: -40, Y: 10}, got)

	_, ok = MostDangerous([]cognition.Point{{X: 10}, {X: 0}}, cognition.SideLeft, goal)
	assert.False(t, ok)

	got, ok = MostDangerous(opps, cognition.SideRight, cognition.Point{X: 52.5})
	require.True(t, ok)
	assert.Equal(t, cognition.Point{X: 10}, got)
}

func TestMarkPoint(t *testing.T) {
	t.Parallel()

	goal := cognition.Point{X: -52.5}
	testutil.AssertPointNear(t, "goal side", MarkPoint(cognition.Point{X: -20}, goal, 2), cognition.Point{X: -22}, testutil.Tight)
	testutil.AssertPointNear(t, "capped at goal", MarkPoint(cognition.Point{X: -51.5}, goal, 2), goal, testutil.Tight)
	assert.Equal(t, goal, MarkPoint(goal, goal, 2))
}

func TestKeeperPoint(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	left := cognition.Point{X: -52.5}
	right := cognition.Point{X: 52.5}

	tests := []struct {
		name string
		goal cognition.Point
		ball cognition.Point
		side cognition.Side
		want cognition.Point
	}{
		{"near ball scales", left, cognition.Point{X: -32.5}, cognition.SideLeft, cognition.Point{X: -47.5}},
		{"radius capped", left, cognition.Point{X: 0}, cognition.SideLeft, cognition.Point{X: -46.5}},
		{"wide ball slides along the line", left, cognition.Point{X: -52.5, Y: 30}, cognition.SideLeft, cognition.Point{X: -52.5, Y: 6}},
		{"right side", right, cognition.Point{}, cognition.SideRight, cognition.Point{X: 46.5}},
		{"ball behind the line", left, cognition.Point{X: -60}, cognition.SideLeft, cognition.Point{X: -52.5}},
		{"ball on the goal", left, left, cognition.SideLeft, left},
	}
	for _, tt := range tests {
		got := KeeperPoint(tt.goal, tt.ball, tt.side, cfg)
		testutil.AssertPointNear(t, tt.name, got, tt.want, testutil.Tight)
	}
}
