package navigator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/banshee-data/pitchside/internal/cognition"
	"github.com/banshee-data/pitchside/internal/cognition/l1percepts"
	"github.com/banshee-data/pitchside/internal/cognition/l2pose"
)

func player(dist, dir float64) l1percepts.Observation {
	return l1percepts.Observation{Kind: l1percepts.KindPlayer, Name: "p", Distance: l1percepts.Float(dist), Direction: l1percepts.Float(dir)}
}

func ball(dist, dir float64) *l1percepts.Observation {
	return &l1percepts.Observation{Kind: l1percepts.KindBall, Name: l1percepts.BallName, Distance: l1percepts.Float(dist), Direction: l1percepts.Float(dir)}
}

func TestSearchPattern(t *testing.T) {
	t.Parallel()

	n := New(DefaultConfig())
	want := []cognition.Command{
		cognition.Turn(35), cognition.Turn(35), cognition.Turn(35), cognition.Turn(35),
		cognition.Dash(55), cognition.Turn(35), cognition.Turn(35), cognition.Turn(-120),
	}
	for step := 0; step < 16; step++ {
		assert.Equal(t, want[step%8], n.Search(step), "step %d", step)
	}
	assert.Equal(t, cognition.Dash(55), n.Search(-4))
}

func TestTurnToClamps(t *testing.T) {
	t.Parallel()

	n := New(DefaultConfig())
	assert.Equal(t, cognition.Turn(90), n.TurnTo(120))
	assert.Equal(t, cognition.Turn(-90), n.TurnTo(-179))
	assert.Equal(t, cognition.Turn(12), n.TurnTo(12))
}

func TestDashProfile(t *testing.T) {
	t.Parallel()

	n := New(DefaultConfig())
	cases := []struct {
		name      string
		dist      float64
		max       float64
		factor    float64
		wantPower float64
	}{
		{"far run saturates", 10, 100, 1, 100},
		{"short run keeps the floor", 2, 100, 1, 45},
		{"obstacle slows", 3, 100, 0.65, 35},
		{"factor is clamped", 0, 100, 0.1, 25},
		{"max power caps", 10, 60, 1, 60},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, cognition.Dash(tc.wantPower), n.DashTo(tc.dist, tc.max, tc.factor))
		})
	}
}

func TestAvoid(t *testing.T) {
	t.Parallel()

	n := New(DefaultConfig())

	clear := n.Avoid(10, []l1percepts.Observation{
		player(2.5, 10),
		player(1, 40),
		{Kind: l1percepts.KindBall, Name: "b", Distance: l1percepts.Float(0.5), Direction: l1percepts.Float(10)},
	})
	assert.Equal(t, Avoidance{Angle: 10, ObstacleFactor: 1}, clear)

	right := n.Avoid(0, []l1percepts.Observation{player(1.8, -12), player(1.0, 5)})
	assert.Equal(t, Avoidance{Angle: -35, ObstacleFactor: 0.65, Avoided: true}, right)

	left := n.Avoid(0, []l1percepts.Observation{player(1.5, -10)})
	assert.Equal(t, Avoidance{Angle: 35, ObstacleFactor: 0.8, Avoided: true}, left)
}

func TestNavigateToVisible(t *testing.T) {
	t.Parallel()

	n := New(DefaultConfig())

	assert.Equal(t, Result{}, n.NavigateToVisible(nil, 1, nil))
	assert.Equal(t, Result{}, n.NavigateToVisible(&l1percepts.Observation{Name: "b"}, 1, nil))
	assert.Equal(t, Result{Done: true}, n.ApproachBall(ball(0.5, 40), nil))
	assert.Equal(t, Result{Command: cognition.Turn(20)}, n.ApproachBall(ball(10, 20), nil))
	assert.Equal(t, Result{Command: cognition.Dash(100)}, n.ApproachBall(ball(10, 5), nil))
	assert.Equal(t, Result{Command: cognition.Dash(45)}, n.ApproachBall(ball(1.2, 30), nil), "close targets tolerate a wider angle")

	// A blocker straight ahead forces a side step even though the ball is
	// well aligned.
	got := n.ApproachBall(ball(1.9, 0), []l1percepts.Observation{player(1.0, 2)})
	assert.Equal(t, Result{Command: cognition.Turn(-35)}, got)
}

func TestNavigateToPoint(t *testing.T) {
	t.Parallel()

	n := New(DefaultConfig())
	target := cognition.Point{X: 10}

	assert.Equal(t, Result{}, n.NavigateToPoint(nil, target, 2, nil))
	assert.Equal(t, Result{}, n.NavigateToPoint(&l2pose.Pose{Heading: 0, Reliable: false}, target, 2, nil),
		"an unreliable pose must not steer")

	assert.Equal(t, Result{Done: true}, n.NavigateToPoint(&l2pose.Pose{X: 9, Reliable: true}, target, 2, nil))
	assert.Equal(t, Result{Command: cognition.Turn(-90)}, n.NavigateToPoint(&l2pose.Pose{Heading: 90, Reliable: true}, target, 2, nil))
	assert.Equal(t, Result{Command: cognition.Dash(100)}, n.NavigateToPoint(&l2pose.Pose{Heading: 3, Reliable: true}, target, 2, nil))
}

func TestKickTo(t *testing.T) {
	t.Parallel()

	n := New(DefaultConfig())
	goal := &l1percepts.Observation{Name: "g r", Distance: l1percepts.Float(20), Direction: l1percepts.Float(-12)}
	assert.Equal(t, cognition.Kick(100, -12), n.KickTo(goal, true, DefaultKickProfile))
	assert.Equal(t, cognition.Kick(70, -12), n.KickTo(goal, false, DefaultKickProfile))
	assert.Equal(t, cognition.Kick(30, 45), n.KickTo(nil, true, DefaultKickProfile))

	shot := KickProfile{Power: 75, StrongPower: 100, BlindPower: 40}
	assert.Equal(t, cognition.Kick(75, -12), n.KickTo(goal, false, shot))
	assert.Equal(t, cognition.Kick(40, 0), n.KickTo(&l1percepts.Observation{Name: "g r"}, true, shot))
}
