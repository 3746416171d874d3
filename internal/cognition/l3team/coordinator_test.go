package l3team

import (
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pitchside/internal/cognition"
	"github.com/banshee-data/pitchside/internal/cognition/l2pose"
	"github.com/banshee-data/pitchside/internal/testutil"
)

func ptr(v float64) *float64 { return &v }

func pt(x, y float64) *cognition.Point { return &cognition.Point{X: x, Y: y} }

func seen(tick int, x, y, heading float64, ball *cognition.Point, dist float64) Report {
	pose := &l2pose.Pose{X: x, Y: y, Heading: heading, Reliable: true}
	return NewReport(tick, pose, ball, ptr(dist), "")
}

func blind(tick int, x, y float64) Report {
	return NewReport(tick, &l2pose.Pose{X: x, Y: y, Reliable: true}, nil, nil, "")
}

func newTestCoordinator(side cognition.Side) *Coordinator {
	return NewCoordinator(DefaultCoordinatorConfig(), DefaultRoster(5, side))
}

func TestClosestObserverWinsFusionAndAttack(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator(cognition.SideLeft)
	c.UpdateReport(2, seen(1, 5, 0, 0, pt(10.2, 0.1), 5))
	c.UpdateReport(3, seen(1, 7, 0, 0, pt(10, 0), 3))
	c.UpdateReport(4, seen(1, 4, 8, 0, pt(9.5, -0.4), 9))

	ball, ok := c.Ball()
	require.True(t, ok)
	if diff := cmp.Diff(BallEstimate{X: 10, Y: 0, Time: 1, SourceAgentID: 3}, ball); diff != "" {
		t.Errorf("fused ball mismatch (-want +got):\n%s", diff)
	}

	want := map[int]Assignment{
		3: {Task: TaskAttackBall, Target: cognition.Point{X: 10}, ReceiverID: 2},
		// Agent 4 crowds the top lane, so support drops to the bottom.
		2: {Task: TaskSupportAttack, Target: cognition.Point{X: 4, Y: -10}},
		4: {Task: TaskHoldZone, Target: cognition.Point{X: -18}},
	}
	if diff := cmp.Diff(want, c.Snapshot()); diff != "" {
		t.Errorf("assignments mismatch (-want +got):\n%s", diff)
	}
}

func TestFusionTieBreaks(t *testing.T) {
	t.Parallel()

	t.Run("fresher pose", func(t *testing.T) {
		t.Parallel()
		c := newTestCoordinator(cognition.SideLeft)
		stale := seen(5, 0, 0, 0, pt(1, 1), 4)
		stale.PoseAge = 2
		c.UpdateReport(2, stale)
		c.UpdateReport(3, seen(5, 0, 0, 0, pt(2, 2), 4))
		ball, _ := c.Ball()
		assert.Equal(t, 3, ball.SourceAgentID)
	})

	t.Run("later report", func(t *testing.T) {
		t.Parallel()
		c := newTestCoordinator(cognition.SideLeft)
		c.UpdateReport(3, seen(5, 0, 0, 0, pt(2, 2), 4))
		c.UpdateReport(2, seen(6, 0, 0, 0, pt(1, 1), 4))
		ball, _ := c.Ball()
		assert.Equal(t, 2, ball.SourceAgentID)
	})

	t.Run("lower id", func(t *testing.T) {
		t.Parallel()
		c := newTestCoordinator(cognition.SideLeft)
		c.UpdateReport(4, seen(5, 0, 0, 0, pt(2, 2), 4))
		c.UpdateReport(3, seen(5, 0, 0, 0, pt(1, 1), 4))
		ball, _ := c.Ball()
		assert.Equal(t, 3, ball.SourceAgentID)
	})
}

func TestFusionRejectsUntrustedSightings(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator(cognition.SideLeft)

	old := seen(1, 0, 0, 0, pt(3, 3), 1)
	old.PoseAge = 4
	c.UpdateReport(2, old)

	lost := seen(1, 0, 0, 0, pt(3, 3), 1)
	lost.PoseReliable = false
	c.UpdateReport(3, lost)

	noPose := Report{Time: 1, PoseReliable: true, BallGlobal: pt(3, 3), BallDistance: ptr(1)}
	c.UpdateReport(4, noPose)

	nan := seen(1, 0, 0, 0, pt(3, 3), math.NaN())
	c.UpdateReport(5, nan)

	_, ok := c.Ball()
	assert.False(t, ok)
}

func TestBallStaleness(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator(cognition.SideLeft)
	c.UpdateReport(5, seen(10, 0, 0, 0, pt(20, 5), 2))

	for tick := 11; tick <= 30; tick++ {
		c.UpdateReport(5, blind(tick, 0, 0))
		_, ok := c.Ball()
		require.True(t, ok, "tick %d", tick)
	}

	c.UpdateReport(5, blind(31, 0, 0))
	_, ok := c.Ball()
	assert.False(t, ok)
	assert.Equal(t, Assignment{Task: TaskSeekBall, Target: cognition.Point{}}, c.GetAssignment(5))
}

func TestDefaultsBeforeReports(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator(cognition.SideLeft)
	assert.Equal(t, Assignment{Task: TaskGuardGoal, Target: cognition.Point{X: -50}}, c.GetAssignment(1))
	assert.Equal(t, Assignment{Task: TaskHoldZone, Target: cognition.Point{X: -34, Y: 12}}, c.GetAssignment(3))
	assert.Equal(t, Assignment{Task: TaskHoldZone}, c.GetAssignment(99))
}

func TestNoBallAssignments(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		side cognition.Side
		mid  float64
	}{
		{cognition.SideLeft, -5},
		{cognition.SideRight, 5},
	} {
		c := newTestCoordinator(tc.side)
		for id := 1; id <= 5; id++ {
			c.UpdateReport(id, blind(1, 0, 0))
		}
		home := func(id int) cognition.Point {
			m, _ := c.Roster().Member(id)
			return m.Home
		}
		want := map[int]Assignment{
			1: {Task: TaskGuardGoal, Target: home(1)},
			2: {Task: TaskHoldZone, Target: home(2)},
			3: {Task: TaskHoldZone, Target: home(3)},
			4: {Task: TaskSeekBall, Target: cognition.Point{X: tc.mid}},
			5: {Task: TaskSeekBall, Target: cognition.Point{}},
		}
		if diff := cmp.Diff(want, c.Snapshot()); diff != "" {
			t.Errorf("side %s (-want +got):\n%s", tc.side, diff)
		}
	}
}

func TestGoalieIsPinned(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator(cognition.SideRight)
	c.UpdateReport(1, seen(1, 48, 0, 180, pt(47, 0), 1))

	assert.Equal(t, Assignment{Task: TaskGuardGoal, Target: cognition.Point{X: 50}}, c.GetAssignment(1))
	_, ok := c.Ball()
	assert.True(t, ok, "the keeper still feeds ball fusion")
}

func TestDefendLaneInOwnHalf(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator(cognition.SideLeft)
	c.UpdateReport(5, seen(1, -20, 0, 180, pt(-30, 20), 10))
	c.UpdateReport(4, seen(1, -10, 0, 180, nil, 0))
	c.UpdateReport(2, seen(1, -34, -12, 0, nil, 0))

	assert.Equal(t, TaskAttackBall, c.GetAssignment(5).Task)
	assert.Equal(t, TaskSupportAttack, c.GetAssignment(4).Task)

	got := c.GetAssignment(2)
	assert.Equal(t, TaskDefendLane, got.Task)
	testutil.AssertPointNear(t, "lane", got.Target, cognition.Point{X: -32, Y: 4}, testutil.Exact)
}

func TestUnreliablePlayerGetsNoBallDefault(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator(cognition.SideLeft)
	c.UpdateReport(4, seen(1, 0, 0, 0, pt(2, 0), 2))
	lost := NewReport(1, &l2pose.Pose{X: 1, Y: 0, Reliable: false, LostTicks: 2}, pt(2, 0), ptr(1), "")
	c.UpdateReport(5, lost)

	assert.Equal(t, TaskAttackBall, c.GetAssignment(4).Task)
	assert.Zero(t, c.GetAssignment(4).ReceiverID)
	assert.Equal(t, Assignment{Task: TaskSeekBall, Target: cognition.Point{}}, c.GetAssignment(5))
}

func TestInterceptCostPrefersFacingPlayer(t *testing.T) {
	t.Parallel()

	ball := cognition.Point{X: 10}
	testutil.AssertNear(t, "facing", InterceptCost(cognition.Point{}, 0, ball, 5), 10, testutil.Exact)
	testutil.AssertNear(t, "behind", InterceptCost(cognition.Point{}, 180, ball, 5), 15, testutil.Exact)

	c := newTestCoordinator(cognition.SideLeft)
	c.UpdateReport(4, seen(1, 0, 0, 180, pt(10, 0), 10))
	c.UpdateReport(5, seen(1, 0, 1, 0, pt(10, 0), 10.1))
	assert.Equal(t, TaskAttackBall, c.GetAssignment(5).Task)
	assert.Equal(t, 4, c.GetAssignment(5).ReceiverID)
}

func TestLaneCost(t *testing.T) {
	t.Parallel()

	target := cognition.Point{X: 0, Y: 10}
	testutil.AssertNear(t, "empty", LaneCost(target, nil, math.NaN()), 0, testutil.Exact)
	testutil.AssertNear(t, "on top", LaneCost(target, []cognition.Point{target}, math.NaN()), 12*0.35+9*0.65, testutil.Exact)
	testutil.AssertNear(t, "outside box", LaneCost(target, []cognition.Point{{X: 12, Y: 10}}, math.NaN()), 0, testutil.Exact)
	testutil.AssertNear(t, "attacker axis", LaneCost(target, nil, 7), 5*0.8, testutil.Exact)
}

func TestCoordinatorConcurrentAccess(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator(cognition.SideLeft)
	var wg sync.WaitGroup
	for id := 1; id <= 5; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for tick := 0; tick < 200; tick++ {
				c.UpdateReport(id, seen(tick, float64(-id*5), 0, 0, pt(0, 0), float64(id)))
				a := c.GetAssignment(id)
				assert.True(t, a.Task.Valid())
			}
		}(id)
	}
	wg.Wait()

	ball, ok := c.Ball()
	require.True(t, ok)
	assert.Equal(t, 1, ball.SourceAgentID)
}

func TestCoordinatorResetAndUpdateConfig(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator(cognition.SideLeft)
	c.UpdateConfig(func(cfg *CoordinatorConfig) { cfg.BallStalenessTicks = 0 })
	c.UpdateReport(5, seen(1, 0, 0, 0, pt(5, 0), 5))
	c.UpdateReport(5, blind(2, 0, 0))
	_, ok := c.Ball()
	assert.False(t, ok)

	c.UpdateReport(5, seen(3, 0, 0, 0, pt(5, 0), 5))
	c.Reset()
	_, ok = c.Ball()
	assert.False(t, ok)
	assert.Empty(t, c.Snapshot())
}
