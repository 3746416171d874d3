package l2pose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pitchside/internal/cognition"
	"github.com/banshee-data/pitchside/internal/cognition/l1percepts"
	"github.com/banshee-data/pitchside/internal/cognition/landmarks"
	"github.com/banshee-data/pitchside/internal/cognition/synth"
	"github.com/banshee-data/pitchside/internal/config"
	"github.com/banshee-data/pitchside/internal/testutil"
)

func TestTrackerLifecycle(t *testing.T) {
	t.Parallel()

	reg := landmarks.Default()
	tr := NewTracker(TrackerConfig{LossTicks: 3}, NewLocalizer(DefaultLocalizerConfig(), reg))
	assert.Nil(t, tr.Pose())

	// ----------------------------------------------------------------
	// First fix: reliable, no blending.
	// ----------------------------------------------------------------
	truth := synth.Truth{X: -20, Y: 10, Heading: 45}
	pose := tr.Update(synth.Observe(reg, truth, nil, synth.Perfect))
	require.NotNil(t, pose)
	assert.True(t, pose.Reliable)
	assert.Equal(t, 0, pose.LostTicks)
	testutil.AssertPointNear(t, "first fix", pose.Point(), truth.Point(), testutil.Tight)

	// ----------------------------------------------------------------
	// Failures keep the last position but mark it unreliable.
	// ----------------------------------------------------------------
	for i := 1; i < 3; i++ {
		pose = tr.Update(nil)
		require.NotNil(t, pose, "tick %d", i)
		assert.False(t, pose.Reliable)
		assert.Equal(t, i, pose.LostTicks)
		assert.Equal(t, i, tr.Missing())
		testutil.AssertPointNear(t, "held", pose.Point(), truth.Point(), testutil.Tight)
	}

	// ----------------------------------------------------------------
	// The threshold discards the pose entirely.
	// ----------------------------------------------------------------
	assert.Nil(t, tr.Update(nil))
	assert.Nil(t, tr.Pose())

	// ----------------------------------------------------------------
	// Recovery after loss is a fresh fix with no blending.
	// ----------------------------------------------------------------
	moved := synth.Truth{X: 30, Y: -5, Heading: -90}
	pose = tr.Update(synth.Observe(reg, moved, nil, synth.Perfect))
	require.NotNil(t, pose)
	assert.True(t, pose.Reliable)
	assert.Equal(t, 0, tr.Missing())
	testutil.AssertPointNear(t, "recovered", pose.Point(), moved.Point(), testutil.Tight)
}

func TestTrackerIgnoresLostPoseWhenBlending(t *testing.T) {
	t.Parallel()

	reg := landmarks.Default()
	tr := NewTracker(TrackerConfig{LossTicks: 5}, NewLocalizer(DefaultLocalizerConfig(), reg))

	tr.Update(synth.Observe(reg, synth.Truth{X: 0, Y: 0}, nil, synth.Perfect))
	tr.Update(nil)

	far := synth.Truth{X: 20, Y: 10}
	pose := tr.Update(synth.Observe(reg, far, nil, synth.Perfect))
	require.NotNil(t, pose)
	testutil.AssertPointNear(t, "fresh", pose.Point(), far.Point(), testutil.Tight)
}

func TestTrackerBlendsConsecutiveFixes(t *testing.T) {
	t.Parallel()

	reg := landmarks.Default()
	tr := NewTracker(DefaultTrackerConfig(), NewLocalizer(DefaultLocalizerConfig(), reg))

	tr.Update(synth.Observe(reg, synth.Truth{}, nil, synth.Perfect))
	pose := tr.Update(synth.Observe(reg, synth.Truth{X: 10}, nil, synth.Perfect))
	require.NotNil(t, pose)
	testutil.AssertPointNear(t, "blended", pose.Point(), cognition.Point{X: 8}, testutil.Tight)
}

func TestTrackerPoseIsACopy(t *testing.T) {
	t.Parallel()

	reg := landmarks.Default()
	tr := NewTracker(DefaultTrackerConfig(), NewLocalizer(DefaultLocalizerConfig(), reg))
	p := tr.Update(synth.Observe(reg, synth.Truth{X: 5}, nil, synth.Perfect))
	require.NotNil(t, p)
	p.X = 999

	assert.NotEqual(t, 999.0, tr.Pose().X)

	tr.Reset()
	assert.Nil(t, tr.Pose())
	assert.Equal(t, 0, tr.Missing())
}

func TestTrackerConfigFromTuning(t *testing.T) {
	t.Parallel()

	n := 2
	cfg := TrackerConfigFromTuning(&config.TuningConfig{PoseLossTicks: &n})
	assert.Equal(t, 2, cfg.LossTicks)
	assert.Equal(t, 8, DefaultTrackerConfig().LossTicks)

	tr := NewTracker(TrackerConfig{}, NewLocalizer(DefaultLocalizerConfig(), landmarks.Default()))
	tr.Update(synth.Observe(landmarks.Default(), synth.Truth{}, nil, synth.Perfect))
	assert.Nil(t, tr.Update(nil), "loss threshold is at least one tick")
}

func TestGlobalPosition(t *testing.T) {
	t.Parallel()

	ball := l1percepts.Observation{Kind: l1percepts.KindBall, Name: l1percepts.BallName, Distance: l1percepts.Float(2), Direction: l1percepts.Float(-90)}

	p, ok := GlobalPosition(&Pose{X: 1, Y: 2, Heading: 180, Reliable: true}, ball)
	require.True(t, ok)
	testutil.AssertPointNear(t, "ball", p, cognition.Point{X: 1, Y: 4}, testutil.Exact)

	_, ok = GlobalPosition(nil, ball)
	assert.False(t, ok)

	_, ok = GlobalPosition(&Pose{Reliable: false}, ball)
	assert.False(t, ok)

	_, ok = GlobalPosition(&Pose{Reliable: true}, l1percepts.Observation{Name: "b", Direction: l1percepts.Float(0)})
	assert.False(t, ok)
}
