package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRealClock_Now(t *testing.T) {
	clock := RealClock{}
	before := time.Now()
	now := clock.Now()
	after := time.Now()

	if now.Before(before) || now.After(after) {
		t.Errorf("Now() = %v, expected between %v and %v", now, before, after)
	}
}

func TestMockClock_SleepAdvances(t *testing.T) {
	start := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	clock := NewMockClock(start)

	clock.Sleep(50 * time.Millisecond)
	clock.Advance(25 * time.Millisecond)

	assert.Equal(t, start.Add(75*time.Millisecond), clock.Now())
	assert.Equal(t, []time.Duration{50 * time.Millisecond}, clock.Sleeps())
}

func TestMockClock_SleepsIsACopy(t *testing.T) {
	clock := NewMockClock(time.Time{})
	clock.Sleep(time.Second)

	got := clock.Sleeps()
	got[0] = 0
	assert.Equal(t, time.Second, clock.Sleeps()[0])
}

func TestPacer(t *testing.T) {
	t.Parallel()

	clock := NewMockClock(time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC))
	p := NewPacer(clock, 100*time.Millisecond)

	p.Wait()
	assert.Empty(t, clock.Sleeps(), "first wait does not sleep")

	clock.Advance(30 * time.Millisecond)
	p.Wait()
	clock.Advance(150 * time.Millisecond)
	p.Wait()
	clock.Advance(100 * time.Millisecond)
	p.Wait()

	assert.Equal(t, []time.Duration{70 * time.Millisecond}, clock.Sleeps())
}

func TestPacer_Disabled(t *testing.T) {
	t.Parallel()

	clock := NewMockClock(time.Time{})
	p := NewPacer(clock, 0)
	for i := 0; i < 3; i++ {
		p.Wait()
	}
	assert.Empty(t, clock.Sleeps())
	assert.NotNil(t, NewPacer(nil, time.Second).clock)
}
