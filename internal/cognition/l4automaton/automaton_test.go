package l4automaton

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pitchside/internal/cognition"
)

type counter struct{ n int }

func TestNewValidates(t *testing.T) {
	t.Parallel()

	_, err := New(Spec[*counter]{Name: "empty"})
	assert.True(t, errors.Is(err, ErrInvalidSpec))

	_, err = New(Spec[*counter]{Initial: "missing", States: map[string]StateSpec[*counter]{"a": {}}})
	assert.True(t, errors.Is(err, ErrUnknownState))

	_, err = New(Spec[*counter]{Initial: "a", States: map[string]StateSpec[*counter]{
		"a": {Transitions: []Transition[*counter]{{To: "nowhere"}}},
	}})
	assert.True(t, errors.Is(err, ErrUnknownState))

	assert.Panics(t, func() { MustNew(Spec[*counter]{Initial: "x"}) })
}

func TestTickBoundsChainedTransitions(t *testing.T) {
	t.Parallel()

	spec := Spec[*counter]{
		Initial: "loop",
		States: map[string]StateSpec[*counter]{
			"loop": {
				Action: func(Env[*counter]) cognition.Command { return cognition.Turn(1) },
				Transitions: []Transition[*counter]{
					{To: "loop", Effect: func(e Env[*counter]) { e.Ctx.n++ }},
				},
			},
		},
	}
	a := MustNew(spec)
	c := &counter{}

	cmd := a.Tick(0, c)
	assert.Equal(t, cognition.Turn(1), cmd, "the action still runs after the hop limit")
	assert.Equal(t, MaxHops, a.LastHops())
	assert.Equal(t, MaxHops, c.n)

	a.Tick(1, c)
	assert.Equal(t, 2*MaxHops, c.n)
}

func TestTimersAdvance(t *testing.T) {
	t.Parallel()

	a := MustNew(Spec[*counter]{
		Initial: "a",
		States: map[string]StateSpec[*counter]{
			"a": {Transitions: []Transition[*counter]{{To: "b", Guard: func(Env[*counter]) bool { return false }, Reset: []string{"since_kick"}}}},
			"b": {},
		},
	})

	a.Tick(100, nil)
	assert.Zero(t, a.Timer(TimerT), "the first tick only sets the baseline")
	assert.Zero(t, a.Timer("since_kick"))

	a.Tick(103, nil)
	assert.Equal(t, 3.0, a.Timer(TimerT))
	assert.Equal(t, 3.0, a.Timer("since_kick"), "timers named in reset lists are registered")

	a.Tick(101, nil)
	assert.Equal(t, 3.0, a.Timer(TimerT), "time going backwards does not rewind")

	a.Tick(math.NaN(), nil)
	a.Tick(math.Inf(1), nil)
	assert.Equal(t, 3.0, a.Timer(TimerT))

	a.Tick(104, nil)
	assert.Equal(t, 6.0, a.Timer(TimerT))
}

func TestTransitionOrderResetsAndEffects(t *testing.T) {
	t.Parallel()

	var entered []string
	spec := Spec[*counter]{
		Initial: "idle",
		Vars:    map[string]any{"shots": 0},
		States: map[string]StateSpec[*counter]{
			"idle": {
				OnEnter: func(*Store) { entered = append(entered, "idle") },
				Transitions: []Transition[*counter]{
					{To: "second", Guard: func(e Env[*counter]) bool { return e.T() >= 2 }},
					{To: "first", Guard: func(e Env[*counter]) bool { return e.T() >= 2 }, Reset: []string{TimerT}},
				},
			},
			"first": {},
			"second": {
				OnEnter: func(s *Store) {
					entered = append(entered, "second")
					s.Local["seen"] = true
					s.Vars["shots"] = s.Int("shots") + 1
				},
				Action: func(e Env[*counter]) cognition.Command { return cognition.Dash(e.T()) },
			},
		},
	}
	a := MustNew(spec)
	a.Tick(0, nil)
	assert.Equal(t, "idle", a.Current())

	cmd := a.Tick(2, nil)
	assert.Equal(t, "second", a.Current(), "declaration order decides between enabled edges")
	assert.Equal(t, cognition.Dash(2), cmd)
	assert.Equal(t, 1, a.LastHops())
	assert.Equal(t, []string{"idle", "second"}, entered)
	shots, _ := a.Var("shots")
	assert.Equal(t, 1, shots)

	// ----------------------------------------------------------------
	// Reset restores variables, clears scratch and re-enters.
	// ----------------------------------------------------------------
	require.NoError(t, a.Reset(""))
	assert.Equal(t, "idle", a.Current())
	assert.Zero(t, a.Timer(TimerT))
	shots, _ = a.Var("shots")
	assert.Equal(t, 0, shots)
	assert.Equal(t, []string{"idle", "second", "idle"}, entered)

	a.Tick(50, nil)
	assert.Zero(t, a.Timer(TimerT), "reset clears the time baseline")

	require.NoError(t, a.Reset("second"))
	assert.Equal(t, "second", a.Current())

	err := a.Reset("nope")
	assert.True(t, errors.Is(err, ErrUnknownState))
	assert.Equal(t, "second", a.Current())
}

func TestStateWithoutActionReturnsNoCommand(t *testing.T) {
	t.Parallel()

	a := MustNew(Spec[*counter]{Initial: "a", States: map[string]StateSpec[*counter]{"a": {}}})
	assert.True(t, a.Tick(0, nil).IsZero())
	assert.Zero(t, a.LastHops())
}
