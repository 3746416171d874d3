package landmarks

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pitchside/internal/cognition"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	r := Default()
	assert.Equal(t, 55, r.Len())

	p, ok := r.Lookup("f t 0")
	require.True(t, ok)
	// Book y=39 is flipped into the field frame.
	assert.Equal(t, cognition.Point{X: 0, Y: -39}, p)

	g, ok := r.Lookup(GoalRight)
	require.True(t, ok)
	assert.Equal(t, 52.5, g.X)

	assert.False(t, r.Has("b"))
	names := r.Names()
	assert.True(t, len(names) > 0 && names[0] <= names[len(names)-1])
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("no flip", func(t *testing.T) {
		t.Parallel()
		r, err := Load(strings.NewReader("landmarks:\n  a: {x: 1, y: 2}\n"))
		require.NoError(t, err)
		p, ok := r.Lookup("a")
		require.True(t, ok)
		assert.Equal(t, cognition.Point{X: 1, Y: 2}, p)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		_, err := Load(strings.NewReader("flip_y: true\n"))
		assert.ErrorIs(t, err, ErrEmptyRegistry)
	})

	t.Run("unknown field", func(t *testing.T) {
		t.Parallel()
		_, err := Load(strings.NewReader("landmarkz: {}\n"))
		assert.Error(t, err)
	})
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pitch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("landmarks:\n  c: {x: 0, y: 0}\n"), 0o644))
	r, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}

func TestNewCopiesInput(t *testing.T) {
	t.Parallel()

	src := map[string]cognition.Point{"a": {X: 1}}
	r := New(src)
	src["a"] = cognition.Point{X: 99}
	p, _ := r.Lookup("a")
	assert.Equal(t, 1.0, p.X)
}

func TestGoalNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, GoalLeft, OwnGoal(cognition.SideLeft))
	assert.Equal(t, GoalRight, OpponentGoal(cognition.SideLeft))
	assert.Equal(t, GoalRight, OwnGoal(cognition.SideRight))
	assert.Equal(t, GoalLeft, OpponentGoal(cognition.SideRight))
}
