package l3team

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pitchside/internal/cognition"
)

func TestDefaultRoster(t *testing.T) {
	t.Parallel()

	r := DefaultRoster(7, cognition.SideLeft)
	want := []Member{
		{ID: 1, Role: RoleGoalie, Home: cognition.Point{X: -50}},
		{ID: 2, Role: RoleDefenderLeft, Home: cognition.Point{X: -34, Y: -12}},
		{ID: 3, Role: RoleDefenderRight, Home: cognition.Point{X: -34, Y: 12}},
		{ID: 4, Role: RoleMidfielder, Home: cognition.Point{X: -18}},
		{ID: 5, Role: RoleForward, Home: cognition.Point{X: -8}},
		{ID: 6, Role: "support_6", Home: cognition.Point{X: -22, Y: -11}},
		{ID: 7, Role: "support_7", Home: cognition.Point{X: -22, Y: 12}},
	}
	if diff := cmp.Diff(want, r.Members); diff != "" {
		t.Errorf("roster mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, r.IDs())
}

func TestRosterMirrorsForRightSide(t *testing.T) {
	t.Parallel()

	r := DefaultRoster(3, cognition.SideRight)
	assert.Equal(t, cognition.SideRight, r.Side)
	m, ok := r.Member(2)
	require.True(t, ok)
	assert.Equal(t, cognition.Point{X: 34, Y: -12}, m.Home)

	back := r.ForSide(cognition.SideLeft)
	m, _ = back.Member(2)
	assert.Equal(t, cognition.Point{X: -34, Y: -12}, m.Home)

	_, ok = r.Member(42)
	assert.False(t, ok)
}

func TestLoadRoster(t *testing.T) {
	t.Parallel()

	doc := `
side: r
players:
  - id: 2
    role: forward
    home: {x: 8, y: 0}
  - id: 1
    role: goalie
    home: {x: 50, y: 0}
`
	r, err := LoadRoster(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, cognition.SideRight, r.Side)
	assert.Equal(t, []int{1, 2}, r.IDs())
	m, _ := r.Member(1)
	assert.True(t, m.Role.IsGoalie())
}

func TestLoadRosterErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"empty":         "side: l\nplayers: []\n",
		"bad side":      "side: x\nplayers:\n  - {id: 1, role: goalie}\n",
		"duplicate":     "players:\n  - {id: 1, role: goalie}\n  - {id: 1, role: forward}\n",
		"two goalies":   "players:\n  - {id: 1, role: goalie}\n  - {id: 2, role: goalie}\n",
		"missing role":  "players:\n  - {id: 1}\n",
		"zero id":       "players:\n  - {id: 0, role: forward}\n",
		"unknown field": "players:\n  - {id: 1, role: goalie, speed: 3}\n",
	}
	for name, doc := range cases {
		doc := doc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadRoster(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}

	_, err := LoadRoster(strings.NewReader("players:\n  - {id: 1, role: goalie}\n  - {id: 1, role: forward}\n"))
	assert.True(t, errors.Is(err, ErrDuplicatePlayer))
}

func TestLoadRosterFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "team.yaml")
	require.NoError(t, os.WriteFile(path, []byte("players:\n  - {id: 9, role: forward, home: {x: -8, y: 0}}\n"), 0o644))
	r, err := LoadRosterFile(path)
	require.NoError(t, err)
	assert.Equal(t, cognition.SideLeft, r.Side)

	_, err = LoadRosterFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
