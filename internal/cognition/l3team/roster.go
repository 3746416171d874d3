package l3team

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/banshee-data/pitchside/internal/cognition"
)

// Role is a player's position in the team layout.
type Role string

const (
	RoleGoalie        Role = "goalie"
	RoleDefenderLeft  Role = "defender_left"
	RoleDefenderRight Role = "defender_right"
	RoleMidfielder    Role = "midfielder"
	RoleForward       Role = "forward"
)

// SupportRole names the i-th extra player beyond the base five.
func SupportRole(i int) Role { return Role("support_" + strconv.Itoa(i)) }

// IsGoalie reports whether r is the keeper role.
func (r Role) IsGoalie() bool { return r == RoleGoalie }

var (
	// ErrDuplicatePlayer is returned when a roster lists an id twice.
	ErrDuplicatePlayer = errors.New("duplicate player id")
	// ErrInvalidRoster is returned for rosters that cannot be played.
	ErrInvalidRoster = errors.New("invalid roster")
)

// Member is one roster entry. Home is in global field coordinates for the
// roster's side.
type Member struct {
	ID   int             `yaml:"id"`
	Role Role            `yaml:"role"`
	Home cognition.Point `yaml:"home"`
}

// Roster is the team layout. Members are kept sorted by id.
type Roster struct {
	Side    cognition.Side
	Members []Member
}

type rosterFile struct {
	Side    cognition.Side `yaml:"side"`
	Players []Member       `yaml:"players"`
}

var baseLayout = []Member{
	{Role: RoleGoalie, Home: cognition.Point{X: -50, Y: 0}},
	{Role: RoleDefenderLeft, Home: cognition.Point{X: -34, Y: -12}},
	{Role: RoleDefenderRight, Home: cognition.Point{X: -34, Y: 12}},
	{Role: RoleMidfielder, Home: cognition.Point{X: -18, Y: 0}},
	{Role: RoleForward, Home: cognition.Point{X: -8, Y: 0}},
}

// DefaultRoster lays out n players (ids 1..n) for the given side. The
// first five take the base roles; extra players become support_i at
// (-22, ±(5+i)). Homes are written for the left side and mirrored in x
// for the right.
func DefaultRoster(n int, side cognition.Side) Roster {
	members := make([]Member, 0, n)
	for i := 1; i <= n; i++ {
		var m Member
		if i <= len(baseLayout) {
			m = baseLayout[i-1]
		} else {
			y := float64(5 + i)
			if i%2 == 0 {
				y = -y
			}
			m = Member{Role: SupportRole(i), Home: cognition.Point{X: -22, Y: y}}
		}
		m.ID = i
		members = append(members, m)
	}
	return newRoster(cognition.SideLeft, members).ForSide(side)
}

// LoadRoster parses a YAML roster. Homes in the file are for the declared
// side (default left).
func LoadRoster(r io.Reader) (Roster, error) {
	var f rosterFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return Roster{}, fmt.Errorf("decode roster: %w", err)
	}
	if f.Side == "" {
		f.Side = cognition.SideLeft
	}
	if f.Side != cognition.SideLeft && f.Side != cognition.SideRight {
		return Roster{}, fmt.Errorf("%w: unknown side %q", ErrInvalidRoster, f.Side)
	}
	if len(f.Players) == 0 {
		return Roster{}, fmt.Errorf("%w: no players", ErrInvalidRoster)
	}

	seen := make(map[int]bool, len(f.Players))
	goalies := 0
	for _, m := range f.Players {
		if m.ID <= 0 {
			return Roster{}, fmt.Errorf("%w: player id must be positive, got %d", ErrInvalidRoster, m.ID)
		}
		if seen[m.ID] {
			return Roster{}, fmt.Errorf("%w: %d", ErrDuplicatePlayer, m.ID)
		}
		if strings.TrimSpace(string(m.Role)) == "" {
			return Roster{}, fmt.Errorf("%w: player %d has no role", ErrInvalidRoster, m.ID)
		}
		seen[m.ID] = true
		if m.Role.IsGoalie() {
			goalies++
		}
	}
	if goalies > 1 {
		return Roster{}, fmt.Errorf("%w: %d goalies", ErrInvalidRoster, goalies)
	}
	return newRoster(f.Side, f.Players), nil
}

// LoadRosterFile reads a YAML roster from disk.
func LoadRosterFile(path string) (Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return Roster{}, fmt.Errorf("open roster %s: %w", path, err)
	}
	defer f.Close()
	return LoadRoster(f)
}

func newRoster(side cognition.Side, members []Member) Roster {
	cp := append([]Member(nil), members...)
	sort.Slice(cp, func(i, j int) bool { return cp[i].ID < cp[j].ID })
	return Roster{Side: side, Members: cp}
}

// ForSide returns the roster re-expressed for side, mirroring every home x
// when the side changes.
func (r Roster) ForSide(side cognition.Side) Roster {
	if side == r.Side {
		return newRoster(r.Side, r.Members)
	}
	out := make([]Member, len(r.Members))
	for i, m := range r.Members {
		m.Home.X = -m.Home.X
		out[i] = m
	}
	return newRoster(side, out)
}

// Member returns the entry for id.
func (r Roster) Member(id int) (Member, bool) {
	i := sort.Search(len(r.Members), func(i int) bool { return r.Members[i].ID >= id })
	if i < len(r.Members) && r.Members[i].ID == id {
		return r.Members[i], true
	}
	return Member{}, false
}

// IDs returns the player ids in ascending order.
func (r Roster) IDs() []int {
	ids := make([]int, len(r.Members))
	for i, m := range r.Members {
		ids[i] = m.ID
	}
	return ids
}
