// Package landmarks provides the immutable table of fixed field markers
// used as triangulation references.
package landmarks

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/banshee-data/pitchside/internal/cognition"
)

//go:embed landmarks.yaml
var defaultTable []byte

// ErrEmptyRegistry is returned when a table declares no landmarks.
var ErrEmptyRegistry = errors.New("landmark table is empty")

// Goal landmark names.
const (
	GoalLeft  = "g l"
	GoalRight = "g r"
)

// Registry is an immutable name → position table. The zero value is an
// empty registry.
type Registry struct {
	points map[string]cognition.Point
}

type tableFile struct {
	FlipY     bool                       `yaml:"flip_y"`
	Landmarks map[string]cognition.Point `yaml:"landmarks"`
}

// New builds a registry from a map. The map is copied.
func New(points map[string]cognition.Point) Registry {
	cp := make(map[string]cognition.Point, len(points))
	for k, v := range points {
		cp[k] = v
	}
	return Registry{points: cp}
}

// Default returns the standard pitch table compiled into the binary.
func Default() Registry {
	r, err := Load(bytes.NewReader(defaultTable))
	if err != nil {
		panic("embedded landmark table is invalid: " + err.Error())
	}
	return r
}

// Load decodes a YAML landmark table.
func Load(r io.Reader) (Registry, error) {
	var tf tableFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&tf); err != nil {
		return Registry{}, fmt.Errorf("failed to parse landmark table: %w", err)
	}
	if len(tf.Landmarks) == 0 {
		return Registry{}, ErrEmptyRegistry
	}
	points := make(map[string]cognition.Point, len(tf.Landmarks))
	for name, p := range tf.Landmarks {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return Registry{}, fmt.Errorf("landmark %q has a non-finite coordinate", name)
		}
		if tf.FlipY {
			p.Y = -p.Y
		}
		points[name] = p
	}
	return Registry{points: points}, nil
}

// LoadFile reads a YAML landmark table from disk.
func LoadFile(path string) (Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return Registry{}, fmt.Errorf("failed to open landmark table: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Lookup returns the position of a landmark.
func (r Registry) Lookup(name string) (cognition.Point, bool) {
	p, ok := r.points[name]
	return p, ok
}

// Has reports whether name is a known landmark.
func (r Registry) Has(name string) bool {
	_, ok := r.points[name]
	return ok
}

// Len returns the number of landmarks.
func (r Registry) Len() int { return len(r.points) }

// Names returns all landmark names in sorted order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r.points))
	for n := range r.points {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// OwnGoal returns the name of the goal a side defends.
func OwnGoal(side cognition.Side) string {
	if side == cognition.SideRight {
		return GoalRight
	}
	return GoalLeft
}

// OpponentGoal returns the name of the goal a side attacks.
func OpponentGoal(side cognition.Side) string {
	if side == cognition.SideRight {
		return GoalLeft
	}
	return GoalRight
}
