package replay

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/banshee-data/pitchside/internal/cognition/l1percepts"
	"github.com/banshee-data/pitchside/internal/cognition/synth"
)

// ErrBadFrame is wrapped by scenario decoding failures.
var ErrBadFrame = errors.New("bad scenario frame")

// EventKind names an out-of-band scenario event.
type EventKind string

const (
	EventGoal EventKind = "goal"
	EventHear EventKind = "hear"
)

// Event is delivered to the frame's agent before it senses.
type Event struct {
	Kind    EventKind `json:"kind"`
	Sender  string    `json:"sender,omitempty"`
	Message string    `json:"message,omitempty"`
}

// Frame is one agent's input for one tick. Truth, when present, is the
// agent's real placement and enables localization error diagnostics.
type Frame struct {
	Tick         int                      `json:"tick"`
	Agent        int                      `json:"agent"`
	Observations []l1percepts.Observation `json:"observations"`
	Events       []Event                  `json:"events,omitempty"`
	Truth        *synth.Truth             `json:"truth,omitempty"`
}

// Validate checks the fields a runner relies on.
func (f Frame) Validate() error {
	if f.Agent <= 0 {
		return fmt.Errorf("%w: agent id %d", ErrBadFrame, f.Agent)
	}
	if f.Tick < 0 {
		return fmt.Errorf("%w: negative tick %d", ErrBadFrame, f.Tick)
	}
	for _, e := range f.Events {
		if e.Kind != EventGoal && e.Kind != EventHear {
			return fmt.Errorf("%w: unknown event %q", ErrBadFrame, e.Kind)
		}
	}
	return nil
}

// Decoder reads frames from a JSON-lines stream. Blank lines are skipped.
type Decoder struct {
	sc   *bufio.Scanner
	line int
}

// NewDecoder creates a decoder over r.
func NewDecoder(r io.Reader) *Decoder {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &Decoder{sc: sc}
}

// Next returns the next frame, or io.EOF at the end of the stream.
func (d *Decoder) Next() (Frame, error) {
	for d.sc.Scan() {
		d.line++
		text := strings.TrimSpace(d.sc.Text())
		if text == "" {
			continue
		}
		var f Frame
		if err := json.Unmarshal([]byte(text), &f); err != nil {
			return Frame{}, fmt.Errorf("%w: line %d: %v", ErrBadFrame, d.line, err)
		}
		if err := f.Validate(); err != nil {
			return Frame{}, fmt.Errorf("line %d: %w", d.line, err)
		}
		return f, nil
	}
	if err := d.sc.Err(); err != nil {
		return Frame{}, fmt.Errorf("read scenario: %w", err)
	}
	return Frame{}, io.EOF
}

// ReadScenario decodes every frame of r.
func ReadScenario(r io.Reader) ([]Frame, error) {
	dec := NewDecoder(r)
	var frames []Frame
	for {
		f, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return frames, nil
		}
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
}

// WriteScenario encodes frames as JSON lines.
func WriteScenario(w io.Writer, frames []Frame) error {
	enc := json.NewEncoder(w)
	for _, f := range frames {
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("write frame t=%d agent=%d: %w", f.Tick, f.Agent, err)
		}
	}
	return nil
}
