package cognition

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// CommandKind names an actuator command.
type CommandKind string

const (
	CommandTurn  CommandKind = "turn"  // params: moment (deg)
	CommandDash  CommandKind = "dash"  // params: power
	CommandKick  CommandKind = "kick"  // params: power, direction (deg)
	CommandCatch CommandKind = "catch" // params: direction (deg)
	CommandMove  CommandKind = "move"  // params: x, y
	CommandSay   CommandKind = "say"   // text only
)

// Actuator limits.
const (
	MaxMoment    = 180.0
	MaxDashPower = 100.0
	MaxKickPower = 100.0
)

// ErrInvalidCommand is wrapped by every command validation failure.
var ErrInvalidCommand = errors.New("invalid command")

// Command is an immutable actuator command. The zero value means "no
// command" and is reported by IsZero.
type Command struct {
	kind   CommandKind
	params []float64
	text   string
}

// Turn rotates the body by moment degrees, clamped to ±180.
func Turn(moment float64) Command {
	return Command{kind: CommandTurn, params: []float64{Clamp(moment, -MaxMoment, MaxMoment)}}
}

// Dash accelerates along the body direction.
func Dash(power float64) Command {
	return Command{kind: CommandDash, params: []float64{Clamp(power, -MaxDashPower, MaxDashPower)}}
}

// Kick kicks the ball with power towards a relative direction.
func Kick(power, direction float64) Command {
	return Command{kind: CommandKick, params: []float64{
		Clamp(power, 0, MaxKickPower),
		NormalizeDeg(direction),
	}}
}

// Catch is the goalkeeper catch towards a relative direction.
func Catch(direction float64) Command {
	return Command{kind: CommandCatch, params: []float64{NormalizeDeg(direction)}}
}

// Move teleports the player before kick-off.
func Move(x, y float64) Command {
	return Command{kind: CommandMove, params: []float64{x, y}}
}

// Say broadcasts a short message to teammates.
func Say(text string) Command {
	return Command{kind: CommandSay, text: text}
}

// NewCommand validates kind and arity and returns the built command.
func NewCommand(kind CommandKind, params ...float64) (Command, error) {
	for _, p := range params {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return Command{}, fmt.Errorf("%w: %s has non-finite parameter", ErrInvalidCommand, kind)
		}
	}
	want := map[CommandKind]int{
		CommandTurn:  1,
		CommandDash:  1,
		CommandKick:  2,
		CommandCatch: 1,
		CommandMove:  2,
	}
	n, ok := want[kind]
	if !ok {
		return Command{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidCommand, kind)
	}
	if len(params) != n {
		return Command{}, fmt.Errorf("%w: %s takes %d parameters, got %d", ErrInvalidCommand, kind, n, len(params))
	}
	switch kind {
	case CommandTurn:
		return Turn(params[0]), nil
	case CommandDash:
		return Dash(params[0]), nil
	case CommandKick:
		return Kick(params[0], params[1]), nil
	case CommandCatch:
		return Catch(params[0]), nil
	default:
		return Move(params[0], params[1]), nil
	}
}

// Kind returns the command kind ("" for the zero command).
func (c Command) Kind() CommandKind { return c.kind }

// IsZero reports whether c carries no command.
func (c Command) IsZero() bool { return c.kind == "" }

// Params returns a copy of the numeric parameters.
func (c Command) Params() []float64 {
	out := make([]float64, len(c.params))
	copy(out, c.params)
	return out
}

// Param returns parameter i, or 0 when absent.
func (c Command) Param(i int) float64 {
	if i < 0 || i >= len(c.params) {
		return 0
	}
	return c.params[i]
}

// Text returns the message of a say command.
func (c Command) Text() string { return c.text }

// Equal reports whether two commands are identical.
func (c Command) Equal(o Command) bool {
	if c.kind != o.kind || c.text != o.text || len(c.params) != len(o.params) {
		return false
	}
	for i := range c.params {
		if c.params[i] != o.params[i] {
			return false
		}
	}
	return true
}

// String renders the command for logs, e.g. "kick(80, -12.5)".
func (c Command) String() string {
	if c.IsZero() {
		return "none"
	}
	if c.kind == CommandSay {
		return fmt.Sprintf("say(%q)", c.text)
	}
	parts := make([]string, len(c.params))
	for i, p := range c.params {
		parts[i] = fmt.Sprintf("%g", p)
	}
	return fmt.Sprintf("%s(%s)", c.kind, strings.Join(parts, ", "))
}

type commandJSON struct {
	Name   CommandKind `json:"name"`
	Params []float64   `json:"params,omitempty"`
	Text   string      `json:"text,omitempty"`
}

// MarshalJSON encodes the command as {name, params, text}.
func (c Command) MarshalJSON() ([]byte, error) {
	if c.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(commandJSON{Name: c.kind, Params: c.params, Text: c.text})
}

// UnmarshalJSON decodes and validates a command.
func (c *Command) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Command{}
		return nil
	}
	var raw commandJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Name == CommandSay {
		*c = Say(raw.Text)
		return nil
	}
	built, err := NewCommand(raw.Name, raw.Params...)
	if err != nil {
		return err
	}
	*c = built
	return nil
}
