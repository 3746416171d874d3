package l5arbitration

import (
	"github.com/banshee-data/pitchside/internal/cognition"
	"github.com/banshee-data/pitchside/internal/cognition/navigator"
)

// Next invokes the remainder of the chain.
type Next func(d *Decision) cognition.Command

// Controller is one tier of the chain. It may return a command without
// calling next (pre-empting later tiers), set d.Command and call next so a
// later tier can override it, or pass next's result through.
type Controller interface {
	Process(d *Decision, next Next) cognition.Command
}

// ControllerFunc adapts a function to Controller.
type ControllerFunc func(d *Decision, next Next) cognition.Command

// Process calls f.
func (f ControllerFunc) Process(d *Decision, next Next) cognition.Command { return f(d, next) }

// Chain runs controllers in order. Past the last controller the tentative
// d.Command is returned, which may be the zero command.
type Chain struct {
	controllers []Controller
}

// NewChain builds a chain from controllers, first to last.
func NewChain(controllers ...Controller) *Chain {
	return &Chain{controllers: append([]Controller(nil), controllers...)}
}

// DefaultChain is Reflex → Tactical → Strategic.
func DefaultChain(cfg Config, nav *navigator.Navigator) *Chain {
	return NewChain(NewReflex(cfg), NewTactical(cfg, nav), NewStrategic(cfg))
}

// Execute runs the chain over d.
func (c *Chain) Execute(d *Decision) cognition.Command {
	return c.walk(0, d)
}

func (c *Chain) walk(i int, d *Decision) cognition.Command {
	if i >= len(c.controllers) {
		return d.Command
	}
	return c.controllers[i].Process(d, func(next *Decision) cognition.Command {
		return c.walk(i+1, next)
	})
}

// Len returns the number of controllers.
func (c *Chain) Len() int { return len(c.controllers) }
