package agent

import (
	"fmt"

	"github.com/banshee-data/pitchside/internal/cognition/l1percepts"
	"github.com/banshee-data/pitchside/internal/cognition/l2pose"
	"github.com/banshee-data/pitchside/internal/cognition/l5arbitration"
	"github.com/banshee-data/pitchside/internal/cognition/navigator"
	"github.com/banshee-data/pitchside/internal/config"
)

// Mode selects the decision engine.
type Mode string

const (
	// ModeHierarchy decides through the reflex → tactical → strategic chain
	// using team assignments.
	ModeHierarchy Mode = "hierarchy"
	// ModeAutomaton runs the role's timed mission automaton and ignores
	// team assignments.
	ModeAutomaton Mode = "automaton"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeHierarchy, ModeAutomaton:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Config bundles every layer's parameters for one agent.
type Config struct {
	Mode Mode

	Filter      l1percepts.FilterConfig
	Localizer   l2pose.LocalizerConfig
	Tracker     l2pose.TrackerConfig
	Navigator   navigator.Config
	Arbitration l5arbitration.Config

	SayCooldownTicks int     // Ticks between two broadcasts
	SayBallClear     float64 // Hold a broadcast while the ball is this close (m)
	HeardGoWindow    int     // A teammate's "go" stays fresh for this many ticks
}

// DefaultConfig returns the embedded defaults in hierarchy mode.
func DefaultConfig() Config {
	return ConfigFromTuning(config.Defaults())
}

// ConfigFromTuning builds a Config from a TuningConfig.
func ConfigFromTuning(cfg *config.TuningConfig) Config {
	return Config{
		Mode:             ModeHierarchy,
		Filter:           l1percepts.FilterConfigFromTuning(cfg),
		Localizer:        l2pose.LocalizerConfigFromTuning(cfg),
		Tracker:          l2pose.TrackerConfigFromTuning(cfg),
		Navigator:        navigator.DefaultConfig(),
		Arbitration:      l5arbitration.ConfigFromTuning(cfg),
		SayCooldownTicks: cfg.GetSayCooldownTicks(),
		SayBallClear:     0.9,
		HeardGoWindow:    20,
	}
}
