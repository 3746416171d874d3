package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path of the canonical tuning defaults file,
// relative to the repository root. The same bytes are embedded below.
const DefaultConfigPath = "internal/config/tuning.defaults.json"

//go:embed tuning.defaults.json
var defaultTuningJSON []byte

// TuningConfig is the root configuration for decision-pipeline tunables.
// Every field is optional; the Get* accessors supply the defaults.
type TuningConfig struct {
	// Percept smoothing
	PerceptAlpha *float64 `json:"percept_alpha,omitempty"`

	// Localizer
	FieldMarginX        *float64 `json:"field_margin_x,omitempty"`
	FieldMarginY        *float64 `json:"field_margin_y,omitempty"`
	LocalizerTrustError *float64 `json:"localizer_trust_error,omitempty"`
	LocalizerTrustHigh  *float64 `json:"localizer_trust_high,omitempty"`
	LocalizerTrustLow   *float64 `json:"localizer_trust_low,omitempty"`
	PoseLossTicks       *int     `json:"pose_loss_ticks,omitempty"`

	// Team coordination
	BallPoseAgeMax       *int     `json:"ball_pose_age_max,omitempty"`
	BallStalenessTicks   *int     `json:"ball_staleness_ticks,omitempty"`
	InterceptTurnPenalty *float64 `json:"intercept_turn_penalty,omitempty"`
	SupportBackOffset    *float64 `json:"support_back_offset,omitempty"`
	SupportLateralOffset *float64 `json:"support_lateral_offset,omitempty"`

	// Arbitration
	KickRange            *float64 `json:"kick_range,omitempty"`
	BallCloseRange       *float64 `json:"ball_close_range,omitempty"`
	PressureRange        *float64 `json:"pressure_range,omitempty"`
	CatchBearing         *float64 `json:"catch_bearing,omitempty"`
	ShotAngleOffset      *float64 `json:"shot_angle_offset,omitempty"`
	PassConeMax          *float64 `json:"pass_cone_max,omitempty"`
	DribbleCorridorRange *float64 `json:"dribble_corridor_range,omitempty"`

	// Agent loop
	SayCooldownTicks *int `json:"say_cooldown_ticks,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields nil.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// Defaults returns the canonical defaults embedded in the binary.
func Defaults() *TuningConfig {
	cfg, err := ParseTuningConfig(defaultTuningJSON)
	if err != nil {
		panic("embedded tuning defaults are invalid: " + err.Error())
	}
	return cfg
}

// ParseTuningConfig decodes and validates a JSON document.
func ParseTuningConfig(data []byte) (*TuningConfig, error) {
	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// Fields omitted from the file fall back to the Get* defaults, so partial
// files are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseTuningConfig(data)
}

// Validate checks that the configured values are usable.
func (c *TuningConfig) Validate() error {
	if c.PerceptAlpha != nil && (*c.PerceptAlpha <= 0 || *c.PerceptAlpha > 1) {
		return fmt.Errorf("percept_alpha must be in (0, 1], got %f", *c.PerceptAlpha)
	}
	for name, v := range map[string]*float64{
		"localizer_trust_high": c.LocalizerTrustHigh,
		"localizer_trust_low":  c.LocalizerTrustLow,
	} {
		if v != nil && (*v < 0 || *v > 1) {
			return fmt.Errorf("%s must be between 0 and 1, got %f", name, *v)
		}
	}
	for name, v := range map[string]*float64{
		"field_margin_x":         c.FieldMarginX,
		"field_margin_y":         c.FieldMarginY,
		"localizer_trust_error":  c.LocalizerTrustError,
		"intercept_turn_penalty": c.InterceptTurnPenalty,
		"support_back_offset":    c.SupportBackOffset,
		"support_lateral_offset": c.SupportLateralOffset,
		"kick_range":             c.KickRange,
		"ball_close_range":       c.BallCloseRange,
		"pressure_range":         c.PressureRange,
		"catch_bearing":          c.CatchBearing,
		"shot_angle_offset":      c.ShotAngleOffset,
		"pass_cone_max":          c.PassConeMax,
		"dribble_corridor_range": c.DribbleCorridorRange,
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%s must be non-negative, got %f", name, *v)
		}
	}
	if c.PoseLossTicks != nil && *c.PoseLossTicks < 1 {
		return fmt.Errorf("pose_loss_ticks must be at least 1, got %d", *c.PoseLossTicks)
	}
	if c.BallPoseAgeMax != nil && *c.BallPoseAgeMax < 0 {
		return fmt.Errorf("ball_pose_age_max must be non-negative, got %d", *c.BallPoseAgeMax)
	}
	if c.BallStalenessTicks != nil && *c.BallStalenessTicks < 0 {
		return fmt.Errorf("ball_staleness_ticks must be non-negative, got %d", *c.BallStalenessTicks)
	}
	if c.SayCooldownTicks != nil && *c.SayCooldownTicks < 0 {
		return fmt.Errorf("say_cooldown_ticks must be non-negative, got %d", *c.SayCooldownTicks)
	}
	return nil
}

func getFloat(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func getInt(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

// GetPerceptAlpha returns the percept EMA coefficient or the default.
func (c *TuningConfig) GetPerceptAlpha() float64 { return getFloat(c.PerceptAlpha, 0.55) }

// GetFieldMarginX returns the x margin around the playable field or the default.
func (c *TuningConfig) GetFieldMarginX() float64 { return getFloat(c.FieldMarginX, 7.5) }

// GetFieldMarginY returns the y margin around the playable field or the default.
func (c *TuningConfig) GetFieldMarginY() float64 { return getFloat(c.FieldMarginY, 6.0) }

// GetLocalizerTrustError returns the residual at or below which the new fix is trusted highly.
func (c *TuningConfig) GetLocalizerTrustError() float64 {
	return getFloat(c.LocalizerTrustError, 0.5)
}

// GetLocalizerTrustHigh returns the blend factor for low-residual fixes.
func (c *TuningConfig) GetLocalizerTrustHigh() float64 { return getFloat(c.LocalizerTrustHigh, 0.8) }

// GetLocalizerTrustLow returns the blend factor for high-residual fixes.
func (c *TuningConfig) GetLocalizerTrustLow() float64 { return getFloat(c.LocalizerTrustLow, 0.65) }

// GetPoseLossTicks returns how many failed fixes discard the pose.
func (c *TuningConfig) GetPoseLossTicks() int { return getInt(c.PoseLossTicks, 8) }

// GetBallPoseAgeMax returns the maximum pose age of a fusable ball report.
func (c *TuningConfig) GetBallPoseAgeMax() int { return getInt(c.BallPoseAgeMax, 3) }

// GetBallStalenessTicks returns how long a fused ball survives without fresh reports.
func (c *TuningConfig) GetBallStalenessTicks() int { return getInt(c.BallStalenessTicks, 20) }

// GetInterceptTurnPenalty returns the cost added for a 180° heading error.
func (c *TuningConfig) GetInterceptTurnPenalty() float64 {
	return getFloat(c.InterceptTurnPenalty, 5.0)
}

// GetSupportBackOffset returns how far behind the ball the support player stands.
func (c *TuningConfig) GetSupportBackOffset() float64 { return getFloat(c.SupportBackOffset, 6) }

// GetSupportLateralOffset returns the lateral offset of support candidates.
func (c *TuningConfig) GetSupportLateralOffset() float64 {
	return getFloat(c.SupportLateralOffset, 10)
}

// GetKickRange returns the ball distance at which a kick is possible.
func (c *TuningConfig) GetKickRange() float64 { return getFloat(c.KickRange, 0.8) }

// GetBallCloseRange returns the ball distance considered close.
func (c *TuningConfig) GetBallCloseRange() float64 { return getFloat(c.BallCloseRange, 2.0) }

// GetPressureRange returns the opponent distance that counts as pressure.
func (c *TuningConfig) GetPressureRange() float64 { return getFloat(c.PressureRange, 2.5) }

// GetCatchBearing returns the maximum |bearing| for the goalkeeper catch reflex.
func (c *TuningConfig) GetCatchBearing() float64 { return getFloat(c.CatchBearing, 30) }

// GetShotAngleOffset returns the offset of the two candidate shot angles.
func (c *TuningConfig) GetShotAngleOffset() float64 { return getFloat(c.ShotAngleOffset, 8) }

// GetPassConeMax returns the widest blocking cone for short passes (degrees).
func (c *TuningConfig) GetPassConeMax() float64 { return getFloat(c.PassConeMax, 20) }

// GetDribbleCorridorRange returns the depth of the free corridor needed to dribble.
func (c *TuningConfig) GetDribbleCorridorRange() float64 {
	return getFloat(c.DribbleCorridorRange, 6)
}

// GetSayCooldownTicks returns the minimum ticks between two say commands.
func (c *TuningConfig) GetSayCooldownTicks() int { return getInt(c.SayCooldownTicks, 6) }
