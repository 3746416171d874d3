package l5arbitration

import (
	"github.com/banshee-data/pitchside/internal/cognition"
	"github.com/banshee-data/pitchside/internal/cognition/l1percepts"
	"github.com/banshee-data/pitchside/internal/cognition/l2pose"
	"github.com/banshee-data/pitchside/internal/cognition/l3team"
	"github.com/banshee-data/pitchside/internal/config"
)

// Config holds arbitration thresholds.
type Config struct {
	KickRange      float64 // Ball distance at which a kick is possible (m)
	BallCloseRange float64
	PressureRange  float64 // Nearest opponent closer than this means pressure (m)
	CatchBearing   float64 // Keeper catch reflex bearing limit (deg)

	AttackerTurnBearing float64 // Attacker turns to an unkickable ball beyond this bearing (deg)

	ShotAngleOffset float64 // Candidate shot angles are goal ± this (deg)
	ShotPowerRange  float64 // Goals farther than this get full power (m)
	ThreatRange     float64 // Defenders beyond this do not threaten a shot (m)
	ThreatAngle     float64 // Defenders off the shot line by more than this do not threaten (deg)

	PassMaxBearing float64 // Receivers must be within this bearing (deg)
	PassConeMax    float64 // Blocking cone for short passes (deg)
	PassConeMin    float64 // Blocking cone floor for long passes (deg)
	PassConeSlope  float64 // Cone narrowing per metre of pass length (deg/m)

	DribbleGoalRange     float64 // Dribble only while the goal is farther than this (m)
	DribbleCorridorRange float64 // Forward corridor length that must be free (m)
	DribbleCorridorAngle float64 // Forward corridor half-angle (deg)

	PredictionHorizonMax float64 // Ticks of ball extrapolation at most
	MarkDistance         float64 // Goal-side marking offset (m)

	KeeperRadiusMax    float64
	KeeperRadiusFrac   float64 // Fraction of the goal→ball distance to advance
	KeeperBoxDepth     float64 // Box depth in front of the goal line (m)
	KeeperBoxHalfWidth float64
	KeeperFineRange    float64 // Within this of the keeper point use KeeperFineReach
	KeeperFineReach    float64

	AttackReach  float64
	SupportReach float64
	DefendReach  float64
	MarkReach    float64
	SeekReach    float64
	HoldReach    float64
}

// DefaultConfig returns the embedded default parameters.
func DefaultConfig() Config {
	return ConfigFromTuning(config.Defaults())
}

// ConfigFromTuning builds a Config from a TuningConfig.
func ConfigFromTuning(cfg *config.TuningConfig) Config {
	return Config{
		KickRange:      cfg.GetKickRange(),
		BallCloseRange: cfg.GetBallCloseRange(),
		PressureRange:  cfg.GetPressureRange(),
		CatchBearing:   cfg.GetCatchBearing(),

		AttackerTurnBearing: 25,

		ShotAngleOffset: cfg.GetShotAngleOffset(),
		ShotPowerRange:  22,
		ThreatRange:     20,
		ThreatAngle:     30,

		PassMaxBearing: 75,
		PassConeMax:    cfg.GetPassConeMax(),
		PassConeMin:    6,
		PassConeSlope:  0.5,

		DribbleGoalRange:     25,
		DribbleCorridorRange: cfg.GetDribbleCorridorRange(),
		DribbleCorridorAngle: 20,

		PredictionHorizonMax: 6,
		MarkDistance:         2.0,

		KeeperRadiusMax:    6,
		KeeperRadiusFrac:   0.25,
		KeeperBoxDepth:     6,
		KeeperBoxHalfWidth: 7,
		KeeperFineRange:    3,
		KeeperFineReach:    0.8,

		AttackReach:  2.0,
		SupportReach: 2.0,
		DefendReach:  2.5,
		MarkReach:    1.0,
		SeekReach:    2.2,
		HoldReach:    2.5,
	}
}

// Features are the booleans the reflex tier derives from the scene.
type Features struct {
	HasBall          bool
	CanKick          bool
	BallClose        bool
	OpponentPressure bool
}

// Runtime is agent state the chain mutates across ticks.
type Runtime struct {
	SearchStep int
}

// Decision is the shared context passed down the chain for one tick.
type Decision struct {
	AgentID    int
	Role       l3team.Role
	Side       cognition.Side
	Scene      l1percepts.Scene
	Pose       *l2pose.Pose
	Assignment l3team.Assignment
	HeardGo    bool

	// Global positions of the goal centres.
	OwnGoal      cognition.Point
	OpponentGoal cognition.Point

	Runtime *Runtime

	// Filled in by the chain.
	Features Features
	Command  cognition.Command // tentative command
	Say      string            // message to broadcast once allowed
}

func (d *Decision) runtime() *Runtime {
	if d.Runtime == nil {
		d.Runtime = &Runtime{}
	}
	return d.Runtime
}

// IsGoalie reports whether the deciding agent is the keeper.
func (d *Decision) IsGoalie() bool { return d.Role.IsGoalie() }

// reliablePose returns the pose when it can be trusted.
func (d *Decision) reliablePose() (*l2pose.Pose, bool) {
	if d.Pose == nil || !d.Pose.Reliable {
		return nil, false
	}
	return d.Pose, true
}

// Relative returns the bearing and distance from the agent to a global
// point. ok is false without a reliable pose.
func (d *Decision) Relative(p cognition.Point) (bearing, dist float64, ok bool) {
	pose, ok := d.reliablePose()
	if !ok {
		return 0, 0, false
	}
	here := pose.Point()
	return cognition.AngleDiff(here.BearingTo(p), pose.Heading), here.Dist(p), true
}

// GoalBearing returns the bearing and distance to the opponent goal, from
// the visible goal marker or else from the pose.
func (d *Decision) GoalBearing() (bearing, dist float64, ok bool) {
	if g := d.Scene.OpponentGoal; g != nil && g.HasRange() {
		return *g.Direction, *g.Distance, true
	}
	return d.Relative(d.OpponentGoal)
}

// Global projects an observation into field coordinates.
func (d *Decision) Global(o l1percepts.Observation) (cognition.Point, bool) {
	return l2pose.GlobalPosition(d.Pose, o)
}
