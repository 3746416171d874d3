package l5arbitration

import (
	"math"

	"github.com/banshee-data/pitchside/internal/cognition"
	"github.com/banshee-data/pitchside/internal/cognition/l1percepts"
	"github.com/banshee-data/pitchside/internal/cognition/l3team"
	"github.com/banshee-data/pitchside/internal/cognition/navigator"
)

// Tactical turns the assigned task into a tentative locomotion command
// and lets the strategic tier override it.
type Tactical struct {
	cfg Config
	nav *navigator.Navigator
}

// NewTactical creates the tactical tier.
func NewTactical(cfg Config, nav *navigator.Navigator) *Tactical {
	return &Tactical{cfg: cfg, nav: nav}
}

// Process implements Controller.
func (t *Tactical) Process(d *Decision, next Next) cognition.Command {
	if d.Command.IsZero() {
		d.Command = t.Tentative(d)
	}
	if cmd := next(d); !cmd.IsZero() {
		return cmd
	}
	return d.Command
}

// Tentative maps the assignment to a command.
func (t *Tactical) Tentative(d *Decision) cognition.Command {
	switch d.Assignment.Task {
	case l3team.TaskAttackBall:
		return t.attackBall(d)
	case l3team.TaskSupportAttack:
		return t.support(d)
	case l3team.TaskDefendLane:
		return t.defendLane(d)
	case l3team.TaskSeekBall:
		return t.seekBall(d)
	case l3team.TaskGuardGoal:
		return t.guardGoal(d)
	default:
		return t.moveTo(d, d.Assignment.Target, t.cfg.HoldReach)
	}
}

func (t *Tactical) search(d *Decision) cognition.Command {
	rt := d.runtime()
	cmd := t.nav.Search(rt.SearchStep)
	rt.SearchStep++
	return cmd
}

func (t *Tactical) attackBall(d *Decision) cognition.Command {
	ball := d.Scene.Ball
	if ball == nil || !ball.HasRange() {
		if r := t.nav.NavigateToPoint(d.Pose, d.Assignment.Target, t.cfg.AttackReach, d.Scene.Players()); !r.Command.IsZero() {
			return r.Command
		}
		return t.search(d)
	}

	if *ball.Distance <= t.nav.Config().BallKickDistance {
		return cognition.Turn(0)
	}
	// Steer on the predicted bearing only; the range rate includes our own run.
	aim := PredictBall(*ball, t.cfg.PredictionHorizonMax)
	aim.Distance = l1percepts.Float(*ball.Distance)
	r := t.nav.ApproachBall(&aim, d.Scene.Players())
	d.runtime().SearchStep = 0
	if r.Command.IsZero() {
		return cognition.Turn(0)
	}
	return r.Command
}

func (t *Tactical) support(d *Decision) cognition.Command {
	r := t.nav.NavigateToPoint(d.Pose, d.Assignment.Target, t.cfg.SupportReach, d.Scene.Players())
	if r.Done && d.HeardGo && d.Scene.Ball != nil && d.Scene.Ball.Direction != nil {
		// Face the passer once in position.
		return t.nav.TurnTo(*d.Scene.Ball.Direction)
	}
	return t.follow(d, r)
}

func (t *Tactical) defendLane(d *Decision) cognition.Command {
	var opponents []cognition.Point
	for _, o := range d.Scene.Opponents() {
		if p, ok := d.Global(o); ok {
			opponents = append(opponents, p)
		}
	}
	if opp, ok := MostDangerous(opponents, d.Side, d.OwnGoal); ok {
		return t.moveTo(d, MarkPoint(opp, d.OwnGoal, t.cfg.MarkDistance), t.cfg.MarkReach)
	}
	return t.moveTo(d, d.Assignment.Target, t.cfg.DefendReach)
}

func (t *Tactical) seekBall(d *Decision) cognition.Command {
	if d.Scene.Ball != nil {
		if r := t.nav.ApproachBall(d.Scene.Ball, d.Scene.Players()); !r.Command.IsZero() {
			return r.Command
		}
		return cognition.Turn(0)
	}

	r := t.nav.NavigateToPoint(d.Pose, d.Assignment.Target, t.cfg.SeekReach, d.Scene.Players())
	if !r.Command.IsZero() {
		d.runtime().SearchStep = 0
		return r.Command
	}
	if r.Done && d.runtime().SearchStep%4 == 0 {
		d.runtime().SearchStep++
		return cognition.Dash(50)
	}
	return t.search(d)
}

func (t *Tactical) guardGoal(d *Decision) cognition.Command {
	if ball := d.Scene.Ball; ball != nil {
		if bp, ok := d.Global(*ball); ok {
			spot := KeeperPoint(d.OwnGoal, bp, d.Side, t.cfg)
			reach := t.cfg.HoldReach
			if _, dist, _ := d.Relative(spot); dist <= t.cfg.KeeperFineRange {
				reach = t.cfg.KeeperFineReach
			}
			r := t.nav.NavigateToPoint(d.Pose, spot, reach, nil)
			if !r.Command.IsZero() {
				return r.Command
			}
			if r.Done {
				return faceBall(ball)
			}
		}
	}
	return t.guardGoalVisual(d)
}

// guardGoalVisual walks back to the own goal marker without a pose.
func (t *Tactical) guardGoalVisual(d *Decision) cognition.Command {
	g := d.Scene.OwnGoal
	if g == nil || !g.HasRange() {
		return t.search(d)
	}
	if math.Abs(*g.Direction) > 8 {
		return cognition.Turn(*g.Direction)
	}
	if *g.Distance > 1.8 {
		return cognition.Dash(55)
	}
	return cognition.Turn(20)
}

func faceBall(ball *l1percepts.FilteredObject) cognition.Command {
	if dir := ball.Dir(0); math.Abs(dir) > 8 {
		return cognition.Turn(dir)
	}
	return cognition.Turn(0)
}

func (t *Tactical) moveTo(d *Decision, p cognition.Point, reach float64) cognition.Command {
	return t.follow(d, t.nav.NavigateToPoint(d.Pose, p, reach, d.Scene.Players()))
}

// follow converts a navigation result: a command resets the scan, arrival
// idles with a slow turn and anything else (no reliable pose) scans.
func (t *Tactical) follow(d *Decision, r navigator.Result) cognition.Command {
	if !r.Command.IsZero() {
		d.runtime().SearchStep = 0
		return r.Command
	}
	if r.Done {
		return cognition.Turn(20)
	}
	return t.search(d)
}
