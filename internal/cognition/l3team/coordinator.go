package l3team

import (
	"math"
	"sort"
	"sync"

	"github.com/banshee-data/pitchside/internal/cognition"
	"github.com/banshee-data/pitchside/internal/config"
	"github.com/banshee-data/pitchside/internal/monitoring"
)

var logf = monitoring.Component("team")

// TargetBounds clips support and defend-lane targets.
var TargetBounds = cognition.Bounds{HalfX: 45, HalfY: 30}

// Lane-occupancy weights used when placing the support player.
const (
	laneBoxX       = 12.0
	laneBoxY       = 9.0
	laneWeightX    = 0.35
	laneWeightY    = 0.65
	axisClearance  = 8.0
	axisPenalty    = 0.8
	midfieldSeekDX = 5.0
)

// CoordinatorConfig holds ball fusion and role assignment parameters.
type CoordinatorConfig struct {
	BallPoseAgeMax     int     // Max pose age (ticks) for a report to feed fusion
	BallStalenessTicks int     // Ticks the last fused ball survives with no fresh sighting
	TurnPenalty        float64 // Intercept cost added for a full 180° turn
	SupportBack        float64 // Support target distance behind the ball (m)
	SupportLateral     float64 // Support target lateral offset (m)
}

// DefaultCoordinatorConfig returns the embedded default parameters.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfigFromTuning(config.Defaults())
}

// CoordinatorConfigFromTuning builds a CoordinatorConfig from a TuningConfig.
func CoordinatorConfigFromTuning(cfg *config.TuningConfig) CoordinatorConfig {
	return CoordinatorConfig{
		BallPoseAgeMax:     cfg.GetBallPoseAgeMax(),
		BallStalenessTicks: cfg.GetBallStalenessTicks(),
		TurnPenalty:        cfg.GetInterceptTurnPenalty(),
		SupportBack:        cfg.GetSupportBackOffset(),
		SupportLateral:     cfg.GetSupportLateralOffset(),
	}
}

// Coordinator fuses team reports and assigns tasks. UpdateReport stores the
// report and recomputes every assignment under one lock, so readers always
// see a consistent snapshot.
type Coordinator struct {
	cfg    CoordinatorConfig
	roster Roster

	reports     map[int]Report
	assignments map[int]Assignment
	ball        *BallEstimate
	attackerID  int

	mu sync.RWMutex
}

// NewCoordinator creates a coordinator for a roster.
func NewCoordinator(cfg CoordinatorConfig, roster Roster) *Coordinator {
	return &Coordinator{
		cfg:         cfg,
		roster:      roster,
		reports:     make(map[int]Report),
		assignments: make(map[int]Assignment),
	}
}

// UpdateConfig applies fn to the configuration under the coordinator lock.
// The new values take effect on the next report.
func (c *Coordinator) UpdateConfig(fn func(*CoordinatorConfig)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.cfg)
}

// Reset forgets every report, assignment and the fused ball.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports = make(map[int]Report)
	c.assignments = make(map[int]Assignment)
	c.ball = nil
	c.attackerID = 0
}

// Roster returns the team layout.
func (c *Coordinator) Roster() Roster { return c.roster }

// UpdateReport records an agent's report and recomputes all assignments.
// Reports from ids outside the roster are stored but never assigned.
func (c *Coordinator) UpdateReport(agentID int, r Report) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports[agentID] = r
	c.recompute()
}

// GetAssignment returns the latest assignment for agentID, or the safe
// default (home point; guard goal for the keeper, hold zone otherwise).
func (c *Coordinator) GetAssignment(agentID int) Assignment {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if a, ok := c.assignments[agentID]; ok {
		return a
	}
	return c.defaultAssignment(agentID)
}

// Ball returns the current fused ball estimate.
func (c *Coordinator) Ball() (BallEstimate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.ball == nil {
		return BallEstimate{}, false
	}
	return *c.ball, true
}

func (c *Coordinator) defaultAssignment(agentID int) Assignment {
	m, ok := c.roster.Member(agentID)
	if !ok {
		return Assignment{Task: TaskHoldZone}
	}
	if m.Role.IsGoalie() {
		return Assignment{Task: TaskGuardGoal, Target: m.Home}
	}
	return Assignment{Task: TaskHoldZone, Target: m.Home}
}

type candidate struct {
	id       int
	point    cognition.Point
	distance float64
	age      float64
	time     int
}

// fuseBall picks the closest fresh observer's ball. With no candidate the
// previous estimate is kept until it is older than the staleness window,
// measured against the latest report time.
func (c *Coordinator) fuseBall() *BallEstimate {
	var cands []candidate
	for id, r := range c.reports {
		if !r.PoseReliable || !r.hasBallSighting() {
			continue
		}
		age := r.age()
		if age > float64(c.cfg.BallPoseAgeMax) {
			continue
		}
		cands = append(cands, candidate{id: id, point: *r.BallGlobal, distance: *r.BallDistance, age: age, time: r.Time})
	}

	if len(cands) == 0 {
		if c.ball != nil {
			if now, ok := c.latestReportTime(); ok && now-c.ball.Time > c.cfg.BallStalenessTicks {
				logf("ball estimate from agent %d expired at t=%d", c.ball.SourceAgentID, now)
				c.ball = nil
			}
		}
		return c.ball
	}

	sort.Slice(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.distance != b.distance {
			return a.distance < b.distance
		}
		if a.age != b.age {
			return a.age < b.age
		}
		if a.time != b.time {
			return a.time > b.time
		}
		return a.id < b.id
	})
	best := cands[0]
	c.ball = &BallEstimate{X: best.point.X, Y: best.point.Y, Time: best.time, SourceAgentID: best.id}
	return c.ball
}

func (c *Coordinator) latestReportTime() (int, bool) {
	found := false
	latest := 0
	for _, r := range c.reports {
		if !found || r.Time > latest {
			latest = r.Time
			found = true
		}
	}
	return latest, found
}

type fieldPlayer struct {
	Member
	report Report
	cost   float64
}

func (c *Coordinator) recompute() {
	ball := c.fuseBall()

	var field []fieldPlayer
	for _, m := range c.roster.Members {
		r, ok := c.reports[m.ID]
		if !ok {
			continue
		}
		if m.Role.IsGoalie() {
			c.assignments[m.ID] = Assignment{Task: TaskGuardGoal, Target: m.Home}
			continue
		}
		if r.Pose == nil || !r.PoseReliable {
			c.assignments[m.ID] = c.noBallAssignment(m)
			continue
		}
		field = append(field, fieldPlayer{Member: m, report: r})
	}

	var attacker, support *fieldPlayer
	if ball != nil && len(field) > 0 {
		for i := range field {
			field[i].cost = InterceptCost(field[i].report.Pose.Point(), field[i].report.Pose.Heading, ball.Point(), c.cfg.TurnPenalty)
		}
		ranked := append([]fieldPlayer(nil), field...)
		sort.SliceStable(ranked, func(i, j int) bool {
			if ranked[i].cost != ranked[j].cost {
				return ranked[i].cost < ranked[j].cost
			}
			return ranked[i].ID < ranked[j].ID
		})
		attacker = &ranked[0]
		if len(ranked) > 1 {
			support = &ranked[1]
		}
	}

	newAttacker := 0
	if attacker != nil {
		newAttacker = attacker.ID
	}
	if newAttacker != c.attackerID {
		if newAttacker == 0 {
			logf("no attacker: ball unknown")
		} else {
			logf("attacker %d -> %d (cost %.2f)", c.attackerID, newAttacker, attacker.cost)
		}
		c.attackerID = newAttacker
	}

	for _, p := range field {
		c.assignments[p.ID] = c.assignmentFor(p, ball, attacker, support, field)
	}
}

func (c *Coordinator) noBallAssignment(m Member) Assignment {
	switch m.Role {
	case RoleForward:
		return Assignment{Task: TaskSeekBall, Target: cognition.Point{}}
	case RoleMidfielder:
		return Assignment{Task: TaskSeekBall, Target: cognition.Point{X: -c.roster.Side.AttackDir() * midfieldSeekDX}}
	}
	return Assignment{Task: TaskHoldZone, Target: m.Home}
}

func (c *Coordinator) assignmentFor(p fieldPlayer, ball *BallEstimate, attacker, support *fieldPlayer, field []fieldPlayer) Assignment {
	if ball == nil {
		return c.noBallAssignment(p.Member)
	}
	if attacker != nil && attacker.ID == p.ID {
		a := Assignment{Task: TaskAttackBall, Target: ball.Point()}
		if support != nil {
			a.ReceiverID = support.ID
		}
		return a
	}
	if support != nil && support.ID == p.ID {
		return Assignment{Task: TaskSupportAttack, Target: c.supportTarget(ball.Point(), p.ID, attacker, field)}
	}
	if c.roster.Side.InOwnHalf(ball.X) {
		return Assignment{Task: TaskDefendLane, Target: TargetBounds.Clip(p.Home.Lerp(ball.Point(), 0.5))}
	}
	return Assignment{Task: TaskHoldZone, Target: p.Home}
}

// supportTarget places the support player behind the ball, on whichever
// lateral side is less crowded.
func (c *Coordinator) supportTarget(ball cognition.Point, supportID int, attacker *fieldPlayer, field []fieldPlayer) cognition.Point {
	x := cognition.Clamp(ball.X-c.roster.Side.AttackDir()*c.cfg.SupportBack, -TargetBounds.HalfX, TargetBounds.HalfX)
	top := cognition.Clamp(ball.Y+c.cfg.SupportLateral, -TargetBounds.HalfY, TargetBounds.HalfY)
	bottom := cognition.Clamp(ball.Y-c.cfg.SupportLateral, -TargetBounds.HalfY, TargetBounds.HalfY)

	var others []cognition.Point
	for _, p := range field {
		if p.ID == supportID {
			continue
		}
		others = append(others, p.report.Pose.Point())
	}
	attackerY := math.NaN()
	if attacker != nil {
		attackerY = attacker.report.Pose.Y
	}

	if LaneCost(cognition.Point{X: x, Y: top}, others, attackerY) <= LaneCost(cognition.Point{X: x, Y: bottom}, others, attackerY) {
		return cognition.Point{X: x, Y: top}
	}
	return cognition.Point{X: x, Y: bottom}
}

// InterceptCost ranks how quickly a player at pos facing heading can reach
// the ball: straight-line distance plus turnPenalty per 180° of turn.
func InterceptCost(pos cognition.Point, heading float64, ball cognition.Point, turnPenalty float64) float64 {
	turn := math.Abs(cognition.AngleDiff(pos.BearingTo(ball), heading))
	return pos.Dist(ball) + turn/180*turnPenalty
}

// LaneCost penalises a candidate point for players inside a 12×9 m box
// around it and for lying within 8 m of the attacker's y axis. Pass NaN as
// attackerY when there is no attacker.
func LaneCost(target cognition.Point, players []cognition.Point, attackerY float64) float64 {
	var cost float64
	for _, p := range players {
		dx := math.Abs(p.X - target.X)
		dy := math.Abs(p.Y - target.Y)
		if dx < laneBoxX && dy < laneBoxY {
			cost += (laneBoxX-dx)*laneWeightX + (laneBoxY-dy)*laneWeightY
		}
	}
	if !math.IsNaN(attackerY) {
		cost += math.Max(0, axisClearance-math.Abs(target.Y-attackerY)) * axisPenalty
	}
	return cost
}

// Snapshot returns a copy of every computed assignment, keyed by agent id.
func (c *Coordinator) Snapshot() map[int]Assignment {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[int]Assignment, len(c.assignments))
	for k, v := range c.assignments {
		out[k] = v
	}
	return out
}
