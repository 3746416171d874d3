package replay

import (
	"fmt"
	"math"

	"github.com/banshee-data/pitchside/internal/cognition"
	"github.com/banshee-data/pitchside/internal/cognition/l1percepts"
	"github.com/banshee-data/pitchside/internal/cognition/l3team"
	"github.com/banshee-data/pitchside/internal/cognition/landmarks"
	"github.com/banshee-data/pitchside/internal/cognition/synth"
)

// Pitch extents the generated ball bounces inside.
const (
	genGoalLineX  = 52.5
	genTouchLineY = 34.0
	keeperSpan    = 7.0
)

// GenConfig describes a synthetic scenario. Every roster member of Team
// produces one frame per tick; Opponents only appear in observations.
type GenConfig struct {
	Ticks        int
	Team         l3team.Roster
	TeamName     string
	Opponents    l3team.Roster
	OpponentName string
	Registry     landmarks.Registry
	Sensor       synth.Sensor

	BallStart cognition.Point
	BallVel   cognition.Point // metres per tick
	Speed     float64         // player speed, metres per tick
}

// DefaultGenConfig is 100 ticks of a five-player team chasing a ball that
// rolls diagonally across the pitch past five stationary opponents.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Ticks:        100,
		Team:         l3team.DefaultRoster(5, cognition.SideLeft),
		TeamName:     "red",
		Opponents:    l3team.DefaultRoster(5, cognition.SideRight),
		OpponentName: "blue",
		Registry:     landmarks.Default(),
		BallStart:    cognition.Point{},
		BallVel:      cognition.Point{X: -0.4, Y: 0.15},
		Speed:        0.6,
	}
}

type body struct {
	member  l3team.Member
	team    string
	pos     cognition.Point
	heading float64
}

func (b body) entity() synth.Entity {
	return synth.Entity{
		Kind:   l1percepts.KindPlayer,
		Name:   fmt.Sprintf("p %s %d", b.team, b.member.ID),
		Team:   b.team,
		Unum:   b.member.ID,
		Goalie: b.member.Role.IsGoalie(),
		Pos:    b.pos,
	}
}

// GenerateScenario simulates cfg and returns frames ordered by tick and
// agent id. Players run towards the ball; keepers shadow it along their
// goal line.
func GenerateScenario(cfg GenConfig) []Frame {
	var own, opp []body
	for _, m := range cfg.Team.Members {
		own = append(own, body{member: m, team: cfg.TeamName, pos: m.Home})
	}
	for _, m := range cfg.Opponents.Members {
		opp = append(opp, body{member: m, team: cfg.OpponentName, pos: m.Home})
	}

	ball, vel := cfg.BallStart, cfg.BallVel
	frames := make([]Frame, 0, cfg.Ticks*len(own))
	for tick := 1; tick <= cfg.Ticks; tick++ {
		ball, vel = rollBall(ball, vel)

		for i := range own {
			own[i].pos = stepTowards(own[i].pos, chaseTarget(own[i].member, ball), cfg.Speed)
			own[i].heading = own[i].pos.BearingTo(ball)
		}

		for i, me := range own {
			entities := []synth.Entity{{Kind: l1percepts.KindBall, Name: l1percepts.BallName, Pos: ball, Vel: vel}}
			for j, other := range own {
				if j != i {
					entities = append(entities, other.entity())
				}
			}
			for _, other := range opp {
				entities = append(entities, other.entity())
			}

			truth := synth.Truth{X: me.pos.X, Y: me.pos.Y, Heading: me.heading}
			frames = append(frames, Frame{
				Tick:         tick,
				Agent:        me.member.ID,
				Observations: synth.Observe(cfg.Registry, truth, entities, cfg.Sensor),
				Truth:        &truth,
			})
		}
	}
	return frames
}

// rollBall advances the ball and reflects it off the pitch edges.
func rollBall(ball, vel cognition.Point) (cognition.Point, cognition.Point) {
	ball = ball.Add(vel)
	if math.Abs(ball.X) > genGoalLineX {
		vel.X = -vel.X
		ball.X = math.Copysign(genGoalLineX, ball.X)
	}
	if math.Abs(ball.Y) > genTouchLineY {
		vel.Y = -vel.Y
		ball.Y = math.Copysign(genTouchLineY, ball.Y)
	}
	return ball, vel
}

func chaseTarget(m l3team.Member, ball cognition.Point) cognition.Point {
	if m.Role.IsGoalie() {
		return cognition.Point{X: m.Home.X, Y: cognition.Clamp(ball.Y, -keeperSpan, keeperSpan)}
	}
	return ball
}

// stepTowards moves from p towards target by at most speed, stopping one
// metre short.
func stepTowards(p, target cognition.Point, speed float64) cognition.Point {
	d := p.Dist(target)
	if d <= 1 {
		return p
	}
	step := math.Min(speed, d-1)
	return p.Add(target.Sub(p).Scale(step / d))
}
