package agent

import (
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/pitchside/internal/cognition"
	"github.com/banshee-data/pitchside/internal/cognition/l1percepts"
	"github.com/banshee-data/pitchside/internal/cognition/l2pose"
	"github.com/banshee-data/pitchside/internal/cognition/l3team"
	"github.com/banshee-data/pitchside/internal/cognition/l4automaton"
	"github.com/banshee-data/pitchside/internal/cognition/l5arbitration"
	"github.com/banshee-data/pitchside/internal/cognition/landmarks"
	"github.com/banshee-data/pitchside/internal/cognition/navigator"
	"github.com/banshee-data/pitchside/internal/monitoring"
)

var logf = monitoring.Component("agent")

// RefereeSender is the hear sender whose messages are never teammate
// signals.
const RefereeSender = "referee"

// goalLineX is the goal line of the standard pitch.
const goalLineX = 52.5

// ErrUnknownMode is returned for a mode other than hierarchy or automaton.
var ErrUnknownMode = errors.New("unknown agent mode")

// Team is the part of the coordinator an agent talks to.
type Team interface {
	UpdateReport(agentID int, r l3team.Report)
	GetAssignment(agentID int) l3team.Assignment
}

// Identity places an agent in its team.
type Identity struct {
	Member l3team.Member // id, role and home for the agent's side
	Side   cognition.Side
	Team   string // team name as it appears on observed players
}

// Output is one tick's decision. Aux holds say commands to send alongside
// Command.
type Output struct {
	Command cognition.Command
	Aux     []cognition.Command
}

type runtimeState struct {
	arb         l5arbitration.Runtime
	heardGoTick int // -1 when no signal was heard
	sayCooldown int
	pendingSay  string
}

// Agent owns one player's pipeline. It is driven by a single loop and is
// not safe for concurrent use; only the Team it reports to is shared.
type Agent struct {
	id       Identity
	cfg      Config
	registry landmarks.Registry
	team     Team

	filter  *l1percepts.Filter
	tracker *l2pose.Tracker
	nav     *navigator.Navigator
	chain   *l5arbitration.Chain
	machine *l4automaton.Automaton[*l4automaton.MissionContext]

	rt    runtimeState
	pose  *l2pose.Pose
	scene l1percepts.Scene
}

// New creates an agent. team may be nil, in which case nothing is
// reported and the agent holds its home zone in hierarchy mode.
func New(id Identity, cfg Config, registry landmarks.Registry, team Team) (*Agent, error) {
	if _, err := ParseMode(string(cfg.Mode)); err != nil {
		return nil, err
	}
	nav := navigator.New(cfg.Navigator)
	a := &Agent{
		id:       id,
		cfg:      cfg,
		registry: registry,
		team:     team,
		filter:   l1percepts.NewFilter(cfg.Filter),
		tracker:  l2pose.NewTracker(cfg.Tracker, l2pose.NewLocalizer(cfg.Localizer, registry)),
		nav:      nav,
		rt:       runtimeState{heardGoTick: -1},
	}
	switch cfg.Mode {
	case ModeAutomaton:
		spec := l4automaton.AttackerSpec(nav)
		if id.Member.Role.IsGoalie() {
			spec = l4automaton.GoalieSpec(nav)
		}
		a.machine = l4automaton.MustNew(spec)
	default:
		a.chain = l5arbitration.DefaultChain(cfg.Arbitration, nav)
	}
	logf("agent %d ready: role=%s side=%s mode=%s", id.Member.ID, id.Member.Role, id.Side, cfg.Mode)
	return a, nil
}

// ID returns the agent id.
func (a *Agent) ID() int { return a.id.Member.ID }

// Role returns the roster role.
func (a *Agent) Role() l3team.Role { return a.id.Member.Role }

// Mode returns the decision engine in use.
func (a *Agent) Mode() Mode { return a.cfg.Mode }

// Pose returns a copy of the pose from the last Step, or nil.
func (a *Agent) Pose() *l2pose.Pose {
	if a.pose == nil {
		return nil
	}
	p := *a.pose
	return &p
}

// Scene returns the filtered view from the last Step.
func (a *Agent) Scene() l1percepts.Scene { return a.scene }

// State returns the automaton state, or "" in hierarchy mode.
func (a *Agent) State() string {
	if a.machine == nil {
		return ""
	}
	return a.machine.Current()
}

// PendingSay returns the message waiting to be broadcast, if any.
func (a *Agent) PendingSay() string { return a.rt.pendingSay }

// HeardGo reports whether a teammate's "go" was heard within the window
// ending at tick.
func (a *Agent) HeardGo(tick int) bool {
	return a.rt.heardGoTick >= 0 && tick-a.rt.heardGoTick < a.cfg.HeardGoWindow
}

// OnHear records a teammate's go signal. Referee messages are ignored.
func (a *Agent) OnHear(tick int, sender, message string) {
	if sender == RefereeSender || message != l5arbitration.GoSignal {
		return
	}
	a.rt.heardGoTick = tick
}

// OnGoal restarts the behaviour after a goal: the automaton returns to its
// initial state and the runtime counters are cleared. The counters are
// cleared even when the automaton reset fails.
func (a *Agent) OnGoal() error {
	a.rt.arb = l5arbitration.Runtime{}
	a.rt.heardGoTick = -1
	a.rt.pendingSay = ""
	if a.machine != nil {
		if err := a.machine.Reset(""); err != nil {
			return fmt.Errorf("agent %d: restart after goal: %w", a.ID(), err)
		}
	}
	return nil
}

// Step senses this tick's observations and returns the decision.
func (a *Agent) Step(tick int, observations []l1percepts.Observation) Output {
	a.sense(tick, observations)
	return a.decide(tick)
}

func (a *Agent) sense(tick int, observations []l1percepts.Observation) {
	filtered := a.filter.Update(observations)
	a.pose = a.tracker.Update(filtered)
	a.scene = l1percepts.NewScene(filtered, a.id.Team, landmarks.OwnGoal(a.id.Side), landmarks.OpponentGoal(a.id.Side))

	if a.team != nil {
		var ballGlobal *cognition.Point
		var ballDist *float64
		if b := a.scene.Ball; b != nil {
			if p, ok := l2pose.GlobalPosition(a.pose, *b); ok {
				ballGlobal = &p
			}
			if b.Distance != nil {
				d := *b.Distance
				ballDist = &d
			}
		}
		a.team.UpdateReport(a.ID(), l3team.NewReport(tick, a.Pose(), ballGlobal, ballDist, a.Role()))
	}

	if a.rt.sayCooldown > 0 {
		a.rt.sayCooldown--
	}
}

func (a *Agent) decide(tick int) Output {
	var out Output
	ballDist := math.Inf(1)
	if b := a.scene.Ball; b != nil {
		ballDist = b.Dist(ballDist)
	}
	if msg := a.rt.pendingSay; msg != "" && a.rt.sayCooldown <= 0 && ballDist > a.cfg.SayBallClear {
		out.Aux = append(out.Aux, cognition.Say(msg))
		a.rt.pendingSay = ""
		a.rt.sayCooldown = a.cfg.SayCooldownTicks
	}

	var cmd cognition.Command
	if a.machine != nil {
		cmd = a.machine.Tick(float64(tick), &l4automaton.MissionContext{
			Scene:      a.scene,
			Pose:       a.Pose(),
			Assignment: a.assignment(),
		})
	} else {
		cmd = a.arbitrate(tick)
	}

	switch {
	case cmd.Kind() == cognition.CommandSay:
		out.Aux = append(out.Aux, cmd)
		out.Command = cognition.Turn(0)
	case cmd.IsZero():
		out.Command = cognition.Turn(20)
	default:
		out.Command = cmd
	}
	return out
}

// assignment is the team's order for this agent. Without a team the
// agent holds its home point and the goalie guards the goal.
func (a *Agent) assignment() l3team.Assignment {
	if a.team != nil {
		return a.team.GetAssignment(a.ID())
	}
	as := l3team.Assignment{Task: l3team.TaskHoldZone, Target: a.id.Member.Home}
	if a.id.Member.Role.IsGoalie() {
		as.Task = l3team.TaskGuardGoal
	}
	return as
}

func (a *Agent) arbitrate(tick int) cognition.Command {
	assignment := a.assignment()
	d := &l5arbitration.Decision{
		AgentID:      a.ID(),
		Role:         a.Role(),
		Side:         a.id.Side,
		Scene:        a.scene,
		Pose:         a.pose,
		Assignment:   assignment,
		HeardGo:      a.HeardGo(tick),
		OwnGoal:      a.goalPoint(landmarks.OwnGoal(a.id.Side)),
		OpponentGoal: a.goalPoint(landmarks.OpponentGoal(a.id.Side)),
		Runtime:      &a.rt.arb,
	}
	cmd := a.chain.Execute(d)
	if d.Say != "" {
		a.rt.pendingSay = d.Say
	}
	return cmd
}

// goalPoint looks a goal up in the registry, falling back to the
// standard pitch when a custom table omits it.
func (a *Agent) goalPoint(name string) cognition.Point {
	if p, ok := a.registry.Lookup(name); ok {
		return p
	}
	x := goalLineX
	if name == landmarks.GoalLeft {
		x = -x
	}
	return cognition.Point{X: x}
}
