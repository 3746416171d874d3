package replay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/pitchside/internal/cognition"
	"github.com/banshee-data/pitchside/internal/cognition/agent"
	"github.com/banshee-data/pitchside/internal/cognition/l2pose"
	"github.com/banshee-data/pitchside/internal/cognition/l3team"
	"github.com/banshee-data/pitchside/internal/cognition/landmarks"
	"github.com/banshee-data/pitchside/internal/monitoring"
	"github.com/banshee-data/pitchside/internal/timeutil"
)

var logf = monitoring.Component("replay")

// ErrUnknownAgent is returned for a frame whose agent is not in the roster.
var ErrUnknownAgent = errors.New("agent not in roster")

// Config describes the team a Runner builds.
type Config struct {
	Agent    agent.Config
	Team     l3team.CoordinatorConfig
	Roster   l3team.Roster
	TeamName string
	Registry landmarks.Registry

	// TickPeriod paces ticks on Clock; zero replays as fast as possible.
	TickPeriod time.Duration
	Clock      timeutil.Clock
}

// DefaultConfig is a five-player left-side team named "red" with the
// embedded defaults and no pacing.
func DefaultConfig() Config {
	return Config{
		Agent:    agent.DefaultConfig(),
		Team:     l3team.DefaultCoordinatorConfig(),
		Roster:   l3team.DefaultRoster(5, cognition.SideLeft),
		TeamName: "red",
		Registry: landmarks.Default(),
	}
}

// Record is the runner's output for one frame.
type Record struct {
	RunID   string              `json:"run_id"`
	Tick    int                 `json:"tick"`
	Agent   int                 `json:"agent"`
	Command cognition.Command   `json:"command"`
	Aux     []cognition.Command `json:"aux,omitempty"`
	Pose    *l2pose.Pose        `json:"pose,omitempty"`
	Task    l3team.TaskKind     `json:"task,omitempty"`
	State   string              `json:"state,omitempty"`
}

// Summary totals a run.
type Summary struct {
	RunID    string
	Frames   int
	Ticks    int
	Commands map[cognition.CommandKind]int
}

// Runner owns one team: a coordinator and an agent per roster member.
type Runner struct {
	runID  string
	coord  *l3team.Coordinator
	agents map[int]*agent.Agent
	pacer  *timeutil.Pacer
	diag   *Diagnostics

	lastTick int
	ticks    int
}

// NewRunner builds the team described by cfg.
func NewRunner(cfg Config) (*Runner, error) {
	if len(cfg.Roster.Members) == 0 {
		return nil, fmt.Errorf("%w: empty roster", l3team.ErrInvalidRoster)
	}
	r := &Runner{
		runID:    uuid.New().String(),
		coord:    l3team.NewCoordinator(cfg.Team, cfg.Roster),
		agents:   make(map[int]*agent.Agent, len(cfg.Roster.Members)),
		pacer:    timeutil.NewPacer(cfg.Clock, cfg.TickPeriod),
		diag:     NewDiagnostics(),
		lastTick: -1,
	}
	for _, m := range cfg.Roster.Members {
		id := agent.Identity{Member: m, Side: cfg.Roster.Side, Team: cfg.TeamName}
		a, err := agent.New(id, cfg.Agent, cfg.Registry, r.coord)
		if err != nil {
			return nil, fmt.Errorf("agent %d: %w", m.ID, err)
		}
		r.agents[m.ID] = a
	}
	return r, nil
}

// RunID identifies this run in every record.
func (r *Runner) RunID() string { return r.runID }

// Coordinator exposes the team coordinator.
func (r *Runner) Coordinator() *l3team.Coordinator { return r.coord }

// Diagnostics returns the samples collected so far.
func (r *Runner) Diagnostics() *Diagnostics { return r.diag }

// Agent returns the agent with the given id.
func (r *Runner) Agent(id int) (*agent.Agent, bool) {
	a, ok := r.agents[id]
	return a, ok
}

// Step delivers f's events, runs its agent and records diagnostics. The
// pacer waits whenever a new tick starts.
func (r *Runner) Step(f Frame) (Record, error) {
	a, ok := r.agents[f.Agent]
	if !ok {
		return Record{}, fmt.Errorf("%w: %d", ErrUnknownAgent, f.Agent)
	}
	if f.Tick != r.lastTick {
		r.pacer.Wait()
		r.lastTick = f.Tick
		r.ticks++
	}

	for _, e := range f.Events {
		switch e.Kind {
		case EventGoal:
			if err := a.OnGoal(); err != nil {
				return Record{}, err
			}
		case EventHear:
			a.OnHear(f.Tick, e.Sender, e.Message)
		}
	}

	out := a.Step(f.Tick, f.Observations)
	pose := a.Pose()
	r.diag.Add(f.Tick, f.Agent, pose, f.Truth)

	rec := Record{
		RunID:   r.runID,
		Tick:    f.Tick,
		Agent:   f.Agent,
		Command: out.Command,
		Aux:     out.Aux,
		Pose:    pose,
		State:   a.State(),
	}
	if a.Mode() == agent.ModeHierarchy {
		rec.Task = r.coord.GetAssignment(f.Agent).Task
	}
	return rec, nil
}

// Run replays a JSON-lines scenario from in and writes JSON-lines records
// to out. It stops at the first bad frame or when ctx is done.
func (r *Runner) Run(ctx context.Context, in io.Reader, out io.Writer) (Summary, error) {
	sum := Summary{RunID: r.runID, Commands: make(map[cognition.CommandKind]int)}
	dec := NewDecoder(in)
	enc := json.NewEncoder(out)
	logf("run %s: %d agents", r.runID, len(r.agents))

	for {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		f, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return sum, err
		}
		rec, err := r.Step(f)
		if err != nil {
			return sum, fmt.Errorf("tick %d: %w", f.Tick, err)
		}
		if err := enc.Encode(rec); err != nil {
			return sum, fmt.Errorf("write record: %w", err)
		}
		sum.Frames++
		sum.Commands[rec.Command.Kind()]++
		for _, aux := range rec.Aux {
			sum.Commands[aux.Kind()]++
		}
	}
	sum.Ticks = r.ticks

	kinds := make([]string, 0, len(sum.Commands))
	for k, n := range sum.Commands {
		kinds = append(kinds, fmt.Sprintf("%s=%d", k, n))
	}
	sort.Strings(kinds)
	logf("run %s done: %d frames over %d ticks %v", r.runID, sum.Frames, sum.Ticks, kinds)
	return sum, nil
}
