// Command replay runs a JSON-lines scenario through a team of agents and
// writes one JSON record per frame.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/banshee-data/pitchside/internal/cognition"
	"github.com/banshee-data/pitchside/internal/cognition/agent"
	"github.com/banshee-data/pitchside/internal/cognition/l3team"
	"github.com/banshee-data/pitchside/internal/cognition/landmarks"
	"github.com/banshee-data/pitchside/internal/config"
	"github.com/banshee-data/pitchside/internal/fsutil"
	"github.com/banshee-data/pitchside/internal/replay"
	"github.com/banshee-data/pitchside/internal/timeutil"
	"github.com/banshee-data/pitchside/internal/version"
)

func main() {
	scenarioPath := flag.String("scenario", "-", "Scenario JSON-lines file (- for stdin)")
	outPath := flag.String("out", "-", "Record output file (- for stdout)")
	tuningPath := flag.String("tuning", "", "Tuning JSON file (default: embedded defaults)")
	rosterPath := flag.String("roster", "", "Roster YAML file (default: built-in layout)")
	landmarksPath := flag.String("landmarks", "", "Landmark YAML file (default: standard pitch)")
	mode := flag.String("mode", string(agent.ModeHierarchy), "Decision engine: hierarchy or automaton")
	team := flag.String("team", "red", "Team name as seen on observed players")
	side := flag.String("side", "l", "Side the team defends (l or r)")
	players := flag.Int("players", 5, "Players in the built-in layout")
	period := flag.Duration("tick-period", 0, "Pace ticks this far apart (0 = as fast as possible)")
	artifactDir := flag.String("artifacts", "", "Write trajectory and residual charts under this directory")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("replay %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	cfg, err := buildConfig(*tuningPath, *rosterPath, *landmarksPath, *mode, *team, cognition.Side(*side), *players)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg.TickPeriod = *period
	cfg.Clock = timeutil.RealClock{}

	in, closeIn, err := openInput(*scenarioPath)
	if err != nil {
		log.Fatalf("open scenario: %v", err)
	}
	defer closeIn()
	out, closeOut, err := openOutput(*outPath)
	if err != nil {
		log.Fatalf("open output: %v", err)
	}
	defer closeOut()

	runner, err := replay.NewRunner(cfg)
	if err != nil {
		log.Fatalf("build team: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	sum, err := runner.Run(ctx, in, out)
	if err != nil {
		log.Fatalf("replay %s: %v", runner.RunID(), err)
	}
	log.Printf("replayed %d frames over %d ticks in %v", sum.Frames, sum.Ticks, time.Since(start).Round(time.Millisecond))

	diag := runner.Diagnostics()
	for _, id := range diag.Agents() {
		st := diag.Stats(id)
		log.Printf("agent %d: fixes %d/%d mean error %.2f m max %.2f m", id, st.Fixes, st.Samples, st.MeanError, st.MaxError)
	}
	if *artifactDir != "" {
		if _, err := replay.WriteArtifacts(fsutil.OSFileSystem{}, *artifactDir, runner.RunID(), diag); err != nil {
			log.Fatalf("artifacts: %v", err)
		}
	}
}

func buildConfig(tuningPath, rosterPath, landmarksPath, mode, team string, side cognition.Side, players int) (replay.Config, error) {
	tuning := config.Defaults()
	if tuningPath != "" {
		t, err := config.LoadTuningConfig(tuningPath)
		if err != nil {
			return replay.Config{}, err
		}
		tuning = t
	}

	cfg := replay.DefaultConfig()
	cfg.Agent = agent.ConfigFromTuning(tuning)
	m, err := agent.ParseMode(mode)
	if err != nil {
		return replay.Config{}, err
	}
	cfg.Agent.Mode = m
	cfg.Team = l3team.CoordinatorConfigFromTuning(tuning)
	cfg.TeamName = team

	if side != cognition.SideLeft && side != cognition.SideRight {
		return replay.Config{}, fmt.Errorf("side must be l or r, got %q", side)
	}
	cfg.Roster = l3team.DefaultRoster(players, side)
	if rosterPath != "" {
		r, err := l3team.LoadRosterFile(rosterPath)
		if err != nil {
			return replay.Config{}, err
		}
		cfg.Roster = r.ForSide(side)
	}

	if landmarksPath != "" {
		reg, err := landmarks.LoadFile(landmarksPath)
		if err != nil {
			return replay.Config{}, err
		}
		cfg.Registry = reg
	}
	return cfg, nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() {
		if err := f.Close(); err != nil {
			log.Printf("close %s: %v", path, err)
		}
	}, nil
}
