// Command scenario-gen writes a synthetic JSON-lines scenario: a team
// chasing a rolling ball, observed through a noisy sensor.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/banshee-data/pitchside/internal/cognition"
	"github.com/banshee-data/pitchside/internal/cognition/l3team"
	"github.com/banshee-data/pitchside/internal/replay"
	"github.com/banshee-data/pitchside/internal/version"
)

func main() {
	output := flag.String("o", "-", "Output path (- for stdout)")
	ticks := flag.Int("ticks", 100, "Number of ticks")
	players := flag.Int("players", 5, "Players per team")
	opponents := flag.Int("opponents", 5, "Opponents on the pitch (0 for none)")
	seed := flag.Int64("seed", 1, "Noise seed")
	distSigma := flag.Float64("noise-dist", 0.03, "Relative range noise (sigma)")
	dirSigma := flag.Float64("noise-dir", 1.0, "Bearing noise in degrees (sigma)")
	view := flag.Float64("view", 0, "Field of view in degrees (0 = all round)")
	maxRange := flag.Float64("range", 0, "Visibility range in metres (0 = unlimited)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("scenario-gen %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	cfg := replay.DefaultGenConfig()
	cfg.Ticks = *ticks
	cfg.Team = l3team.DefaultRoster(*players, cognition.SideLeft)
	cfg.Opponents = l3team.DefaultRoster(*opponents, cognition.SideRight)
	cfg.Sensor.DistanceSigma = *distSigma
	cfg.Sensor.DirectionSigma = *dirSigma
	cfg.Sensor.ViewAngle = *view
	cfg.Sensor.MaxRange = *maxRange
	if *distSigma > 0 || *dirSigma > 0 {
		cfg.Sensor.Rand = rand.New(rand.NewSource(*seed))
	}

	frames := replay.GenerateScenario(cfg)

	w := os.Stdout
	if *output != "-" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatalf("create %s: %v", *output, err)
		}
		defer f.Close()
		w = f
	}
	bw := bufio.NewWriter(w)
	if err := replay.WriteScenario(bw, frames); err != nil {
		log.Fatalf("write scenario: %v", err)
	}
	if err := bw.Flush(); err != nil {
		log.Fatalf("write scenario: %v", err)
	}
	log.Printf("✓ wrote %d frames (%d ticks, %d players)", len(frames), *ticks, *players)
}
