package replay

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/pitchside/internal/cognition"
	"github.com/banshee-data/pitchside/internal/cognition/l2pose"
	"github.com/banshee-data/pitchside/internal/cognition/synth"
)

// Sample is one agent's pose after one tick.
type Sample struct {
	Tick  int
	Pose  *l2pose.Pose
	Truth *synth.Truth
}

// LocalizationError is the distance from the reliable pose to the truth,
// or NaN when either is missing.
func (s Sample) LocalizationError() float64 {
	if s.Pose == nil || !s.Pose.Reliable || s.Truth == nil {
		return math.NaN()
	}
	return s.Pose.Point().Dist(s.Truth.Point())
}

// AgentStats summarizes one agent's localization over a run.
type AgentStats struct {
	Samples   int
	Fixes     int     // Ticks with a reliable pose
	MeanError float64 // NaN without ground truth
	MaxError  float64
}

// Diagnostics accumulates samples per agent.
type Diagnostics struct {
	samples map[int][]Sample
}

// NewDiagnostics creates an empty collector.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{samples: make(map[int][]Sample)}
}

// Add records a sample. pose and truth may be nil.
func (d *Diagnostics) Add(tick, agentID int, pose *l2pose.Pose, truth *synth.Truth) {
	d.samples[agentID] = append(d.samples[agentID], Sample{Tick: tick, Pose: pose, Truth: truth})
}

// Agents returns the ids with samples, ascending.
func (d *Diagnostics) Agents() []int {
	ids := make([]int, 0, len(d.samples))
	for id := range d.samples {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Samples returns the samples of one agent in arrival order.
func (d *Diagnostics) Samples(agentID int) []Sample { return d.samples[agentID] }

// Stats summarizes one agent.
func (d *Diagnostics) Stats(agentID int) AgentStats {
	st := AgentStats{MeanError: math.NaN(), MaxError: math.NaN()}
	var errs []float64
	for _, s := range d.samples[agentID] {
		st.Samples++
		if s.Pose != nil && s.Pose.Reliable {
			st.Fixes++
		}
		if e := s.LocalizationError(); !math.IsNaN(e) {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		st.MeanError = stat.Mean(errs, nil)
		st.MaxError = errs[0]
		for _, e := range errs[1:] {
			st.MaxError = math.Max(st.MaxError, e)
		}
	}
	return st
}

// WriteTrajectoryPNG plots every agent's reliable poses, with the true
// positions as points when known.
func (d *Diagnostics) WriteTrajectoryPNG(w io.Writer) error {
	p := plot.New()
	p.Title.Text = "Estimated trajectories"
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"
	p.X.Min, p.X.Max = -cognition.FieldHalfLength, cognition.FieldHalfLength
	p.Y.Min, p.Y.Max = -cognition.FieldHalfWidth, cognition.FieldHalfWidth

	for i, id := range d.Agents() {
		var est, truth plotter.XYs
		for _, s := range d.samples[id] {
			if s.Pose != nil && s.Pose.Reliable {
				est = append(est, plotter.XY{X: s.Pose.X, Y: s.Pose.Y})
			}
			if s.Truth != nil {
				truth = append(truth, plotter.XY{X: s.Truth.X, Y: s.Truth.Y})
			}
		}
		if len(est) > 0 {
			line, err := plotter.NewLine(est)
			if err != nil {
				return fmt.Errorf("agent %d trajectory: %w", id, err)
			}
			line.Color = plotutil.Color(i)
			line.Width = vg.Points(1)
			p.Add(line)
			p.Legend.Add(fmt.Sprintf("agent %d", id), line)
		}
		if len(truth) > 0 {
			pts, err := plotter.NewScatter(truth)
			if err != nil {
				return fmt.Errorf("agent %d truth: %w", id, err)
			}
			pts.Color = plotutil.Color(i)
			pts.Radius = vg.Points(1.5)
			p.Add(pts)
		}
	}
	p.Legend.Top = true
	p.Legend.Left = false

	wt, err := p.WriterTo(10*vg.Inch, 7*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("draw trajectory plot: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write trajectory plot: %w", err)
	}
	return nil
}

// RenderResidualHTML writes a line chart of the per-tick least-squares
// residual and, when truth is known, the localization error per agent.
// Ticks without a reliable pose are gaps.
func (d *Diagnostics) RenderResidualHTML(w io.Writer, title string) error {
	tickSet := make(map[int]struct{})
	for _, ss := range d.samples {
		for _, s := range ss {
			tickSet[s.Tick] = struct{}{}
		}
	}
	ticks := make([]int, 0, len(tickSet))
	for t := range tickSet {
		ticks = append(ticks, t)
	}
	sort.Ints(ticks)
	index := make(map[int]int, len(ticks))
	for i, t := range ticks {
		index[t] = i
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Localization", Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Localization residual", Subtitle: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "tick"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "m / m²"}),
	)
	line.SetXAxis(ticks)

	for _, id := range d.Agents() {
		residual := gapSeries(len(ticks))
		locErr := gapSeries(len(ticks))
		hasTruth := false
		for _, s := range d.samples[id] {
			i := index[s.Tick]
			if s.Pose != nil && s.Pose.Reliable {
				residual[i] = opts.LineData{Value: s.Pose.Error}
			}
			if e := s.LocalizationError(); !math.IsNaN(e) {
				locErr[i] = opts.LineData{Value: e}
				hasTruth = true
			}
		}
		line.AddSeries(fmt.Sprintf("agent %d residual", id), residual)
		if hasTruth {
			line.AddSeries(fmt.Sprintf("agent %d error", id), locErr)
		}
	}

	if err := line.Render(w); err != nil {
		return fmt.Errorf("render residual chart: %w", err)
	}
	return nil
}

// gapSeries is a series of n missing points; echarts draws "-" as a gap.
func gapSeries(n int) []opts.LineData {
	out := make([]opts.LineData, n)
	for i := range out {
		out[i] = opts.LineData{Value: "-"}
	}
	return out
}
