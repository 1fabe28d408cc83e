package lander

import (
	"fmt"
	"math"
	"strings"
)

// FlightSample is one ship's kinematic state at one tick.
type FlightSample struct {
	Tick    int
	X, Y    float64
	VX, VY  float64
	Heading float64
	Fuel    float64
	Phase   GuidancePhase
	Main    bool
	State   ShipState
}

// FlightSeries is the full sampled trajectory of one ship.
type FlightSeries struct {
	Team    string
	Samples []FlightSample
}

// FlightReporter samples every tracked ship once per tick. The series feed
// the trajectory plots, the flight recorder, and the per-flight summaries.
type FlightReporter struct {
	series map[string]*FlightSeries
	order  []string
}

func NewFlightReporter() *FlightReporter {
	return &FlightReporter{series: make(map[string]*FlightSeries)}
}

// Track registers a team before its first sample, preserving insertion order.
func (r *FlightReporter) Track(team string) {
	if _, ok := r.series[team]; ok {
		return
	}
	r.series[team] = &FlightSeries{Team: team}
	r.order = append(r.order, team)
}

// Collect samples every tracked ship. Grounded ships keep producing samples
// so series stay tick-aligned across the match.
func (r *FlightReporter) Collect(tick int, ships []*Ship) {
	for _, s := range ships {
		fs, ok := r.series[s.team]
		if !ok {
			continue
		}
		sample := FlightSample{
			Tick:    tick,
			X:       s.x,
			Y:       s.y,
			VX:      s.vx,
			VY:      s.vy,
			Heading: s.heading,
			Fuel:    s.fuel,
			Main:    s.lastInstr.Main,
			State:   s.state,
		}
		if ph, ok := s.pilot.(phased); ok {
			sample.Phase = ph.Phase()
		}
		fs.Samples = append(fs.Samples, sample)
	}
}

// Teams returns the tracked teams in registration order.
func (r *FlightReporter) Teams() []string {
	return r.order
}

// Series returns one ship's trajectory, or nil if the team is not tracked.
func (r *FlightReporter) Series(team string) *FlightSeries {
	return r.series[team]
}

// FlightSummary condenses one ship's flight into the numbers worth reporting.
type FlightSummary struct {
	Team    string
	Ticks   int
	Outcome ShipState

	CrashReason   string
	TouchdownTick int
	TouchdownVX   float64
	TouchdownVY   float64

	MaxDescentRate float64 // most negative vy seen
	MaxDrift       float64 // largest |vx| seen
	PeakAltitude   float64
	FuelUsed       float64
	MainTicks      int
	PhaseTicks     map[GuidancePhase]int
}

// Summarize folds a ship's series into a summary. Returns nil when the ship
// was never tracked or produced no samples.
func (r *FlightReporter) Summarize(s *Ship) *FlightSummary {
	fs := r.series[s.team]
	if fs == nil || len(fs.Samples) == 0 {
		return nil
	}

	sum := &FlightSummary{
		Team:          s.team,
		Ticks:         len(fs.Samples),
		Outcome:       s.state,
		CrashReason:   s.crashReason,
		TouchdownTick: s.touchdownTick,
		TouchdownVX:   s.touchdownVX,
		TouchdownVY:   s.touchdownVY,
		FuelUsed:      s.FuelUsed(),
		PhaseTicks:    make(map[GuidancePhase]int),
	}
	for _, sp := range fs.Samples {
		if sp.State != ShipFlying {
			continue
		}
		if sp.VY < sum.MaxDescentRate {
			sum.MaxDescentRate = sp.VY
		}
		if d := math.Abs(sp.VX); d > sum.MaxDrift {
			sum.MaxDrift = d
		}
		if sp.Y > sum.PeakAltitude {
			sum.PeakAltitude = sp.Y
		}
		if sp.Main {
			sum.MainTicks++
		}
		sum.PhaseTicks[sp.Phase]++
	}
	return sum
}

// Format returns a human-readable multi-line flight report.
func (fs *FlightSummary) Format() string {
	if fs == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Flight Report: %s ===\n", fs.Team)
	fmt.Fprintf(&sb, "  outcome=%s", fs.Outcome)
	if fs.Outcome == ShipCrashed {
		fmt.Fprintf(&sb, " (%s)", fs.CrashReason)
	}
	if fs.TouchdownTick >= 0 {
		fmt.Fprintf(&sb, "  touchdown: T=%d  v=(%.2f, %.2f)", fs.TouchdownTick, fs.TouchdownVX, fs.TouchdownVY)
	}
	sb.WriteByte('\n')
	fmt.Fprintf(&sb, "  max descent=%.2f  max drift=%.2f  peak alt=%.0f\n",
		fs.MaxDescentRate, fs.MaxDrift, fs.PeakAltitude)
	fmt.Fprintf(&sb, "  fuel used=%.1f  main burn ticks=%d\n", fs.FuelUsed, fs.MainTicks)

	sb.WriteString("  phases: ")
	for _, ph := range []GuidancePhase{PhaseOrient, PhaseSearch, PhaseCruise, PhaseApproach} {
		if n := fs.PhaseTicks[ph]; n > 0 {
			fmt.Fprintf(&sb, "%s=%d  ", ph, n)
		}
	}
	sb.WriteByte('\n')
	return sb.String()
}
