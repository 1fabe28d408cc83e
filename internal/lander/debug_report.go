package lander

import (
	"fmt"
	"math"
	"strings"
)

// ShipDebugReport builds a compact diagnostic timeline for one ship over the
// last lastTicks ticks: a summary line, the sim-log events in range, and the
// flight compressed into stages of unchanged state. The game binds this to a
// clipboard key so a stuck descent can be pasted straight into a bug report.
func (m *Match) ShipDebugReport(team string, lastTicks int) string {
	series := m.rep.Series(team)
	if series == nil || len(series.Samples) == 0 {
		return ""
	}
	if lastTicks <= 0 {
		lastTicks = 600
	}

	toTick := m.tick
	fromTick := toTick - lastTicks + 1
	if fromTick < 0 {
		fromTick = 0
	}

	var snaps []FlightSample
	for _, sp := range series.Samples {
		if sp.Tick >= fromTick && sp.Tick <= toTick {
			snaps = append(snaps, sp)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- lander debug report ---\n")
	fmt.Fprintf(&b, "seed=%d tick_range=[%d..%d] ticks=%d\n", m.seed, fromTick, toTick, toTick-fromTick+1)
	fmt.Fprintf(&b, "ship=%s\n\n", team)

	if len(snaps) == 0 {
		b.WriteString("(no samples recorded yet)\n")
		return b.String()
	}

	summary := summarizeFlightSamples(snaps)
	fmt.Fprintf(&b,
		"summary: main=%d coast=%d alt[min/max]=%.0f/%.0f vy[min]=%.2f |vx|[max]=%.2f fuel=%.0f->%.0f\n",
		summary.mainTicks,
		summary.coastTicks,
		summary.minAlt,
		summary.maxAlt,
		summary.minVY,
		summary.maxAbsVX,
		snaps[0].Fuel,
		snaps[len(snaps)-1].Fuel,
	)
	fmt.Fprintf(&b, "         phases: orient=%d search=%d cruise=%d approach=%d\n",
		summary.phaseTicks[PhaseOrient],
		summary.phaseTicks[PhaseSearch],
		summary.phaseTicks[PhaseCruise],
		summary.phaseTicks[PhaseApproach],
	)

	events := m.log.FilterShip(team)
	var inRange []SimLogEntry
	for _, e := range events {
		if e.Tick >= fromTick && e.Tick <= toTick {
			inRange = append(inRange, e)
		}
	}
	if len(inRange) > 0 {
		b.WriteString("events:\n")
		shown := inRange
		if len(shown) > 24 {
			shown = shown[:24]
		}
		for _, e := range shown {
			fmt.Fprintf(&b, "  - T=%d %s %s %s\n", e.Tick, e.Category, e.Key, e.Value)
		}
		if len(inRange) > 24 {
			fmt.Fprintf(&b, "  - ... (%d more events)\n", len(inRange)-24)
		}
	}

	stages := buildFlightStages(snaps)
	b.WriteString("stages:\n")
	for i, st := range stages {
		fmt.Fprintf(&b,
			"  %02d) T=%d..%d (%dt) state:%s phase:%s main:%t alt:%.0f->%.0f vy:%.2f->%.2f dx:%.0f\n",
			i+1,
			st.startTick,
			st.endTick,
			st.count,
			st.first.State,
			st.first.Phase,
			st.first.Main,
			st.first.Y,
			st.last.Y,
			st.first.VY,
			st.last.VY,
			st.movedX,
		)
		if st.count <= 3 {
			for _, sp := range snaps[st.startIdx : st.endIdx+1] {
				b.WriteString("      ")
				b.WriteString(sp.CompactString(team))
				b.WriteByte('\n')
			}
		} else {
			b.WriteString("      first: ")
			b.WriteString(st.first.CompactString(team))
			b.WriteByte('\n')
			b.WriteString("      last:  ")
			b.WriteString(st.last.CompactString(team))
			b.WriteByte('\n')
		}
	}

	return b.String()
}

// CompactString renders the sample as a single diagnostic line.
func (sp FlightSample) CompactString(team string) string {
	burn := "-"
	if sp.Main {
		burn = "M"
	}
	return fmt.Sprintf("[T=%04d] %s x=%.0f y=%.0f vx=%.2f vy=%.2f hdg=%.1f fuel=%.0f %s %s/%s",
		sp.Tick, team, sp.X, sp.Y, sp.VX, sp.VY, sp.Heading, sp.Fuel, burn, sp.State, sp.Phase)
}

type flightSampleSummary struct {
	mainTicks  int
	coastTicks int
	minAlt     float64
	maxAlt     float64
	minVY      float64
	maxAbsVX   float64
	phaseTicks map[GuidancePhase]int
}

func summarizeFlightSamples(snaps []FlightSample) flightSampleSummary {
	res := flightSampleSummary{
		minAlt:     math.MaxFloat64,
		phaseTicks: make(map[GuidancePhase]int),
	}
	for _, sp := range snaps {
		if sp.Main {
			res.mainTicks++
		} else {
			res.coastTicks++
		}
		if sp.Y < res.minAlt {
			res.minAlt = sp.Y
		}
		if sp.Y > res.maxAlt {
			res.maxAlt = sp.Y
		}
		if sp.VY < res.minVY {
			res.minVY = sp.VY
		}
		if v := math.Abs(sp.VX); v > res.maxAbsVX {
			res.maxAbsVX = v
		}
		res.phaseTicks[sp.Phase]++
	}
	if res.minAlt == math.MaxFloat64 {
		res.minAlt = 0
	}
	return res
}

type flightStage struct {
	startIdx  int
	endIdx    int
	startTick int
	endTick   int
	count     int
	first     FlightSample
	last      FlightSample
	movedX    float64
}

// buildFlightStages compresses consecutive samples that share the same
// state, phase, and burn flag into one stage each.
func buildFlightStages(snaps []FlightSample) []flightStage {
	if len(snaps) == 0 {
		return nil
	}
	keyOf := func(sp FlightSample) string {
		return fmt.Sprintf("st=%d|ph=%d|m=%t", sp.State, sp.Phase, sp.Main)
	}

	stages := make([]flightStage, 0, 16)
	start := 0
	curKey := keyOf(snaps[0])
	for i := 1; i < len(snaps); i++ {
		k := keyOf(snaps[i])
		if k == curKey {
			continue
		}
		stages = append(stages, makeFlightStage(snaps, start, i-1))
		start = i
		curKey = k
	}
	stages = append(stages, makeFlightStage(snaps, start, len(snaps)-1))
	return stages
}

func makeFlightStage(snaps []FlightSample, start, end int) flightStage {
	first := snaps[start]
	last := snaps[end]
	return flightStage{
		startIdx:  start,
		endIdx:    end,
		startTick: first.Tick,
		endTick:   last.Tick,
		count:     end - start + 1,
		first:     first,
		last:      last,
		movedX:    math.Abs(last.X - first.X),
	}
}
