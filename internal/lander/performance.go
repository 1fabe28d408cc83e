package lander

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Grading thresholds.
const (
	perfFeatherVY    = 1.0  // touchdown softer than this is featherweight
	perfCleanTilt    = 2.0  // degrees off upright still counted as clean
	perfOnMarkDist   = 5.0  // columns from the target site
	perfPlummetRate  = -15.0
	perfEconomyFrac  = 0.35 // fuel fraction under this is efficient
	perfWastefulFrac = 0.80
)

// FlightGrade is the computed performance grade for one ship's flight.
type FlightGrade struct {
	Team    string
	Grade   string  // A+, A, B+, B, C+, C, D, F
	Score   float64 // 0-100
	Outcome ShipState

	// Sub-scores (0-100; -1 = not enough data to grade).
	TouchdownScore float64
	DriftScore     float64
	AttitudeScore  float64
	FuelScore      float64
	StabilityScore float64

	// Observed traits.
	GoodTraits []string
	BadTraits  []string

	// Key stats.
	TouchdownVY float64
	TouchdownVX float64
	FuelUsed    float64
	Ticks       int
}

// GradeFlights computes grades for every ship with a collected series,
// sorted best first.
func GradeFlights(ships []*Ship, rep *FlightReporter, oc OutcomeConfig) []FlightGrade {
	grades := make([]FlightGrade, 0, len(ships))
	for _, s := range ships {
		sum := rep.Summarize(s)
		if sum == nil {
			continue
		}
		grades = append(grades, computeFlightGrade(s, sum, oc))
	}
	sort.Slice(grades, func(i, j int) bool {
		if grades[i].Score != grades[j].Score {
			return grades[i].Score > grades[j].Score
		}
		return grades[i].Team < grades[j].Team
	})
	return grades
}

func computeFlightGrade(s *Ship, sum *FlightSummary, oc OutcomeConfig) FlightGrade {
	g := FlightGrade{
		Team:           s.team,
		Outcome:        s.state,
		TouchdownVY:    s.touchdownVY,
		TouchdownVX:    s.touchdownVX,
		FuelUsed:       sum.FuelUsed,
		Ticks:          sum.Ticks,
		TouchdownScore: -1,
		DriftScore:     -1,
		AttitudeScore:  -1,
		FuelScore:      -1,
		StabilityScore: -1,
	}

	down := s.touchdownTick >= 0

	// --- Touchdown softness against the vertical limit ---
	if down && oc.MaxLandingVY > 0 {
		g.TouchdownScore = perfClamp(100 * (1 - math.Abs(s.touchdownVY)/oc.MaxLandingVY))
	}

	// --- Lateral drift at contact ---
	if down && oc.MaxLandingVX > 0 {
		g.DriftScore = perfClamp(100 * (1 - math.Abs(s.touchdownVX)/oc.MaxLandingVX))
	}

	// --- Attitude at contact ---
	if down && oc.MaxLandingTilt > 0 {
		g.AttitudeScore = perfClamp(100 * (1 - math.Abs(s.heading)/oc.MaxLandingTilt))
	}

	// --- Fuel economy over the whole flight ---
	if s.initialFuel > 0 {
		g.FuelScore = perfClamp(100 * (1 - sum.FuelUsed/s.initialFuel))
	}

	// --- Descent stability: never let the craft plummet ---
	if sum.Ticks > 30 {
		sc := 100.0
		if sum.MaxDescentRate < maxDescentRate {
			over := (maxDescentRate - sum.MaxDescentRate) / -perfPlummetRate
			sc -= 100 * over
		}
		g.StabilityScore = perfClamp(sc)
	}

	// --- Overall weighted average over the graded sub-scores ---
	type scoredWeight struct {
		score  float64
		weight float64
	}
	var items []scoredWeight
	if g.TouchdownScore >= 0 {
		items = append(items, scoredWeight{g.TouchdownScore, 0.35})
	}
	if g.DriftScore >= 0 {
		items = append(items, scoredWeight{g.DriftScore, 0.20})
	}
	if g.AttitudeScore >= 0 {
		items = append(items, scoredWeight{g.AttitudeScore, 0.15})
	}
	if g.FuelScore >= 0 {
		items = append(items, scoredWeight{g.FuelScore, 0.15})
	}
	if g.StabilityScore >= 0 {
		items = append(items, scoredWeight{g.StabilityScore, 0.15})
	}

	if len(items) > 0 {
		totalW, totalS := 0.0, 0.0
		for _, it := range items {
			totalW += it.weight
			totalS += it.score * it.weight
		}
		g.Score = totalS / totalW
	} else {
		g.Score = 50.0
	}

	switch s.state {
	case ShipLanded:
		g.Score = math.Min(100, g.Score+5)
	case ShipCrashed:
		g.Score = math.Min(45, g.Score)
	default:
		g.Score = math.Min(55, g.Score)
	}

	g.Grade = PerfLetterGrade(g.Score)
	g.GoodTraits, g.BadTraits = flightTraits(s, sum)
	return g
}

// flightTraits inspects a flight for notable habits worth calling out.
func flightTraits(s *Ship, sum *FlightSummary) (good, bad []string) {
	down := s.touchdownTick >= 0

	if down && s.state == ShipLanded && math.Abs(s.touchdownVY) < perfFeatherVY {
		good = append(good, "feather_touchdown")
	}
	if down && s.state == ShipLanded && math.Abs(s.heading) < perfCleanTilt {
		good = append(good, "clean_attitude")
	}
	if tg, ok := s.pilot.(targeted); ok && s.state == ShipLanded {
		if site, has := tg.Target(); has && math.Abs(s.x-float64(site)) < perfOnMarkDist {
			good = append(good, "on_the_mark")
		}
	}
	if s.initialFuel > 0 && down && sum.FuelUsed/s.initialFuel < perfEconomyFrac {
		good = append(good, "fuel_efficient")
	}
	if sum.Ticks > 30 && sum.MaxDescentRate >= 2*maxDescentRate {
		good = append(good, "steady_descent")
	}

	if down && s.state == ShipCrashed {
		bad = append(bad, "crash_"+s.crashReason)
	}
	if sum.MaxDescentRate < perfPlummetRate {
		bad = append(bad, "plummeted")
	}
	if s.initialFuel > 0 && sum.FuelUsed/s.initialFuel > perfWastefulFrac {
		bad = append(bad, "wasteful_burn")
	}
	if s.fuel <= 0 {
		bad = append(bad, "ran_dry")
	}
	if !down {
		bad = append(bad, "never_landed")
	}
	return
}

// FormatGrades returns a human-readable flight grade report.
func FormatGrades(grades []FlightGrade) string {
	var sb strings.Builder
	sb.WriteString("\n=== Flight Grades ===\n")

	for _, g := range grades {
		fmt.Fprintf(&sb, "  %-3s  %-10s  [%s]  score=%.1f  td_v=(%.2f, %.2f)  fuel=%.0f\n",
			g.Grade, g.Team, g.Outcome, g.Score, g.TouchdownVX, g.TouchdownVY, g.FuelUsed)

		if len(g.GoodTraits) > 0 {
			fmt.Fprintf(&sb, "       Good: %s\n", strings.Join(g.GoodTraits, ", "))
		}
		if len(g.BadTraits) > 0 {
			fmt.Fprintf(&sb, "       Bad:  %s\n", strings.Join(g.BadTraits, ", "))
		}

		var scores []string
		if g.TouchdownScore >= 0 {
			scores = append(scores, fmt.Sprintf("Touchdown=%.0f", g.TouchdownScore))
		}
		if g.DriftScore >= 0 {
			scores = append(scores, fmt.Sprintf("Drift=%.0f", g.DriftScore))
		}
		if g.AttitudeScore >= 0 {
			scores = append(scores, fmt.Sprintf("Attitude=%.0f", g.AttitudeScore))
		}
		if g.FuelScore >= 0 {
			scores = append(scores, fmt.Sprintf("Fuel=%.0f", g.FuelScore))
		}
		if g.StabilityScore >= 0 {
			scores = append(scores, fmt.Sprintf("Stability=%.0f", g.StabilityScore))
		}
		if len(scores) > 0 {
			fmt.Fprintf(&sb, "       Scores: %s\n", strings.Join(scores, "  "))
		}
	}

	return sb.String()
}

// FormatGradesSummary returns a compact one-line-per-ship summary plus trait
// tallies across the field.
func FormatGradesSummary(grades []FlightGrade) string {
	var sb strings.Builder

	goodCount := map[string]int{}
	badCount := map[string]int{}
	scoreSum := 0.0
	landed := 0
	for _, g := range grades {
		scoreSum += g.Score
		if g.Outcome == ShipLanded {
			landed++
		}
		for _, t := range g.GoodTraits {
			goodCount[t]++
		}
		for _, t := range g.BadTraits {
			badCount[t]++
		}
	}

	avg := 0.0
	if len(grades) > 0 {
		avg = scoreSum / float64(len(grades))
	}
	fmt.Fprintf(&sb, "  field: avg_score=%.1f (%s)  landed=%d/%d\n",
		avg, PerfLetterGrade(avg), landed, len(grades))

	if len(goodCount) > 0 {
		fmt.Fprintf(&sb, "    Top good: %s\n", perfTopTraits(goodCount, 4))
	}
	if len(badCount) > 0 {
		fmt.Fprintf(&sb, "    Top bad:  %s\n", perfTopTraits(badCount, 4))
	}

	return sb.String()
}

func perfClamp(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// PerfLetterGrade maps a 0-100 score to a letter grade.
func PerfLetterGrade(score float64) string {
	switch {
	case score >= 93:
		return "A+"
	case score >= 85:
		return "A"
	case score >= 78:
		return "B+"
	case score >= 70:
		return "B"
	case score >= 62:
		return "C+"
	case score >= 55:
		return "C"
	case score >= 45:
		return "D"
	default:
		return "F"
	}
}

func perfTopTraits(counts map[string]int, n int) string {
	type kv struct {
		trait string
		count int
	}
	var items []kv
	for k, v := range counts {
		items = append(items, kv{k, v})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].count != items[j].count {
			return items[i].count > items[j].count
		}
		return items[i].trait < items[j].trait
	})
	if len(items) > n {
		items = items[:n]
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s(%d)", it.trait, it.count)
	}
	return strings.Join(parts, ", ")
}
