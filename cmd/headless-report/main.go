package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/apollobots/lunar-lander/internal/lander"
	"github.com/apollobots/lunar-lander/internal/recorder"
)

// tickSampleEvery decimates telemetry rows written to the recorder DB.
const tickSampleEvery = 10

type runStats struct {
	runIndex int
	seed     int64
	endTick  int

	outcome    string
	winner     string
	winnerTick int

	landed  int
	crashed int
	flying  int
	total   int

	firstSiteTick      int
	firstApproachTick  int
	firstTouchdownTick int
	firstCrashTick     int

	phaseChanges int
	siteSwitches int
	conflicts    int
	fuelEmpties  int

	grades []lander.FlightGrade
}

func main() {
	var (
		runs         = flag.Int("runs", 5, "number of headless match runs")
		ticks        = flag.Int("ticks", 20000, "tick budget per run")
		seedBase     = flag.Int64("seed-base", 42, "RNG seed for run 1")
		seedStep     = flag.Int64("seed-step", 1, "seed increment between runs")
		scenarioPath = flag.String("scenario", "", "scenario deck (default: stock two-lander duel)")
		configPath   = flag.String("config", "", "config file (default: ./lander.yaml if present)")
		plotsDir     = flag.String("plots-dir", "", "write per-run PNG plots into this directory")
		dbPath       = flag.String("db", "", "record matches into this SQLite database")
		logLevel     = flag.String("log-level", "warn", "zerolog level: trace|debug|info|warn|error")
	)
	flag.Parse()

	log := newLogger(*logLevel)

	if *runs <= 0 || *ticks <= 0 {
		fmt.Println("error: -runs and -ticks must be > 0")
		os.Exit(1)
	}

	cfg, err := lander.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	scenName := "stock-duel"
	var scen *lander.Scenario
	if *scenarioPath != "" {
		scen, err = lander.LoadScenario(*scenarioPath)
		if err != nil {
			log.Fatal().Err(err).Msg("scenario load failed")
		}
		scenName = scen.Name
	}

	var rec *recorder.Recorder
	if *dbPath != "" {
		rec, err = recorder.Open(*dbPath, log)
		if err != nil {
			log.Fatal().Err(err).Msg("recorder open failed")
		}
		defer rec.Close()
	}

	fmt.Printf("=== Headless Descent Report ===\n")
	fmt.Printf("scenario=%s runs=%d ticks=%d seed_base=%d seed_step=%d\n\n",
		scenName, *runs, *ticks, *seedBase, *seedStep)

	all := make([]runStats, 0, *runs)
	for i := 0; i < *runs; i++ {
		seed := *seedBase + int64(i)*(*seedStep)
		m := buildMatch(cfg, scen, seed, log)

		for t := 0; t < *ticks && !m.Done(); t++ {
			m.Step()
		}

		grades := lander.GradeFlights(m.Ships(), m.Reporter(), m.Config().Outcome)
		rs := collectRunStats(i+1, seed, m, grades)
		all = append(all, rs)
		printRun(rs, m)

		if *plotsDir != "" {
			if err := writeRunPlots(*plotsDir, i+1, m); err != nil {
				log.Error().Err(err).Int("run", i+1).Msg("plot write failed")
			}
		}
		if rec != nil {
			if _, err := rec.SaveMatch(m, scenName, grades, tickSampleEvery); err != nil {
				log.Error().Err(err).Int("run", i+1).Msg("match record failed")
			}
		}
	}

	printAggregate(all)
}

// buildMatch constructs one run's match: the scenario deck when given,
// otherwise the stock duel also flown by the viewer.
func buildMatch(cfg lander.Config, scen *lander.Scenario, seed int64, log zerolog.Logger) *lander.Match {
	if scen != nil {
		m, err := scen.Build(cfg, seed, false)
		if err != nil {
			log.Fatal().Err(err).Msg("scenario build failed")
		}
		m.SetLogger(log)
		return m
	}
	m := lander.NewMatch(cfg, seed, false)
	m.SetLogger(log)
	nx := float64(cfg.World.NX)
	ny := float64(cfg.World.NY)
	m.AddShip(lander.NewThresholdPilot("Apollo 11", cfg.Guidance), "fr", 0.12*nx, 0.85*ny, 14, 0, 12)
	m.AddShip(lander.NewPIDPilot("Firefly", cfg.PID), "gb", 0.62*nx, 0.85*ny, -8, 0, -20)
	return m
}

func collectRunStats(runIndex int, seed int64, m *lander.Match, grades []lander.FlightGrade) runStats {
	entries := m.SimLog().Entries()
	v := m.Verdict()

	rs := runStats{
		runIndex:           runIndex,
		seed:               seed,
		endTick:            m.Tick(),
		outcome:            v.Outcome.String(),
		winner:             v.Winner,
		winnerTick:         v.WinnerTick,
		landed:             v.Landed,
		crashed:            v.Crashed,
		flying:             v.Flying,
		total:              v.Total,
		firstSiteTick:      firstTick(entries, "guidance", "site_found", ""),
		firstApproachTick:  firstTick(entries, "guidance", "phase_change", "approach"),
		firstTouchdownTick: firstTick(entries, "flight", "touchdown", ""),
		firstCrashTick:     firstTick(entries, "flight", "crash", ""),
		phaseChanges:       m.SimLog().CountCategory("guidance", "phase_change"),
		siteSwitches:       m.SimLog().CountCategory("guidance", "site_switch"),
		conflicts:          m.SimLog().CountCategory("guidance", "conflict_command"),
		fuelEmpties:        m.SimLog().CountCategory("flight", "fuel_empty"),
		grades:             grades,
	}
	return rs
}

// firstTick returns the tick of the first entry matching category+key whose
// value contains the given substring, or -1.
func firstTick(entries []lander.SimLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

func printRun(rs runStats, m *lander.Match) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("result: %s", rs.outcome)
	if rs.winner != "" {
		fmt.Printf(" winner=%s at T=%d", rs.winner, rs.winnerTick)
	}
	fmt.Printf("  (landed=%d crashed=%d flying=%d of %d, end T=%d)\n",
		rs.landed, rs.crashed, rs.flying, rs.total, rs.endTick)
	fmt.Printf("phase_markers: first_site=%d first_approach=%d first_touchdown=%d first_crash=%d\n",
		rs.firstSiteTick, rs.firstApproachTick, rs.firstTouchdownTick, rs.firstCrashTick)
	fmt.Printf("event_totals: phase_change=%d site_switch=%d conflict=%d fuel_empty=%d\n",
		rs.phaseChanges, rs.siteSwitches, rs.conflicts, rs.fuelEmpties)

	for _, s := range m.Ships() {
		if sum := m.Reporter().Summarize(s); sum != nil {
			fmt.Print(sum.Format())
		}
	}
	fmt.Print(lander.FormatGrades(rs.grades))
	fmt.Println()
}

func printAggregate(all []runStats) {
	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d\n", len(all))

	totalShips, totalLanded, totalCrashed := 0, 0, 0
	winTicks := make([]int, 0, len(all))
	siteTicks := make([]int, 0, len(all))
	outcomes := map[string]int{}
	for _, rs := range all {
		totalShips += rs.total
		totalLanded += rs.landed
		totalCrashed += rs.crashed
		outcomes[classifyRun(rs)]++
		if rs.winnerTick >= 0 {
			winTicks = append(winTicks, rs.winnerTick)
		}
		if rs.firstSiteTick >= 0 {
			siteTicks = append(siteTicks, rs.firstSiteTick)
		}
	}

	fmt.Printf("landing_rate: %.0f%% (%d/%d ships)  crashed=%d\n",
		rate(totalLanded, totalShips), totalLanded, totalShips, totalCrashed)
	fmt.Printf("avg_ticks: first_site=%s first_win=%s\n",
		avgTickString(siteTicks), avgTickString(winTicks))

	keys := make([]string, 0, len(outcomes))
	for k := range outcomes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, outcomes[k]))
	}
	fmt.Printf("run_classes: %s\n", strings.Join(parts, " "))

	// Per-team averages across runs.
	fmt.Println("\n--- Team Summary (across all runs) ---")
	teamRows := teamAverages(collectAllGrades(all))
	for _, row := range teamRows {
		fmt.Printf("  %-10s %s (avg=%.1f)  landings=%d/%d", row.team,
			lander.PerfLetterGrade(row.avgScore), row.avgScore, row.landings, row.runs)
		if row.topGood != "" {
			fmt.Printf("  good=%s", row.topGood)
		}
		if row.topBad != "" {
			fmt.Printf("  bad=%s", row.topBad)
		}
		fmt.Println()
	}
	fmt.Print(lander.FormatGradesSummary(collectAllGrades(all)))
}

// classifyRun buckets a run by how the field fared: every ship down safely,
// nobody down safely, or a split field. Budget-expired runs are timeouts.
func classifyRun(rs runStats) string {
	switch {
	case rs.flying > 0:
		return "timeout"
	case rs.landed == rs.total:
		return "clean_sweep"
	case rs.landed == 0:
		return "washout"
	default:
		return "split"
	}
}

type teamRow struct {
	team     string
	avgScore float64
	landings int
	runs     int
	topGood  string
	topBad   string
}

// teamAverages folds per-run grades into one row per team, sorted by score.
func teamAverages(grades []lander.FlightGrade) []teamRow {
	type agg struct {
		scoreSum float64
		count    int
		landings int
		good     map[string]int
		bad      map[string]int
	}
	byTeam := map[string]*agg{}
	for _, g := range grades {
		a, ok := byTeam[g.Team]
		if !ok {
			a = &agg{good: map[string]int{}, bad: map[string]int{}}
			byTeam[g.Team] = a
		}
		a.scoreSum += g.Score
		a.count++
		if g.Outcome == lander.ShipLanded {
			a.landings++
		}
		for _, t := range g.GoodTraits {
			a.good[t]++
		}
		for _, t := range g.BadTraits {
			a.bad[t]++
		}
	}

	rows := make([]teamRow, 0, len(byTeam))
	for team, a := range byTeam {
		rows = append(rows, teamRow{
			team:     team,
			avgScore: a.scoreSum / float64(a.count),
			landings: a.landings,
			runs:     a.count,
			topGood:  topTrait(a.good),
			topBad:   topTrait(a.bad),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].avgScore != rows[j].avgScore {
			return rows[i].avgScore > rows[j].avgScore
		}
		return rows[i].team < rows[j].team
	})
	return rows
}

func topTrait(counts map[string]int) string {
	best := ""
	bestN := 0
	for k, v := range counts {
		if v > bestN || (v == bestN && (best == "" || k < best)) {
			best = k
			bestN = v
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf("%s(%d)", best, bestN)
}

func collectAllGrades(all []runStats) []lander.FlightGrade {
	var out []lander.FlightGrade
	for _, rs := range all {
		out = append(out, rs.grades...)
	}
	return out
}

func rate(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(lvl).
		With().Timestamp().Logger()
}
