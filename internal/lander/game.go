package lander

import (
	"image/color"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
)

// teamPalette colours ships and their ticker entries by roster order.
var teamPalette = []color.RGBA{
	{R: 235, G: 210, B: 80, A: 255},  // gold
	{R: 90, G: 170, B: 235, A: 255},  // sky blue
	{R: 230, G: 110, B: 90, A: 255},  // coral
	{R: 130, G: 220, B: 130, A: 255}, // green
}

// Game is the interactive ebiten viewer around one Match. The match itself
// is pure simulation; Game adds pacing, input and rendering.
type Game struct {
	cfg  Config
	scen *Scenario
	seed int64

	match  *Match
	ticker *EventTicker

	width  int // window width: world nx + ticker panel
	height int

	simSpeed  float64 // 0 = paused
	tickAccum float64
	showHUD   bool
	prevKeys  map[ebiten.Key]bool

	logCursor int // sim log entries already shown on the ticker

	zlog zerolog.Logger
}

// NewGame builds the viewer. scen may be nil, in which case a stock
// two-lander duel is flown on generated terrain.
func NewGame(cfg Config, scen *Scenario, seed int64, zlog zerolog.Logger) (*Game, error) {
	g := &Game{
		cfg:      cfg,
		scen:     scen,
		seed:     seed,
		width:    cfg.World.NX + tickerPanelWidth,
		height:   cfg.World.NY,
		simSpeed: 1,
		showHUD:  true,
		prevKeys: make(map[ebiten.Key]bool),
		zlog:     zlog,
	}
	if err := g.buildMatch(); err != nil {
		return nil, err
	}
	return g, nil
}

// buildMatch constructs a fresh match for the current seed.
func (g *Game) buildMatch() error {
	var m *Match
	if g.scen != nil {
		built, err := g.scen.Build(g.cfg, g.seed, false)
		if err != nil {
			return err
		}
		m = built
	} else {
		m = NewMatch(g.cfg, g.seed, false)
		nx := float64(g.cfg.World.NX)
		ny := float64(g.cfg.World.NY)
		m.AddShip(NewThresholdPilot("Apollo 11", g.cfg.Guidance), "fr", 0.12*nx, 0.85*ny, 14, 0, 12)
		m.AddShip(NewPIDPilot("Firefly", g.cfg.PID), "gb", 0.62*nx, 0.85*ny, -8, 0, -20)
	}
	m.SetLogger(g.zlog)
	g.match = m
	g.ticker = NewEventTicker()
	g.logCursor = 0
	g.tickAccum = 0
	return nil
}

// Match exposes the running match, mainly for the HUD and tests.
func (g *Game) Match() *Match { return g.match }

func (g *Game) Update() error {
	g.handleInput()

	if g.simSpeed <= 0 || g.match.Done() {
		g.drainTicker()
		return nil
	}

	// For speeds > 1 run multiple sim ticks per frame; for speeds < 1
	// accumulate fractions. The sim is tuned for one tick per frame at 1x.
	g.tickAccum += g.simSpeed
	for g.tickAccum >= 1.0 {
		g.tickAccum -= 1.0
		g.match.Step()
	}
	g.drainTicker()
	return nil
}

// drainTicker pushes new sim log events onto the on-screen ticker.
func (g *Game) drainTicker() {
	entries := g.match.SimLog().Entries()
	for ; g.logCursor < len(entries); g.logCursor++ {
		e := entries[g.logCursor]
		if e.Category == "state" || e.Category == "control" {
			continue // verbose-only noise
		}
		g.ticker.Add(e.Tick, e.Ship, g.teamColor(e.Ship), e.Key+" "+e.Value)
	}
}

// teamColor maps a team label to its palette colour; match-level events grey.
func (g *Game) teamColor(team string) color.RGBA {
	for i, s := range g.match.Ships() {
		if s.team == team {
			return teamPalette[i%len(teamPalette)]
		}
	}
	return color.RGBA{R: 150, G: 150, B: 150, A: 255}
}

// handleInput processes edge-triggered hotkeys.
func (g *Game) handleInput() {
	currentKeys := map[ebiten.Key]bool{}
	pressed := func(k ebiten.Key) bool {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		return currentKeys[k] && !g.prevKeys[k]
	}

	// P: pause/resume.
	if pressed(ebiten.KeyP) {
		if g.simSpeed > 0 {
			g.simSpeed = 0
		} else {
			g.simSpeed = 1
		}
	}

	// ,/. : step the speed ladder.
	speeds := []float64{0, 0.25, 0.5, 1, 2, 4, 8}
	if pressed(ebiten.KeyComma) {
		for i := len(speeds) - 1; i > 0; i-- {
			if speeds[i] < g.simSpeed {
				g.simSpeed = speeds[i]
				break
			}
		}
	}
	if pressed(ebiten.KeyPeriod) {
		for _, s := range speeds {
			if s > g.simSpeed {
				g.simSpeed = s
				break
			}
		}
	}

	// R: rerun the same seed. N: reroll.
	if pressed(ebiten.KeyR) {
		if err := g.buildMatch(); err != nil {
			g.zlog.Error().Err(err).Msg("match rebuild failed")
		}
	}
	if pressed(ebiten.KeyN) {
		g.seed++
		if err := g.buildMatch(); err != nil {
			g.zlog.Error().Err(err).Msg("match rebuild failed")
		}
	}

	// H: toggle HUD.
	if pressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}

	// C: copy a debug report for every ship to the clipboard.
	if pressed(ebiten.KeyC) {
		var b strings.Builder
		for _, s := range g.match.Ships() {
			b.WriteString(g.match.ShipDebugReport(s.team, 600))
			b.WriteByte('\n')
		}
		if err := clipboard.WriteAll(b.String()); err != nil {
			g.zlog.Warn().Err(err).Msg("clipboard write failed")
		} else {
			g.zlog.Info().Msg("debug report copied to clipboard")
		}
	}

	g.prevKeys = currentKeys
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
