package lander

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

var (
	skyColor     = color.RGBA{R: 8, G: 8, B: 16, A: 255}
	groundColor  = color.RGBA{R: 90, G: 85, B: 80, A: 255}
	surfaceColor = color.RGBA{R: 150, G: 145, B: 135, A: 255}
	padColor     = color.RGBA{R: 80, G: 220, B: 120, A: 255}
	flameColor   = color.RGBA{R: 255, G: 160, B: 40, A: 255}
	rcsColor     = color.RGBA{R: 180, G: 200, B: 255, A: 255}
	rockColor    = color.RGBA{R: 120, G: 100, B: 90, A: 255}
	hudTextColor = color.RGBA{R: 200, G: 205, B: 220, A: 255}
)

var hudFace = basicfont.Face7x13

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(skyColor)

	ny := float64(g.cfg.World.NY)
	sy := func(worldY float64) float32 { return float32(ny - worldY) }

	g.drawTerrain(screen, sy)
	g.drawSiteMarkers(screen, sy)

	for _, a := range g.match.Asteroids() {
		vector.FillCircle(screen, float32(a.X), sy(a.Y), float32(a.Radius), rockColor, true)
	}

	for i, s := range g.match.Ships() {
		g.drawShip(screen, s, teamPalette[i%len(teamPalette)], sy)
	}

	if g.showHUD {
		g.drawHUD(screen)
	}
	g.ticker.Draw(screen, g.cfg.World.NX, g.height)

	if g.match.Done() {
		g.drawVerdictBanner(screen)
	} else if g.simSpeed == 0 {
		ebitenutil.DebugPrintAt(screen, "PAUSED", g.cfg.World.NX/2-20, 8)
	}
}

// drawTerrain fills one column per terrain sample with a lit surface line on
// top.
func (g *Game) drawTerrain(screen *ebiten.Image, sy func(float64) float32) {
	t := g.match.Terrain()
	for i, h := range t {
		x := float32(i)
		top := sy(h)
		vector.FillRect(screen, x, top, 1, float32(g.height)-top, groundColor, false)
		vector.FillRect(screen, x, top, 1, 2, surfaceColor, false)
	}
}

// drawSiteMarkers highlights each pilot's current target site.
func (g *Game) drawSiteMarkers(screen *ebiten.Image, sy func(float64) float32) {
	t := g.match.Terrain()
	for _, s := range g.match.Ships() {
		tg, ok := s.pilot.(targeted)
		if !ok {
			continue
		}
		site, has := tg.Target()
		if !has {
			continue
		}
		x := float32(site)
		y := sy(t.At(site))
		vector.StrokeLine(screen, x-18, y+3, x+18, y+3, 2, padColor, false)
		vector.StrokeLine(screen, x, y+3, x, y+10, 1, padColor, false)
	}
}

// drawShip renders the craft as a rotated triangle with thruster flames.
// Heading 0 points up; positive headings tilt the nose toward -x.
func (g *Game) drawShip(screen *ebiten.Image, s *Ship, col color.RGBA, sy func(float64) float32) {
	cx, cy := float32(s.x), sy(s.y)
	rad := s.heading * degToRad

	// Nose and base corners in ship-local space, rotated into the world.
	rot := func(lx, ly float64) (float32, float32) {
		wx := lx*math.Cos(rad) - ly*math.Sin(rad)
		wy := lx*math.Sin(rad) + ly*math.Cos(rad)
		return cx + float32(wx), cy - float32(wy)
	}
	nx, nyp := rot(0, shipRadius*1.4)
	blx, bly := rot(-shipRadius*0.8, -shipRadius*0.8)
	brx, bry := rot(shipRadius*0.8, -shipRadius*0.8)

	if s.state == ShipCrashed {
		col = color.RGBA{R: 120, G: 60, B: 60, A: 255}
	}
	vector.StrokeLine(screen, nx, nyp, blx, bly, 2, col, true)
	vector.StrokeLine(screen, blx, bly, brx, bry, 2, col, true)
	vector.StrokeLine(screen, brx, bry, nx, nyp, 2, col, true)

	if s.state == ShipFlying {
		if s.lastInstr.Main {
			fx, fy := rot(0, -shipRadius*1.8)
			vector.StrokeLine(screen, (blx+brx)/2, (bly+bry)/2, fx, fy, 3, flameColor, true)
		}
		if s.lastInstr.Left {
			px, py := rot(shipRadius*1.3, 0)
			vector.StrokeLine(screen, brx, bry, px, py, 1, rcsColor, true)
		}
		if s.lastInstr.Right {
			px, py := rot(-shipRadius*1.3, 0)
			vector.StrokeLine(screen, blx, bly, px, py, 1, rcsColor, true)
		}
	}

	// Landed craft get a small pennant.
	if s.state == ShipLanded {
		vector.StrokeLine(screen, cx+12, cy, cx+12, cy-14, 1, col, false)
		vector.FillRect(screen, cx+12, cy-14, 7, 5, col, false)
	}

	label := fmt.Sprintf("%s [%s]", s.team, s.flag)
	text.Draw(screen, label, hudFace, int(cx)-len(label)*3, int(cy)-22, col)
}

// drawHUD prints one telemetry block per ship in the top-left corner.
func (g *Game) drawHUD(screen *ebiten.Image) {
	y := 18
	header := fmt.Sprintf("T=%05d  t=%.1fs  speed=%.2gx   [P]ause ,/. speed [R]erun [N]ew seed [C]opy report [H]ud",
		g.match.Tick(), g.match.Elapsed(), g.simSpeed)
	text.Draw(screen, header, hudFace, 8, y, hudTextColor)
	y += 18

	for i, s := range g.match.Ships() {
		col := teamPalette[i%len(teamPalette)]
		line := fmt.Sprintf("%-10s %-8s x=%6.1f y=%6.1f vx=%6.2f vy=%6.2f hdg=%6.1f fuel=%5.0f",
			s.team, s.state, s.x, s.y, s.vx, s.vy, s.heading, s.fuel)
		if ph, ok := s.pilot.(phased); ok && s.state == ShipFlying {
			line += "  " + ph.Phase().String()
		}
		if tg, ok := s.pilot.(targeted); ok {
			if site, has := tg.Target(); has {
				line += fmt.Sprintf("  site=%d", site)
			}
		}
		if s.state == ShipCrashed {
			line += "  " + s.crashReason
		}
		text.Draw(screen, line, hudFace, 8, y, col)
		y += 16
	}
}

// drawVerdictBanner shows the match result once everything is down.
func (g *Game) drawVerdictBanner(screen *ebiten.Image) {
	v := g.match.Verdict()
	msg := v.Outcome.String()
	switch v.Outcome {
	case MatchWon:
		msg = fmt.Sprintf("%s lands it at T=%d", v.Winner, v.WinnerTick)
	case MatchDrawn:
		msg = fmt.Sprintf("dead heat at T=%d", v.WinnerTick)
	case MatchNoSurvivors:
		msg = "no survivors"
	}
	msg += "   [R] rerun  [N] new seed"

	w := len(msg) * 7
	x := (g.cfg.World.NX - w) / 2
	vector.FillRect(screen, float32(x-12), 40, float32(w+24), 28, color.RGBA{R: 10, G: 12, B: 20, A: 230}, false)
	vector.StrokeRect(screen, float32(x-12), 40, float32(w+24), 28, 1, hudTextColor, false)
	text.Draw(screen, msg, hudFace, x, 58, hudTextColor)
}
