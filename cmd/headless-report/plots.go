package main

import (
	"bufio"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/apollobots/lunar-lander/internal/lander"
)

// writeRunPlots renders two PNGs for one finished match: the terrain with
// every ship's flown path, and altitude over time.
func writeRunPlots(dir string, runIndex int, m *lander.Match) error {
	if err := writeTrajectoryPlot(filepath.Join(dir, fmt.Sprintf("run%02d_trajectory.png", runIndex)), m); err != nil {
		return err
	}
	return writeAltitudePlot(filepath.Join(dir, fmt.Sprintf("run%02d_altitude.png", runIndex)), m)
}

func writeTrajectoryPlot(path string, m *lander.Match) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Descent trajectories (seed %d)", m.Seed())
	p.X.Label.Text = "x (columns)"
	p.Y.Label.Text = "y (altitude)"
	stylePlot(p)

	terrain := m.Terrain()
	ground := make(plotter.XYs, len(terrain))
	for i, h := range terrain {
		ground[i].X = float64(i)
		ground[i].Y = h
	}
	groundLine, err := plotter.NewLine(ground)
	if err != nil {
		return fmt.Errorf("terrain line: %w", err)
	}
	groundLine.Width = vg.Points(1.5)
	p.Add(groundLine)
	p.Legend.Add("terrain", groundLine)

	for i, team := range m.Reporter().Teams() {
		series := m.Reporter().Series(team)
		if series == nil {
			continue
		}
		pts := make(plotter.XYs, 0, len(series.Samples))
		for _, sp := range series.Samples {
			pts = append(pts, plotter.XY{X: sp.X, Y: sp.Y})
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("trajectory line %s: %w", team, err)
		}
		line.Width = vg.Points(1.5)
		line.Color = plotutilColor(i)
		p.Add(line)
		p.Legend.Add(team, line)
	}

	return savePlotPNG(p, 10, 5.6, path)
}

func writeAltitudePlot(path string, m *lander.Match) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Altitude vs time (seed %d)", m.Seed())
	p.X.Label.Text = "tick"
	p.Y.Label.Text = "y (altitude)"
	stylePlot(p)

	for i, team := range m.Reporter().Teams() {
		series := m.Reporter().Series(team)
		if series == nil {
			continue
		}
		pts := make(plotter.XYs, 0, len(series.Samples))
		for _, sp := range series.Samples {
			pts = append(pts, plotter.XY{X: float64(sp.Tick), Y: sp.Y})
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("altitude line %s: %w", team, err)
		}
		line.Width = vg.Points(1.5)
		line.Color = plotutilColor(i)
		p.Add(line)
		p.Legend.Add(team, line)
	}

	return savePlotPNG(p, 10, 5.6, path)
}

// plotutilColor cycles a small fixed palette for per-team lines.
func plotutilColor(i int) color.Color {
	palette := []color.RGBA{
		{R: 196, G: 160, B: 0, A: 255},
		{R: 32, G: 114, B: 178, A: 255},
		{R: 204, G: 80, B: 62, A: 255},
		{R: 60, G: 160, B: 90, A: 255},
	}
	return palette[i%len(palette)]
}

func stylePlot(p *plot.Plot) {
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.TextStyle.Font.Size = vg.Points(12)
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)
	p.X.Tick.Label.Font.Size = vg.Points(10)
	p.Y.Tick.Label.Font.Size = vg.Points(10)
	p.Legend.Top = true
	p.Legend.TextStyle.Font.Size = vg.Points(10)
}

func savePlotPNG(p *plot.Plot, widthIn, heightIn float64, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("cannot create plot directory: %w", err)
	}
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(150),
	)
	p.Draw(draw.New(c))

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	defer bw.Flush()

	pngc := vgimg.PngCanvas{Canvas: c}
	if _, err := pngc.WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return nil
}
