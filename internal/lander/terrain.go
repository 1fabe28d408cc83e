package lander

import (
	"math"
	"math/rand"
)

// Terrain is a surface elevation profile, one sample per world column.
// Index 0 is the left edge of the world; values are altitudes in world units.
type Terrain []float64

// At returns the elevation at column i, clamping i to the profile bounds.
func (t Terrain) At(i int) float64 {
	if len(t) == 0 {
		return 0
	}
	if i < 0 {
		i = 0
	}
	if i >= len(t) {
		i = len(t) - 1
	}
	return t[i]
}

// HeightAt returns the elevation under a world x coordinate.
func (t Terrain) HeightAt(x float64) float64 {
	return t.At(int(x))
}

// FlatAround reports whether every column within half cells of ix sits at the
// same elevation as ix itself. Columns past the profile edge are ignored.
func (t Terrain) FlatAround(ix, half int) bool {
	if len(t) == 0 {
		return false
	}
	h0 := t.At(ix)
	lo, hi := ix-half, ix+half
	if lo < 0 {
		lo = 0
	}
	if hi > len(t)-1 {
		hi = len(t) - 1
	}
	for i := lo; i <= hi; i++ {
		if t[i] != h0 {
			return false
		}
	}
	return true
}

// GenerateTerrain builds a jagged profile of n columns between minAlt and
// maxAlt, then carves the requested number of flat pads into it. Elevations
// are rounded to whole units so equal-height runs compare exactly. Pads are
// always carved wider than the landing site threshold, so a generated profile
// with at least one pad always yields a site.
func GenerateTerrain(n int, minAlt, maxAlt float64, pads int, rng *rand.Rand) Terrain {
	if n <= 0 {
		return nil
	}
	t := make(Terrain, n)
	h := minAlt + (maxAlt-minAlt)*(0.25+0.4*rng.Float64())
	slope := 0.0
	for i := range t {
		slope += (rng.Float64() - 0.5) * 5
		slope *= 0.9
		h += slope
		if h < minAlt {
			h = minAlt
			slope = math.Abs(slope)
		}
		if h > maxAlt {
			h = maxAlt
			slope = -math.Abs(slope)
		}
		t[i] = math.Round(h)
	}
	for p := 0; p < pads; p++ {
		width := siteMinWidth + 8 + rng.Intn(64)
		start := 0
		if n > width {
			start = rng.Intn(n - width)
		}
		flat := t[start]
		for i := start; i < start+width && i < n; i++ {
			t[i] = flat
		}
	}
	return t
}
