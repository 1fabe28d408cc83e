package lander

// siteMinWidth is the minimum pad width in columns. A run must be strictly
// wider than this to qualify as a landing site.
const siteMinWidth = 40

// FindLandingSite scans the profile for maximal runs of exactly equal
// elevation and picks the widest one, earliest run winning a width tie. The
// returned site is the run's midpoint column. found is false when the widest
// run is not strictly wider than siteMinWidth, or the profile is empty.
//
// The scan looks only at equal neighbours, so a gentle slope quantised to
// distinct values yields no site even when it would be safe to land on.
func FindLandingSite(terrain Terrain) (site int, found bool) {
	if len(terrain) == 0 {
		return 0, false
	}
	bestStart, bestLen := 0, 1
	runStart := 0
	for i := 1; i <= len(terrain); i++ {
		if i == len(terrain) || terrain[i] != terrain[i-1] {
			if runLen := i - runStart; runLen > bestLen {
				bestStart, bestLen = runStart, runLen
			}
			runStart = i
		}
	}
	if bestLen > siteMinWidth {
		return bestStart + bestLen/2, true
	}
	return 0, false
}
