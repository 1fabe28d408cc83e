package lander

import "math"

type MatchOutcome int

const (
	MatchInconclusive MatchOutcome = iota
	MatchWon
	MatchDrawn
	MatchNoSurvivors
)

func (o MatchOutcome) String() string {
	switch o {
	case MatchWon:
		return "won"
	case MatchDrawn:
		return "drawn"
	case MatchNoSurvivors:
		return "no_survivors"
	case MatchInconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

type MatchVerdict struct {
	Outcome     MatchOutcome
	Winner      string
	WinnerTick  int
	Landed      int
	Crashed     int
	Flying      int
	Total       int
	Description string
}

// assessTouchdown judges a ground contact against the landing limits. The
// checks run hardest-first, so a contact violating several limits reports
// the most severe one.
func assessTouchdown(s *Ship, t Terrain, oc OutcomeConfig) (ok bool, reason string) {
	if s.vy < -oc.MaxLandingVY {
		return false, "hard_impact"
	}
	if math.Abs(s.vx) > oc.MaxLandingVX {
		return false, "lateral_drift"
	}
	if math.Abs(s.heading) > oc.MaxLandingTilt {
		return false, "bad_attitude"
	}
	if !t.FlatAround(int(s.x), oc.FootprintHalf) {
		return false, "rough_ground"
	}
	return true, ""
}

// DetermineMatchVerdict ranks the ships after a match. The first safe
// touchdown wins; two safe touchdowns on the same tick draw. Ships still
// flying leave the match inconclusive only when nothing has landed yet.
func DetermineMatchVerdict(ships []*Ship) MatchVerdict {
	v := MatchVerdict{Total: len(ships), WinnerTick: -1}
	for _, s := range ships {
		switch s.state {
		case ShipLanded:
			v.Landed++
		case ShipCrashed:
			v.Crashed++
		default:
			v.Flying++
		}
	}

	if v.Landed > 0 {
		first := -1
		firstCount := 0
		var winner string
		for _, s := range ships {
			if s.state != ShipLanded {
				continue
			}
			switch {
			case first == -1 || s.touchdownTick < first:
				first = s.touchdownTick
				firstCount = 1
				winner = s.team
			case s.touchdownTick == first:
				firstCount++
			}
		}
		v.WinnerTick = first
		if firstCount > 1 {
			v.Outcome = MatchDrawn
			v.Description = "simultaneous_touchdown"
			return v
		}
		v.Outcome = MatchWon
		v.Winner = winner
		v.Description = "first_safe_touchdown"
		return v
	}

	if v.Flying == 0 {
		v.Outcome = MatchNoSurvivors
		v.Description = "all_ships_down_no_lander"
		return v
	}

	v.Outcome = MatchInconclusive
	v.Description = "still_flying_at_tick_budget"
	return v
}
