package lander

import (
	"fmt"
	"strings"
)

// SimLogEntry is one recorded event during a match.
type SimLogEntry struct {
	Tick     int
	Ship     string  // team label, or "--" for match-level events
	Category string  // guidance, control, flight, match, state
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=0042] Firefly    guidance phase_change    cruise -> approach
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%04d] %-10s %-8s %-16s %s",
		e.Tick, e.Ship, e.Category, e.Key, e.Value)
}

// SimLog collects structured events during a match. Unlike EventTicker (the
// UI ring-buffer), SimLog is unbounded and machine-readable.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. If verbose is true, per-tick position and
// velocity entries are also recorded.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Add records a new entry.
func (sl *SimLog) Add(tick int, ship, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick:     tick,
		Ship:     ship,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(tick int, ship, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(tick, ship, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterShip returns entries for a specific ship label.
func (sl *SimLog) FilterShip(label string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Ship == label {
			out = append(out, e)
		}
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (sl *SimLog) FilterTickRange(fromTick, toTick int) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	return len(sl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	entries := sl.Filter(category, key)
	if len(entries) == 0 {
		return SimLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and
// value substring.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (sl *SimLog) Format() string {
	var sb strings.Builder
	for _, e := range sl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatRange returns a log string filtered to a tick range.
func (sl *SimLog) FormatRange(fromTick, toTick int) string {
	var sb strings.Builder
	for _, e := range sl.FilterTickRange(fromTick, toTick) {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable summary of the match state.
func (sl *SimLog) Summary(tick int, ships []*Ship) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%04d ---\n", tick)

	flying, landed, crashed := 0, 0, 0
	for _, s := range ships {
		switch s.state {
		case ShipLanded:
			landed++
		case ShipCrashed:
			crashed++
		default:
			flying++
		}
	}
	fmt.Fprintf(&sb, "Ships: flying=%d  landed=%d  crashed=%d\n", flying, landed, crashed)

	for _, s := range ships {
		line := fmt.Sprintf("%s: %s  pos=(%.0f, %.0f)  v=(%.1f, %.1f)  hdg=%.1f  fuel=%.0f",
			s.team, s.state, s.x, s.y, s.vx, s.vy, s.heading, s.fuel)
		if ph, ok := s.pilot.(phased); ok && s.state == ShipFlying {
			line += "  phase=" + ph.Phase().String()
		}
		if tg, ok := s.pilot.(targeted); ok {
			if site, has := tg.Target(); has {
				line += fmt.Sprintf("  site=%d", site)
			}
		}
		if s.state == ShipCrashed {
			line += "  reason=" + s.crashReason
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}
