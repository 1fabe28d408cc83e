package lander

import (
	"strings"
	"testing"
)

func seededSimLog() *SimLog {
	sl := NewSimLog(false)
	sl.Add(1, "Alpha", "guidance", "phase_change", "orient -> search", 1)
	sl.Add(5, "Alpha", "guidance", "site_found", "column 960", 960)
	sl.Add(5, "Beta", "guidance", "phase_change", "orient -> search", 1)
	sl.Add(9, "Alpha", "flight", "touchdown", "x=960 vy=-2.80", -2.8)
	sl.Add(12, "--", "match", "verdict", "Alpha wins", 9)
	return sl
}

func TestSimLog_FilterByCategoryAndKey(t *testing.T) {
	sl := seededSimLog()

	if got := len(sl.Filter("guidance", "")); got != 3 {
		t.Errorf("guidance entries: got %d, want 3", got)
	}
	if got := len(sl.Filter("", "phase_change")); got != 2 {
		t.Errorf("phase_change entries: got %d, want 2", got)
	}
	if got := len(sl.Filter("guidance", "site_found")); got != 1 {
		t.Errorf("guidance/site_found: got %d, want 1", got)
	}
	if got := len(sl.Filter("", "")); got != 5 {
		t.Errorf("unfiltered: got %d, want all 5", got)
	}
}

func TestSimLog_FilterShipAndTickRange(t *testing.T) {
	sl := seededSimLog()

	if got := len(sl.FilterShip("Beta")); got != 1 {
		t.Errorf("Beta entries: got %d, want 1", got)
	}
	ranged := sl.FilterTickRange(5, 9)
	if len(ranged) != 3 {
		t.Fatalf("ticks 5..9: got %d entries, want 3", len(ranged))
	}
	for _, e := range ranged {
		if e.Tick < 5 || e.Tick > 9 {
			t.Errorf("entry at T=%d outside inclusive range", e.Tick)
		}
	}
}

func TestSimLog_LastOfAndHasEntry(t *testing.T) {
	sl := seededSimLog()

	last, ok := sl.LastOf("guidance", "phase_change")
	if !ok || last.Ship != "Beta" || last.Tick != 5 {
		t.Errorf("LastOf phase_change: got (%+v, %t), want Beta at T=5", last, ok)
	}
	if _, ok := sl.LastOf("guidance", "no_such_key"); ok {
		t.Error("LastOf on an absent key must report false")
	}

	if !sl.HasEntry("flight", "touchdown", "vy=-2.80") {
		t.Error("HasEntry must match on value substring")
	}
	if sl.HasEntry("flight", "touchdown", "vy=-9") {
		t.Error("HasEntry matched a substring that is not present")
	}
	if got := sl.CountCategory("guidance", "phase_change"); got != 2 {
		t.Errorf("CountCategory: got %d, want 2", got)
	}
}

func TestSimLog_VerboseGate(t *testing.T) {
	quiet := NewSimLog(false)
	quiet.AddVerbose(1, "A", "state", "kinematics", "x=1", 0)
	if len(quiet.Entries()) != 0 {
		t.Error("verbose entry recorded with verbose off")
	}

	loud := NewSimLog(true)
	loud.AddVerbose(1, "A", "state", "kinematics", "x=1", 0)
	if len(loud.Entries()) != 1 {
		t.Error("verbose entry dropped with verbose on")
	}
}

func TestSimLog_FormatLinesUpColumns(t *testing.T) {
	sl := seededSimLog()
	out := sl.Format()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("formatted lines: got %d, want 5", len(lines))
	}
	if !strings.HasPrefix(lines[0], "[T=0001] Alpha") {
		t.Errorf("first line: %q", lines[0])
	}
	if !strings.Contains(lines[4], "Alpha wins") {
		t.Errorf("last line: %q", lines[4])
	}
}
