package recorder

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/apollobots/lunar-lander/internal/lander"
)

func openTestRecorder(t *testing.T) *Recorder {
	t.Helper()
	rec, err := Open(filepath.Join(t.TempDir(), "flights.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("open recorder: %v", err)
	}
	t.Cleanup(func() { _ = rec.Close() })
	return rec
}

// finishedMatch runs a small flat-pad descent to completion so there is a
// real verdict and telemetry to persist.
func finishedMatch(t *testing.T) *lander.TestMatch {
	t.Helper()
	tm := lander.NewTestMatch(
		lander.WithSeed(7),
		lander.WithFlatTerrain(100),
		lander.WithThresholdLander("Apollo 11", 960, 400, 0, 0, 0),
	)
	if tm.RunToCompletion(12000) < 0 {
		t.Fatal("descent did not finish within the tick budget")
	}
	return tm
}

func TestRecorder_SaveMatchPersistsAllRows(t *testing.T) {
	rec := openTestRecorder(t)
	tm := finishedMatch(t)
	grades := lander.GradeFlights(tm.Ships(), tm.Reporter(), tm.Config().Outcome)

	id, err := rec.SaveMatch(tm.Match, "flat-pad", grades, 10)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if id == 0 {
		t.Fatal("saved match id is zero")
	}

	var m MatchRecord
	if err := rec.db.Preload("Landers").Preload("Samples").First(&m, id).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if m.Scenario != "flat-pad" || m.Seed != 7 {
		t.Errorf("header: got scenario=%q seed=%d", m.Scenario, m.Seed)
	}
	if m.Outcome != "won" || m.Winner != "Apollo 11" {
		t.Errorf("verdict: got outcome=%q winner=%q", m.Outcome, m.Winner)
	}
	if len(m.Landers) != 1 {
		t.Fatalf("lander rows: got %d, want 1", len(m.Landers))
	}
	lr := m.Landers[0]
	if lr.Team != "Apollo 11" || lr.Outcome != "landed" {
		t.Errorf("lander row: got team=%q outcome=%q", lr.Team, lr.Outcome)
	}
	if lr.Grade == "" || lr.Score <= 0 {
		t.Errorf("grade missing on lander row: grade=%q score=%v", lr.Grade, lr.Score)
	}

	wantSamples := (tm.Tick() + 9) / 10
	if len(m.Samples) != wantSamples {
		t.Errorf("samples: got %d, want %d (every 10th of %d ticks)",
			len(m.Samples), wantSamples, tm.Tick())
	}
	if m.Samples[0].Team != "Apollo 11" || m.Samples[0].Phase == "" {
		t.Errorf("first sample: %+v", m.Samples[0])
	}
}

func TestRecorder_SampleEveryZeroSkipsTelemetry(t *testing.T) {
	rec := openTestRecorder(t)
	tm := finishedMatch(t)

	id, err := rec.SaveMatch(tm.Match, "flat-pad", nil, 0)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	var count int64
	if err := rec.db.Model(&TickSample{}).Where("match_record_id = ?", id).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("samples: got %d, want none", count)
	}
	var lr LanderResult
	if err := rec.db.Where("match_record_id = ?", id).First(&lr).Error; err != nil {
		t.Errorf("lander row still expected: %v", err)
	}
}

func TestRecorder_AccumulatesAcrossMatches(t *testing.T) {
	rec := openTestRecorder(t)

	for i := 0; i < 3; i++ {
		tm := finishedMatch(t)
		if _, err := rec.SaveMatch(tm.Match, "flat-pad", nil, 0); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	var count int64
	if err := rec.db.Model(&MatchRecord{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Errorf("match rows: got %d, want 3", count)
	}
}
