package lander

import (
	"os"
	"path/filepath"
	"testing"
)

func writeDeck(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deck.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario_FullDeck(t *testing.T) {
	path := writeDeck(t, `
name: test-deck
description: two landers on a flat world
seed: 9
ticks: 500
world:
  nx: 400
  ny: 300
pid:
  hover_altitude: 250
terrain:
  kind: flat
  height: 40
landers:
  - team: Alpha
    flag: fr
    pilot: threshold
    x: 50
    y: 200
    vx: 3
  - team: Beta
    flag: gb
    pilot: pid
    x: 300
    y: 200
`)

	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sc.Name != "test-deck" || sc.Seed != 9 || sc.Ticks != 500 {
		t.Errorf("header: got %q seed=%d ticks=%d", sc.Name, sc.Seed, sc.Ticks)
	}

	m, err := sc.Build(DefaultConfig(), 0, false)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if m.Seed() != 9 {
		t.Errorf("seed: got %d, want deck seed 9", m.Seed())
	}
	if got := m.Config().World.NX; got != 400 {
		t.Errorf("nx override: got %d, want 400", got)
	}
	if got := m.Config().PID.HoverAltitude; got != 250 {
		t.Errorf("pid hover override: got %v, want 250", got)
	}
	if len(m.Terrain()) != 400 || m.Terrain()[0] != 40 {
		t.Errorf("flat terrain: len=%d t[0]=%v", len(m.Terrain()), m.Terrain()[0])
	}
	ships := m.Ships()
	if len(ships) != 2 {
		t.Fatalf("ships: got %d, want 2", len(ships))
	}
	if ships[0].Team() != "Alpha" || ships[1].Team() != "Beta" {
		t.Errorf("roster order: got %s, %s", ships[0].Team(), ships[1].Team())
	}
	if _, ok := ships[1].pilot.(*PIDPilot); !ok {
		t.Errorf("Beta pilot: got %T, want *PIDPilot", ships[1].pilot)
	}
}

func TestLoadScenario_SeedArgumentWins(t *testing.T) {
	path := writeDeck(t, "name: d\nseed: 9\nlanders:\n  - team: A\n")
	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatal(err)
	}
	m, err := sc.Build(DefaultConfig(), 77, false)
	if err != nil {
		t.Fatal(err)
	}
	if m.Seed() != 77 {
		t.Errorf("seed: got %d, want caller's 77", m.Seed())
	}
}

func TestLoadScenario_Validation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing name", "landers:\n  - team: A\n"},
		{"empty roster", "name: d\n"},
		{"bad pilot", "name: d\nlanders:\n  - team: A\n    pilot: warp\n"},
		{"bad terrain kind", "name: d\nterrain:\n  kind: lava\nlanders:\n  - team: A\n"},
		{"short profile", "name: d\nterrain:\n  kind: profile\n  profile: [1]\nlanders:\n  - team: A\n"},
	}
	for _, tc := range cases {
		path := writeDeck(t, tc.body)
		if _, err := LoadScenario(path); err == nil {
			t.Errorf("%s: expected a validation error", tc.name)
		}
	}
}

func TestShippedScenarioDecks_Load(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("..", "..", "scenarios", "*.yaml"))
	if err != nil || len(matches) == 0 {
		t.Skipf("no shipped decks found: %v", err)
	}
	for _, path := range matches {
		sc, err := LoadScenario(path)
		if err != nil {
			t.Errorf("%s: %v", filepath.Base(path), err)
			continue
		}
		if _, err := sc.Build(DefaultConfig(), 0, false); err != nil {
			t.Errorf("%s: build: %v", filepath.Base(path), err)
		}
	}
}
