package lander

import (
	"errors"
	"testing"
)

// tickFor builds a single-craft TickInput around the given state.
func tickFor(terrain Terrain, team string, ps PlayerState) TickInput {
	return TickInput{
		DT:      1.0 / 30.0,
		Terrain: terrain,
		Players: map[string]PlayerState{team: ps},
	}
}

// alternating builds a profile with no run longer than 1.
func alternating(n int) Terrain {
	t := make(Terrain, n)
	for i := range t {
		t[i] = float64(i % 2)
	}
	return t
}

func TestThresholdPilot_OrientBleedsSpeedBeforeRotating(t *testing.T) {
	p := NewThresholdPilot("T", DefaultConfig().Guidance)

	instr, err := p.RunTick(tickFor(flatTerrain(200, 100), "T", PlayerState{VX: 15, Heading: 40}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !instr.Main || instr.Left || instr.Right {
		t.Errorf("vx=15: got %v, want main only", instr)
	}
	if p.Phase() != PhaseOrient {
		t.Errorf("phase: got %v, want orient", p.Phase())
	}
}

func TestThresholdPilot_OrientRotatesUpright(t *testing.T) {
	p := NewThresholdPilot("T", DefaultConfig().Guidance)

	instr, err := p.RunTick(tickFor(flatTerrain(200, 100), "T", PlayerState{VX: 2, Heading: 30}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if instr.Main || !instr.Right || instr.Left {
		t.Errorf("heading=30: got %v, want right only", instr)
	}
	if p.Phase() != PhaseOrient {
		t.Errorf("phase: got %v, want orient while still rotating", p.Phase())
	}
}

func TestThresholdPilot_OrientTransitionsExactlyOnce(t *testing.T) {
	p := NewThresholdPilot("T", DefaultConfig().Guidance)
	in := tickFor(flatTerrain(200, 100), "T", PlayerState{VX: 5, Heading: 0.2, Y: 500})

	// The transition tick itself emits a coast.
	instr, err := p.RunTick(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if instr != (Instructions{}) {
		t.Errorf("transition tick: got %v, want coast", instr)
	}
	if p.Phase() == PhaseOrient {
		t.Fatal("expected pilot to leave orient")
	}

	// Subsequent ticks run the full guidance chain and never re-enter orient.
	for i := 0; i < 5; i++ {
		if _, err := p.RunTick(in); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Phase() == PhaseOrient {
			t.Fatalf("tick %d: pilot re-entered orient", i)
		}
	}
}

func TestThresholdPilot_FallbackHoverWithoutSite(t *testing.T) {
	cfg := DefaultConfig().Guidance
	p := NewThresholdPilot("T", cfg)
	terrain := alternating(300)

	// Leave orient.
	if _, err := p.RunTick(tickFor(terrain, "T", PlayerState{Y: 500})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Below the hover ceiling and descending: relight.
	instr, _ := p.RunTick(tickFor(terrain, "T", PlayerState{Y: 500, VY: -2}))
	if !instr.Main {
		t.Error("descending below hover altitude: want main")
	}
	if p.Phase() != PhaseSearch {
		t.Errorf("phase: got %v, want search", p.Phase())
	}

	// Climbing: coast.
	instr, _ = p.RunTick(tickFor(terrain, "T", PlayerState{Y: 500, VY: 1}))
	if instr.Main {
		t.Error("climbing: want coast")
	}

	// Above the hover ceiling: coast even while descending.
	instr, _ = p.RunTick(tickFor(terrain, "T", PlayerState{Y: cfg.HoverAltitude + 50, VY: -2}))
	if instr.Main {
		t.Error("above hover altitude: want coast")
	}
}

func TestThresholdPilot_CachesFirstSiteForever(t *testing.T) {
	p := NewThresholdPilot("T", DefaultConfig().Guidance)
	// Jagged ground with a single 80-wide pad, so the pad run wins outright.
	stepped := alternating(200)
	for i := 80; i < 160; i++ {
		stepped[i] = 50
	}

	// Leave orient, then acquire.
	if _, err := p.RunTick(tickFor(stepped, "T", PlayerState{Y: 500})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.RunTick(tickFor(stepped, "T", PlayerState{Y: 500, VY: -1})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	site, ok := p.Target()
	if !ok || site != 120 {
		t.Fatalf("target: got (%d,%t), want (120,true)", site, ok)
	}

	// A different terrain would yield site 100, but the cache never refreshes.
	if _, err := p.RunTick(tickFor(flatTerrain(200, 100), "T", PlayerState{Y: 500, VY: -1})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if site, _ := p.Target(); site != 120 {
		t.Errorf("target after terrain change: got %d, want cached 120", site)
	}
}

func TestApproachInstructions_DriftBraking(t *testing.T) {
	cfg := DefaultConfig().Guidance

	// Rightward drift: bank toward +90 with thrust.
	instr := approachInstructions(PlayerState{VX: 1.2, Heading: 0, VY: -1}, cfg.BankAngle)
	if !instr.Main || !instr.Left || instr.Right {
		t.Errorf("vx=1.2: got %v, want main+left (bank toward +90)", instr)
	}

	// Leftward drift: bank toward -90, thrust withheld.
	instr = approachInstructions(PlayerState{VX: -1.2, Heading: 0, VY: -1}, cfg.BankAngle)
	if instr.Main || !instr.Right || instr.Left {
		t.Errorf("vx=-1.2: got %v, want right only", instr)
	}

	// Near-stopped: level out, no thrust at a gentle sink rate.
	instr = approachInstructions(PlayerState{VX: 0.05, Heading: 5, VY: -1}, cfg.BankAngle)
	if instr.Main || !instr.Right || instr.Left {
		t.Errorf("vx=0.05 hdg=5: got %v, want right only", instr)
	}
}

func TestApproachInstructions_DescentOverrideForcesMain(t *testing.T) {
	cfg := DefaultConfig().Guidance

	// Near-stopped and sinking fast: override fires whatever the bank state.
	instr := approachInstructions(PlayerState{VX: 0.05, Heading: 0, VY: -4}, cfg.BankAngle)
	if !instr.Main {
		t.Error("vx=0.05 vy=-4: override must force main")
	}

	// Leftward-drift branch withholds main, but the override still wins
	// while |vx| < 0.5.
	instr = approachInstructions(PlayerState{VX: -0.3, Heading: 0, VY: -4}, cfg.BankAngle)
	if !instr.Main {
		t.Error("vx=-0.3 vy=-4: override must force main on the left branch")
	}

	// Drifting too fast arms nothing: the bank branch decides alone.
	instr = approachInstructions(PlayerState{VX: -0.8, Heading: 0, VY: -4}, cfg.BankAngle)
	if instr.Main {
		t.Error("vx=-0.8: override must stay disarmed")
	}
}

func TestThresholdPilot_CruiseHoldsAltitudeTowardFarSite(t *testing.T) {
	// The classic end-to-end tick: 200 jagged columns with the only pad at
	// [80,160), craft far left of the site. The surroundings must not be
	// flat, or their own runs would tie the pad's and win the earlier-run
	// tie-break.
	terrain := alternating(200)
	for i := 80; i < 160; i++ {
		terrain[i] = 50
	}
	p := NewThresholdPilot("T", DefaultConfig().Guidance)

	// Tick 1 leaves orient (already upright and slow).
	instr, err := p.RunTick(tickFor(terrain, "T", PlayerState{X: 10, Y: 500, VY: -5}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if instr != (Instructions{}) {
		t.Fatalf("orient exit tick: got %v, want coast", instr)
	}

	// Tick 2 acquires site 120 (diff=110, cruise) and holds altitude.
	instr, err = p.RunTick(tickFor(terrain, "T", PlayerState{X: 10, Y: 500, VY: -5}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !instr.Main || instr.Left || instr.Right {
		t.Errorf("cruise tick: got %v, want main only", instr)
	}
	if site, ok := p.Target(); !ok || site != 120 {
		t.Errorf("target: got (%d,%t), want (120,true)", site, ok)
	}
	if p.Phase() != PhaseCruise {
		t.Errorf("phase: got %v, want cruise", p.Phase())
	}
}

func TestThresholdPilot_BoundaryErrors(t *testing.T) {
	p := NewThresholdPilot("T", DefaultConfig().Guidance)

	_, err := p.RunTick(TickInput{Players: map[string]PlayerState{"T": {}}})
	if !errors.Is(err, ErrEmptyTerrain) {
		t.Errorf("empty terrain: got %v, want ErrEmptyTerrain", err)
	}

	_, err = p.RunTick(TickInput{Terrain: flatTerrain(100, 10), Players: map[string]PlayerState{}})
	if !errors.Is(err, ErrNoVehicle) {
		t.Errorf("missing vehicle: got %v, want ErrNoVehicle", err)
	}

	instr, _ := p.RunTick(TickInput{})
	if instr != (Instructions{}) {
		t.Errorf("error tick must coast, got %v", instr)
	}
}
