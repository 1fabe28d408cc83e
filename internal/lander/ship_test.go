package lander

import (
	"math"
	"testing"
)

func testWorld() WorldConfig {
	return DefaultConfig().World
}

func TestShip_MainThrustFollowsNose(t *testing.T) {
	w := testWorld()
	dt := w.DT()

	// Upright: thrust is purely vertical.
	s := NewShip(NewThresholdPilot("T", DefaultConfig().Guidance), "fr", 100, 500, 0, 0, 0, 100)
	s.applyTick(Instructions{Main: true}, w, dt)
	if s.vx != 0 {
		t.Errorf("upright burn: vx = %v, want 0", s.vx)
	}
	wantVY := (w.Thrust - w.Gravity) * dt
	if math.Abs(s.vy-wantVY) > 1e-9 {
		t.Errorf("upright burn: vy = %v, want %v", s.vy, wantVY)
	}

	// Banked positive: the nose tilts toward -x, so thrust pushes left.
	s = NewShip(NewThresholdPilot("T", DefaultConfig().Guidance), "fr", 100, 500, 0, 0, 90, 100)
	s.applyTick(Instructions{Main: true}, w, dt)
	if s.vx >= 0 {
		t.Errorf("banked +90 burn: vx = %v, want negative", s.vx)
	}
}

func TestShip_RotationIntegratesAndBurnsFuel(t *testing.T) {
	w := testWorld()
	dt := w.DT()
	s := NewShip(NewThresholdPilot("T", DefaultConfig().Guidance), "fr", 100, 500, 0, 0, 0, 100)

	s.applyTick(Instructions{Left: true}, w, dt)
	if math.Abs(s.heading-w.RotationRate*dt) > 1e-9 {
		t.Errorf("left burn: heading = %v, want %v", s.heading, w.RotationRate*dt)
	}
	wantFuel := 100 - w.RotationBurnRate*dt
	if math.Abs(s.fuel-wantFuel) > 1e-9 {
		t.Errorf("fuel: got %v, want %v", s.fuel, wantFuel)
	}

	s.applyTick(Instructions{Right: true}, w, dt)
	if math.Abs(s.heading) > 1e-9 {
		t.Errorf("after left+right: heading = %v, want 0", s.heading)
	}
}

func TestShip_EmptyTankKillsActuators(t *testing.T) {
	w := testWorld()
	dt := w.DT()
	s := NewShip(NewThresholdPilot("T", DefaultConfig().Guidance), "fr", 100, 500, 0, 0, 0, 0)

	s.applyTick(Instructions{Main: true, Left: true}, w, dt)
	if s.heading != 0 {
		t.Errorf("dry tank: heading moved to %v", s.heading)
	}
	if s.vy != -w.Gravity*dt {
		t.Errorf("dry tank: vy = %v, want pure gravity %v", s.vy, -w.Gravity*dt)
	}
	if s.lastInstr != (Instructions{}) {
		t.Errorf("dry tank: recorded command %v, want coast", s.lastInstr)
	}
}

func TestShip_WrapsHorizontally(t *testing.T) {
	w := testWorld()
	dt := w.DT()
	s := NewShip(NewThresholdPilot("T", DefaultConfig().Guidance), "fr", float64(w.NX)-0.1, 500, 60, 0, 0, 100)

	s.applyTick(Instructions{}, w, dt)
	if s.x >= float64(w.NX) || s.x < 0 {
		t.Errorf("x = %v, want wrapped into [0,%d)", s.x, w.NX)
	}
}

func TestNormalizeHeading(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{180, 180},
		{181, -179},
		{-180, 180},
		{540, 180},
		{-350, 10},
	}
	for _, tc := range cases {
		if got := normalizeHeading(tc.in); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("normalizeHeading(%v): got %v, want %v", tc.in, got, tc.want)
		}
	}
}
