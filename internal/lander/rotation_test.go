package lander

import "testing"

func TestDecideRotation_ExactTargetIsNone(t *testing.T) {
	for _, h := range []float64{-180, -90, -0.3, 0, 0.3, 45, 179.9} {
		if got := DecideRotation(h, h); got != RotateNone {
			t.Errorf("DecideRotation(%v, %v): got %v, want none", h, h, got)
		}
	}
}

func TestDecideRotation_TowardTarget(t *testing.T) {
	if got := DecideRotation(-10, 0); got != RotateLeft {
		t.Errorf("below target: got %v, want left", got)
	}
	if got := DecideRotation(10, 0); got != RotateRight {
		t.Errorf("above target: got %v, want right", got)
	}
	if got := DecideRotation(0, 90); got != RotateLeft {
		t.Errorf("toward +90: got %v, want left", got)
	}
	if got := DecideRotation(0, -90); got != RotateRight {
		t.Errorf("toward -90: got %v, want right", got)
	}
}

func TestDecideRotation_DeadbandIsOneSided(t *testing.T) {
	// Inside the band: no command.
	if got := DecideRotation(0.49, 0); got != RotateNone {
		t.Errorf("0.49 off: got %v, want none", got)
	}
	if got := DecideRotation(-0.49, 0); got != RotateNone {
		t.Errorf("-0.49 off: got %v, want none", got)
	}
	// Exactly at the band edge the comparison is <, so rotation still fires.
	if got := DecideRotation(0.5, 0); got != RotateRight {
		t.Errorf("exactly 0.5 off: got %v, want right (band is strict <)", got)
	}
	if got := DecideRotation(-0.5, 0); got != RotateLeft {
		t.Errorf("exactly -0.5 off: got %v, want left (band is strict <)", got)
	}
}
