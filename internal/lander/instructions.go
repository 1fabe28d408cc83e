package lander

// Instructions is the full actuator command a pilot emits for one tick.
// Thruster and rotation fields left false mean "off" for that tick; there is
// no neutral or carry-over state between ticks.
type Instructions struct {
	Main  bool // main engine burn
	Left  bool // rotate counter-clockwise
	Right bool // rotate clockwise
}

// Conflict reports whether both rotation thrusters are commanded at once.
// A conflicting command is a pilot contract violation; the match treats it
// as a coast tick.
func (in Instructions) Conflict() bool {
	return in.Left && in.Right
}

// applyRotation sets the rotation field matching cmd, leaving Main untouched.
func (in *Instructions) applyRotation(cmd RotationCommand) {
	switch cmd {
	case RotateLeft:
		in.Left = true
	case RotateRight:
		in.Right = true
	}
}

func (in Instructions) String() string {
	s := ""
	if in.Main {
		s += "M"
	}
	if in.Left {
		s += "L"
	}
	if in.Right {
		s += "R"
	}
	if s == "" {
		return "coast"
	}
	return s
}
