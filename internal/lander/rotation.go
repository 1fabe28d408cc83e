package lander

import "math"

// RotationCommand is the outcome of a single attitude decision.
type RotationCommand int

const (
	RotateNone RotationCommand = iota
	RotateLeft
	RotateRight
)

func (rc RotationCommand) String() string {
	switch rc {
	case RotateLeft:
		return "left"
	case RotateRight:
		return "right"
	default:
		return "none"
	}
}

// rotationDeadband is the half-width of the attitude dead-band in degrees.
// Inside it no rotation fires; at exactly the band edge rotation still fires.
const rotationDeadband = 0.5

// DecideRotation picks the rotation thruster that moves heading toward target.
// Headings are degrees with 0 upright; positive headings tilt counter-clockwise.
// The comparison is on raw headings, so a craft at +170 asked for -170 rotates
// the long way round rather than across the wrap.
func DecideRotation(heading, target float64) RotationCommand {
	if math.Abs(heading-target) < rotationDeadband {
		return RotateNone
	}
	if heading < target {
		return RotateLeft
	}
	return RotateRight
}
