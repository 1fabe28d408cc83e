package lander

import "errors"

// Contract errors returned by RunTick. A pilot returning an error also
// returns zero Instructions, so the craft coasts for that tick.
var (
	ErrEmptyTerrain = errors.New("lander: empty terrain profile")
	ErrNoVehicle    = errors.New("lander: no vehicle state for team")
)

// PlayerState is one craft's kinematics as supplied to pilots each tick.
// Coordinates are world units, y increasing upward. Heading is degrees with
// 0 upright and positive values tilting counter-clockwise.
type PlayerState struct {
	X, Y    float64
	VX, VY  float64
	Heading float64
}

// TickInput carries everything a pilot may consult during one decision tick.
// The maps and slices are shared snapshots; pilots must not mutate them.
type TickInput struct {
	T         float64 // elapsed sim time, seconds
	DT        float64 // seconds per tick
	Terrain   Terrain
	Players   map[string]PlayerState
	Asteroids []Asteroid
}

// Pilot decides actuator commands for one craft. RunTick is called exactly
// once per sim tick while the craft is flying, and never after touchdown.
type Pilot interface {
	Team() string
	RunTick(in TickInput) (Instructions, error)
}

// GuidancePhase identifies which part of the descent logic produced the
// current tick's command.
type GuidancePhase int

const (
	PhaseOrient GuidancePhase = iota // initial attitude capture
	PhaseSearch                      // no landing site known yet
	PhaseCruise                      // site known, still far laterally
	PhaseApproach                    // inside the lateral capture range
)

func (p GuidancePhase) String() string {
	switch p {
	case PhaseOrient:
		return "orient"
	case PhaseSearch:
		return "search"
	case PhaseCruise:
		return "cruise"
	case PhaseApproach:
		return "approach"
	default:
		return "unknown"
	}
}

// phased is implemented by pilots that expose their current guidance phase.
// The match uses it for change logging; it is optional.
type phased interface {
	Phase() GuidancePhase
}

// targeted is implemented by pilots that cache a landing site target.
type targeted interface {
	Target() (site int, ok bool)
}
