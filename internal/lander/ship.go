package lander

import "math"

// ShipState is the lifecycle of one craft within a match.
type ShipState int

const (
	ShipFlying ShipState = iota
	ShipLanded
	ShipCrashed
)

func (s ShipState) String() string {
	switch s {
	case ShipFlying:
		return "flying"
	case ShipLanded:
		return "landed"
	case ShipCrashed:
		return "crashed"
	default:
		return "unknown"
	}
}

// shipRadius is the collision and touchdown footprint radius in world units.
const shipRadius = 10.0

const degToRad = math.Pi / 180

// Ship is one craft in a match: a pilot plus its physical state. All motion
// happens in applyTick; pilots only ever see a PlayerState copy.
type Ship struct {
	team  string
	flag  string
	pilot Pilot

	x, y    float64
	vx, vy  float64
	heading float64

	fuel        float64
	initialFuel float64

	state         ShipState
	crashReason   string
	touchdownTick int
	touchdownVX   float64
	touchdownVY   float64

	lastInstr Instructions

	// Change-detection state owned by the match logger.
	errLogged  bool
	prevPhase  GuidancePhase
	havePhase  bool
	prevTarget int
	hadTarget  bool
}

// NewShip creates a flying craft at the given state. flag is a cosmetic
// country code shown on the HUD.
func NewShip(pilot Pilot, flag string, x, y, vx, vy, heading, fuel float64) *Ship {
	return &Ship{
		team:          pilot.Team(),
		flag:          flag,
		pilot:         pilot,
		x:             x,
		y:             y,
		vx:            vx,
		vy:            vy,
		heading:       normalizeHeading(heading),
		fuel:          fuel,
		initialFuel:   fuel,
		state:         ShipFlying,
		touchdownTick: -1,
	}
}

func (s *Ship) Team() string                   { return s.team }
func (s *Ship) Flag() string                   { return s.flag }
func (s *Ship) State() ShipState               { return s.state }
func (s *Ship) Position() (x, y float64)       { return s.x, s.y }
func (s *Ship) Velocity() (vx, vy float64)     { return s.vx, s.vy }
func (s *Ship) Heading() float64               { return s.heading }
func (s *Ship) Fuel() float64                  { return s.fuel }
func (s *Ship) FuelUsed() float64              { return s.initialFuel - s.fuel }
func (s *Ship) CrashReason() string            { return s.crashReason }
func (s *Ship) LastInstructions() Instructions { return s.lastInstr }

// TouchdownTick returns the tick the craft reached the ground, or -1 while
// still flying.
func (s *Ship) TouchdownTick() int { return s.touchdownTick }

// TouchdownVelocity returns the velocity at ground contact. Zero until the
// craft is down.
func (s *Ship) TouchdownVelocity() (vx, vy float64) {
	return s.touchdownVX, s.touchdownVY
}

// playerState snapshots the kinematics pilots are allowed to see.
func (s *Ship) playerState() PlayerState {
	return PlayerState{X: s.x, Y: s.y, VX: s.vx, VY: s.vy, Heading: s.heading}
}

// applyTick integrates one tick of motion under the given command. A dry
// tank kills every actuator; gravity still applies. The world wraps
// horizontally at w.NX.
func (s *Ship) applyTick(instr Instructions, w WorldConfig, dt float64) {
	if s.state != ShipFlying {
		return
	}
	if s.fuel <= 0 {
		instr = Instructions{}
	}

	if instr.Left {
		s.heading += w.RotationRate * dt
		s.fuel -= w.RotationBurnRate * dt
	}
	if instr.Right {
		s.heading -= w.RotationRate * dt
		s.fuel -= w.RotationBurnRate * dt
	}
	s.heading = normalizeHeading(s.heading)

	if instr.Main {
		rad := s.heading * degToRad
		s.vx += -math.Sin(rad) * w.Thrust * dt
		s.vy += math.Cos(rad) * w.Thrust * dt
		s.fuel -= w.MainBurnRate * dt
	}

	s.vy -= w.Gravity * dt
	s.x = wrapX(s.x+s.vx*dt, float64(w.NX))
	s.y += s.vy * dt

	if s.fuel < 0 {
		s.fuel = 0
	}
	s.lastInstr = instr
}

func (s *Ship) land(tick int) {
	s.state = ShipLanded
	s.touchdownTick = tick
	s.touchdownVX, s.touchdownVY = s.vx, s.vy
	s.vx, s.vy = 0, 0
}

func (s *Ship) crash(tick int, reason string) {
	s.state = ShipCrashed
	s.touchdownTick = tick
	s.touchdownVX, s.touchdownVY = s.vx, s.vy
	s.crashReason = reason
	s.vx, s.vy = 0, 0
}

// normalizeHeading wraps a heading into (-180, 180].
func normalizeHeading(h float64) float64 {
	for h > 180 {
		h -= 360
	}
	for h <= -180 {
		h += 360
	}
	return h
}

// wrapX wraps a world x coordinate into [0, nx).
func wrapX(x, nx float64) float64 {
	if nx <= 0 {
		return x
	}
	x = math.Mod(x, nx)
	if x < 0 {
		x += nx
	}
	return x
}
