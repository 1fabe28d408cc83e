package lander

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
)

// Guidance thresholds shared by both pilot variants. Velocities are world
// units per second.
const (
	orientSpeedBound = 10.0 // bleed horizontal speed above this before attitude capture
	nearStopVX       = 0.1  // below this the craft counts as laterally stopped
	settledVX        = 0.5  // drift bound that arms the descent override
	maxDescentRate   = -3.0 // override relights the main engine below this
)

// ThresholdPilot is the classic rule-based guidance: bleed entry speed, level
// out, find a pad, hold altitude until overhead, then brake drift and ride
// the descent override down. It caches the first site it finds and never
// searches again.
type ThresholdPilot struct {
	team string

	phase      GuidancePhase
	targetSite int
	hasTarget  bool

	cfg GuidanceConfig
	log zerolog.Logger
}

// NewThresholdPilot creates a threshold pilot flying with the given tuning.
func NewThresholdPilot(team string, cfg GuidanceConfig) *ThresholdPilot {
	return &ThresholdPilot{
		team:  team,
		phase: PhaseOrient,
		cfg:   cfg,
		log:   zerolog.Nop(),
	}
}

// SetLogger attaches a process logger. Pilots log only site acquisition.
func (p *ThresholdPilot) SetLogger(l zerolog.Logger) {
	p.log = l
}

func (p *ThresholdPilot) Team() string { return p.team }

// Phase returns the guidance phase that produced the last command.
func (p *ThresholdPilot) Phase() GuidancePhase { return p.phase }

// Target returns the cached landing site, if one has been acquired.
func (p *ThresholdPilot) Target() (int, bool) { return p.targetSite, p.hasTarget }

// RunTick implements Pilot.
func (p *ThresholdPilot) RunTick(in TickInput) (Instructions, error) {
	var instr Instructions
	if len(in.Terrain) == 0 {
		return instr, ErrEmptyTerrain
	}
	me, ok := in.Players[p.team]
	if !ok {
		return instr, fmt.Errorf("%w: %q", ErrNoVehicle, p.team)
	}

	if p.phase == PhaseOrient {
		return p.orientTick(me), nil
	}

	if !p.hasTarget {
		if site, found := FindLandingSite(in.Terrain); found {
			p.targetSite = site
			p.hasTarget = true
			p.log.Info().Str("team", p.team).Int("site", site).Msg("found landing site")
		}
	}

	if !p.hasTarget {
		p.phase = PhaseSearch
		// No pad anywhere: hold a hover ceiling so the craft stays airborne.
		if me.Y < p.cfg.HoverAltitude && me.VY < 0 {
			instr.Main = true
		}
		return instr, nil
	}

	diff := float64(p.targetSite) - me.X
	if math.Abs(diff) < p.cfg.ApproachRange {
		p.phase = PhaseApproach
		return approachInstructions(me, p.cfg.BankAngle), nil
	}

	p.phase = PhaseCruise
	if me.VY < 0 {
		instr.Main = true
	}
	return instr, nil
}

// orientTick bleeds entry speed and captures an upright attitude. The tick
// on which the heading first sits inside the dead-band produces no command;
// the next tick runs the full guidance chain.
func (p *ThresholdPilot) orientTick(me PlayerState) Instructions {
	var instr Instructions
	if me.VX > orientSpeedBound {
		instr.Main = true
		return instr
	}
	cmd := DecideRotation(me.Heading, 0)
	if cmd == RotateNone {
		p.phase = PhaseSearch
		return instr
	}
	instr.applyRotation(cmd)
	return instr
}

// approachInstructions is the terminal-descent rule set used by both pilots.
// Lateral drift is braked by banking toward bankAngle; a rightward drift
// banks with thrust, a leftward drift banks without it. Once drift is inside
// settledVX, any descent faster than maxDescentRate relights the main engine
// whatever the bank state.
func approachInstructions(me PlayerState, bankAngle float64) Instructions {
	var instr Instructions
	var cmd RotationCommand
	switch {
	case math.Abs(me.VX) <= nearStopVX:
		cmd = DecideRotation(me.Heading, 0)
	case me.VX > nearStopVX:
		cmd = DecideRotation(me.Heading, bankAngle)
		instr.Main = true
	default:
		cmd = DecideRotation(me.Heading, -bankAngle)
		instr.Main = false
	}
	instr.applyRotation(cmd)

	if math.Abs(me.VX) < settledVX && me.VY < maxDescentRate {
		instr.Main = true
	}
	return instr
}
