package lander

import (
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"
)

// Match runs one complete descent contest: a terrain profile, any number of
// piloted ships, and the falling-rock hazard. It is pure simulation with no
// rendering; both the interactive game and the headless runner drive it
// through Step.
type Match struct {
	cfg     Config
	terrain Terrain
	ships   []*Ship

	asteroids []Asteroid

	tick    int
	elapsed float64

	seed int64
	rng  *rand.Rand
	log  *SimLog
	rep  *FlightReporter

	zlog          zerolog.Logger
	verdictLogged bool
}

// NewMatch creates a match with a generated terrain profile. Pass verbose to
// record per-tick kinematics in the sim log.
func NewMatch(cfg Config, seed int64, verbose bool) *Match {
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- sim only
	m := &Match{
		cfg:  cfg,
		seed: seed,
		rng:  rng,
		log:  NewSimLog(verbose),
		rep:  NewFlightReporter(),
		zlog: zerolog.Nop(),
	}
	minAlt := 0.08 * float64(cfg.World.NY)
	maxAlt := 0.4 * float64(cfg.World.NY)
	m.terrain = GenerateTerrain(cfg.World.NX, minAlt, maxAlt, cfg.World.TerrainPads, rng)
	return m
}

// SetLogger attaches a process logger for match-level events.
func (m *Match) SetLogger(l zerolog.Logger) {
	m.zlog = l
}

// SetTerrain replaces the generated profile with an explicit one.
func (m *Match) SetTerrain(t Terrain) {
	m.terrain = t
}

// AddShip spawns a craft with a full tank at the given state.
func (m *Match) AddShip(pilot Pilot, flag string, x, y, vx, vy, heading float64) *Ship {
	s := NewShip(pilot, flag, x, y, vx, vy, heading, m.cfg.World.Fuel)
	m.ships = append(m.ships, s)
	m.rep.Track(s.team)
	return s
}

func (m *Match) Config() Config            { return m.cfg }
func (m *Match) Terrain() Terrain          { return m.terrain }
func (m *Match) Ships() []*Ship            { return m.ships }
func (m *Match) Asteroids() []Asteroid     { return m.asteroids }
func (m *Match) Tick() int                 { return m.tick }
func (m *Match) Seed() int64               { return m.seed }
func (m *Match) Elapsed() float64          { return m.elapsed }
func (m *Match) SimLog() *SimLog           { return m.log }
func (m *Match) Reporter() *FlightReporter { return m.rep }

// Done reports whether every ship has reached the ground one way or another.
func (m *Match) Done() bool {
	for _, s := range m.ships {
		if s.state == ShipFlying {
			return false
		}
	}
	return len(m.ships) > 0
}

// Verdict ranks the ships as they stand now.
func (m *Match) Verdict() MatchVerdict {
	return DetermineMatchVerdict(m.ships)
}

// Step advances the match by one tick. Every pilot sees the same pre-tick
// snapshot, so decision order between ships never matters.
func (m *Match) Step() {
	m.tick++
	dt := m.cfg.World.DT()
	m.elapsed += dt

	in := TickInput{
		T:         m.elapsed,
		DT:        dt,
		Terrain:   m.terrain,
		Players:   m.playerSnapshot(),
		Asteroids: append([]Asteroid(nil), m.asteroids...),
	}

	for _, s := range m.ships {
		if s.state != ShipFlying {
			continue
		}
		hadFuel := s.fuel > 0

		instr, err := s.pilot.RunTick(in)
		if err != nil {
			instr = Instructions{}
			if !s.errLogged {
				s.errLogged = true
				m.log.Add(m.tick, s.team, "guidance", "pilot_error", err.Error(), 0)
				m.zlog.Warn().Str("team", s.team).Err(err).Msg("pilot error, coasting")
			}
		}
		if instr.Conflict() {
			m.log.Add(m.tick, s.team, "guidance", "conflict_command", instr.String(), 0)
			instr = Instructions{}
		}

		s.applyTick(instr, m.cfg.World, dt)
		m.log.AddVerbose(m.tick, s.team, "control", "command", instr.String(), 0)

		if hadFuel && s.fuel <= 0 {
			m.log.Add(m.tick, s.team, "flight", "fuel_empty", "tank dry, actuators dead", 0)
		}
	}

	m.stepAsteroids(dt)
	m.checkGroundContact()
	m.logChanges()

	m.rep.Collect(m.tick, m.ships)

	if !m.verdictLogged && m.Done() {
		m.verdictLogged = true
		v := m.Verdict()
		m.log.Add(m.tick, "--", "match", "verdict", v.Description, float64(v.WinnerTick))
		m.zlog.Info().Str("outcome", v.Outcome.String()).Str("winner", v.Winner).Msg("match over")
	}
}

// playerSnapshot copies every ship's kinematics, grounded ones included.
func (m *Match) playerSnapshot() map[string]PlayerState {
	players := make(map[string]PlayerState, len(m.ships))
	for _, s := range m.ships {
		players[s.team] = s.playerState()
	}
	return players
}

func (m *Match) stepAsteroids(dt float64) {
	interval := m.cfg.World.AsteroidSpawnTicks
	if interval > 0 && m.tick%interval == 0 {
		a := spawnAsteroid(m.rng, m.cfg.World.NX, m.cfg.World.NY)
		m.asteroids = append(m.asteroids, a)
		m.log.Add(m.tick, "--", "match", "asteroid_spawn", fmt.Sprintf("x=%.0f r=%.0f", a.X, a.Radius), a.Radius)
	}

	kept := m.asteroids[:0]
	for i := range m.asteroids {
		a := &m.asteroids[i]
		a.advance(dt)
		if a.grounded(m.terrain) {
			continue
		}
		struck := false
		for _, s := range m.ships {
			if s.state != ShipFlying {
				continue
			}
			if a.hits(s.x, s.y) {
				s.crash(m.tick, "asteroid_impact")
				m.log.Add(m.tick, s.team, "flight", "crash", "asteroid_impact", s.vy)
				struck = true
			}
		}
		if struck {
			continue
		}
		kept = append(kept, *a)
	}
	m.asteroids = kept
}

func (m *Match) checkGroundContact() {
	for _, s := range m.ships {
		if s.state != ShipFlying {
			continue
		}
		ground := m.terrain.HeightAt(s.x)
		if s.y > ground {
			continue
		}
		s.y = ground
		if ok, reason := assessTouchdown(s, m.terrain, m.cfg.Outcome); ok {
			vy := s.vy
			s.land(m.tick)
			m.log.Add(m.tick, s.team, "flight", "touchdown", fmt.Sprintf("x=%.0f vy=%.2f", s.x, vy), vy)
		} else {
			vy := s.vy
			s.crash(m.tick, reason)
			m.log.Add(m.tick, s.team, "flight", "crash", reason, vy)
		}
	}
}

// logChanges records phase and target transitions for pilots that expose them.
func (m *Match) logChanges() {
	for _, s := range m.ships {
		if ph, ok := s.pilot.(phased); ok {
			phase := ph.Phase()
			if !s.havePhase {
				s.havePhase = true
				s.prevPhase = phase
			} else if phase != s.prevPhase {
				m.log.Add(m.tick, s.team, "guidance", "phase_change",
					s.prevPhase.String()+" -> "+phase.String(), float64(phase))
				s.prevPhase = phase
			}
		}
		if tg, ok := s.pilot.(targeted); ok {
			site, has := tg.Target()
			switch {
			case has && !s.hadTarget:
				s.hadTarget = true
				s.prevTarget = site
				m.log.Add(m.tick, s.team, "guidance", "site_found", fmt.Sprintf("column %d", site), float64(site))
			case has && site != s.prevTarget:
				m.log.Add(m.tick, s.team, "guidance", "site_switch",
					fmt.Sprintf("%d -> %d", s.prevTarget, site), float64(site))
				s.prevTarget = site
			}
		}
		if s.state == ShipFlying {
			m.log.AddVerbose(m.tick, s.team, "state", "kinematics",
				fmt.Sprintf("x=%.1f y=%.1f vx=%.2f vy=%.2f hdg=%.1f", s.x, s.y, s.vx, s.vy, s.heading), s.y)
		}
	}
}
