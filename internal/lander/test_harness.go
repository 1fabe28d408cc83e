package lander

// TestMatch is a headless match harness used exclusively by tests and the
// batch runner. It wraps Match with deterministic construction from
// functional options and predicate-driven stepping.
type TestMatch struct {
	*Match

	cfg      Config
	seed     int64
	verbose  bool
	terrain  Terrain
	hasTerra bool
}

// matchOptionKind controls the pass in which an option is applied.
type matchOptionKind int

const (
	matchOptInfra matchOptionKind = iota // config, seed, verbose: applied first
	matchOptTerra                        // explicit terrain: applied after the match exists
	matchOptShip                         // add ships: applied last
)

// MatchOption is a builder function applied to a TestMatch during construction.
type MatchOption struct {
	kind matchOptionKind
	fn   func(*TestMatch)
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) MatchOption {
	return MatchOption{matchOptInfra, func(tm *TestMatch) {
		tm.seed = seed
	}}
}

// WithScreen sets the world dimensions.
func WithScreen(nx, ny int) MatchOption {
	return MatchOption{matchOptInfra, func(tm *TestMatch) {
		tm.cfg.World.NX = nx
		tm.cfg.World.NY = ny
	}}
}

// WithConfig applies an arbitrary tweak to the match configuration.
func WithConfig(mutate func(*Config)) MatchOption {
	return MatchOption{matchOptInfra, func(tm *TestMatch) {
		mutate(&tm.cfg)
	}}
}

// WithVerbose enables per-tick kinematics logging in the sim log.
func WithVerbose(v bool) MatchOption {
	return MatchOption{matchOptInfra, func(tm *TestMatch) {
		tm.verbose = v
	}}
}

// WithTerrain replaces the generated profile with an explicit one.
func WithTerrain(t Terrain) MatchOption {
	return MatchOption{matchOptTerra, func(tm *TestMatch) {
		tm.terrain = t
		tm.hasTerra = true
	}}
}

// WithFlatTerrain replaces the generated profile with a uniform one spanning
// the whole world width at the given elevation.
func WithFlatTerrain(height float64) MatchOption {
	return MatchOption{matchOptTerra, func(tm *TestMatch) {
		t := make(Terrain, tm.cfg.World.NX)
		for i := range t {
			t[i] = height
		}
		tm.terrain = t
		tm.hasTerra = true
	}}
}

// WithThresholdLander spawns a craft flown by the classic threshold pilot.
func WithThresholdLander(team string, x, y, vx, vy, heading float64) MatchOption {
	return MatchOption{matchOptShip, func(tm *TestMatch) {
		tm.AddShip(NewThresholdPilot(team, tm.cfg.Guidance), "fr", x, y, vx, vy, heading)
	}}
}

// WithPIDLander spawns a craft flown by the feedback pilot.
func WithPIDLander(team string, x, y, vx, vy, heading float64) MatchOption {
	return MatchOption{matchOptShip, func(tm *TestMatch) {
		tm.AddShip(NewPIDPilot(team, tm.cfg.PID), "gb", x, y, vx, vy, heading)
	}}
}

// WithPilot spawns a craft flown by an arbitrary pilot implementation.
func WithPilot(p Pilot, x, y, vx, vy, heading float64) MatchOption {
	return MatchOption{matchOptShip, func(tm *TestMatch) {
		tm.AddShip(p, "--", x, y, vx, vy, heading)
	}}
}

// NewTestMatch constructs a TestMatch from the given options in three
// ordered passes:
//  1. Infrastructure (config tweaks, seed, verbose)
//  2. Match construction + explicit terrain
//  3. Ships
func NewTestMatch(opts ...MatchOption) *TestMatch {
	tm := &TestMatch{
		cfg:  DefaultConfig(),
		seed: 1,
	}
	for _, o := range opts {
		if o.kind == matchOptInfra {
			o.fn(tm)
		}
	}
	for _, o := range opts {
		if o.kind == matchOptTerra {
			o.fn(tm)
		}
	}
	tm.Match = NewMatch(tm.cfg, tm.seed, tm.verbose)
	if tm.hasTerra {
		tm.SetTerrain(tm.terrain)
	}
	for _, o := range opts {
		if o.kind == matchOptShip {
			o.fn(tm)
		}
	}
	return tm
}

// RunTicks advances the match n ticks.
func (tm *TestMatch) RunTicks(n int) {
	for i := 0; i < n; i++ {
		tm.Step()
	}
}

// RunUntil advances the match up to maxTicks, stopping early once predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (tm *TestMatch) RunUntil(predicate func(*TestMatch) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		tm.Step()
		if predicate(tm) {
			return tm.Tick()
		}
	}
	return -1
}

// RunToCompletion steps until every ship is down or maxTicks elapse.
// Returns the tick the match finished on, or -1 if the budget expired.
func (tm *TestMatch) RunToCompletion(maxTicks int) int {
	return tm.RunUntil(func(m *TestMatch) bool { return m.Done() }, maxTicks)
}

// Ship returns the ship for a team, or nil.
func (tm *TestMatch) Ship(team string) *Ship {
	for _, s := range tm.Ships() {
		if s.team == team {
			return s
		}
	}
	return nil
}

// ShipSnapshot is a lightweight copy of a ship's state at a tick.
type ShipSnapshot struct {
	Team    string
	X, Y    float64
	VX, VY  float64
	Heading float64
	Fuel    float64
	State   ShipState
	Phase   GuidancePhase
	Site    int
	HasSite bool
}

// MatchSnapshot captures a lightweight state summary.
type MatchSnapshot struct {
	Tick  int
	Ships []ShipSnapshot
}

// Snapshot returns the current state of every ship.
func (tm *TestMatch) Snapshot() MatchSnapshot {
	snap := MatchSnapshot{Tick: tm.Tick()}
	for _, s := range tm.Ships() {
		ss := ShipSnapshot{
			Team:    s.team,
			X:       s.x,
			Y:       s.y,
			VX:      s.vx,
			VY:      s.vy,
			Heading: s.heading,
			Fuel:    s.fuel,
			State:   s.state,
		}
		if ph, ok := s.pilot.(phased); ok {
			ss.Phase = ph.Phase()
		}
		if tg, ok := s.pilot.(targeted); ok {
			ss.Site, ss.HasSite = tg.Target()
		}
		snap.Ships = append(snap.Ships, ss)
	}
	return snap
}
