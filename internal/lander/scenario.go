package lander

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a YAML-defined match deck: world overrides, a terrain spec and
// a lander roster. Both binaries load decks from the scenarios/ directory.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	Seed  int64 `yaml:"seed"`  // 0 = caller decides
	Ticks int   `yaml:"ticks"` // suggested tick budget, 0 = caller decides

	World    ScenarioWorld    `yaml:"world"`
	Guidance ScenarioGuidance `yaml:"guidance"`
	PID      ScenarioGuidance `yaml:"pid"`
	Terrain  TerrainSpec      `yaml:"terrain"`
	Landers  []LanderSpec     `yaml:"landers"`
}

// ScenarioGuidance overrides a pilot variant's tuning. Zero values keep the
// configured default.
type ScenarioGuidance struct {
	HoverAltitude float64 `yaml:"hover_altitude"`
	ApproachRange float64 `yaml:"approach_range"`
	BankAngle     float64 `yaml:"bank_angle"`
}

// ScenarioWorld overrides parts of the world configuration. Zero values keep
// the configured default.
type ScenarioWorld struct {
	NX                 int     `yaml:"nx"`
	NY                 int     `yaml:"ny"`
	Gravity            float64 `yaml:"gravity"`
	Thrust             float64 `yaml:"thrust"`
	AsteroidSpawnTicks int     `yaml:"asteroid_spawn_ticks"`
}

// TerrainSpec selects the terrain for a deck.
//
//	kind: generated   seeded random walk with `pads` flat plateaus (default)
//	kind: flat        uniform profile at `height`
//	kind: profile     explicit column heights from `profile`
type TerrainSpec struct {
	Kind    string    `yaml:"kind"`
	Height  float64   `yaml:"height"`
	Pads    int       `yaml:"pads"`
	Profile []float64 `yaml:"profile"`
}

// LanderSpec is one roster entry.
type LanderSpec struct {
	Team    string  `yaml:"team"`
	Flag    string  `yaml:"flag"`
	Pilot   string  `yaml:"pilot"` // threshold | pid
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	VX      float64 `yaml:"vx"`
	VY      float64 `yaml:"vy"`
	Heading float64 `yaml:"heading"`
}

// LoadScenario reads and validates a scenario deck.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if err := sc.validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &sc, nil
}

func (sc *Scenario) validate() error {
	if sc.Name == "" {
		return fmt.Errorf("missing name")
	}
	if len(sc.Landers) == 0 {
		return fmt.Errorf("no landers in roster")
	}
	switch sc.Terrain.Kind {
	case "", "generated", "flat":
	case "profile":
		if len(sc.Terrain.Profile) < 2 {
			return fmt.Errorf("profile terrain needs at least 2 columns")
		}
	default:
		return fmt.Errorf("unknown terrain kind %q", sc.Terrain.Kind)
	}
	for i, l := range sc.Landers {
		if l.Team == "" {
			return fmt.Errorf("lander %d: missing team", i)
		}
		switch l.Pilot {
		case "", "threshold", "pid":
		default:
			return fmt.Errorf("lander %d (%s): unknown pilot kind %q", i, l.Team, l.Pilot)
		}
	}
	return nil
}

// apply folds the deck's world overrides into cfg.
func (sc *Scenario) apply(cfg *Config) {
	if sc.World.NX > 0 {
		cfg.World.NX = sc.World.NX
	}
	if sc.World.NY > 0 {
		cfg.World.NY = sc.World.NY
	}
	if sc.World.Gravity > 0 {
		cfg.World.Gravity = sc.World.Gravity
	}
	if sc.World.Thrust > 0 {
		cfg.World.Thrust = sc.World.Thrust
	}
	if sc.World.AsteroidSpawnTicks > 0 {
		cfg.World.AsteroidSpawnTicks = sc.World.AsteroidSpawnTicks
	}
	applyGuidance(&cfg.Guidance, sc.Guidance)
	applyGuidance(&cfg.PID, sc.PID)
}

func applyGuidance(dst *GuidanceConfig, ov ScenarioGuidance) {
	if ov.HoverAltitude > 0 {
		dst.HoverAltitude = ov.HoverAltitude
	}
	if ov.ApproachRange > 0 {
		dst.ApproachRange = ov.ApproachRange
	}
	if ov.BankAngle > 0 {
		dst.BankAngle = ov.BankAngle
	}
}

// Build constructs a match from the deck. seed overrides the deck's own seed
// when non-zero; the deck seed is the fallback, and 1 the last resort.
func (sc *Scenario) Build(cfg Config, seed int64, verbose bool) (*Match, error) {
	sc.apply(&cfg)
	if seed == 0 {
		seed = sc.Seed
	}
	if seed == 0 {
		seed = 1
	}

	m := NewMatch(cfg, seed, verbose)

	switch sc.Terrain.Kind {
	case "flat":
		t := make(Terrain, cfg.World.NX)
		for i := range t {
			t[i] = sc.Terrain.Height
		}
		m.SetTerrain(t)
	case "profile":
		m.SetTerrain(Terrain(sc.Terrain.Profile))
	default:
		// Generated terrain came with the match; honor a pads override by
		// regenerating, since pad count is baked in at generation time.
		if sc.Terrain.Pads > 0 && sc.Terrain.Pads != cfg.World.TerrainPads {
			cfg.World.TerrainPads = sc.Terrain.Pads
			m = NewMatch(cfg, seed, verbose)
		}
	}

	for _, l := range sc.Landers {
		var pilot Pilot
		switch l.Pilot {
		case "pid":
			pilot = NewPIDPilot(l.Team, cfg.PID)
		default:
			pilot = NewThresholdPilot(l.Team, cfg.Guidance)
		}
		x, y := l.X, l.Y
		if y == 0 {
			y = 0.85 * float64(cfg.World.NY)
		}
		m.AddShip(pilot, l.Flag, x, y, l.VX, l.VY, l.Heading)
	}
	return m, nil
}
