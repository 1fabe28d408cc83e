package lander

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// PIDGains holds the three feedback gains for one control axis.
type PIDGains struct {
	KP float64 `mapstructure:"kp" yaml:"kp"`
	KI float64 `mapstructure:"ki" yaml:"ki"`
	KD float64 `mapstructure:"kd" yaml:"kd"`
}

// WorldConfig holds the physical constants of a match.
type WorldConfig struct {
	Gravity            float64 `mapstructure:"gravity"`              // world units / s^2
	Thrust             float64 `mapstructure:"thrust"`               // main engine acceleration
	NX                 int     `mapstructure:"nx"`                   // world width in columns
	NY                 int     `mapstructure:"ny"`                   // world height
	TickRate           float64 `mapstructure:"tick_rate"`            // sim ticks per second
	RotationRate       float64 `mapstructure:"rotation_rate"`        // degrees / s
	Fuel               float64 `mapstructure:"fuel"`                 // initial tank
	MainBurnRate       float64 `mapstructure:"main_burn_rate"`       // fuel / s while main fires
	RotationBurnRate   float64 `mapstructure:"rotation_burn_rate"`   // fuel / s per rotation thruster
	AsteroidSpawnTicks int     `mapstructure:"asteroid_spawn_ticks"` // 0 disables asteroids
	TerrainPads        int     `mapstructure:"terrain_pads"`         // flat pads carved per generated profile
}

// DT returns the sim step in seconds.
func (w WorldConfig) DT() float64 {
	if w.TickRate <= 0 {
		return 1.0 / 30.0
	}
	return 1.0 / w.TickRate
}

// GuidanceConfig holds the tunables one pilot variant flies with.
type GuidanceConfig struct {
	HoverAltitude  float64  `mapstructure:"hover_altitude"`   // <= 0 derives from screen height
	ApproachRange  float64  `mapstructure:"approach_range"`   // lateral capture range, columns
	BankAngle      float64  `mapstructure:"bank_angle"`       // drift-braking bank target, degrees
	OrientExitBand float64  `mapstructure:"orient_exit_band"` // feedback pilot: attitude capture exit, degrees
	HeadingGains   PIDGains `mapstructure:"heading"`
	AltitudeGains  PIDGains `mapstructure:"altitude"`
}

// OutcomeConfig holds the touchdown limits that separate a landing from a crash.
type OutcomeConfig struct {
	MaxLandingVX   float64 `mapstructure:"max_landing_vx"`
	MaxLandingVY   float64 `mapstructure:"max_landing_vy"`
	MaxLandingTilt float64 `mapstructure:"max_landing_tilt"` // degrees off upright
	FootprintHalf  int     `mapstructure:"footprint_half"`   // columns each side that must be flat
}

// Config is the full match configuration. Guidance configures the threshold
// pilot, PID the feedback pilot; both default to their classic tunings.
type Config struct {
	World    WorldConfig    `mapstructure:"world"`
	Guidance GuidanceConfig `mapstructure:"guidance"`
	PID      GuidanceConfig `mapstructure:"pid"`
	Outcome  OutcomeConfig  `mapstructure:"outcome"`
}

// NominalHover is the hover ceiling derived from screen height, used when a
// pilot's hover altitude is not configured explicitly.
func NominalHover(ny int) float64 {
	return 0.9 * float64(ny)
}

// DefaultConfig returns the stock tuning. The two hover presets (900 for the
// threshold pilot, 980 for the feedback pilot) assume the stock 1080 world
// height; smaller worlds should leave hover_altitude at 0 to derive it.
func DefaultConfig() Config {
	return Config{
		World: WorldConfig{
			Gravity:            1.62,
			Thrust:             4.5,
			NX:                 1920,
			NY:                 1080,
			TickRate:           30,
			RotationRate:       60,
			Fuel:               1000,
			MainBurnRate:       6,
			RotationBurnRate:   0.6,
			AsteroidSpawnTicks: 0,
			TerrainPads:        3,
		},
		Guidance: GuidanceConfig{
			HoverAltitude: 900,
			ApproachRange: 50,
			BankAngle:     90,
		},
		PID: GuidanceConfig{
			HoverAltitude:  980,
			ApproachRange:  150,
			BankAngle:      70,
			OrientExitBand: 1,
			HeadingGains:   PIDGains{KP: 0.35, KI: 0.02, KD: 0.12},
			AltitudeGains:  PIDGains{KP: 0.08, KI: 0.004, KD: 0.3},
		},
		Outcome: OutcomeConfig{
			MaxLandingVX:   1,
			MaxLandingVY:   5,
			MaxLandingTilt: 10,
			FootprintHalf:  5,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("world.gravity", d.World.Gravity)
	v.SetDefault("world.thrust", d.World.Thrust)
	v.SetDefault("world.nx", d.World.NX)
	v.SetDefault("world.ny", d.World.NY)
	v.SetDefault("world.tick_rate", d.World.TickRate)
	v.SetDefault("world.rotation_rate", d.World.RotationRate)
	v.SetDefault("world.fuel", d.World.Fuel)
	v.SetDefault("world.main_burn_rate", d.World.MainBurnRate)
	v.SetDefault("world.rotation_burn_rate", d.World.RotationBurnRate)
	v.SetDefault("world.asteroid_spawn_ticks", d.World.AsteroidSpawnTicks)
	v.SetDefault("world.terrain_pads", d.World.TerrainPads)

	v.SetDefault("guidance.hover_altitude", d.Guidance.HoverAltitude)
	v.SetDefault("guidance.approach_range", d.Guidance.ApproachRange)
	v.SetDefault("guidance.bank_angle", d.Guidance.BankAngle)

	v.SetDefault("pid.hover_altitude", d.PID.HoverAltitude)
	v.SetDefault("pid.approach_range", d.PID.ApproachRange)
	v.SetDefault("pid.bank_angle", d.PID.BankAngle)
	v.SetDefault("pid.orient_exit_band", d.PID.OrientExitBand)
	v.SetDefault("pid.heading.kp", d.PID.HeadingGains.KP)
	v.SetDefault("pid.heading.ki", d.PID.HeadingGains.KI)
	v.SetDefault("pid.heading.kd", d.PID.HeadingGains.KD)
	v.SetDefault("pid.altitude.kp", d.PID.AltitudeGains.KP)
	v.SetDefault("pid.altitude.ki", d.PID.AltitudeGains.KI)
	v.SetDefault("pid.altitude.kd", d.PID.AltitudeGains.KD)

	v.SetDefault("outcome.max_landing_vx", d.Outcome.MaxLandingVX)
	v.SetDefault("outcome.max_landing_vy", d.Outcome.MaxLandingVY)
	v.SetDefault("outcome.max_landing_tilt", d.Outcome.MaxLandingTilt)
	v.SetDefault("outcome.footprint_half", d.Outcome.FootprintHalf)
}

// LoadConfig reads a YAML config file over the stock defaults. With an empty
// path it looks for lander.yaml in the working directory and silently keeps
// the defaults when none exists; an explicit path must exist.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("lander")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.resolveHover()
	return cfg, nil
}

// resolveHover fills unset hover altitudes from the screen height.
func (c *Config) resolveHover() {
	if c.Guidance.HoverAltitude <= 0 {
		c.Guidance.HoverAltitude = NominalHover(c.World.NY)
	}
	if c.PID.HoverAltitude <= 0 {
		c.PID.HoverAltitude = NominalHover(c.World.NY)
	}
}
