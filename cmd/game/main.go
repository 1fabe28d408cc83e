package main

import (
	"flag"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/apollobots/lunar-lander/internal/lander"
)

func main() {
	var (
		configPath   = flag.String("config", "", "config file (default: ./lander.yaml if present)")
		scenarioPath = flag.String("scenario", "", "scenario deck to fly (default: stock two-lander duel)")
		seed         = flag.Int64("seed", 1, "match RNG seed")
		logLevel     = flag.String("log-level", "info", "zerolog level: trace|debug|info|warn|error")
	)
	flag.Parse()

	log := newLogger(*logLevel)

	cfg, err := lander.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	var scen *lander.Scenario
	if *scenarioPath != "" {
		scen, err = lander.LoadScenario(*scenarioPath)
		if err != nil {
			log.Fatal().Err(err).Msg("scenario load failed")
		}
		log.Info().Str("scenario", scen.Name).Msg("scenario loaded")
	}

	g, err := lander.NewGame(cfg, scen, *seed, log)
	if err != nil {
		log.Fatal().Err(err).Msg("game setup failed")
	}

	title := "Lunar Lander"
	if scen != nil {
		title += " - " + scen.Name
	}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(1600, 820)
	ebiten.SetTPS(int(cfg.World.TickRate))
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal().Err(err).Msg("game exited")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(lvl).
		With().Timestamp().Logger()
}
