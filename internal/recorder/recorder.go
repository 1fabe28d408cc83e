// Package recorder persists match results and tick telemetry to SQLite so
// batch runs can be compared across tunings after the fact.
package recorder

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/apollobots/lunar-lander/internal/lander"
)

// MatchRecord is one completed (or budget-expired) match.
type MatchRecord struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time

	Scenario   string
	Seed       int64
	Ticks      int
	Outcome    string
	Winner     string
	WinnerTick int

	Landers []LanderResult `gorm:"constraint:OnDelete:CASCADE"`
	Samples []TickSample   `gorm:"constraint:OnDelete:CASCADE"`
}

// LanderResult is one ship's final line in a match.
type LanderResult struct {
	ID            uint `gorm:"primarykey"`
	MatchRecordID uint `gorm:"index"`

	Team          string
	Outcome       string
	CrashReason   string
	TouchdownTick int
	TouchdownVX   float64
	TouchdownVY   float64
	FuelUsed      float64
	Score         float64
	Grade         string
}

// TickSample is one decimated telemetry row.
type TickSample struct {
	ID            uint `gorm:"primarykey"`
	MatchRecordID uint `gorm:"index"`

	Team    string `gorm:"index"`
	Tick    int
	X       float64
	Y       float64
	VX      float64
	VY      float64
	Heading float64
	Fuel    float64
	Phase   string
	Main    bool
}

// Recorder owns the SQLite handle for one output database.
type Recorder struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open creates or opens the database at path and migrates the schema.
func Open(path string, log zerolog.Logger) (*Recorder, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		CreateBatchSize:        1000,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open recorder db %s: %w", path, err)
	}
	db.Exec("PRAGMA journal_mode = WAL")
	db.Exec("PRAGMA synchronous = NORMAL")

	if err := db.AutoMigrate(&MatchRecord{}, &LanderResult{}, &TickSample{}); err != nil {
		return nil, fmt.Errorf("migrate recorder schema: %w", err)
	}
	log.Debug().Str("path", path).Msg("flight recorder open")
	return &Recorder{db: db, log: log}, nil
}

// SaveMatch writes one match, its per-lander results and a decimated
// telemetry series (every sampleEvery-th tick; <= 0 disables samples).
func (r *Recorder) SaveMatch(m *lander.Match, scenario string, grades []lander.FlightGrade, sampleEvery int) (uint, error) {
	v := m.Verdict()
	rec := MatchRecord{
		Scenario:   scenario,
		Seed:       m.Seed(),
		Ticks:      m.Tick(),
		Outcome:    v.Outcome.String(),
		Winner:     v.Winner,
		WinnerTick: v.WinnerTick,
	}

	gradeByTeam := make(map[string]lander.FlightGrade, len(grades))
	for _, g := range grades {
		gradeByTeam[g.Team] = g
	}

	for _, s := range m.Ships() {
		res := LanderResult{
			Team:          s.Team(),
			Outcome:       s.State().String(),
			CrashReason:   s.CrashReason(),
			TouchdownTick: s.TouchdownTick(),
			FuelUsed:      s.FuelUsed(),
		}
		res.TouchdownVX, res.TouchdownVY = s.TouchdownVelocity()
		if g, ok := gradeByTeam[s.Team()]; ok {
			res.Score = g.Score
			res.Grade = g.Grade
		}
		rec.Landers = append(rec.Landers, res)
	}

	if sampleEvery > 0 {
		for _, team := range m.Reporter().Teams() {
			series := m.Reporter().Series(team)
			if series == nil {
				continue
			}
			for i, sp := range series.Samples {
				if i%sampleEvery != 0 {
					continue
				}
				rec.Samples = append(rec.Samples, TickSample{
					Team:    team,
					Tick:    sp.Tick,
					X:       sp.X,
					Y:       sp.Y,
					VX:      sp.VX,
					VY:      sp.VY,
					Heading: sp.Heading,
					Fuel:    sp.Fuel,
					Phase:   sp.Phase.String(),
					Main:    sp.Main,
				})
			}
		}
	}

	if err := r.db.Create(&rec).Error; err != nil {
		return 0, fmt.Errorf("save match record: %w", err)
	}
	r.log.Debug().Uint("match_id", rec.ID).Int("landers", len(rec.Landers)).Int("samples", len(rec.Samples)).Msg("match recorded")
	return rec.ID, nil
}

// Close releases the underlying connection.
func (r *Recorder) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
