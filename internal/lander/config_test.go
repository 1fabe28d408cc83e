package lander

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir()) // make sure no stray lander.yaml is picked up

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("defaults load failed: %v", err)
	}
	if cfg.World.Gravity != 1.62 {
		t.Errorf("gravity: got %v, want 1.62", cfg.World.Gravity)
	}
	if cfg.Guidance.HoverAltitude != 900 {
		t.Errorf("threshold hover: got %v, want 900", cfg.Guidance.HoverAltitude)
	}
	if cfg.PID.HoverAltitude != 980 {
		t.Errorf("pid hover: got %v, want 980", cfg.PID.HoverAltitude)
	}
	if cfg.PID.ApproachRange != 150 || cfg.Guidance.ApproachRange != 50 {
		t.Errorf("approach ranges: got pid=%v threshold=%v, want 150/50",
			cfg.PID.ApproachRange, cfg.Guidance.ApproachRange)
	}
	if cfg.PID.BankAngle != 70 || cfg.Guidance.BankAngle != 90 {
		t.Errorf("bank angles: got pid=%v threshold=%v, want 70/90",
			cfg.PID.BankAngle, cfg.Guidance.BankAngle)
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lander.yaml")
	body := []byte("world:\n  gravity: 3.7\n  ny: 600\nguidance:\n  hover_altitude: 0\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.World.Gravity != 3.7 {
		t.Errorf("gravity: got %v, want 3.7", cfg.World.Gravity)
	}
	// hover_altitude 0 derives from the screen height.
	if want := NominalHover(600); cfg.Guidance.HoverAltitude != want {
		t.Errorf("derived hover: got %v, want %v", cfg.Guidance.HoverAltitude, want)
	}
	// Untouched keys keep their defaults.
	if cfg.World.Thrust != 4.5 {
		t.Errorf("thrust: got %v, want default 4.5", cfg.World.Thrust)
	}
}

func TestLoadConfig_MissingExplicitFileFails(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("explicit missing path must fail")
	}
}
