package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TFTPREMAP_RULES_FILE", "")
	t.Setenv("TFTPREMAP_DEADMAN_STEPS", "")
	t.Setenv("TFTPREMAP_ROOT_DIR", "")
	t.Setenv("TFTPREMAP_VERBOSITY", "")
	t.Setenv("TFTPREMAP_METRICS_ADDR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Rules.Path != "/etc/tftpd.remap" {
		t.Errorf("Rules.Path = %q, want default", cfg.Rules.Path)
	}
	if cfg.Rules.DeadmanSteps != 4096 {
		t.Errorf("DeadmanSteps = %d, want 4096", cfg.Rules.DeadmanSteps)
	}
	if cfg.Log.Verbosity != 0 {
		t.Errorf("Verbosity = %d, want 0", cfg.Log.Verbosity)
	}
	if cfg.Metrics.ListenAddr != "" {
		t.Errorf("ListenAddr = %q, want empty", cfg.Metrics.ListenAddr)
	}
}

func TestLoadRespectsOverrides(t *testing.T) {
	home := t.TempDir()
	rulesPath := filepath.Join(home, "my.remap")

	t.Setenv("TFTPREMAP_RULES_FILE", rulesPath)
	t.Setenv("TFTPREMAP_DEADMAN_STEPS", "256")
	t.Setenv("TFTPREMAP_ROOT_DIR", home)
	t.Setenv("TFTPREMAP_VERBOSITY", "3")
	t.Setenv("TFTPREMAP_METRICS_ADDR", ":9109")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Rules.Path != rulesPath {
		t.Errorf("Rules.Path = %q, want %q", cfg.Rules.Path, rulesPath)
	}
	if cfg.Rules.DeadmanSteps != 256 {
		t.Errorf("DeadmanSteps = %d, want 256", cfg.Rules.DeadmanSteps)
	}
	if cfg.Validate.RootDir != home {
		t.Errorf("RootDir = %q, want %q", cfg.Validate.RootDir, home)
	}
	if cfg.Log.Verbosity != 3 {
		t.Errorf("Verbosity = %d, want 3", cfg.Log.Verbosity)
	}
	if cfg.Metrics.ListenAddr != ":9109" {
		t.Errorf("ListenAddr = %q, want %q", cfg.Metrics.ListenAddr, ":9109")
	}
}

func TestLoadIgnoresNonPositiveDeadmanSteps(t *testing.T) {
	t.Setenv("TFTPREMAP_DEADMAN_STEPS", "-5")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Rules.DeadmanSteps != 4096 {
		t.Errorf("DeadmanSteps = %d, want fallback 4096", cfg.Rules.DeadmanSteps)
	}
}

func TestLoadIgnoresUnparsableInt(t *testing.T) {
	t.Setenv("TFTPREMAP_VERBOSITY", "not-a-number")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Verbosity != 0 {
		t.Errorf("Verbosity = %d, want fallback 0", cfg.Log.Verbosity)
	}
}

func TestFirstExistingSkipsMissingPaths(t *testing.T) {
	home := t.TempDir()
	present := filepath.Join(home, "present")
	if err := os.WriteFile(present, []byte("x"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got := firstExisting(filepath.Join(home, "missing"), present)
	if got != present {
		t.Errorf("firstExisting = %q, want %q", got, present)
	}
}
