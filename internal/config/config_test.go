package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigDesignValues(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Swipe.Threshold != 80 {
		t.Errorf("threshold = %v, want 80", cfg.Swipe.Threshold)
	}
	if cfg.SettleDuration() != 400*time.Millisecond {
		t.Errorf("settle = %v, want 400ms", cfg.SettleDuration())
	}
	if cfg.CopiedFlash() != 2*time.Second {
		t.Errorf("copied flash = %v, want 2s", cfg.CopiedFlash())
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("timeout = %v", cfg.Timeout())
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Swipe.Threshold != 80 {
		t.Errorf("expected defaults, got %+v", cfg.Swipe)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := DefaultConfig()
	cfg.Swipe.Threshold = 120
	cfg.Roster.Source = "https://example.com/discover.json"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Swipe.Threshold != 120 || got.Roster.Source != cfg.Roster.Source {
		t.Errorf("round trip lost data: %+v", got)
	}
}

func TestLoadFillsZeroFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"swipe":{"threshold":0,"settle_ms":250}}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Swipe.Threshold != 80 {
		t.Errorf("zero threshold should fall back to 80, got %v", cfg.Swipe.Threshold)
	}
	if cfg.Swipe.SettleMs != 250 {
		t.Errorf("settle_ms = %d, want 250", cfg.Swipe.SettleMs)
	}
	if cfg.Match.CopiedFlashMs != 2000 {
		t.Errorf("missing section should keep defaults, got %d", cfg.Match.CopiedFlashMs)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(path, []byte(`{not json`), 0644)
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("DUO_ROSTER", "sqlite:/tmp/duo.db")
	t.Setenv("DUO_THRESHOLD", "60")
	t.Setenv("DUO_SETTLE_MS", "300")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Roster.Source != "sqlite:/tmp/duo.db" || cfg.Swipe.Threshold != 60 || cfg.Swipe.SettleMs != 300 {
		t.Errorf("env not applied: %+v", cfg)
	}
}

func TestApplyEnvRejectsBadNumbers(t *testing.T) {
	t.Setenv("DUO_THRESHOLD", "-5")
	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err == nil {
		t.Error("negative threshold should be rejected")
	}
	if cfg.Swipe.Threshold != 80 {
		t.Errorf("threshold should be untouched, got %v", cfg.Swipe.Threshold)
	}
}
