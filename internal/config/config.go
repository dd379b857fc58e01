package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config is the persistent application configuration
type Config struct {
	Swipe  SwipeConfig  `json:"swipe"`
	Match  MatchConfig  `json:"match"`
	Roster RosterConfig `json:"roster"`
	UI     UIConfig     `json:"ui"`
}

// SwipeConfig tunes the swipe gesture
type SwipeConfig struct {
	Threshold    float64 `json:"threshold"`     // distance units that must be exceeded to decide
	SettleMs     int     `json:"settle_ms"`     // exit animation duration
	CellUnits    float64 `json:"cell_units"`    // distance units per terminal column dragged
	ExitDistance int     `json:"exit_distance"` // columns the card travels when leaving
}

// MatchConfig tunes the match modal
type MatchConfig struct {
	CopiedFlashMs int `json:"copied_flash_ms"` // how long "copied!" stays visible
}

// RosterConfig says where candidates come from
type RosterConfig struct {
	// Source is a file path, an http(s) URL, or "sqlite:<path>".
	// Empty means the store in the data directory.
	Source            string  `json:"source"`
	TimeoutSeconds    int     `json:"timeout_seconds"`
	RequestsPerSecond float64 `json:"requests_per_second"` // HTTP sources only
}

// UIConfig holds UI preferences
type UIConfig struct {
	ShowDetail bool `json:"show_detail"` // side panel on wide terminals
	Mouse      bool `json:"mouse"`       // enable drag gestures
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Swipe: SwipeConfig{
			Threshold:    80,
			SettleMs:     400,
			CellUnits:    10, // 8 columns to cross the threshold
			ExitDistance: 60,
		},
		Match: MatchConfig{
			CopiedFlashMs: 2000,
		},
		Roster: RosterConfig{
			TimeoutSeconds:    30,
			RequestsPerSecond: 2,
		},
		UI: UIConfig{
			ShowDetail: true,
			Mouse:      true,
		},
	}
}

// SettleDuration returns Swipe.SettleMs as a duration
func (c *Config) SettleDuration() time.Duration {
	return time.Duration(c.Swipe.SettleMs) * time.Millisecond
}

// CopiedFlash returns Match.CopiedFlashMs as a duration
func (c *Config) CopiedFlash() time.Duration {
	return time.Duration(c.Match.CopiedFlashMs) * time.Millisecond
}

// Timeout returns the roster load timeout
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Roster.TimeoutSeconds) * time.Second
}

// DataDir returns ~/.duo
func DataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".duo")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.json")
}

// Load reads config from path, or returns defaults if the file is missing.
// Zero-valued fields in the file fall back to their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

func (c *Config) fillDefaults() {
	d := DefaultConfig()
	if c.Swipe.Threshold <= 0 {
		c.Swipe.Threshold = d.Swipe.Threshold
	}
	if c.Swipe.SettleMs <= 0 {
		c.Swipe.SettleMs = d.Swipe.SettleMs
	}
	if c.Swipe.CellUnits <= 0 {
		c.Swipe.CellUnits = d.Swipe.CellUnits
	}
	if c.Swipe.ExitDistance <= 0 {
		c.Swipe.ExitDistance = d.Swipe.ExitDistance
	}
	if c.Match.CopiedFlashMs <= 0 {
		c.Match.CopiedFlashMs = d.Match.CopiedFlashMs
	}
	if c.Roster.TimeoutSeconds <= 0 {
		c.Roster.TimeoutSeconds = d.Roster.TimeoutSeconds
	}
	if c.Roster.RequestsPerSecond <= 0 {
		c.Roster.RequestsPerSecond = d.Roster.RequestsPerSecond
	}
}

// Save writes config to path
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides settings from DUO_* environment variables.
// Unparseable numbers are reported and leave the setting untouched.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("DUO_ROSTER"); v != "" {
		c.Roster.Source = v
	}
	if v := os.Getenv("DUO_THRESHOLD"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil || t <= 0 {
			return fmt.Errorf("DUO_THRESHOLD=%q: must be a positive number", v)
		}
		c.Swipe.Threshold = t
	}
	if v := os.Getenv("DUO_SETTLE_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms <= 0 {
			return fmt.Errorf("DUO_SETTLE_MS=%q: must be a positive integer", v)
		}
		c.Swipe.SettleMs = ms
	}
	return nil
}
