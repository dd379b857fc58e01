package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/abelbrown/duo/internal/config"
	"github.com/abelbrown/duo/internal/store"
)

// dataDir returns ~/.duo/, creating it if needed.
func dataDir() string {
	dir := config.DataDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatalf("failed to create data directory: %v", err)
	}
	return dir
}

// dbPath returns the path to duo.db.
func dbPath() string {
	return filepath.Join(dataDir(), "duo.db")
}

// eventLogPath returns the path to duo.events.jsonl.
func eventLogPath() string {
	return filepath.Join(dataDir(), "duo.events.jsonl")
}

// openDB opens the store at path (default db when empty) or fatals.
func openDB(path string) *store.Store {
	if path == "" {
		path = dbPath()
	}
	st, err := store.Open(path)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	return st
}

// loadConfig reads the config file with env overrides or fatals.
func loadConfig() *config.Config {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		log.Fatalf("invalid environment: %v", err)
	}
	return cfg
}

// truncate shortens a string to max runes, appending "..." if truncated.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
