// Command duo is the terminal duo-partner finder: swipe through a roster of
// summoner profiles, accept (duo) or reject (skip) each one.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/abelbrown/duo/internal/config"
	"github.com/abelbrown/duo/internal/logging"
	"github.com/abelbrown/duo/internal/otel"
	"github.com/abelbrown/duo/internal/roster"
	"github.com/abelbrown/duo/internal/store"
	"github.com/abelbrown/duo/internal/ui"
	"github.com/abelbrown/duo/internal/ui/match"
	tea "github.com/charmbracelet/bubbletea"
)

var version = "dev"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		log.Fatalf("Invalid environment: %v", err)
	}

	dataDir := config.DataDir()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	if err := logging.Init(dataDir, version); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}
	defer logging.Close()

	// Event trail
	eventPath := filepath.Join(dataDir, "duo.events.jsonl")
	ef, err := os.OpenFile(eventPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	var events *otel.Logger
	if err != nil {
		logging.Warn("Event log unavailable", "path", eventPath, "error", err)
		events = otel.NewNullLogger()
	} else {
		defer ef.Close()
		events = otel.NewLogger(ef)
	}
	ring := otel.NewRingBuffer(otel.DefaultRingSize)
	events.SetRingBuffer(ring)
	defer events.Close()

	events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindStartup, Comp: "main", Msg: version})

	// Roster source. sqlite sources read through an open store so the
	// database is opened once per run.
	dbPath := filepath.Join(dataDir, "duo.db")
	var opts []roster.Option
	opts = append(opts,
		roster.WithTimeout(cfg.Timeout()),
		roster.WithRate(cfg.Roster.RequestsPerSecond),
	)
	if cfg.Roster.Source == "" {
		st, err := store.Open(dbPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer st.Close()
		opts = append(opts, roster.WithStore(st))
	}
	loader, err := roster.New(cfg.Roster.Source, dbPath, opts...)
	if err != nil {
		log.Fatalf("Invalid roster source: %v", err)
	}
	logging.Info("Roster source", "source", loader.Source())
	rlog := logging.WithPrefix("roster")

	app := ui.NewApp(ui.AppConfig{
		LoadRoster: func() tea.Cmd {
			return func() tea.Msg {
				lctx, lcancel := context.WithTimeout(ctx, cfg.Timeout())
				defer lcancel()
				start := time.Now()
				cs, err := loader.Load(lctx)
				if err == nil && rlog != nil {
					rlog.Debug("fetched", "count", len(cs), "took", time.Since(start))
				}
				return ui.RosterLoaded{Candidates: cs, Source: loader.Source(), Took: time.Since(start), Err: err}
			}
		},
		Logger:       events,
		Ring:         ring,
		Clipboard:    match.SystemClipboard{},
		Threshold:    cfg.Swipe.Threshold,
		Settle:       cfg.SettleDuration(),
		CopiedFlash:  cfg.CopiedFlash(),
		CellUnits:    cfg.Swipe.CellUnits,
		ExitDistance: cfg.Swipe.ExitDistance,
		ShowDetail:   cfg.UI.ShowDetail,
	})

	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if cfg.UI.Mouse {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}
	program := tea.NewProgram(app, progOpts...)

	logging.Info("Starting UI")
	final, err := program.Run()
	if err != nil {
		logging.Error("Application error", "error", err)
		events.Error(otel.KindError, "main", err)
	}

	if a, ok := final.(ui.App); ok {
		logging.Info("Session ended", "seen", a.Queue().Index(), "roster", a.Queue().Len())
	}
	cancel()

	events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindShutdown, Comp: "main"})
	logging.Info("duo exiting normally")
}
