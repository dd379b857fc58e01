package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/abelbrown/duo/internal/candidate"
	"github.com/abelbrown/duo/internal/roster"
)

func runImport() {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	appendMode := fs.Bool("append", false, "Append to the existing roster instead of replacing it")
	dryRun := fs.Bool("dry-run", false, "Load and validate without writing")
	db := fs.String("db", "", "Database path (default: ~/.duo/duo.db)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: duoctl import [flags] <file.json|http(s)://url>")
		fs.PrintDefaults()
	}
	fs.Parse(os.Args[1:])

	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}
	source := fs.Arg(0)
	if strings.HasPrefix(source, "sqlite:") {
		log.Fatalf("import reads JSON rosters; %q is already a database", source)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg := loadConfig()
	loader, err := roster.New(source, "",
		roster.WithTimeout(cfg.Timeout()),
		roster.WithRate(cfg.Roster.RequestsPerSecond),
	)
	if err != nil {
		log.Fatalf("invalid source: %v", err)
	}

	cs, err := loader.Load(ctx)
	if err != nil {
		log.Fatalf("load failed: %v", err)
	}
	fmt.Printf("Loaded %d profiles from %s\n", len(cs), loader.Source())

	if problems := checkProfiles(cs); len(problems) > 0 {
		for _, p := range problems {
			fmt.Fprintln(os.Stderr, "  "+p)
		}
		log.Fatalf("%d problems, nothing written", len(problems))
	}

	if *dryRun {
		fmt.Println("Dry run, nothing written.")
		return
	}

	st := openDB(*db)
	defer st.Close()

	if *appendMode {
		n, err := st.AppendProfiles(cs)
		if err != nil {
			log.Fatalf("append failed: %v", err)
		}
		fmt.Printf("Appended %d new profiles (%d already present)\n", n, len(cs)-n)
	} else {
		if err := st.ReplaceRoster(cs); err != nil {
			log.Fatalf("import failed: %v", err)
		}
		fmt.Printf("Replaced roster with %d profiles\n", len(cs))
	}

	total, _ := st.Count()
	fmt.Printf("Roster size: %d\n", total)
}

// checkProfiles reports entries the store cannot key: missing or
// duplicate IDs, or no summoner name.
func checkProfiles(cs []candidate.Candidate) []string {
	var problems []string
	seen := make(map[string]int, len(cs))
	for i, c := range cs {
		switch {
		case c.ID == "":
			problems = append(problems, fmt.Sprintf("#%d: missing id", i))
		case seen[c.ID] > 0:
			problems = append(problems, fmt.Sprintf("#%d: duplicate id %q (first at #%d)", i, c.ID, seen[c.ID]-1))
		}
		if seen[c.ID] == 0 {
			seen[c.ID] = i + 1
		}
		if c.SummonerName == "" {
			problems = append(problems, fmt.Sprintf("#%d: missing summonerName", i))
		}
	}
	return problems
}
