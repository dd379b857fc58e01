package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/abelbrown/duo/internal/candidate"
)

func runList() {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	role := fs.String("role", "", "Only show one main role (Top, Jungle, Mid, ADC, Support, Fill)")
	summary := fs.Bool("summary", false, "Only print the distribution tables")
	db := fs.String("db", "", "Database path (default: ~/.duo/duo.db)")
	fs.Parse(os.Args[1:])

	st := openDB(*db)
	defer st.Close()

	var (
		cs  []candidate.Candidate
		err error
	)
	if *role != "" {
		cs, err = st.ProfilesByRole(candidate.Role(*role))
	} else {
		cs, err = st.Profiles()
	}
	if err != nil {
		log.Fatalf("failed to read roster: %v", err)
	}

	if !*summary {
		for i, c := range cs {
			duo := " "
			if c.LookingForDuo {
				duo = "*"
			}
			fmt.Printf("%3d %s %-24s %-8s %-22s %5.1f%%  %s\n",
				i+1, duo, truncate(c.Handle(), 24), c.MainRole, c.Rank, c.WinRate, c.ID)
		}
		fmt.Println()
	}

	fmt.Printf("Profiles: %d\n", len(cs))
	printDistribution("Roles", countBy(cs, func(c candidate.Candidate) string { return string(c.MainRole) }))
	printDistribution("Tiers", countBy(cs, func(c candidate.Candidate) string {
		if c.Rank.Tier == "" {
			return "Unranked"
		}
		return string(c.Rank.Tier)
	}))
}

func countBy(cs []candidate.Candidate, keyFn func(candidate.Candidate) string) map[string]int {
	out := map[string]int{}
	for _, c := range cs {
		out[keyFn(c)]++
	}
	return out
}

func printDistribution(title string, counts map[string]int) {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	fmt.Printf("\n%s (%d):\n", title, len(names))
	for _, name := range names {
		fmt.Printf("  %-20s %d\n", name, counts[name])
	}
}

func runRemove() {
	fs := flag.NewFlagSet("remove", flag.ExitOnError)
	db := fs.String("db", "", "Database path (default: ~/.duo/duo.db)")
	fs.Parse(os.Args[1:])

	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: duoctl remove [-db path] <id>...")
		os.Exit(2)
	}

	st := openDB(*db)
	defer st.Close()

	for _, id := range fs.Args() {
		c, ok, err := st.Profile(id)
		if err != nil {
			log.Fatalf("lookup %s: %v", id, err)
		}
		if !ok {
			fmt.Printf("%s: not found\n", id)
			continue
		}
		if err := st.RemoveProfile(id); err != nil {
			log.Fatalf("remove %s: %v", id, err)
		}
		fmt.Printf("%s: removed %s\n", id, c.Handle())
	}
}
