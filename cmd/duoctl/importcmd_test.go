package main

import (
	"testing"

	"github.com/abelbrown/duo/internal/candidate"
)

func TestCheckProfiles(t *testing.T) {
	ok := []candidate.Candidate{
		{ID: "a", SummonerName: "A"},
		{ID: "b", SummonerName: "B"},
	}
	if p := checkProfiles(ok); len(p) != 0 {
		t.Errorf("valid roster reported %v", p)
	}

	bad := []candidate.Candidate{
		{ID: "a", SummonerName: "A"},
		{ID: "", SummonerName: "NoID"},
		{ID: "a", SummonerName: "Dup"},
		{ID: "c"},
	}
	p := checkProfiles(bad)
	if len(p) != 3 {
		t.Fatalf("expected 3 problems, got %v", p)
	}
	if p[1] != `#2: duplicate id "a" (first at #0)` {
		t.Errorf("duplicate message = %q", p[1])
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Faker#KR1", 24); got != "Faker#KR1" {
		t.Errorf("short string changed: %q", got)
	}
	if got := truncate("averyveryverylongsummonername#EUW", 12); got != "averyvery..." {
		t.Errorf("truncate = %q", got)
	}
}
