// Package candidate defines the profile records offered for duo/skip resolution.
//
// A Candidate is opaque to the swipe core beyond its ID. Everything else is
// display data supplied by the roster loader and rendered by the UI.
package candidate

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Tier is a ranked ladder tier, e.g. "Oro" or "Diamante".
type Tier string

// Ladder tiers in ascending order.
const (
	TierIron        Tier = "Hierro"
	TierBronze      Tier = "Bronce"
	TierSilver      Tier = "Plata"
	TierGold        Tier = "Oro"
	TierPlatinum    Tier = "Platino"
	TierEmerald     Tier = "Esmeralda"
	TierDiamond     Tier = "Diamante"
	TierMaster      Tier = "Maestro"
	TierGrandmaster Tier = "Gran Maestro"
	TierChallenger  Tier = "Retador"
)

// Role is the candidate's main lane.
type Role string

const (
	RoleTop     Role = "Top"
	RoleJungle  Role = "Jungle"
	RoleMid     Role = "Mid"
	RoleADC     Role = "ADC"
	RoleSupport Role = "Support"
	RoleFill    Role = "Fill"
)

// Rank is the tier, division and league points of a candidate.
type Rank struct {
	Tier     Tier   `json:"tier"`
	Division string `json:"division"` // "I".."IV"
	LP       int    `json:"lp"`
}

// String renders "Oro II · 45LP".
func (r Rank) String() string {
	if r.Tier == "" {
		return "Unranked"
	}
	if r.Division == "" {
		return fmt.Sprintf("%s · %dLP", r.Tier, r.LP)
	}
	return fmt.Sprintf("%s %s · %dLP", r.Tier, r.Division, r.LP)
}

// Champion is a top-played champion mini-record.
type Champion struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IconURL string `json:"iconUrl"`
	Mastery string `json:"mastery"` // "M4".."M7"
}

// Candidate is a displayable profile. The swipe core never mutates one.
type Candidate struct {
	ID            string     `json:"id"`
	SummonerName  string     `json:"summonerName"`
	TagLine       string     `json:"tagLine"`
	AvatarURL     string     `json:"avatarUrl"`
	SplashURL     string     `json:"splashUrl"`
	SplashFocus   string     `json:"splashFocus,omitempty"`
	Rank          Rank       `json:"rank"`
	WinRate       float64    `json:"winRate"`
	GamesAnalyzed int        `json:"gamesAnalyzed"`
	PlayStyles    []string   `json:"playStyles"`
	TopChampions  []Champion `json:"topChampions"`
	MainRole      Role       `json:"mainRole"`
	Wins          int        `json:"wins"`
	Losses        int        `json:"losses"`
	Region        string     `json:"region"`
	LookingForDuo bool       `json:"lookingForDuo"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Handle returns the "name#tag" identity copied from the match modal.
func (c Candidate) Handle() string {
	if c.TagLine == "" {
		return c.SummonerName
	}
	return c.SummonerName + "#" + c.TagLine
}

// Games returns wins + losses.
func (c Candidate) Games() int {
	return c.Wins + c.Losses
}

// ChampionNames returns the top champion names in order.
func (c Candidate) ChampionNames() []string {
	names := make([]string, 0, len(c.TopChampions))
	for _, ch := range c.TopChampions {
		names = append(names, ch.Name)
	}
	return names
}

// Decode reads a JSON array of candidates.
// Fields are trusted as well-formed; only the JSON shape is checked.
func Decode(r io.Reader) ([]Candidate, error) {
	var out []Candidate
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode candidates: %w", err)
	}
	return out, nil
}
