package ledger

import (
	"encoding/json"
	"fmt"
	"time"
)

// Roster is the fixed, ordered set of players eligible to record matches.
type Roster []string

// PlayerRecord holds the accumulated statistics of one roster player.
type PlayerRecord struct {
	Name           string `json:"name"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Drawn          int    `json:"drawn"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goalsFor"`
	GoalsAgainst   int    `json:"goalsAgainst"`
	GoalDifference int    `json:"goalDifference"`
	Points         int    `json:"points"`
}

// MatchID identifies a recorded match. Older exports carried a millisecond
// timestamp as a JSON number, so both numbers and strings are accepted.
type MatchID string

func (id *MatchID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = MatchID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("match id must be a string or a number: %w", err)
	}
	*id = MatchID(n.String())
	return nil
}

// MatchRecord is an immutable result of one game between two roster players.
type MatchRecord struct {
	ID         MatchID   `json:"id"`
	Date       time.Time `json:"date"`
	HomePlayer string    `json:"homePlayer"`
	AwayPlayer string    `json:"awayPlayer"`
	HomeTeam   string    `json:"homeTeam"`
	AwayTeam   string    `json:"awayTeam"`
	HomeScore  int       `json:"homeScore"`
	AwayScore  int       `json:"awayScore"`
}

// Winner returns the winning player's name, or "" for a draw.
func (m MatchRecord) Winner() string {
	switch {
	case m.HomeScore > m.AwayScore:
		return m.HomePlayer
	case m.AwayScore > m.HomeScore:
		return m.AwayPlayer
	}
	return ""
}

// MatchInput carries the fields an input collector supplies for a new match.
type MatchInput struct {
	HomePlayer string `json:"homePlayer"`
	AwayPlayer string `json:"awayPlayer"`
	HomeTeam   string `json:"homeTeam"`
	AwayTeam   string `json:"awayTeam"`
	HomeScore  int    `json:"homeScore"`
	AwayScore  int    `json:"awayScore"`
}

// Ledger is the canonical state: player statistics keyed by name and the
// match history, most recent first. Player statistics are a materialised
// view of the history and can always be rebuilt with Recompute.
type Ledger struct {
	Players map[string]*PlayerRecord `json:"players"`
	Matches []MatchRecord            `json:"matches"`
}
