package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NewRoster builds a roster from the given names, trimming whitespace and
// rejecting empty or repeated names.
func NewRoster(names []string) (Roster, error) {
	roster := make(Roster, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, invalid("roster", "", ErrEmptyPlayerName)
		}
		if seen[name] {
			return nil, invalid("roster", name, ErrDuplicatePlayer)
		}
		seen[name] = true
		roster = append(roster, name)
	}
	if len(roster) == 0 {
		return nil, invalid("roster", "", ErrEmptyRoster)
	}
	return roster, nil
}

// Contains reports whether name is on the roster.
func (r Roster) Contains(name string) bool {
	for _, n := range r {
		if n == name {
			return true
		}
	}
	return false
}

// New returns an empty ledger with a zeroed record for every roster player.
func New(roster Roster) *Ledger {
	l := &Ledger{
		Players: make(map[string]*PlayerRecord, len(roster)),
		Matches: []MatchRecord{},
	}
	l.Initialize(roster)
	return l
}

// Initialize ensures every roster player has a record. Existing records,
// for example ones loaded from storage, are left untouched.
func (l *Ledger) Initialize(roster Roster) {
	if l.Players == nil {
		l.Players = make(map[string]*PlayerRecord, len(roster))
	}
	if l.Matches == nil {
		l.Matches = []MatchRecord{}
	}
	for _, name := range roster {
		if _, ok := l.Players[name]; !ok {
			l.Players[name] = &PlayerRecord{Name: name}
		}
	}
}

// RecordMatch validates the input, prepends a new match to the history and
// applies its result to both players. Nothing is changed when validation fails.
func (l *Ledger) RecordMatch(in MatchInput, id MatchID, at time.Time) (MatchRecord, error) {
	match := MatchRecord{
		ID:         id,
		Date:       at,
		HomePlayer: in.HomePlayer,
		AwayPlayer: in.AwayPlayer,
		HomeTeam:   in.HomeTeam,
		AwayTeam:   in.AwayTeam,
		HomeScore:  in.HomeScore,
		AwayScore:  in.AwayScore,
	}
	if err := validateMatch(match, func(name string) bool { return l.Players[name] != nil }); err != nil {
		return MatchRecord{}, err
	}

	l.Matches = append([]MatchRecord{match}, l.Matches...)
	applyResult(l.Players[match.HomePlayer], l.Players[match.AwayPlayer], match.HomeScore, match.AwayScore)
	return match, nil
}

// Reset clears the history and zeroes every roster player.
func (l *Ledger) Reset(roster Roster) {
	l.Players = make(map[string]*PlayerRecord, len(roster))
	l.Matches = []MatchRecord{}
	l.Initialize(roster)
}

// ReplaceState swaps the whole ledger for next. Every match must reference two
// distinct roster players; player statistics in next are ignored and rebuilt
// from its match history. On error the receiver is left unchanged.
func (l *Ledger) ReplaceState(next *Ledger, roster Roster) error {
	if next == nil {
		return invalid("ledger", "", ErrNilLedger)
	}
	candidate := &Ledger{Matches: append([]MatchRecord{}, next.Matches...)}
	if err := candidate.Recompute(roster); err != nil {
		return err
	}
	*l = *candidate
	return nil
}

// Recompute rebuilds all player statistics for the roster by replaying the
// match history oldest first. The receiver is only modified on success.
func (l *Ledger) Recompute(roster Roster) error {
	players := make(map[string]*PlayerRecord, len(roster))
	for _, name := range roster {
		players[name] = &PlayerRecord{Name: name}
	}

	seen := make(map[MatchID]bool, len(l.Matches))
	for i := len(l.Matches) - 1; i >= 0; i-- {
		match := l.Matches[i]
		if err := validateMatch(match, func(name string) bool { return players[name] != nil }); err != nil {
			return fmt.Errorf("match %d: %w", len(l.Matches)-i, err)
		}
		if seen[match.ID] {
			return invalid("id", string(match.ID), ErrDuplicateMatchID)
		}
		seen[match.ID] = true
		applyResult(players[match.HomePlayer], players[match.AwayPlayer], match.HomeScore, match.AwayScore)
	}

	l.Players = players
	if l.Matches == nil {
		l.Matches = []MatchRecord{}
	}
	return nil
}

// Verify checks the per-player invariants played = won+drawn+lost and
// goalDifference = goalsFor-goalsAgainst.
func (l *Ledger) Verify() error {
	for name, p := range l.Players {
		if p.Played != p.Won+p.Drawn+p.Lost {
			return invalid("played", name, ErrInconsistentStats)
		}
		if p.GoalDifference != p.GoalsFor-p.GoalsAgainst {
			return invalid("goalDifference", name, ErrInconsistentStats)
		}
		if p.Points != 3*p.Won+p.Drawn {
			return invalid("points", name, ErrInconsistentStats)
		}
	}
	return nil
}

// Clone returns a deep copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{
		Players: make(map[string]*PlayerRecord, len(l.Players)),
		Matches: make([]MatchRecord, len(l.Matches)),
	}
	for name, p := range l.Players {
		record := *p
		c.Players[name] = &record
	}
	copy(c.Matches, l.Matches)
	return c
}

func validateMatch(m MatchRecord, known func(string) bool) error {
	if m.ID == "" {
		return invalid("id", "", ErrEmptyMatchID)
	}
	if !known(m.HomePlayer) {
		return invalid("homePlayer", m.HomePlayer, ErrUnknownPlayer)
	}
	if !known(m.AwayPlayer) {
		return invalid("awayPlayer", m.AwayPlayer, ErrUnknownPlayer)
	}
	if m.HomePlayer == m.AwayPlayer {
		return invalid("awayPlayer", m.AwayPlayer, ErrSamePlayer)
	}
	if strings.TrimSpace(m.HomeTeam) == "" {
		return invalid("homeTeam", "", ErrEmptyTeam)
	}
	if strings.TrimSpace(m.AwayTeam) == "" {
		return invalid("awayTeam", "", ErrEmptyTeam)
	}
	if m.HomeTeam == m.AwayTeam {
		return invalid("awayTeam", m.AwayTeam, ErrSameTeam)
	}
	if m.HomeScore < 0 {
		return invalid("homeScore", strconv.Itoa(m.HomeScore), ErrNegativeScore)
	}
	if m.AwayScore < 0 {
		return invalid("awayScore", strconv.Itoa(m.AwayScore), ErrNegativeScore)
	}
	return nil
}

// applyResult updates both players for one match. Goal difference is derived
// only after both goal tallies have been updated.
func applyResult(home, away *PlayerRecord, homeScore, awayScore int) {
	home.Played++
	away.Played++

	home.GoalsFor += homeScore
	home.GoalsAgainst += awayScore
	away.GoalsFor += awayScore
	away.GoalsAgainst += homeScore

	switch {
	case homeScore > awayScore:
		home.Won++
		home.Points += 3
		away.Lost++
	case homeScore < awayScore:
		away.Won++
		away.Points += 3
		home.Lost++
	default:
		home.Drawn++
		away.Drawn++
		home.Points++
		away.Points++
	}

	home.GoalDifference = home.GoalsFor - home.GoalsAgainst
	away.GoalDifference = away.GoalsFor - away.GoalsAgainst
}
