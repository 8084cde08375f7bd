package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/head2head/internal/ledger"
)

var _ Store = (*sqlStore)(nil)

// sqlStore keeps the ledger in the players and matches tables.
type sqlStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQL creates a Store on a database prepared by database.InitDB.
func NewSQL(db *sql.DB) Store {
	return &sqlStore{
		db: db,
	}
}

// Load reads the players and the match history ordered most recent first.
func (s *sqlStore) Load(ctx context.Context) (*ledger.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l := &ledger.Ledger{
		Players: make(map[string]*ledger.PlayerRecord),
		Matches: []ledger.MatchRecord{},
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, played, won, drawn, lost, goals_for, goals_against, goal_difference, points
		FROM players
	`)
	if err != nil {
		return nil, loadErr(err)
	}
	defer rows.Close()

	for rows.Next() {
		var p ledger.PlayerRecord
		if err := rows.Scan(&p.Name, &p.Played, &p.Won, &p.Drawn, &p.Lost, &p.GoalsFor, &p.GoalsAgainst, &p.GoalDifference, &p.Points); err != nil {
			return nil, loadErr(fmt.Errorf("scan player: %w", err))
		}
		l.Players[p.Name] = &p
	}
	if err := rows.Err(); err != nil {
		return nil, loadErr(err)
	}

	matches, err := s.db.QueryContext(ctx, `
		SELECT id, date, home_player, away_player, home_team, away_team, home_score, away_score
		FROM matches ORDER BY seq ASC
	`)
	if err != nil {
		return nil, loadErr(err)
	}
	defer matches.Close()

	for matches.Next() {
		m, err := scanMatch(matches)
		if err != nil {
			return nil, loadErr(err)
		}
		l.Matches = append(l.Matches, m)
	}
	if err := matches.Err(); err != nil {
		return nil, loadErr(err)
	}

	if len(l.Players) == 0 && len(l.Matches) == 0 {
		return nil, ErrNotFound
	}
	log.Debug("Loaded ledger from database", "players", len(l.Players), "matches", len(l.Matches))
	return l, nil
}

// scanMatch is a helper function to scan a single match row.
func scanMatch(scanner interface{ Scan(...any) error }) (ledger.MatchRecord, error) {
	var m ledger.MatchRecord
	var id, date string
	err := scanner.Scan(&id, &date, &m.HomePlayer, &m.AwayPlayer, &m.HomeTeam, &m.AwayTeam, &m.HomeScore, &m.AwayScore)
	if err != nil {
		return ledger.MatchRecord{}, fmt.Errorf("scan match: %w", err)
	}
	m.ID = ledger.MatchID(id)
	m.Date, err = time.Parse(time.RFC3339Nano, date)
	if err != nil {
		return ledger.MatchRecord{}, fmt.Errorf("parse date of match %s: %w", id, err)
	}
	return m, nil
}

// Save replaces the stored image with l in a single transaction.
func (s *sqlStore) Save(ctx context.Context, l *ledger.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return saveErr(err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM matches"); err != nil {
		tx.Rollback()
		return saveErr(err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM players"); err != nil {
		tx.Rollback()
		return saveErr(err)
	}

	playerStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO players (name, played, won, drawn, lost, goals_for, goals_against, goal_difference, points)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return saveErr(err)
	}
	defer playerStmt.Close()

	for _, p := range l.Players {
		if _, err := playerStmt.ExecContext(ctx, p.Name, p.Played, p.Won, p.Drawn, p.Lost, p.GoalsFor, p.GoalsAgainst, p.GoalDifference, p.Points); err != nil {
			tx.Rollback()
			return saveErr(fmt.Errorf("insert player %s: %w", p.Name, err))
		}
	}

	matchStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO matches (id, seq, date, home_player, away_player, home_team, away_team, home_score, away_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return saveErr(err)
	}
	defer matchStmt.Close()

	for i, m := range l.Matches {
		_, err := matchStmt.ExecContext(ctx, string(m.ID), i, m.Date.UTC().Format(time.RFC3339Nano), m.HomePlayer, m.AwayPlayer, m.HomeTeam, m.AwayTeam, m.HomeScore, m.AwayScore)
		if err != nil {
			tx.Rollback()
			return saveErr(fmt.Errorf("insert match %s: %w", m.ID, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return saveErr(err)
	}
	log.Debug("Saved ledger to database", "players", len(l.Players), "matches", len(l.Matches))
	return nil
}
