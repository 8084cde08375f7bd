package render

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mauv0809/head2head/internal/ledger"
	"github.com/mauv0809/head2head/internal/standings"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestGoalDifference(t *testing.T) {
	assert.Equal(t, "+3", GoalDifference(3))
	assert.Equal(t, "0", GoalDifference(0))
	assert.Equal(t, "-2", GoalDifference(-2))
}

func TestStandings(t *testing.T) {
	rows := []standings.Standing{
		{Position: 1, PlayerRecord: ledger.PlayerRecord{Name: "Bahadır", Played: 1, Won: 1, GoalsFor: 3, GoalsAgainst: 1, GoalDifference: 2, Points: 3}},
		{Position: 2, PlayerRecord: ledger.PlayerRecord{Name: "Fatih", Played: 1, Lost: 1, GoalsFor: 1, GoalsAgainst: 3, GoalDifference: -2}},
	}

	out := Standings(rows)

	lines := strings.Split(out, "\n")
	assert.Contains(t, out, "Pts")
	assert.Contains(t, out, "+2")
	assert.Contains(t, out, "-2")
	assert.Less(t, strings.Index(out, "Bahadır"), strings.Index(out, "Fatih"), "rows keep the given order")
	assert.GreaterOrEqual(t, len(lines), 5, "border, header, separator and two rows")
}

func TestMatches(t *testing.T) {
	t.Run("empty history", func(t *testing.T) {
		assert.Equal(t, emptyHistory, Matches(nil, nil))
	})

	t.Run("formats each match", func(t *testing.T) {
		loc := time.FixedZone("TRT", 3*60*60)
		matches := []ledger.MatchRecord{
			{ID: "m2", Date: time.Date(2026, 3, 7, 19, 0, 0, 0, time.UTC), HomePlayer: "Oğuz", AwayPlayer: "Abdullah", HomeTeam: "Juventus", AwayTeam: "Napoli", HomeScore: 0, AwayScore: 0},
			{ID: "m1", Date: time.Date(2026, 3, 6, 18, 30, 0, 0, time.UTC), HomePlayer: "Fatih", AwayPlayer: "Bahadır", HomeTeam: "Celtic", AwayTeam: "Rangers", HomeScore: 1, AwayScore: 2},
		}

		out := Matches(matches, loc)
		lines := strings.Split(out, "\n")

		assert.Len(t, lines, 2)
		assert.Equal(t, "07.03.2026 22:00  Oğuz (Juventus) 0 - 0 Abdullah (Napoli)", lines[0])
		assert.Equal(t, "06.03.2026 21:30  Fatih (Celtic) 1 - 2 Bahadır (Rangers)", lines[1])
	})
}
