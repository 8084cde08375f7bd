// Package render draws standings and match history for the terminal.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mauv0809/head2head/internal/ledger"
	"github.com/mauv0809/head2head/internal/standings"
)

// DateLayout is the day.month.year layout used in the match history.
const DateLayout = "02.01.2006 15:04"

const emptyHistory = "No matches recorded yet. Record the first one to start the table!"

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	pointsStyle = cellStyle.Bold(true)
	winnerStyle = lipgloss.NewStyle().Bold(true)
	dateStyle   = lipgloss.NewStyle().Faint(true)
)

var standingsHeaders = []string{"#", "Player", "P", "W", "D", "L", "GF", "GA", "GD", "Pts"}

// Standings renders the table in the order given.
func Standings(rows []standings.Standing) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(standingsHeaders...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == len(standingsHeaders)-1:
				return pointsStyle
			}
			return cellStyle
		})

	for _, r := range rows {
		t.Row(
			strconv.Itoa(r.Position),
			r.Name,
			strconv.Itoa(r.Played),
			strconv.Itoa(r.Won),
			strconv.Itoa(r.Drawn),
			strconv.Itoa(r.Lost),
			strconv.Itoa(r.GoalsFor),
			strconv.Itoa(r.GoalsAgainst),
			GoalDifference(r.GoalDifference),
			strconv.Itoa(r.Points),
		)
	}
	return t.String()
}

// GoalDifference formats a goal difference with a leading plus when positive.
func GoalDifference(gd int) string {
	if gd > 0 {
		return "+" + strconv.Itoa(gd)
	}
	return strconv.Itoa(gd)
}

// Matches renders the history one match per line, winners in bold.
func Matches(matches []ledger.MatchRecord, loc *time.Location) string {
	if len(matches) == 0 {
		return emptyHistory
	}
	if loc == nil {
		loc = time.UTC
	}

	var b strings.Builder
	for _, m := range matches {
		home := fmt.Sprintf("%s (%s)", m.HomePlayer, m.HomeTeam)
		away := fmt.Sprintf("%s (%s)", m.AwayPlayer, m.AwayTeam)
		switch m.Winner() {
		case m.HomePlayer:
			home = winnerStyle.Render(home)
		case m.AwayPlayer:
			away = winnerStyle.Render(away)
		}
		fmt.Fprintf(&b, "%s  %s %d - %d %s\n",
			dateStyle.Render(m.Date.In(loc).Format(DateLayout)),
			home, m.HomeScore, m.AwayScore, away,
		)
	}
	return strings.TrimRight(b.String(), "\n")
}
