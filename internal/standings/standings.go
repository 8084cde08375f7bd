package standings

import (
	"sort"

	"github.com/mauv0809/head2head/internal/ledger"
)

// Standing is one row of the standings table.
type Standing struct {
	Position int `json:"position"`
	ledger.PlayerRecord
}

// Compute ranks every player in the ledger by points, then goal difference,
// both descending. Remaining ties keep roster order; players missing from the
// roster follow in name order. The ledger is not modified.
func Compute(l *ledger.Ledger, roster ledger.Roster) []Standing {
	rows := make([]Standing, 0, len(l.Players))
	listed := make(map[string]bool, len(roster))
	for _, name := range roster {
		if p, ok := l.Players[name]; ok {
			rows = append(rows, Standing{PlayerRecord: *p})
			listed[name] = true
		}
	}

	var extra []string
	for name := range l.Players {
		if !listed[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		rows = append(rows, Standing{PlayerRecord: *l.Players[name]})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].GoalDifference > rows[j].GoalDifference
	})

	for i := range rows {
		rows[i].Position = i + 1
	}
	return rows
}

// Leader returns the top of the table, or false while no match has been played.
func Leader(l *ledger.Ledger, roster ledger.Roster) (Standing, bool) {
	if len(l.Matches) == 0 {
		return Standing{}, false
	}
	table := Compute(l, roster)
	if len(table) == 0 {
		return Standing{}, false
	}
	return table[0], true
}
