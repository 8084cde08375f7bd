package notifier

import (
	"github.com/mauv0809/head2head/internal/ledger"
	"github.com/mauv0809/head2head/internal/standings"
)

// Notifier defines a high-level interface for presenting scoreboard events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// After a match has been recorded
	SendMatchResult(match ledger.MatchRecord, table []standings.Standing, dryRun bool) error
	SendLeaderboard(table []standings.Standing, dryRun bool) error

	// For formatting responses for slash commands
	FormatLeaderboardResponse(table []standings.Standing) (any, error)
}
