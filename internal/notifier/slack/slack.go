package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/head2head/internal/ledger"
	"github.com/mauv0809/head2head/internal/metrics"
	"github.com/mauv0809/head2head/internal/notifier"
	"github.com/mauv0809/head2head/internal/standings"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
	loc       *time.Location
}

// NewNotifier creates a new Notifier. Without a token or channel, messages are
// formatted but never posted.
func NewNotifier(token, channelID string, metrics metrics.Metrics, loc *time.Location) *Notifier {
	var api slackClient
	if token != "" {
		api = slack.New(token)
	}
	return NewNotifierWithAPI(api, channelID, metrics, loc)
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics, loc *time.Location) *Notifier {
	if loc == nil {
		loc = time.UTC
	}
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
		loc:       loc,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}
	if s.api == nil || s.channelID == "" {
		log.Debug("Slack is not configured, skipping message")
		return "", "", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendMatchResult(match ledger.MatchRecord, table []standings.Standing, dryRun bool) error {
	msg := s.formatMatchResult(match, table)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendLeaderboard(table []standings.Standing, dryRun bool) error {
	msg := s.formatLeaderboard(table)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// FormatLeaderboardResponse formats a leaderboard message for a slash command response.
func (s *Notifier) FormatLeaderboardResponse(table []standings.Standing) (any, error) {
	return s.formatLeaderboard(table), nil
}

// formatMatchResult creates the Slack message for a recorded match using Block Kit.
func (s *Notifier) formatMatchResult(match ledger.MatchRecord, table []standings.Standing) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "⚽ Match recorded! ⚽", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	scoreText := fmt.Sprintf("%s (%s) %d - %d %s (%s)",
		match.HomePlayer, match.HomeTeam,
		match.HomeScore, match.AwayScore,
		match.AwayPlayer, match.AwayTeam,
	)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", scoreText, true, false), nil, nil))

	resultText := "It's a draw!"
	if winner := match.Winner(); winner != "" {
		resultText = fmt.Sprintf("%s won! 🏆", winner)
	}
	contextElements := []slack.MixedElement{
		slack.NewTextBlockObject("plain_text", resultText, true, false),
		slack.NewTextBlockObject("plain_text", match.Date.In(s.loc).Format("Monday 02 Jan, 15:04"), true, false),
	}
	if len(table) > 0 {
		leader := table[0]
		contextElements = append(contextElements, slack.NewTextBlockObject("plain_text",
			fmt.Sprintf("Top of the table: %s with %d pts", leader.Name, leader.Points), true, false))
	}
	blocks = append(blocks, slack.NewContextBlock("", contextElements...))

	return slack.NewBlockMessage(blocks...)
}

// formatLeaderboard creates a Slack message to display the standings.
func (s *Notifier) formatLeaderboard(table []standings.Standing) slack.Message {
	blocks := make([]slack.Block, 0)

	// Header
	headerText := slack.NewTextBlockObject("plain_text", "🏆 Standings 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	played := 0
	for _, row := range table {
		played += row.Played
	}
	if played == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No matches recorded yet. Go play some!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for _, row := range table {
		var medal string
		switch row.Position {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}

		playerText := fmt.Sprintf("%d. %s %s: %d pts\n> P %d | W %d | D %d | L %d | GF %d | GA %d | GD %s",
			row.Position,
			medal,
			row.Name,
			row.Points,
			row.Played,
			row.Won,
			row.Drawn,
			row.Lost,
			row.GoalsFor,
			row.GoalsAgainst,
			signed(row.GoalDifference),
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", playerText, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

func signed(n int) string {
	if n > 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}
