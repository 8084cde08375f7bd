package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/head2head/internal/exchange"
	"github.com/mauv0809/head2head/internal/ledger"
	"github.com/mauv0809/head2head/internal/pubsub"
	"github.com/mauv0809/head2head/internal/store"
	"github.com/slack-go/slack"
)

const maxImportSize = 10 << 20

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) StandingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, s.Scoreboard.Standings())
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, s.Scoreboard.Matches())
	}
}

// RecordMatchHandler records the match in the JSON body. A match that was
// recorded but not saved is still returned, with status 500.
func (s *Server) RecordMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in ledger.MatchInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respondError(w, http.StatusBadRequest, fmt.Errorf("invalid match body: %w", err))
			return
		}
		in.HomePlayer = strings.TrimSpace(in.HomePlayer)
		in.AwayPlayer = strings.TrimSpace(in.AwayPlayer)
		in.HomeTeam = strings.TrimSpace(in.HomeTeam)
		in.AwayTeam = strings.TrimSpace(in.AwayTeam)

		match, err := s.Scoreboard.RecordMatch(r.Context(), in, isDryRunFromContext(r))
		switch {
		case err == nil:
			respondJSON(w, http.StatusCreated, matchResponse{Match: match, Standings: s.Scoreboard.Standings()})
		case errors.Is(err, store.ErrPersistence):
			respondJSON(w, http.StatusInternalServerError, matchResponse{Match: match, Standings: s.Scoreboard.Standings(), Error: err.Error()})
		default:
			respondError(w, statusFor(err), err)
		}
	}
}

func (s *Server) ResetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Received request to reset the ledger")
		if err := s.Scoreboard.Reset(r.Context()); err != nil {
			respondError(w, statusFor(err), err)
			return
		}
		respondJSON(w, http.StatusOK, s.Scoreboard.Standings())
	}
}

// ExportHandler downloads the ledger as head2head_<date>.<format>.
func (s *Server) ExportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format, err := exchange.ParseFormat(r.URL.Query().Get("format"))
		if err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}

		now := s.Clock.Now()
		if s.Cfg.Location != nil {
			now = now.In(s.Cfg.Location)
		}
		var buf bytes.Buffer
		if err := s.Scoreboard.Export(&buf, format); err != nil {
			respondError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.FileName(now)))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(buf.Bytes()); err != nil {
			log.Error("Failed to write export", "error", err)
		}
	}
}

// ImportHandler replaces the ledger with the uploaded document. The format
// comes from the format query parameter or the Content-Type header.
func (s *Server) ImportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("format")
		if name == "" && strings.Contains(r.Header.Get("Content-Type"), "msgpack") {
			name = string(exchange.FormatMsgpack)
		}
		format, err := exchange.ParseFormat(name)
		if err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}

		body := http.MaxBytesReader(w, r.Body, maxImportSize)
		if err := s.Scoreboard.Import(r.Context(), body, format); err != nil {
			respondError(w, statusFor(err), err)
			return
		}
		log.Info("Imported ledger", "format", format, "matches", len(s.Scoreboard.Matches()))
		respondJSON(w, http.StatusOK, s.Scoreboard.Standings())
	}
}

// AnnounceStandingsHandler posts the current table to the Slack channel.
func (s *Server) AnnounceStandingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Scoreboard.AnnounceStandings(isDryRunFromContext(r)); err != nil {
			log.Error("Failed to announce standings", "error", err)
			respondError(w, http.StatusBadGateway, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// PushAnnounceHandler receives scoreboard events from a Pub/Sub push
// subscription and posts the standings for each one.
func (s *Server) PushAnnounceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var envelope pushEnvelope
		if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		rawData, err := base64.StdEncoding.DecodeString(envelope.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}

		var event pubsub.MatchRecordedEvent
		if err := s.PubSub.ProcessMessage(rawData, &event); err != nil {
			log.Error("Failed to decode event", "error", err, "messageID", envelope.Message.MessageID)
			http.Error(w, "Invalid event payload", http.StatusBadRequest)
			return
		}
		log.Debug("Received scoreboard event", "subscription", envelope.Subscription, "matchID", event.Match.ID, "leader", event.Leader)

		if err := s.Scoreboard.AnnounceStandings(isDryRunFromContext(r)); err != nil {
			log.Error("Failed to announce standings", "error", err)
			http.Error(w, "Failed to announce standings", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

// LeaderboardCommandHandler returns a handler for the /leaderboard Slack command.
func (s *Server) LeaderboardCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msg, err := s.Notifier.FormatLeaderboardResponse(s.Scoreboard.Standings())
		if err != nil {
			http.Error(w, "Failed to format leaderboard", http.StatusInternalServerError)
			log.Error("Failed to format leaderboard", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}

		respondJSON(w, http.StatusOK, slackMsg)
	}
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ledger.ErrValidation), errors.Is(err, exchange.ErrImportParse):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "error", err)
	}
	respondJSON(w, status, errorResponse{Error: err.Error()})
}
