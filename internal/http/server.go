package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mauv0809/head2head/internal/common/clock"
	"github.com/mauv0809/head2head/internal/config"
	"github.com/mauv0809/head2head/internal/notifier"
	"github.com/mauv0809/head2head/internal/pubsub"
	"github.com/mauv0809/head2head/internal/scoreboard"
	"github.com/rs/cors"
)

func NewServer(board *scoreboard.Service, notifier notifier.Notifier, pubsub pubsub.PubSubClient, metricsHandler http.Handler, cfg config.Config, clk clock.Clock) *Server {
	if clk == nil {
		clk = &clock.DefaultClock{}
	}
	server := &Server{
		Scoreboard:     board,
		Notifier:       notifier,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Clock:          clk,
		PubSub:         pubsub,
		Router:         mux.NewRouter(),
	}

	server.routes()
	server.handler = server.Router
	if len(cfg.CORSOrigins) > 0 {
		server.handler = cors.New(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
		}).Handler(server.Router)
	}
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler).Methods(http.MethodGet)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware)).Methods(http.MethodGet)
	s.Router.Handle("/standings", Chain(s.StandingsHandler(), paramsMiddleware)).Methods(http.MethodGet)
	s.Router.Handle("/standings/announce", Chain(s.AnnounceStandingsHandler(), paramsMiddleware)).Methods(http.MethodPost)
	s.Router.Handle("/matches", Chain(s.ListMatchesHandler(), paramsMiddleware)).Methods(http.MethodGet)
	s.Router.Handle("/matches", Chain(s.RecordMatchHandler(), paramsMiddleware)).Methods(http.MethodPost)
	s.Router.Handle("/reset", Chain(s.ResetHandler(), paramsMiddleware)).Methods(http.MethodPost)
	s.Router.Handle("/export", Chain(s.ExportHandler(), paramsMiddleware)).Methods(http.MethodGet)
	s.Router.Handle("/import", Chain(s.ImportHandler(), paramsMiddleware)).Methods(http.MethodPost)
	s.Router.Handle("/pubsub/announce", Chain(s.PushAnnounceHandler(), paramsMiddleware)).Methods(http.MethodPost)
	s.Router.Handle("/slack/command/leaderboard",
		Chain(s.LeaderboardCommandHandler(), paramsMiddleware, slackVerifyMiddleware(s.Cfg.Slack.SigningSecret))).Methods(http.MethodPost)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
