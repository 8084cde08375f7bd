package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mauv0809/head2head/internal/common/clock"
	"github.com/mauv0809/head2head/internal/config"
	"github.com/mauv0809/head2head/internal/notifier"
	"github.com/mauv0809/head2head/internal/pubsub"
	"github.com/mauv0809/head2head/internal/scoreboard"
)

type Server struct {
	Scoreboard     *scoreboard.Service
	Notifier       notifier.Notifier
	MetricsHandler http.Handler
	Cfg            config.Config
	Clock          clock.Clock
	PubSub         pubsub.PubSubClient
	Router         *mux.Router

	handler http.Handler
}

// matchResponse is returned after recording a match. Error is set when the
// match was recorded but could not be saved.
type matchResponse struct {
	Match     any    `json:"match"`
	Standings any    `json:"standings"`
	Error     string `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// pushEnvelope is the body of a Pub/Sub push subscription request.
type pushEnvelope struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data       string            `json:"data"`
		Attributes map[string]string `json:"attributes"`
		MessageID  string            `json:"messageId"`
	} `json:"message"`
}
