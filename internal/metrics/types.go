package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	MatchesRecorded     prometheus.Counter
	ValidationFailures  prometheus.Counter
	PersistenceFailures prometheus.Counter
	Imports             prometheus.Counter
	Resets              prometheus.Counter
	SaveDuration        prometheus.Histogram
	SlackNotifSent      prometheus.Counter
	SlackNotifFailed    prometheus.Counter
	StartupTimeSeconds  prometheus.Gauge
}
