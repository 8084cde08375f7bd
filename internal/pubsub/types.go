package pubsub

import (
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/mauv0809/head2head/internal/ledger"
)

type client struct {
	client *pubsub.Client
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventMatchRecorded  EventType = "match-recorded"
	EventLedgerReset    EventType = "ledger-reset"
	EventLedgerReplaced EventType = "ledger-replaced"
)

// MatchRecordedEvent is published after a match has been saved.
type MatchRecordedEvent struct {
	Match  ledger.MatchRecord `msgpack:"match"`
	Leader string             `msgpack:"leader"`
}

// LedgerResetEvent is published after the ledger has been cleared.
type LedgerResetEvent struct {
	At time.Time `msgpack:"at"`
}

// LedgerReplacedEvent is published after an import replaced the ledger.
type LedgerReplacedEvent struct {
	At      time.Time `msgpack:"at"`
	Matches int       `msgpack:"matches"`
}
