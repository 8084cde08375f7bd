package notifier

import (
	"sync"

	"github.com/mauv0809/head2head/internal/ledger"
	"github.com/mauv0809/head2head/internal/standings"
)

var _ Notifier = (*Mock)(nil)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Call records
	SendMatchResultCalls []struct {
		Match  ledger.MatchRecord
		Table  []standings.Standing
		DryRun bool
	}
	SendLeaderboardCalls [][]standings.Standing

	// Spies
	SendMatchResultFunc           func(match ledger.MatchRecord, table []standings.Standing, dryRun bool) error
	FormatLeaderboardResponseFunc func(table []standings.Standing) (any, error)

	LastLeaderboardResponse any
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchResultCalls = nil
	m.SendLeaderboardCalls = nil
	m.LastLeaderboardResponse = nil
}

func (m *Mock) SendMatchResult(match ledger.MatchRecord, table []standings.Standing, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchResultCalls = append(m.SendMatchResultCalls, struct {
		Match  ledger.MatchRecord
		Table  []standings.Standing
		DryRun bool
	}{match, table, dryRun})
	if m.SendMatchResultFunc != nil {
		return m.SendMatchResultFunc(match, table, dryRun)
	}
	return nil
}

func (m *Mock) SendLeaderboard(table []standings.Standing, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, table)
	return nil
}

func (m *Mock) FormatLeaderboardResponse(table []standings.Standing) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatLeaderboardResponseFunc != nil {
		resp, err := m.FormatLeaderboardResponseFunc(table)
		m.LastLeaderboardResponse = resp
		return resp, err
	}
	m.LastLeaderboardResponse = table
	return table, nil
}

// MatchResultCount returns the number of SendMatchResult calls.
func (m *Mock) MatchResultCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SendMatchResultCalls)
}
