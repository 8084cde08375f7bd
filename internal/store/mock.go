package store

import (
	"context"
	"sync"

	"github.com/mauv0809/head2head/internal/ledger"
)

var _ Store = (*Mock)(nil)

// Mock is an in-memory Store for testing. It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Saved is the last image passed to Save, nil before the first save.
	Saved *ledger.Ledger

	// Spies for method calls
	LoadFunc func(ctx context.Context) (*ledger.Ledger, error)
	SaveFunc func(ctx context.Context, l *ledger.Ledger) error

	// Call records
	LoadCalls int
	SaveCalls int
}

// NewMock creates a new mock store with nothing saved.
func NewMock() *Mock {
	return &Mock{}
}

// Load returns a copy of the last saved image, or ErrNotFound.
func (m *Mock) Load(ctx context.Context) (*ledger.Ledger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadCalls++
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	if m.Saved == nil {
		return nil, ErrNotFound
	}
	return m.Saved.Clone(), nil
}

// Save records a copy of l unless SaveFunc returns an error.
func (m *Mock) Save(ctx context.Context, l *ledger.Ledger) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SaveFunc != nil {
		if err := m.SaveFunc(ctx, l); err != nil {
			return err
		}
	}
	m.Saved = l.Clone()
	return nil
}

// Reset clears all call records and the saved image.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saved = nil
	m.LoadCalls = 0
	m.SaveCalls = 0
}
