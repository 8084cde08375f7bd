package store

import (
	"context"

	"github.com/mauv0809/head2head/internal/ledger"
)

// Store persists the ledger image. Load returns ErrNotFound when nothing has
// been saved yet. Save replaces the whole image.
type Store interface {
	Load(ctx context.Context) (*ledger.Ledger, error)
	Save(ctx context.Context, l *ledger.Ledger) error
}
