package receipt

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("receipt not found")
	ErrDuplicateKey = errors.New("receipt already recorded for idempotency key")
)

// Repository defines the data-access contract for receipts.
type Repository interface {
	Save(ctx context.Context, r *Receipt) error
	FindByKey(ctx context.Context, key string) (*Receipt, error)
	ListBySession(ctx context.Context, sessionID string) ([]Receipt, error)
}
