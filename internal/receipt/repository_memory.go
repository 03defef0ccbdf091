package receipt

import (
	"context"
	"sort"
	"sync"
	"time"
)

type InMemoryRepository struct {
	mu       sync.RWMutex
	receipts map[string]*Receipt
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		receipts: make(map[string]*Receipt),
	}
}

func (r *InMemoryRepository) Save(_ context.Context, rec *Receipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.receipts[rec.IdempotencyKey]; exists {
		return ErrDuplicateKey
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	cp := *rec
	r.receipts[rec.IdempotencyKey] = &cp
	return nil
}

func (r *InMemoryRepository) FindByKey(_ context.Context, key string) (*Receipt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.receipts[key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

// ListBySession returns the session's receipts, newest first.
func (r *InMemoryRepository) ListBySession(_ context.Context, sessionID string) ([]Receipt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Receipt{}
	for _, rec := range r.receipts {
		if rec.SessionID == sessionID {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
