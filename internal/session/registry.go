package session

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Registry holds live sessions in memory. Carts are never persisted.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

func (r *Registry) Create(qr, restaurantID string) *Session {
	s := newSession(qr, restaurantID, r.now())

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	return s
}

// Get returns the session and marks it as seen.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()

	if ok {
		s.touch(r.now())
	}
	return s, ok
}

func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than maxIdle. Sessions with a
// checkout in flight are kept.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		idle, busy := s.idleSince(now)
		if busy || idle <= maxIdle {
			continue
		}
		delete(r.sessions, id)
		removed++
	}
	return removed
}

// RunSweeper sweeps every interval until ctx is cancelled.
func (r *Registry) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(maxIdle); n > 0 {
				log.WithFields(log.Fields{
					"removed": n,
					"live":    r.Len(),
				}).Info("[SESSION] swept idle sessions")
			}
		}
	}
}
