package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/Anas-Ty/restaurant-mvp/internal/orderapi"
	log "github.com/sirupsen/logrus"
)

const DefaultInterval = 5 * time.Second

type Lister interface {
	ListOrders(ctx context.Context, restaurantID, status string) ([]orderapi.Order, error)
}

// Snapshot is the latest successful order list. LastError is the most
// recent poll failure, cleared by the next success.
type Snapshot struct {
	RestaurantID string           `json:"restaurant_id"`
	Orders       []orderapi.Order `json:"orders"`
	FetchedAt    time.Time        `json:"fetched_at"`
	LastError    string           `json:"last_error,omitempty"`
}

func (s Snapshot) Loaded() bool {
	return !s.FetchedAt.IsZero()
}

// Poller keeps a restaurant's order list fresh for the read-only dashboard.
type Poller struct {
	lister       Lister
	restaurantID string
	interval     time.Duration

	mu   sync.RWMutex
	snap Snapshot
}

func NewPoller(lister Lister, restaurantID string, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		lister:       lister,
		restaurantID: restaurantID,
		interval:     interval,
		snap:         Snapshot{RestaurantID: restaurantID, Orders: []orderapi.Order{}},
	}
}

// Run polls right away and then every interval until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	log.WithFields(log.Fields{
		"restaurant": p.restaurantID,
		"interval":   p.interval.String(),
	}).Info("[DASHBOARD] poller started")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if err := p.PollOnce(ctx); err != nil && ctx.Err() == nil {
			log.WithError(err).Warn("[DASHBOARD] poll failed")
		}

		select {
		case <-ctx.Done():
			log.Info("[DASHBOARD] poller stopped")
			return
		case <-ticker.C:
		}
	}
}

// PollOnce fetches the order list. On failure the previous orders are kept.
func (p *Poller) PollOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.interval)
	defer cancel()

	orders, err := p.lister.ListOrders(ctx, p.restaurantID, "")

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.snap.LastError = err.Error()
		return err
	}

	if orders == nil {
		orders = []orderapi.Order{}
	}
	p.snap.Orders = orders
	p.snap.FetchedAt = time.Now().UTC()
	p.snap.LastError = ""
	return nil
}

func (p *Poller) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	s := p.snap
	s.Orders = append([]orderapi.Order(nil), p.snap.Orders...)
	return s
}

// Filter returns the orders with the given status; empty means all.
func (s Snapshot) Filter(status orderapi.OrderStatus) []orderapi.Order {
	if status == "" {
		return s.Orders
	}
	out := []orderapi.Order{}
	for _, o := range s.Orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out
}

// Counts tallies orders per status.
func (s Snapshot) Counts() map[orderapi.OrderStatus]int {
	counts := make(map[orderapi.OrderStatus]int)
	for _, o := range s.Orders {
		counts[o.Status]++
	}
	return counts
}
