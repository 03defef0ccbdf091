package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Anas-Ty/restaurant-mvp/internal/cart"
	"github.com/Anas-Ty/restaurant-mvp/internal/menu"
	"github.com/google/uuid"
)

type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
)

var ErrCheckoutInProgress = errors.New("a checkout is already in progress")

// Session is one browser's ordering context. Everything except the
// immutable identifiers is guarded by mu.
type Session struct {
	ID        string
	QR        string
	CreatedAt time.Time

	mu           sync.Mutex
	restaurantID string
	tableID      string
	cart         *cart.Store
	notes        string
	customerName string
	panelOpen    bool
	state        State
	lastSeen     time.Time

	idemKey      string
	idemRevision uint64
}

func newSession(qr, restaurantID string, now time.Time) *Session {
	return &Session{
		ID:           uuid.NewString(),
		QR:           strings.TrimSpace(qr),
		CreatedAt:    now,
		restaurantID: restaurantID,
		cart:         cart.New(),
		state:        StateIdle,
		lastSeen:     now,
	}
}

// View is a consistent snapshot of the session for rendering.
type View struct {
	SessionID    string      `json:"session_id"`
	QR           string      `json:"qr,omitempty"`
	RestaurantID string      `json:"restaurant_id,omitempty"`
	Lines        []cart.Line `json:"items"`
	Count        int         `json:"count"`
	Subtotal     float64     `json:"subtotal"`
	SubtotalText string      `json:"subtotal_formatted"`
	Notes        string      `json:"notes"`
	CustomerName string      `json:"customer_name,omitempty"`
	PanelOpen    bool        `json:"panel_open"`
	State        State       `json:"state"`
}

func (s *Session) View(catalog menu.Catalog) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.cart.Lines(catalog)
	count := 0
	for _, l := range lines {
		count += l.Quantity
	}
	subtotal := cart.Subtotal(lines)

	return View{
		SessionID:    s.ID,
		QR:           s.QR,
		RestaurantID: s.restaurantID,
		Lines:        lines,
		Count:        count,
		Subtotal:     subtotal,
		SubtotalText: cart.FormatMoney(subtotal),
		Notes:        s.notes,
		CustomerName: s.customerName,
		PanelOpen:    s.panelOpen,
		State:        s.state,
	}
}

// --------------------------------------------------
// Cart intents. All of them are refused while a
// checkout for this session is being submitted.
// --------------------------------------------------

func (s *Session) Increment(id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSubmitting {
		return s.cart.Quantity(id), ErrCheckoutInProgress
	}
	return s.cart.Increment(id), nil
}

func (s *Session) Decrement(id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSubmitting {
		return s.cart.Quantity(id), ErrCheckoutInProgress
	}
	return s.cart.Decrement(id), nil
}

func (s *Session) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSubmitting {
		return ErrCheckoutInProgress
	}
	s.cart.Remove(id)
	return nil
}

func (s *Session) ClearCart() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSubmitting {
		return ErrCheckoutInProgress
	}
	s.cart.Clear()
	return nil
}

func (s *Session) SetNotes(notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = notes
}

func (s *Session) SetPanelOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panelOpen = open
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Quantity(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Quantity(id)
}

// ItemCount is the total quantity held, without pricing.
func (s *Session) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

// --------------------------------------------------
// Checkout bookkeeping
// --------------------------------------------------

// Submission is what a checkout works from: the cart lines and context
// captured at the moment the session entered the submitting state.
type Submission struct {
	Lines          []cart.Line
	Notes          string
	RestaurantID   string
	TableID        string
	IdempotencyKey string
	Revision       uint64
}

// BeginCheckout moves the session to submitting and captures a submission.
// Non-empty notes replace the session notes once the session is held.
// It fails with ErrCheckoutInProgress when another checkout holds the session.
func (s *Session) BeginCheckout(catalog menu.Catalog, notes string) (*Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSubmitting {
		return nil, ErrCheckoutInProgress
	}
	s.state = StateSubmitting
	if notes != "" {
		s.notes = notes
	}

	return &Submission{
		Lines:          s.cart.Lines(catalog),
		Notes:          s.notes,
		RestaurantID:   s.restaurantID,
		TableID:        s.tableID,
		IdempotencyKey: s.idempotencyKeyLocked(),
		Revision:       s.cart.Revision(),
	}, nil
}

// Remember stores table and restaurant ids resolved during a checkout so
// later checkouts skip the lookup.
func (s *Session) Remember(restaurantID, tableID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if restaurantID != "" {
		s.restaurantID = restaurantID
	}
	if tableID != "" {
		s.tableID = tableID
	}
}

// CompleteCheckout clears the cart, notes and panel and returns to idle.
func (s *Session) CompleteCheckout(customerName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Clear()
	s.notes = ""
	s.panelOpen = false
	s.customerName = customerName
	s.idemKey = ""
	s.state = StateIdle
}

// AbortCheckout returns to idle leaving the cart as it was.
func (s *Session) AbortCheckout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle
}

// idempotencyKeyLocked keeps one key per cart revision, so a retry of an
// unchanged cart reuses the key of the failed attempt.
func (s *Session) idempotencyKeyLocked() string {
	rev := s.cart.Revision()
	if s.idemKey == "" || s.idemRevision != rev {
		s.idemKey = uuid.NewString()
		s.idemRevision = rev
	}
	return s.idemKey
}

func (s *Session) RestaurantID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restaurantID
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen), s.state == StateSubmitting
}
