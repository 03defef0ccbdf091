package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Anas-Ty/restaurant-mvp/internal/cart"
	"github.com/Anas-Ty/restaurant-mvp/internal/menu"
	"github.com/Anas-Ty/restaurant-mvp/internal/orderapi"
	"github.com/Anas-Ty/restaurant-mvp/internal/receipt"
	"github.com/Anas-Ty/restaurant-mvp/internal/session"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const DefaultCustomerName = "Guest"

var (
	ErrEmptyCart          = errors.New("Cart is empty")
	ErrTableUnresolved    = errors.New("Failed to resolve table from QR")
	ErrCheckoutInProgress = session.ErrCheckoutInProgress
)

// API is the part of the order API checkout talks to.
type API interface {
	MenuByQR(ctx context.Context, qrCode string) (*orderapi.MenuPayload, error)
	CreateOrder(ctx context.Context, req orderapi.CreateOrderRequest, idempotencyKey string) (*orderapi.Order, error)
}

// Menus prices the cart.
type Menus interface {
	Resolve(ctx context.Context, qrCode string) (*menu.Menu, error)
	Peek(ctx context.Context, qrCode string) (*menu.Menu, bool)
	Invalidate(ctx context.Context, qrCode string)
}

type Orchestrator struct {
	api      API
	menus    Menus
	receipts receipt.Repository
}

func NewOrchestrator(api API, menus Menus, receipts receipt.Repository) *Orchestrator {
	return &Orchestrator{
		api:      api,
		menus:    menus,
		receipts: receipts,
	}
}

type Request struct {
	CustomerName string
	// Notes replaces the session notes when non-empty.
	Notes string
}

type Result struct {
	Demo         bool    `json:"demo"`
	ReceiptKey   string  `json:"receipt_key,omitempty"`
	OrderID      string  `json:"order_id,omitempty"`
	Status       string  `json:"status,omitempty"`
	TotalAmount  float64 `json:"total_amount"`
	ItemCount    int     `json:"item_count"`
	CustomerName string  `json:"customer_name,omitempty"`
	Message      string  `json:"message"`
}

// --------------------------------------------------
// Checkout submits the session's cart as one order.
//
// Without a QR code or restaurant the call is a local
// confirmation only. On success the cart, notes and panel
// are cleared; on failure the cart is left as it was.
// --------------------------------------------------
func (o *Orchestrator) Checkout(ctx context.Context, sess *session.Session, req Request) (*Result, error) {
	if sess.QR == "" && sess.RestaurantID() == "" {
		return o.demo(ctx, sess), nil
	}
	if sess.ItemCount() == 0 {
		return nil, ErrEmptyCart
	}

	m, err := o.menus.Resolve(ctx, sess.QR)
	if err != nil {
		return nil, err
	}

	sub, err := sess.BeginCheckout(m.Catalog(), req.Notes)
	if err != nil {
		return nil, err
	}

	res, err := o.submit(ctx, sess, sub, req)
	if err != nil {
		sess.AbortCheckout()
		return nil, err
	}
	return res, nil
}

func (o *Orchestrator) submit(
	ctx context.Context,
	sess *session.Session,
	sub *session.Submission,
	req Request,
) (*Result, error) {

	count := 0
	for _, l := range sub.Lines {
		count += l.Quantity
	}

	// every held id may have left the menu since it was added
	if count == 0 {
		return nil, ErrEmptyCart
	}

	logger := log.WithFields(log.Fields{
		"session":         sess.ID,
		"idempotency_key": sub.IdempotencyKey,
	})

	restaurantID, tableID := sub.RestaurantID, sub.TableID
	if tableID == "" {
		var err error
		restaurantID, tableID, err = o.resolveTable(ctx, sess.QR, restaurantID)
		if err != nil {
			logger.WithError(err).Warn("[CHECKOUT] table resolution failed")
			return nil, err
		}
		sess.Remember(restaurantID, tableID)
	}

	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		name = DefaultCustomerName
	}

	items := make([]orderapi.CreateOrderItem, 0, len(sub.Lines))
	for _, l := range sub.Lines {
		items = append(items, orderapi.CreateOrderItem{
			MenuItem: l.ItemID,
			Quantity: l.Quantity,
		})
	}

	order, err := o.api.CreateOrder(ctx, orderapi.CreateOrderRequest{
		Restaurant:          restaurantID,
		Table:               tableID,
		CustomerName:        name,
		SpecialInstructions: sub.Notes,
		Items:               items,
	}, sub.IdempotencyKey)
	if err != nil {
		logger.WithError(err).Error("[CHECKOUT] order submission failed")
		return nil, err
	}

	rec := &receipt.Receipt{
		IdempotencyKey: sub.IdempotencyKey,
		SessionID:      sess.ID,
		OrderID:        order.ID,
		RestaurantID:   restaurantID,
		TableID:        tableID,
		CustomerName:   name,
		Status:         string(order.Status),
		TotalAmount:    order.TotalAmount.Float64(),
		ItemCount:      count,
	}
	if err := o.receipts.Save(ctx, rec); err != nil {
		logger.WithError(err).Warn("[CHECKOUT] receipt not recorded")
	}

	sess.CompleteCheckout(name)

	logger.WithFields(log.Fields{
		"order": order.ID,
		"total": order.TotalAmount.String(),
		"items": count,
	}).Info("[CHECKOUT] order sent")

	return &Result{
		ReceiptKey:   sub.IdempotencyKey,
		OrderID:      order.ID,
		Status:       string(order.Status),
		TotalAmount:  order.TotalAmount.Float64(),
		ItemCount:    count,
		CustomerName: name,
		Message:      fmt.Sprintf("Order sent! id: %s — Total: %s", order.ID, order.TotalAmount.String()),
	}, nil
}

// resolveTable reads table and restaurant ids from the QR menu.
func (o *Orchestrator) resolveTable(ctx context.Context, qr, restaurantID string) (string, string, error) {
	if qr == "" {
		return "", "", ErrTableUnresolved
	}

	payload, err := o.api.MenuByQR(ctx, qr)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrTableUnresolved, err)
	}
	if payload.Table == nil || payload.Table.ID == "" {
		// the cached menu was read under a stale table mapping
		o.menus.Invalidate(ctx, qr)
		return "", "", ErrTableUnresolved
	}

	if restaurantID == "" && payload.Restaurant != nil {
		restaurantID = payload.Restaurant.ID
	}
	return restaurantID, payload.Table.ID, nil
}

// demo confirms the cart locally. Pricing comes from the cached menu only;
// on a cold cache the items are counted but not priced.
func (o *Orchestrator) demo(ctx context.Context, sess *session.Session) *Result {
	count := sess.ItemCount()
	subtotal := 0.0

	if m, ok := o.menus.Peek(ctx, sess.QR); ok {
		v := sess.View(m.Catalog())
		count, subtotal = v.Count, v.Subtotal
	}

	return &Result{
		Demo:        true,
		TotalAmount: subtotal,
		ItemCount:   count,
		Message:     fmt.Sprintf("Checking out %d item(s) — $%s", count, cart.FormatMoney(subtotal)),
	}
}

// Orders lists the receipts recorded for the session, newest first.
func (o *Orchestrator) Orders(ctx context.Context, sess *session.Session) ([]receipt.Receipt, error) {
	return o.receipts.ListBySession(ctx, sess.ID)
}

// Order returns one of the session's receipts by its key.
func (o *Orchestrator) Order(ctx context.Context, sess *session.Session, key string) (*receipt.Receipt, error) {
	if _, err := uuid.Parse(key); err != nil {
		return nil, receipt.ErrNotFound
	}

	r, err := o.receipts.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if r.SessionID != sess.ID {
		return nil, receipt.ErrNotFound
	}
	return r, nil
}
