package session

import (
	"sync"
	"testing"

	"github.com/Anas-Ty/restaurant-mvp/internal/menu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() menu.Catalog {
	return menu.NewCatalog([]menu.Category{{
		ID: "all", Name: menu.AllCategory,
		Items: []menu.Item{
			{ID: "a", Name: "Burger", Price: 9.5},
			{ID: "b", Name: "Cola", Price: 2},
		},
	}})
}

func TestSession_View(t *testing.T) {
	r := NewRegistry()
	s := r.Create(" qr-1 ", "")
	assert.Equal(t, "qr-1", s.QR)

	_, err := s.Increment("a")
	require.NoError(t, err)
	_, err = s.Increment("a")
	require.NoError(t, err)
	_, err = s.Increment("b")
	require.NoError(t, err)
	s.SetNotes("no onions")
	s.SetPanelOpen(true)

	v := s.View(testCatalog())
	assert.Equal(t, 3, v.Count)
	assert.Equal(t, 21.0, v.Subtotal)
	assert.Equal(t, "21.00", v.SubtotalText)
	assert.Equal(t, "no onions", v.Notes)
	assert.True(t, v.PanelOpen)
	assert.Equal(t, StateIdle, v.State)
	require.Len(t, v.Lines, 2)
}

func TestSession_InFlightGuard(t *testing.T) {
	s := NewRegistry().Create("qr-1", "")
	_, _ = s.Increment("a")

	sub, err := s.BeginCheckout(testCatalog(), "")
	require.NoError(t, err)
	require.Len(t, sub.Lines, 1)

	_, err = s.BeginCheckout(testCatalog(), "")
	assert.ErrorIs(t, err, ErrCheckoutInProgress)

	_, err = s.Increment("a")
	assert.ErrorIs(t, err, ErrCheckoutInProgress)
	assert.ErrorIs(t, s.Remove("a"), ErrCheckoutInProgress)
	assert.ErrorIs(t, s.ClearCart(), ErrCheckoutInProgress)
	assert.Equal(t, 1, s.Quantity("a"))

	s.AbortCheckout()
	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, 1, s.Quantity("a"))
}

func TestSession_ConcurrentBeginOnlyOneWins(t *testing.T) {
	s := NewRegistry().Create("qr-1", "")
	_, _ = s.Increment("a")

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.BeginCheckout(testCatalog(), ""); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestSession_IdempotencyKeyFollowsCartRevision(t *testing.T) {
	s := NewRegistry().Create("qr-1", "")
	_, _ = s.Increment("a")

	first, err := s.BeginCheckout(testCatalog(), "")
	require.NoError(t, err)
	s.AbortCheckout()

	retry, err := s.BeginCheckout(testCatalog(), "")
	require.NoError(t, err)
	s.AbortCheckout()
	assert.Equal(t, first.IdempotencyKey, retry.IdempotencyKey)

	_, _ = s.Increment("b")
	changed, err := s.BeginCheckout(testCatalog(), "")
	require.NoError(t, err)
	assert.NotEqual(t, first.IdempotencyKey, changed.IdempotencyKey)

	s.CompleteCheckout("Ana")
	v := s.View(testCatalog())
	assert.Empty(t, v.Lines)
	assert.Equal(t, "", v.Notes)
	assert.False(t, v.PanelOpen)
	assert.Equal(t, "Ana", v.CustomerName)
	assert.Equal(t, StateIdle, v.State)
}

func TestSession_Remember(t *testing.T) {
	s := NewRegistry().Create("qr-1", "")
	s.Remember("r-1", "t-1")
	s.Remember("", "")

	sub, err := s.BeginCheckout(testCatalog(), "")
	require.NoError(t, err)
	assert.Equal(t, "r-1", sub.RestaurantID)
	assert.Equal(t, "t-1", sub.TableID)
	assert.Equal(t, "r-1", s.RestaurantID())
}

func TestSession_BeginCheckoutNotes(t *testing.T) {
	s := NewRegistry().Create("qr-1", "")
	_, _ = s.Increment("a")
	_, _ = s.Increment("ghost")
	s.SetNotes("before")
	assert.Equal(t, 2, s.ItemCount())

	sub, err := s.BeginCheckout(testCatalog(), "window seat")
	require.NoError(t, err)
	assert.Equal(t, "window seat", sub.Notes)

	_, err = s.BeginCheckout(testCatalog(), "overwritten")
	require.ErrorIs(t, err, ErrCheckoutInProgress)
	assert.Equal(t, "window seat", s.View(testCatalog()).Notes)

	s.AbortCheckout()
	sub, err = s.BeginCheckout(testCatalog(), "")
	require.NoError(t, err)
	assert.Equal(t, "window seat", sub.Notes)
}
