package dashboard

import (
	"net/http"

	"github.com/Anas-Ty/restaurant-mvp/internal/orderapi"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	poller *Poller
}

func NewHandler(poller *Poller) *Handler {
	return &Handler{poller: poller}
}

// --------------------------------------------------
// GET /dashboard/orders?status=
// --------------------------------------------------
func (h *Handler) Orders(c *gin.Context) {
	if h.poller == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "dashboard disabled: no restaurant configured"})
		return
	}

	status := orderapi.OrderStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown order status"})
		return
	}

	snap := h.poller.Snapshot()
	if !snap.Loaded() {
		msg := "orders not loaded yet"
		if snap.LastError != "" {
			msg = snap.LastError
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurant_id": snap.RestaurantID,
		"fetched_at":    snap.FetchedAt,
		"last_error":    snap.LastError,
		"counts":        snap.Counts(),
		"orders":        snap.Filter(status),
	})
}
