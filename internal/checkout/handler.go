package checkout

import (
	"errors"
	"net/http"

	"github.com/Anas-Ty/restaurant-mvp/internal/httpx"
	"github.com/Anas-Ty/restaurant-mvp/internal/orderapi"
	"github.com/Anas-Ty/restaurant-mvp/internal/receipt"
	"github.com/Anas-Ty/restaurant-mvp/internal/session"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	orchestrator *Orchestrator
}

func NewHandler(orchestrator *Orchestrator) *Handler {
	return &Handler{orchestrator: orchestrator}
}

type checkoutRequest struct {
	CustomerName string `json:"customer_name"`
	Notes        string `json:"notes"`
}

// --------------------------------------------------
// POST /checkout
// --------------------------------------------------
func (h *Handler) Checkout(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session required"})
		return
	}

	var req checkoutRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	res, err := h.orchestrator.Checkout(c.Request.Context(), sess, Request{
		CustomerName: req.CustomerName,
		Notes:        req.Notes,
	})
	if err != nil {
		status, msg := errorResponse(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	status := http.StatusCreated
	if res.Demo {
		status = http.StatusOK
	}
	c.JSON(status, res)
}

// --------------------------------------------------
// GET /orders
// --------------------------------------------------
func (h *Handler) Orders(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session required"})
		return
	}

	receipts, err := h.orchestrator.Orders(c.Request.Context(), sess)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": receipts})
}

// --------------------------------------------------
// GET /orders/:key
// --------------------------------------------------
func (h *Handler) Order(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session required"})
		return
	}

	r, err := h.orchestrator.Order(c.Request.Context(), sess, c.Param("key"))
	if err != nil {
		if errors.Is(err, receipt.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load order"})
		return
	}

	c.JSON(http.StatusOK, r)
}

func errorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, ErrCheckoutInProgress):
		return http.StatusConflict, err.Error()
	case errors.Is(err, ErrEmptyCart):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, orderapi.ErrCircuitOpen):
		return http.StatusServiceUnavailable, "Failed to send order: " + err.Error()
	case errors.Is(err, ErrTableUnresolved),
		errors.Is(err, orderapi.ErrNoTable),
		errors.Is(err, orderapi.ErrNoOrderItems):
		return http.StatusUnprocessableEntity, "Failed to send order: " + err.Error()
	}

	var apiErr *orderapi.APIError
	if errors.As(err, &apiErr) {
		return httpx.UpstreamStatus(err), "Failed to send order: " + apiErr.Message
	}
	return httpx.UpstreamStatus(err), "Failed to send order"
}
