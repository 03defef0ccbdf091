package session

import (
	"context"
	"errors"
	"net/http"

	"github.com/Anas-Ty/restaurant-mvp/internal/httpx"
	"github.com/Anas-Ty/restaurant-mvp/internal/menu"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// MenuResolver supplies the catalog a session's cart is priced against.
type MenuResolver interface {
	Resolve(ctx context.Context, qrCode string) (*menu.Menu, error)
	DefaultRestaurantID() string
}

type Handler struct {
	registry *Registry
	signer   *Signer
	menus    MenuResolver
}

func NewHandler(registry *Registry, signer *Signer, menus MenuResolver) *Handler {
	return &Handler{
		registry: registry,
		signer:   signer,
		menus:    menus,
	}
}

type createSessionRequest struct {
	QR string `json:"qr"`
}

// --------------------------------------------------
// POST /sessions
// --------------------------------------------------
func (h *Handler) Create(c *gin.Context) {
	var req createSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	restaurantID := ""
	if req.QR == "" {
		restaurantID = h.menus.DefaultRestaurantID()
	}

	sess := h.registry.Create(req.QR, restaurantID)

	token, expires, err := h.signer.Issue(sess.ID, sess.QR)
	if err != nil {
		h.registry.Delete(sess.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue session token"})
		return
	}

	log.WithFields(log.Fields{
		"session": sess.ID,
		"qr":      sess.QR,
	}).Info("[SESSION] created")

	c.JSON(http.StatusCreated, gin.H{
		"token":      token,
		"session_id": sess.ID,
		"qr":         sess.QR,
		"expires_at": expires,
	})
}

// --------------------------------------------------
// GET /cart
// --------------------------------------------------
func (h *Handler) GetCart(c *gin.Context) {
	sess, catalog, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.View(catalog))
}

// --------------------------------------------------
// POST /cart/items/:id/increment
// --------------------------------------------------
func (h *Handler) Increment(c *gin.Context) {
	sess, catalog, ok := h.load(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if _, found := catalog.Lookup(id); !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "menu item not found"})
		return
	}

	if _, err := sess.Increment(id); err != nil {
		h.cartError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.View(catalog))
}

// --------------------------------------------------
// POST /cart/items/:id/decrement
// --------------------------------------------------
func (h *Handler) Decrement(c *gin.Context) {
	sess, catalog, ok := h.load(c)
	if !ok {
		return
	}

	if _, err := sess.Decrement(c.Param("id")); err != nil {
		h.cartError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.View(catalog))
}

// --------------------------------------------------
// DELETE /cart/items/:id
// --------------------------------------------------
func (h *Handler) Remove(c *gin.Context) {
	sess, catalog, ok := h.load(c)
	if !ok {
		return
	}

	if err := sess.Remove(c.Param("id")); err != nil {
		h.cartError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.View(catalog))
}

// --------------------------------------------------
// DELETE /cart
// --------------------------------------------------
func (h *Handler) Clear(c *gin.Context) {
	sess, catalog, ok := h.load(c)
	if !ok {
		return
	}

	if err := sess.ClearCart(); err != nil {
		h.cartError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.View(catalog))
}

type notesRequest struct {
	Notes string `json:"notes"`
}

// --------------------------------------------------
// PUT /cart/notes
// --------------------------------------------------
func (h *Handler) SetNotes(c *gin.Context) {
	var req notesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sess, catalog, ok := h.load(c)
	if !ok {
		return
	}

	sess.SetNotes(req.Notes)
	c.JSON(http.StatusOK, sess.View(catalog))
}

type panelRequest struct {
	Open bool `json:"open"`
}

// --------------------------------------------------
// PUT /cart/panel
// --------------------------------------------------
func (h *Handler) SetPanel(c *gin.Context) {
	var req panelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sess, catalog, ok := h.load(c)
	if !ok {
		return
	}

	sess.SetPanelOpen(req.Open)
	c.JSON(http.StatusOK, sess.View(catalog))
}

func (h *Handler) load(c *gin.Context) (*Session, menu.Catalog, bool) {
	sess, ok := FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session required"})
		return nil, nil, false
	}

	m, err := h.menus.Resolve(c.Request.Context(), sess.QR)
	if err != nil {
		httpx.Upstream(c, err)
		return nil, nil, false
	}
	return sess, m.Catalog(), true
}

func (h *Handler) cartError(c *gin.Context, err error) {
	if errors.Is(err, ErrCheckoutInProgress) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
