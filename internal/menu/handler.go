package menu

import (
	"errors"
	"net/http"

	"github.com/Anas-Ty/restaurant-mvp/internal/httpx"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// --------------------------------------------------
// GET /menu?qr=&category=
// GET /menu/:qr?category=
// --------------------------------------------------
func (h *Handler) Get(c *gin.Context) {
	qr := c.Param("qr")
	if qr == "" {
		qr = c.Query("qr")
	}

	m, err := h.service.Resolve(c.Request.Context(), qr)
	if err != nil {
		if errors.Is(err, ErrMalformedMenu) ||
			errors.Is(err, ErrMissingItemID) ||
			errors.Is(err, ErrInvalidPrice) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load menu: " + err.Error()})
			return
		}
		httpx.Upstream(c, err)
		return
	}

	active := c.DefaultQuery("category", AllCategory)
	items := Filter(Flatten(m.Categories), active)

	c.JSON(http.StatusOK, gin.H{
		"restaurant":      m.Restaurant,
		"table":           m.Table,
		"categories":      m.Categories,
		"category_names":  CategoryNames(m.Categories),
		"active_category": active,
		"items":           items,
	})
}
