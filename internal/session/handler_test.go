package session

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Anas-Ty/restaurant-mvp/internal/menu"
	"github.com/Anas-Ty/restaurant-mvp/internal/orderapi"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMenus struct {
	err error
}

func (f *fakeMenus) Resolve(ctx context.Context, qr string) (*menu.Menu, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &menu.Menu{Categories: []menu.Category{{
		ID: "all", Name: menu.AllCategory,
		Items: []menu.Item{{ID: "a", Name: "Burger", Price: 9.5}},
	}}}, nil
}

func (f *fakeMenus) DefaultRestaurantID() string { return "r-default" }

// attachFirst stands in for the session middleware.
func attachFirst(sess **Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		if *sess != nil {
			Attach(c, *sess)
		}
		c.Next()
	}
}

func setupCartRouter(t *testing.T, menus MenuResolver) (*gin.Engine, *Registry, **Session) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	signer, err := NewSigner("secret")
	require.NoError(t, err)
	registry := NewRegistry()
	h := NewHandler(registry, signer, menus)

	var current *Session
	r := gin.New()
	r.POST("/sessions", h.Create)

	g := r.Group("/cart", attachFirst(&current))
	g.GET("", h.GetCart)
	g.POST("/items/:id/increment", h.Increment)
	g.POST("/items/:id/decrement", h.Decrement)
	g.DELETE("/items/:id", h.Remove)
	g.DELETE("", h.Clear)
	g.PUT("/notes", h.SetNotes)
	g.PUT("/panel", h.SetPanel)

	return r, registry, &current
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_CreateSession(t *testing.T) {
	r, registry, _ := setupCartRouter(t, &fakeMenus{})

	w := doJSON(r, http.MethodPost, "/sessions", `{"qr":"qr-7"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		Token     string `json:"token"`
		SessionID string `json:"session_id"`
		QR        string `json:"qr"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, "qr-7", body.QR)

	sess, ok := registry.Get(body.SessionID)
	require.True(t, ok)
	assert.Equal(t, "", sess.RestaurantID())

	w = doJSON(r, http.MethodPost, "/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	sess, _ = registry.Get(body.SessionID)
	assert.Equal(t, "r-default", sess.RestaurantID())

	w = doJSON(r, http.MethodPost, "/sessions", `{"qr":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_CartFlow(t *testing.T) {
	r, registry, current := setupCartRouter(t, &fakeMenus{})
	*current = registry.Create("qr-1", "")

	w := doJSON(r, http.MethodPost, "/cart/items/a/increment", "")
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodPost, "/cart/items/a/increment", "")
	require.Equal(t, http.StatusOK, w.Code)

	var v View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, 2, v.Count)
	assert.Equal(t, "19.00", v.SubtotalText)

	w = doJSON(r, http.MethodPost, "/cart/items/a/decrement", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, "9.50", v.SubtotalText)

	w = doJSON(r, http.MethodPut, "/cart/notes", `{"notes":"extra napkins"}`)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, "extra napkins", v.Notes)

	w = doJSON(r, http.MethodPut, "/cart/panel", `{"open":true}`)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.True(t, v.PanelOpen)

	w = doJSON(r, http.MethodDelete, "/cart/items/a", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Empty(t, v.Lines)

	_, _ = (*current).Increment("a")
	w = doJSON(r, http.MethodDelete, "/cart", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, 0, v.Count)
}

func TestHandler_IncrementUnknownItem(t *testing.T) {
	r, registry, current := setupCartRouter(t, &fakeMenus{})
	*current = registry.Create("qr-1", "")

	w := doJSON(r, http.MethodPost, "/cart/items/zzz/increment", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 0, (*current).Quantity("zzz"))
}

func TestHandler_CartLockedDuringCheckout(t *testing.T) {
	r, registry, current := setupCartRouter(t, &fakeMenus{})
	*current = registry.Create("qr-1", "")
	_, _ = (*current).Increment("a")

	_, err := (*current).BeginCheckout(menu.Catalog{}, "")
	require.NoError(t, err)

	w := doJSON(r, http.MethodPost, "/cart/items/a/increment", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 1, (*current).Quantity("a"))
}

func TestHandler_NoSession(t *testing.T) {
	r, _, _ := setupCartRouter(t, &fakeMenus{})

	w := doJSON(r, http.MethodGet, "/cart", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_MenuUnavailable(t *testing.T) {
	r, registry, current := setupCartRouter(t, &fakeMenus{err: orderapi.ErrCircuitOpen})
	*current = registry.Create("qr-1", "")

	w := doJSON(r, http.MethodGet, "/cart", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
