package checkout

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Anas-Ty/restaurant-mvp/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCheckoutRouter(f *fixture, sess *session.Session) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewHandler(f.orch)
	r := gin.New()
	r.POST("/checkout", func(c *gin.Context) {
		if sess != nil {
			session.Attach(c, sess)
		}
		c.Next()
	}, h.Checkout)
	return r
}

func postCheckout(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_CheckoutCreated(t *testing.T) {
	f := newFixture(t)
	sess := f.sessionWithCart("qr-4")
	r := setupCheckoutRouter(f, sess)

	w := postCheckout(r, `{"customer_name":"Ana","notes":"window seat"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"order_id":"o-77"`)
	sent, _ := f.api.sent()
	assert.Equal(t, "window seat", sent.SpecialInstructions)
}

func TestHandler_CheckoutErrors(t *testing.T) {
	t.Run("empty cart", func(t *testing.T) {
		f := newFixture(t)
		r := setupCheckoutRouter(f, f.registry.Create("qr-4", ""))

		w := postCheckout(r, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Cart is empty"}`, w.Body.String())
	})

	t.Run("server rejects order", func(t *testing.T) {
		f := newFixture(t)
		f.api.fail(http.StatusBadRequest, "Table is inactive")
		r := setupCheckoutRouter(f, f.sessionWithCart("qr-4"))

		w := postCheckout(r, `{}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.JSONEq(t, `{"error":"Failed to send order: Table is inactive"}`, w.Body.String())
	})

	t.Run("server error", func(t *testing.T) {
		f := newFixture(t)
		f.api.fail(http.StatusInternalServerError, "")
		r := setupCheckoutRouter(f, f.sessionWithCart("qr-4"))

		w := postCheckout(r, `{}`)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "500 Internal Server Error")
	})

	t.Run("bad body", func(t *testing.T) {
		f := newFixture(t)
		r := setupCheckoutRouter(f, f.sessionWithCart("qr-4"))

		w := postCheckout(r, `{"customer_name":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("no session", func(t *testing.T) {
		f := newFixture(t)
		r := setupCheckoutRouter(f, nil)

		w := postCheckout(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHandler_CheckoutDemo(t *testing.T) {
	f := newFixture(t)
	r := setupCheckoutRouter(f, f.sessionWithCart(""))

	w := postCheckout(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"demo":true`)
	assert.EqualValues(t, 0, f.api.posts.Load())
}

func TestHandler_Orders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	f := newFixture(t)
	sess := f.sessionWithCart("qr-4")
	res, err := f.orch.Checkout(context.Background(), sess, Request{})
	require.NoError(t, err)

	h := NewHandler(f.orch)
	r := gin.New()
	attach := func(c *gin.Context) {
		session.Attach(c, sess)
		c.Next()
	}
	r.GET("/orders", attach, h.Orders)
	r.GET("/orders/:key", attach, h.Order)

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	w := get("/orders")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"order_id":"o-77"`)

	w = get("/orders/" + res.ReceiptKey)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"idempotency_key":"`+res.ReceiptKey+`"`)

	w = get("/orders/" + uuid.NewString())
	assert.Equal(t, http.StatusNotFound, w.Code)
}
