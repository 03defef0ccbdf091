package router

import (
	"net/http"
	"time"

	"github.com/Anas-Ty/restaurant-mvp/internal/checkout"
	"github.com/Anas-Ty/restaurant-mvp/internal/dashboard"
	"github.com/Anas-Ty/restaurant-mvp/internal/logging"
	"github.com/Anas-Ty/restaurant-mvp/internal/menu"
	"github.com/Anas-Ty/restaurant-mvp/internal/middleware"
	"github.com/Anas-Ty/restaurant-mvp/internal/session"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps are the handlers and session plumbing the router mounts.
type Deps struct {
	Menu      *menu.Handler
	Sessions  *session.Handler
	Checkout  *checkout.Handler
	Dashboard *dashboard.Handler

	Signer   *session.Signer
	Registry *session.Registry

	CORSOrigins []string
	// AssetDir is served under /assets when set.
	AssetDir string
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestLogger())

	if len(d.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.SessionHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Health check route
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if d.AssetDir != "" {
		r.Static("/assets", d.AssetDir)
	}

	// ───────────────────────── MENU ─────────────────────────
	r.GET("/menu", d.Menu.Get)
	r.GET("/menu/:qr", d.Menu.Get)

	// ───────────────────────── SESSIONS ─────────────────────────
	r.POST("/sessions", d.Sessions.Create)

	requireSession := middleware.RequireSession(d.Signer, d.Registry)

	cartGroup := r.Group("/cart", requireSession)
	{
		cartGroup.GET("", d.Sessions.GetCart)
		cartGroup.PUT("/notes", d.Sessions.SetNotes)
		cartGroup.PUT("/panel", d.Sessions.SetPanel)

		mutating := cartGroup.Group("", middleware.RequireState(session.StateIdle))
		mutating.POST("/items/:id/increment", d.Sessions.Increment)
		mutating.POST("/items/:id/decrement", d.Sessions.Decrement)
		mutating.DELETE("/items/:id", d.Sessions.Remove)
		mutating.DELETE("", d.Sessions.Clear)
	}

	// ───────────────────────── CHECKOUT ─────────────────────────
	r.POST("/checkout", requireSession, d.Checkout.Checkout)
	r.GET("/orders", requireSession, d.Checkout.Orders)
	r.GET("/orders/:key", requireSession, d.Checkout.Order)

	// ───────────────────────── DASHBOARD ─────────────────────────
	r.GET("/dashboard/orders", d.Dashboard.Orders)

	return r
}
