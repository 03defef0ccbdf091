package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Anas-Ty/restaurant-mvp/internal/checkout"
	"github.com/Anas-Ty/restaurant-mvp/internal/config"
	"github.com/Anas-Ty/restaurant-mvp/internal/dashboard"
	"github.com/Anas-Ty/restaurant-mvp/internal/db"
	"github.com/Anas-Ty/restaurant-mvp/internal/logging"
	"github.com/Anas-Ty/restaurant-mvp/internal/menu"
	"github.com/Anas-Ty/restaurant-mvp/internal/orderapi"
	"github.com/Anas-Ty/restaurant-mvp/internal/receipt"
	"github.com/Anas-Ty/restaurant-mvp/internal/router"
	"github.com/Anas-Ty/restaurant-mvp/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const sweepInterval = time.Minute

func main() {

	// ───────────────────────── ENV ─────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("❌ invalid configuration")
	}
	logging.Setup(cfg.LogFormat, cfg.LogLevel)

	if err := cfg.ValidateServer(); err != nil {
		log.WithError(err).Fatal("❌ invalid configuration")
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ───────────────────────── ORDER API ─────────────────────────
	client := orderapi.NewClient(cfg.APIBase, cfg.APITimeout)
	log.WithField("base", client.BaseURL()).Info("[ORDER API] client ready")

	// ───────────────────────── MENU ─────────────────────────
	menuService := menu.NewService(
		client,
		newMenuCache(ctx, cfg),
		menu.Options{
			AllowGeneratedIDs: cfg.AllowGeneratedItemIDs,
			Images:            menu.ImageResolver{BaseURL: cfg.AssetBaseURL},
		},
		cfg.RestaurantID,
	)

	// ───────────────────────── RECEIPTS ─────────────────────────
	var receipts receipt.Repository = receipt.NewInMemoryRepository()
	if cfg.DatabaseURL != "" {
		pool, err := db.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("❌ postgres init failed")
		}
		defer pool.Close()
		receipts = receipt.NewPostgresRepository(pool)
	}

	// ───────────────────────── SESSIONS ─────────────────────────
	signer, err := session.NewSigner(cfg.SessionSecret)
	if err != nil {
		log.WithError(err).Fatal("❌ session signer init failed")
	}
	registry := session.NewRegistry()
	go registry.RunSweeper(ctx, sweepInterval, cfg.SessionIdleTimeout)

	// ───────────────────────── DASHBOARD ─────────────────────────
	var poller *dashboard.Poller
	if cfg.RestaurantID != "" {
		poller = dashboard.NewPoller(client, cfg.RestaurantID, cfg.DashboardPollInterval)
		go poller.Run(ctx)
	}

	// ───────────────────────── HANDLERS ─────────────────────────
	orchestrator := checkout.NewOrchestrator(client, menuService, receipts)

	assetDir := ""
	if cfg.AssetBaseURL == "" {
		assetDir = cfg.AssetDir
	}

	r := router.NewRouter(router.Deps{
		Menu:        menu.NewHandler(menuService),
		Sessions:    session.NewHandler(registry, signer, menuService),
		Checkout:    checkout.NewHandler(orchestrator),
		Dashboard:   dashboard.NewHandler(poller),
		Signer:      signer,
		Registry:    registry,
		CORSOrigins: cfg.CORSOrigins,
		AssetDir:    assetDir,
	})

	// ───────────────────────── START ─────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("🚀 storefront running at http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

// newMenuCache uses Redis when REDIS_URL is set and reachable.
func newMenuCache(ctx context.Context, cfg *config.Config) menu.Cache {
	if cfg.RedisURL == "" {
		return menu.NewMemoryCache(cfg.MenuCacheTTL)
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.WithError(err).Fatal("❌ invalid REDIS_URL")
	}

	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.WithError(err).Warn("[MENU] redis unreachable, using in-memory cache")
		_ = rdb.Close()
		return menu.NewMemoryCache(cfg.MenuCacheTTL)
	}

	log.Info("[MENU] using redis cache")
	return menu.NewRedisCache(rdb, cfg.MenuCacheTTL)
}
