package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Anas-Ty/restaurant-mvp/internal/config"
	"github.com/Anas-Ty/restaurant-mvp/internal/dashboard"
	"github.com/Anas-Ty/restaurant-mvp/internal/logging"
	"github.com/Anas-Ty/restaurant-mvp/internal/orderapi"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "order-watch",
		Usage: "follow a restaurant's orders and log new ones and status changes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "restaurant",
				Usage:   "restaurant id (defaults to RESTAURANT_ID)",
				EnvVars: []string{"RESTAURANT_ID"},
			},
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "poll interval (defaults to DASHBOARD_POLL_INTERVAL)",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("[WATCH] failed")
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	logging.Setup(cfg.LogFormat, cfg.LogLevel)
	logger := logging.Component("order-watch")

	restaurantID := c.String("restaurant")
	if restaurantID == "" {
		return errors.New("restaurant id is required (--restaurant or RESTAURANT_ID)")
	}
	interval := c.Duration("interval")
	if interval <= 0 {
		interval = cfg.DashboardPollInterval
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := orderapi.NewClient(cfg.APIBase, cfg.APITimeout)
	poller := dashboard.NewPoller(client, restaurantID, interval)

	logger.WithField("restaurant", restaurantID).Info("[WATCH] following orders. Press Ctrl+C to stop.")

	watch(ctx, poller, interval, func(ch dashboard.Change) {
		entry := logger.WithFields(log.Fields{
			"order":    ch.Order.ID,
			"table":    ch.Order.TableNumber,
			"customer": ch.Order.CustomerName,
			"total":    ch.Order.TotalAmount.String(),
			"status":   ch.Order.Status,
		})
		if ch.IsNew() {
			entry.Info("[WATCH] new order")
			return
		}
		entry.WithField("from", ch.From).Info("[WATCH] status changed")
	})
	return nil
}

// watch polls every interval and reports changes between polls.
func watch(
	ctx context.Context,
	poller *dashboard.Poller,
	interval time.Duration,
	report func(dashboard.Change),
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last []orderapi.Order
	for {
		if err := poller.PollOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.WithError(err).Warn("[WATCH] poll failed")
		} else {
			snap := poller.Snapshot()
			for _, ch := range dashboard.Diff(last, snap.Orders) {
				report(ch)
			}
			last = snap.Orders
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
