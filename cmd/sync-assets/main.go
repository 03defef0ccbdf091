package main

import (
	"context"
	"os"
	"sort"
	"time"

	"github.com/Anas-Ty/restaurant-mvp/internal/config"
	"github.com/Anas-Ty/restaurant-mvp/internal/logging"
	"github.com/Anas-Ty/restaurant-mvp/internal/menu"
	"github.com/Anas-Ty/restaurant-mvp/internal/storage"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "sync-assets",
		Usage: "upload the fallback menu images to R2",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Usage:   "local asset directory (defaults to ASSET_DIR)",
				EnvVars: []string{"ASSET_DIR"},
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "list what would be uploaded",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "fail when a fallback image is missing locally",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 2 * time.Minute,
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("[SYNC] failed")
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	logging.Setup(cfg.LogFormat, cfg.LogLevel)

	dir := c.String("dir")
	if dir == "" {
		dir = cfg.AssetDir
	}

	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()

	var up storage.Uploader
	if !c.Bool("dry-run") {
		if err := cfg.ValidateR2(); err != nil {
			return err
		}
		r2, err := storage.NewR2Client(ctx, cfg.R2)
		if err != nil {
			return errors.Wrap(err, "R2 init failed")
		}
		up = r2
	}

	res, err := storage.SyncDir(ctx, up, dir, menu.FallbackAssets(), c.Bool("dry-run"))
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(res.Uploaded))
	for k := range res.Uploaded {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		log.WithFields(log.Fields{"key": k, "target": res.Uploaded[k]}).Info("[SYNC] uploaded")
	}
	for _, k := range res.Missing {
		log.WithField("key", k).Warn("[SYNC] missing locally")
	}

	if c.Bool("strict") && len(res.Missing) > 0 {
		return errors.Errorf("%d fallback image(s) missing under %s", len(res.Missing), dir)
	}
	return nil
}
