// assetdex catalogues directories of downloaded 3D-asset packs.
//
// Features:
// - Pack detection from preview marker files
// - Deterministic asset index (categories, pack membership, counts)
// - Preview grid composition (near-square contact sheet)
// - Local or S3/MinIO artifact publishing
// - Prometheus metrics & structured logging (zap)
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/assetdex/assetdex/internal/composite"
	"github.com/assetdex/assetdex/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "assetdex",
		Usage: "catalogue 3D-asset packs and composite their previews",
		Commands: []*cli.Command{
			{
				Name:  "scan",
				Usage: "index an asset root and publish the result",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "root",
						Usage: "asset root directory (overrides ASSET_ROOT)",
					},
					&cli.BoolFlag{
						Name:  "composite",
						Usage: "also build and publish the preview grid",
					},
				},
				Action: scanAction,
			},
			{
				Name:  "composite",
				Usage: "combine pack previews from a directory into one grid image",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "source",
						Usage:    "directory to scan for pack previews",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "output image path",
						Value: composite.DefaultCompositeFilename,
					},
				},
				Action: compositeAction,
			},
			{
				Name:   "serve",
				Usage:  "serve the asset index and preview grid over HTTP",
				Action: serveAction,
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		logging.Error("command failed", zap.Error(err))
		logging.Sync()
		os.Exit(1)
	}
	logging.Sync()
}
