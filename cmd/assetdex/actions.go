package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/assetdex/assetdex/internal/api"
	"github.com/assetdex/assetdex/internal/catalog"
	"github.com/assetdex/assetdex/internal/composite"
	"github.com/assetdex/assetdex/internal/config"
	"github.com/assetdex/assetdex/internal/logging"
	"github.com/assetdex/assetdex/internal/metrics"
	"github.com/assetdex/assetdex/internal/storage"
)

// setup loads configuration and initializes logging for a command.
func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	if err := logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	}); err != nil {
		return nil, fmt.Errorf("logging init error: %w", err)
	}
	return cfg, nil
}

func scanAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	if root := cmd.String("root"); root != "" {
		cfg.AssetRoot = root
	}

	backend, err := storage.NewBackendFromConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("storage backend init: %w", err)
	}
	defer backend.Close()

	idx, err := catalog.BuildIndex(cfg.AssetRoot, catalog.Options{
		IndexFilename: cfg.IndexFilename,
	})
	if err != nil {
		return err
	}

	payload, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	if err := backend.PutObject(ctx, cfg.IndexFilename, bytes.NewReader(payload), int64(len(payload))); err != nil {
		return fmt.Errorf("publish index: %w", err)
	}
	logging.Info("index published",
		zap.String("key", cfg.IndexFilename),
		zap.String("backend", backend.Type()),
		zap.Int("assets", idx.Metadata.TotalAssets))

	if !cmd.Bool("composite") {
		return nil
	}
	return buildAndPublishComposite(ctx, cfg, backend)
}

// buildAndPublishComposite composes the preview grid from the detected
// packs into a scratch file and publishes it through the backend.
func buildAndPublishComposite(ctx context.Context, cfg *config.Config, backend storage.Backend) error {
	if err := composite.Probe(); err != nil {
		logging.Error("skipping composite", zap.Error(err))
		return nil
	}

	packs, err := catalog.DetectPacks(cfg.AssetRoot)
	if err != nil {
		return err
	}
	previews := make([]composite.Preview, 0, len(packs))
	for _, p := range packs {
		previews = append(previews, composite.Preview{Name: p.Name, Path: p.PreviewPath})
	}

	scratch := filepath.Join(os.TempDir(), fmt.Sprintf("assetdex-%d-%s", os.Getpid(), composite.DefaultCompositeFilename))
	defer os.Remove(scratch)

	out, err := composite.Compose(previews, scratch, composite.DefaultOptions())
	if errors.Is(err, composite.ErrNoPreviews) {
		logging.Warn("no pack previews found, skipping composite",
			zap.String("root", cfg.AssetRoot))
		return nil
	}
	if err != nil {
		return err
	}

	content, err := os.ReadFile(out)
	if err != nil {
		return fmt.Errorf("read composite scratch: %w", err)
	}
	if err := backend.PutObject(ctx, composite.DefaultCompositeFilename, bytes.NewReader(content), int64(len(content))); err != nil {
		return fmt.Errorf("publish composite: %w", err)
	}
	logging.Info("composite published",
		zap.String("key", composite.DefaultCompositeFilename),
		zap.String("backend", backend.Type()))
	return nil
}

func compositeAction(ctx context.Context, cmd *cli.Command) error {
	if _, err := setup(); err != nil {
		return err
	}
	source := cmd.String("source")
	out := cmd.String("out")

	if err := composite.Probe(); err != nil {
		logging.Error("imaging backend unavailable, nothing composed", zap.Error(err))
		return nil
	}

	// A missing source directory is fatal and must exit non-zero.
	packs, err := catalog.DetectPacks(source)
	if err != nil {
		return err
	}

	previews := make([]composite.Preview, 0, len(packs))
	for _, p := range packs {
		previews = append(previews, composite.Preview{Name: p.Name, Path: p.PreviewPath})
	}

	written, err := composite.Compose(previews, out, composite.DefaultOptions())
	if errors.Is(err, composite.ErrNoPreviews) {
		logging.Warn("no pack previews found, nothing composed",
			zap.String("source", source))
		return nil
	}
	if err != nil {
		return err
	}

	logging.Info("composite written",
		zap.Int("previews", len(previews)),
		zap.String("output", written))
	return nil
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	defer logging.Sync()

	backend, err := storage.NewBackendFromConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("storage backend init: %w", err)
	}
	defer backend.Close()

	srv := api.NewServer(cfg, backend)

	metricsServer := &http.Server{
		Addr:    cfg.MetricsAddr,
		Handler: metrics.Handler(),
	}
	go func() {
		logging.Info("metrics server listening", zap.String("addr", cfg.MetricsAddr))
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logging.Error("metrics server error", zap.Error(err))
		}
	}()

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.Handler(),
	}

	go func() {
		<-ctx.Done()
		logging.Info("shutting down...")
		httpServer.Close()
		metricsServer.Close()
	}()

	logging.Info("server listening",
		zap.String("addr", cfg.ListenAddr),
		zap.String("root", cfg.AssetRoot))
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
