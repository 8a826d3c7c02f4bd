// Package api exposes the scan results over HTTP for local preview.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/assetdex/assetdex/internal/catalog"
	"github.com/assetdex/assetdex/internal/composite"
	"github.com/assetdex/assetdex/internal/config"
	"github.com/assetdex/assetdex/internal/logging"
	"github.com/assetdex/assetdex/internal/metrics"
	"github.com/assetdex/assetdex/internal/storage"
)

// Server serves the asset index and the preview grid.
type Server struct {
	cfg     *config.Config
	backend storage.Backend

	mu           sync.RWMutex
	index        *catalog.Index
	hasComposite bool
}

// NewServer creates a preview server over the given artifact backend.
func NewServer(cfg *config.Config, backend storage.Backend) *Server {
	return &Server{cfg: cfg, backend: backend}
}

// Handler returns the HTTP handler with logging and metrics middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/v1/index", s.handleIndex)
	mux.HandleFunc("POST /api/v1/rescan", s.handleRescan)
	mux.HandleFunc("GET /api/v1/composite", s.handleComposite)

	return metrics.Middleware(logging.Middleware(mux))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleIndex returns the latest index, scanning on first request.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	idx := s.index
	s.mu.RUnlock()

	if idx == nil {
		var err error
		idx, err = s.Rescan(r.Context())
		if err != nil {
			s.sendScanError(w, err)
			return
		}
	}

	s.sendJSON(w, http.StatusOK, idx)
}

func (s *Server) handleRescan(w http.ResponseWriter, r *http.Request) {
	idx, err := s.Rescan(r.Context())
	if err != nil {
		s.sendScanError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, idx.Metadata)
}

// handleComposite streams the preview grid image from the backend.
func (s *Server) handleComposite(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	ready := s.hasComposite
	s.mu.RUnlock()

	if !ready {
		s.sendError(w, http.StatusNotFound, "no composite available; rescan first")
		return
	}

	reader, size, err := s.backend.GetObject(r.Context(), composite.DefaultCompositeFilename)
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "read composite: "+err.Error())
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "image/jpeg")
	if size > 0 {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", size))
	}
	if _, err := io.Copy(w, reader); err != nil {
		logging.Warn("composite stream interrupted", zap.Error(err))
	}
}

// Rescan rebuilds the index and the preview grid and publishes both through
// the backend. It is safe to call concurrently; the last writer wins.
func (s *Server) Rescan(ctx context.Context) (*catalog.Index, error) {
	idx, err := catalog.BuildIndex(s.cfg.AssetRoot, catalog.Options{
		IndexFilename: s.cfg.IndexFilename,
	})
	if err != nil {
		return nil, err
	}

	payload, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal index: %w", err)
	}
	if err := s.backend.PutObject(ctx, s.cfg.IndexFilename, bytes.NewReader(payload), int64(len(payload))); err != nil {
		return nil, fmt.Errorf("publish index: %w", err)
	}

	hasComposite, err := s.publishComposite(ctx)
	if err != nil {
		// The index is already published; a failed grid should not undo it.
		logging.Warn("composite build failed", zap.Error(err))
	}

	s.mu.Lock()
	s.index = idx
	s.hasComposite = hasComposite
	s.mu.Unlock()

	return idx, nil
}

// publishComposite builds the preview grid into a scratch file and publishes
// it. Returns false without error when there are no previews to combine.
func (s *Server) publishComposite(ctx context.Context) (bool, error) {
	packs, err := catalog.DetectPacks(s.cfg.AssetRoot)
	if err != nil {
		return false, err
	}

	previews := make([]composite.Preview, 0, len(packs))
	for _, p := range packs {
		previews = append(previews, composite.Preview{Name: p.Name, Path: p.PreviewPath})
	}

	scratch := filepath.Join(os.TempDir(), fmt.Sprintf("assetdex-%d-%s", os.Getpid(), composite.DefaultCompositeFilename))
	defer os.Remove(scratch)

	out, err := composite.Compose(previews, scratch, composite.DefaultOptions())
	if errors.Is(err, composite.ErrNoPreviews) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	content, err := os.ReadFile(out)
	if err != nil {
		return false, fmt.Errorf("read composite scratch: %w", err)
	}
	if err := s.backend.PutObject(ctx, composite.DefaultCompositeFilename, bytes.NewReader(content), int64(len(content))); err != nil {
		return false, fmt.Errorf("publish composite: %w", err)
	}
	return true, nil
}

func (s *Server) sendScanError(w http.ResponseWriter, err error) {
	if errors.Is(err, catalog.ErrRootNotFound) {
		s.sendError(w, http.StatusNotFound, err.Error())
		return
	}
	s.sendError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn("response encode failed", zap.Error(err))
	}
}

func (s *Server) sendError(w http.ResponseWriter, status int, msg string) {
	s.sendJSON(w, status, map[string]string{"error": msg})
}
