// Package catalog discovers asset packs under an asset root, classifies
// asset files by extension, and builds a deterministic structured index.
package catalog

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/assetdex/assetdex/internal/logging"
	"github.com/assetdex/assetdex/internal/metrics"
)

// DefaultIndexFilename is the name under which the index is persisted.
const DefaultIndexFilename = "asset-index.json"

// RootPackLabel is the packCounts key for assets outside every pack.
const RootPackLabel = "(root)"

// Asset is one classified file under the asset root.
type Asset struct {
	Name         string   `json:"name"`
	Path         string   `json:"path"`
	RelativePath string   `json:"relativePath"`
	Category     Category `json:"category"`
	Extension    string   `json:"extension"`
	FocusGLTF    bool     `json:"focusGlTF"`
	Pack         string   `json:"pack,omitempty"`
}

// Metadata holds the aggregate counts for one scan.
type Metadata struct {
	GeneratedAt    string           `json:"generatedAt"`
	Root           string           `json:"root"`
	TotalAssets    int              `json:"totalAssets"`
	GLTFAssetCount int              `json:"glTFAssetCount"`
	Categories     map[Category]int `json:"categories"`
	Packs          []string         `json:"packs,omitempty"`
	PackCounts     map[string]int   `json:"packCounts,omitempty"`
}

// Index is the full catalogue of an asset root. It is immutable after
// construction; re-running a scan builds a fresh one.
type Index struct {
	Metadata Metadata `json:"metadata"`
	Assets   []Asset  `json:"assets"`
}

// Options controls index construction.
type Options struct {
	// IndexFilename is skipped during the walk so a persisted index does not
	// index itself on re-runs. Defaults to DefaultIndexFilename.
	IndexFilename string
	// DisplayPrefix, when set, is prepended to each asset's display path.
	DisplayPrefix string
}

// BuildIndex scans root and returns its asset index. The root must exist and
// be a directory; otherwise ErrRootNotFound is returned. A scan that finds
// zero qualifying assets is not an error and yields an empty index.
func BuildIndex(root string, opts Options) (*Index, error) {
	start := time.Now()
	if opts.IndexFilename == "" {
		opts.IndexFilename = DefaultIndexFilename
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", root, err)
	}
	if info, err := os.Stat(absRoot); err != nil || !info.IsDir() {
		metrics.RecordScan(time.Since(start), false)
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}

	packs, err := DetectPacks(absRoot)
	if err != nil {
		metrics.RecordScan(time.Since(start), false)
		return nil, err
	}

	var assets []Asset
	excluded := 0
	err = collectAssets(absRoot, absRoot, packs, opts, &assets, &excluded)
	if err != nil {
		metrics.RecordScan(time.Since(start), false)
		return nil, err
	}

	sortAssets(assets)

	idx := &Index{
		Metadata: Metadata{
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			Root:        absRoot,
			TotalAssets: len(assets),
			Categories:  map[Category]int{},
		},
		Assets: assets,
	}

	hasPacked := false
	for _, a := range assets {
		idx.Metadata.Categories[a.Category]++
		if a.FocusGLTF {
			idx.Metadata.GLTFAssetCount++
		}
		if a.Pack != "" {
			hasPacked = true
		}
	}

	// packs/packCounts appear only when at least one asset belongs to a pack.
	if hasPacked {
		counts := map[string]int{}
		for _, a := range assets {
			if a.Pack != "" {
				counts[a.Pack]++
			} else {
				counts[RootPackLabel]++
			}
		}
		for _, p := range packs {
			idx.Metadata.Packs = append(idx.Metadata.Packs, p.Name)
		}
		idx.Metadata.PackCounts = counts
	}

	categoryCounts := make(map[string]int, len(idx.Metadata.Categories))
	for c, n := range idx.Metadata.Categories {
		categoryCounts[string(c)] = n
	}
	metrics.SetAssetsIndexed(categoryCounts)
	metrics.SetPacksDetected(len(packs))
	metrics.RecordScan(time.Since(start), true)

	if len(assets) == 0 {
		logging.Info("scan found no qualifying assets", zap.String("root", absRoot))
	}
	logging.Info("asset scan completed",
		zap.String("root", absRoot),
		zap.Int("assets", len(assets)),
		zap.Int("packs", len(packs)),
		zap.Int("excluded", excluded),
		zap.Duration("duration", time.Since(start)))

	return idx, nil
}

// collectAssets walks dir recursively, pruning hidden directories, skipping
// the index file and pack preview markers, and appending every file whose
// extension the classifier accepts.
func collectAssets(absRoot, dir string, packs []Pack, opts Options, assets *[]Asset, excluded *int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			if strings.HasPrefix(name, ".") {
				continue
			}
			if err := collectAssets(absRoot, filepath.Join(dir, name), packs, opts, assets, excluded); err != nil {
				return err
			}
			continue
		}

		if name == opts.IndexFilename || isPreviewFilename(name) {
			continue
		}

		ext := filepath.Ext(name)
		category, primary, ok := Classify(ext)
		if !ok {
			*excluded++
			continue
		}

		abs := filepath.Join(dir, name)
		rel, err := filepath.Rel(absRoot, abs)
		if err != nil {
			return fmt.Errorf("relativize %s: %w", abs, err)
		}
		rel = filepath.ToSlash(rel)

		display := rel
		if opts.DisplayPrefix != "" {
			display = path.Join(opts.DisplayPrefix, rel)
		}

		*assets = append(*assets, Asset{
			Name:         name,
			Path:         display,
			RelativePath: rel,
			Category:     category,
			Extension:    strings.ToLower(ext),
			FocusGLTF:    primary,
			Pack:         packFor(abs, packs),
		})
	}
	return nil
}

// packFor returns the name of the first pack (in detector emission order)
// whose subtree contains abs, or "" if there is none. With pre-order
// emission the first match for a file under nested packs is the outermost
// pack; membership is deliberately first-match-wins, not longest-prefix.
func packFor(abs string, packs []Pack) string {
	for _, p := range packs {
		if strings.HasPrefix(abs, p.AbsPath+string(os.PathSeparator)) {
			return p.Name
		}
	}
	return ""
}

// isPreviewFilename reports whether name is a recognized pack preview
// marker. Previews identify packs and are excluded from the asset listing.
func isPreviewFilename(name string) bool {
	for _, p := range previewFilenames {
		if name == p {
			return true
		}
	}
	return false
}

// sortAssets orders assets with the index's total order: unpacked assets
// first by name, then packed assets by pack name, then by name.
func sortAssets(assets []Asset) {
	sort.Slice(assets, func(i, j int) bool {
		a, b := assets[i], assets[j]
		if (a.Pack == "") != (b.Pack == "") {
			return a.Pack == ""
		}
		if a.Pack != b.Pack {
			return a.Pack < b.Pack
		}
		return a.Name < b.Name
	})
}
