package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// previewFilenames are the file names that mark a directory as an asset
// pack, checked in this order. The first match becomes the pack's preview.
var previewFilenames = []string{
	"Preview.jpg", "Preview.png",
	"preview.jpg", "preview.png",
	"Preview.jpeg", "preview.jpeg",
	"Content.jpg", "Content.png",
	"content.jpg", "content.png",
	"Content.jpeg", "content.jpeg",
}

// Pack is a directory recognized as a self-contained asset bundle by virtue
// of containing a preview image.
type Pack struct {
	// Name is the pack's path relative to the asset root, slash-separated.
	Name string
	// AbsPath is the pack directory's absolute path.
	AbsPath string
	// PreviewPath is the absolute path of the pack's preview image.
	PreviewPath string
}

// DetectPacks walks root depth-first and returns every directory below it
// that directly contains a recognized preview file, in pre-order (parents
// before children, siblings in directory enumeration order). A pack's
// subdirectories are still descended into, so packs may nest. Hidden
// directories are pruned entirely. The result order is not sorted; callers
// needing a different order must sort it themselves.
func DetectPacks(root string) ([]Pack, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, root)
	}

	var packs []Pack
	if err := detectPacksInto(absRoot, absRoot, &packs); err != nil {
		return nil, err
	}
	return packs, nil
}

func detectPacksInto(absRoot, dir string, packs *[]Pack) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %s: %w", dir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		sub := filepath.Join(dir, entry.Name())

		if preview := findPreview(sub); preview != "" {
			rel, err := filepath.Rel(absRoot, sub)
			if err != nil {
				return fmt.Errorf("relativize %s: %w", sub, err)
			}
			*packs = append(*packs, Pack{
				Name:        filepath.ToSlash(rel),
				AbsPath:     sub,
				PreviewPath: preview,
			})
		}

		// Packs may contain further packs.
		if err := detectPacksInto(absRoot, sub, packs); err != nil {
			return err
		}
	}
	return nil
}

// findPreview returns the absolute path of the first recognized preview file
// directly inside dir, or "" if there is none.
func findPreview(dir string) string {
	for _, name := range previewFilenames {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate
		}
	}
	return ""
}
