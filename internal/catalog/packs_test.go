package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeFile creates a file (and its parents) with placeholder content.
func writeFile(t *testing.T, root string, rel string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("placeholder"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDetectPacksRootMissing(t *testing.T) {
	_, err := DetectPacks(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, ErrRootNotFound) {
		t.Fatalf("expected ErrRootNotFound, got %v", err)
	}
}

func TestDetectPacksRootNotADirectory(t *testing.T) {
	root := t.TempDir()
	file := writeFile(t, root, "file.txt")
	_, err := DetectPacks(file)
	if !errors.Is(err, ErrRootNotFound) {
		t.Fatalf("expected ErrRootNotFound, got %v", err)
	}
}

func TestDetectPacksRootItselfNeverQualifies(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Preview.jpg")
	packs, err := DetectPacks(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(packs) != 0 {
		t.Fatalf("root must not be a pack, got %d packs", len(packs))
	}
}

func TestDetectPacksHiddenDirectoriesPruned(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".git/Preview.jpg")
	writeFile(t, root, ".cache/deep/preview.png")
	packs, err := DetectPacks(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(packs) != 0 {
		t.Fatalf("hidden directories must be pruned, got %d packs", len(packs))
	}
}

func TestDetectPacksNestedPacksBothEmitted(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "outer/Preview.jpg")
	writeFile(t, root, "outer/inner/preview.png")

	packs, err := DetectPacks(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(packs) != 2 {
		t.Fatalf("expected 2 packs, got %d", len(packs))
	}
	// Pre-order: parent before child.
	if packs[0].Name != "outer" || packs[1].Name != "outer/inner" {
		t.Fatalf("expected [outer outer/inner], got [%s %s]", packs[0].Name, packs[1].Name)
	}
}

func TestDetectPacksPreviewPriority(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pack/preview.png")
	first := writeFile(t, root, "pack/Preview.jpg")

	packs, err := DetectPacks(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(packs) != 1 {
		t.Fatalf("expected 1 pack, got %d", len(packs))
	}
	// Preview.jpg precedes preview.png in the recognized list.
	if packs[0].PreviewPath != first {
		t.Errorf("preview = %s, want %s", packs[0].PreviewPath, first)
	}
}

func TestDetectPacksSiblingOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "zebra/Content.png")
	writeFile(t, root, "alpha/Preview.jpg")
	writeFile(t, root, "mid/sub/preview.jpeg")

	packs, err := DetectPacks(root)
	if err != nil {
		t.Fatal(err)
	}
	got := make([]string, len(packs))
	for i, p := range packs {
		got[i] = p.Name
	}
	// Directory enumeration order is lexical, depth-first.
	want := []string{"alpha", "mid/sub", "zebra"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
