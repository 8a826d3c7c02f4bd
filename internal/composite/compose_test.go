package composite

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	_ "image/jpeg"
)

// writePNG writes a solid-color image to path and returns its bytes.
func writePNG(t *testing.T, path string, c color.NRGBA, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func decodeOutput(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	return img
}

// nearColor checks an RGB match with tolerance for JPEG loss.
func nearColor(t *testing.T, img image.Image, x, y int, want color.NRGBA, tolerance int) {
	t.Helper()
	r, g, b, _ := img.At(x, y).RGBA()
	got := [3]int{int(r >> 8), int(g >> 8), int(b >> 8)}
	expect := [3]int{int(want.R), int(want.G), int(want.B)}
	for i := range got {
		d := got[i] - expect[i]
		if d < 0 {
			d = -d
		}
		if d > tolerance {
			t.Errorf("pixel (%d,%d) = %v, want ~%v", x, y, got, expect)
			return
		}
	}
}

func TestProbe(t *testing.T) {
	if err := Probe(); err != nil {
		t.Fatalf("imaging backend should be available: %v", err)
	}
}

func TestComposeEmpty(t *testing.T) {
	out := filepath.Join(t.TempDir(), "grid.jpg")
	path, err := Compose(nil, out, DefaultOptions())
	if !errors.Is(err, ErrNoPreviews) {
		t.Fatalf("expected ErrNoPreviews, got %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty", path)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("no output file must be produced for zero previews")
	}
}

func TestComposeSingleCopiesBytes(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Preview.png")
	original := writePNG(t, src, color.NRGBA{R: 200, G: 30, B: 30, A: 255}, 320, 180)

	out := filepath.Join(dir, "nested", "grid.jpg")
	path, err := Compose([]Preview{{Name: "solo", Path: src}}, out, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if path != out {
		t.Fatalf("path = %q, want %q", path, out)
	}

	copied, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(copied, original) {
		t.Error("single preview must be copied byte for byte")
	}
}

func TestComposeGrid(t *testing.T) {
	dir := t.TempDir()
	colors := []color.NRGBA{
		{R: 220, G: 40, B: 40, A: 255},
		{R: 40, G: 220, B: 40, A: 255},
		{R: 40, G: 40, B: 220, A: 255},
	}
	var previews []Preview
	for i, c := range colors {
		p := filepath.Join(dir, fmt.Sprintf("p%d.png", i))
		writePNG(t, p, c, 400, 225)
		previews = append(previews, Preview{Name: p, Path: p})
	}

	opts := DefaultOptions()
	out := filepath.Join(dir, "grid.jpg")
	if _, err := Compose(previews, out, opts); err != nil {
		t.Fatal(err)
	}

	img := decodeOutput(t, out)
	layout := GridLayout(3, opts) // 2x2, last cell empty
	if img.Bounds().Dx() != layout.Width || img.Bounds().Dy() != layout.Height {
		t.Fatalf("canvas = %dx%d, want %dx%d",
			img.Bounds().Dx(), img.Bounds().Dy(), layout.Width, layout.Height)
	}

	// Cell centers carry the tile colors; the unused fourth cell stays
	// background.
	for i, c := range colors {
		origin := layout.CellOrigin(i, opts)
		nearColor(t, img, origin.X+opts.CellWidth/2, origin.Y+opts.CellHeight/2, c, 24)
	}
	origin := layout.CellOrigin(3, opts)
	nearColor(t, img, origin.X+opts.CellWidth/2, origin.Y+opts.CellHeight/2, opts.Background, 24)
}

func TestComposeSkipsUndecodablePreview(t *testing.T) {
	dir := t.TempDir()
	red := color.NRGBA{R: 220, G: 40, B: 40, A: 255}
	blue := color.NRGBA{R: 40, G: 40, B: 220, A: 255}

	good1 := filepath.Join(dir, "a.png")
	writePNG(t, good1, red, 400, 225)
	corrupt := filepath.Join(dir, "b.png")
	if err := os.WriteFile(corrupt, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	good2 := filepath.Join(dir, "c.png")
	writePNG(t, good2, blue, 400, 225)

	previews := []Preview{
		{Name: "a", Path: good1},
		{Name: "b", Path: corrupt},
		{Name: "c", Path: good2},
	}

	opts := DefaultOptions()
	out := filepath.Join(dir, "grid.jpg")
	if _, err := Compose(previews, out, opts); err != nil {
		t.Fatal(err)
	}

	img := decodeOutput(t, out)
	layout := GridLayout(3, opts)

	// The failed preview's cell stays background; tiles keep their input
	// positions, gaps are not compacted.
	o0 := layout.CellOrigin(0, opts)
	nearColor(t, img, o0.X+opts.CellWidth/2, o0.Y+opts.CellHeight/2, red, 24)
	o1 := layout.CellOrigin(1, opts)
	nearColor(t, img, o1.X+opts.CellWidth/2, o1.Y+opts.CellHeight/2, opts.Background, 24)
	o2 := layout.CellOrigin(2, opts)
	nearColor(t, img, o2.X+opts.CellWidth/2, o2.Y+opts.CellHeight/2, blue, 24)
}

func TestComposeAllUndecodable(t *testing.T) {
	dir := t.TempDir()
	var previews []Preview
	for _, name := range []string{"a.png", "b.png"} {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte("garbage"), 0644); err != nil {
			t.Fatal(err)
		}
		previews = append(previews, Preview{Name: name, Path: p})
	}

	out := filepath.Join(dir, "grid.jpg")
	_, err := Compose(previews, out, DefaultOptions())
	if !errors.Is(err, ErrNoPreviews) {
		t.Fatalf("expected ErrNoPreviews, got %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("no output file must be produced when every preview fails")
	}
}
