package composite

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	"go.uber.org/zap"

	"github.com/assetdex/assetdex/internal/logging"
	"github.com/assetdex/assetdex/internal/metrics"
)

// DefaultCompositeFilename is the name under which the grid is persisted.
const DefaultCompositeFilename = "preview-grid.jpg"

var (
	// ErrNoPreviews indicates there was nothing to combine: either no
	// previews were supplied or every supplied preview failed to decode.
	// Non-fatal; no output file is produced.
	ErrNoPreviews = errors.New("no previews to composite")

	// ErrBackendUnavailable indicates the image-processing capability is not
	// usable in this runtime. Callers decide whether to treat it as fatal.
	ErrBackendUnavailable = errors.New("imaging backend unavailable")
)

// Preview is one pack's preview image, in composition order.
type Preview struct {
	Name string // pack name, for diagnostics
	Path string // preview image path
}

// Probe verifies the imaging backend by round-tripping a 1x1 image through
// encode and decode. It returns ErrBackendUnavailable if the pipeline is
// broken so callers can degrade to a no-op instead of crashing mid-scan.
func Probe() error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if _, err := imaging.Decode(&buf); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return nil
}

// Compose combines the previews into one grid image at outputPath and
// returns the path written.
//
// Zero previews (or all previews failing to decode) produce no file and
// return ErrNoPreviews. A single preview is copied to outputPath byte for
// byte, preserving original quality. With two or more, each preview is
// contain-fitted into its fixed-size cell, assigned row-major in input
// order; a preview that fails to decode leaves its cell as background and
// composition continues.
func Compose(previews []Preview, outputPath string, opts Options) (string, error) {
	if len(previews) == 0 {
		metrics.RecordComposite("empty")
		return "", ErrNoPreviews
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		metrics.RecordComposite("error")
		return "", fmt.Errorf("create output dir: %w", err)
	}

	if len(previews) == 1 {
		if err := copyFile(previews[0].Path, outputPath); err != nil {
			metrics.RecordComposite("error")
			return "", fmt.Errorf("copy single preview: %w", err)
		}
		metrics.RecordComposite("success")
		logging.Info("single preview copied without resize",
			zap.String("pack", previews[0].Name),
			zap.String("output", outputPath))
		return outputPath, nil
	}

	layout := GridLayout(len(previews), opts)
	canvas := imaging.New(layout.Width, layout.Height, opts.Background)

	placed := 0
	for i, p := range previews {
		tile, err := loadTile(p.Path, opts)
		if err != nil {
			metrics.RecordPreviewDecodeFailure()
			logging.Warn("preview decode failed, leaving cell empty",
				zap.String("pack", p.Name),
				zap.String("path", p.Path),
				zap.Error(err))
			continue
		}
		canvas = imaging.Paste(canvas, tile, layout.CellOrigin(i, opts))
		placed++
	}

	if placed == 0 {
		metrics.RecordComposite("error")
		return "", fmt.Errorf("%w: all %d previews failed to decode", ErrNoPreviews, len(previews))
	}

	if err := imaging.Save(canvas, outputPath, imaging.JPEGQuality(opts.Quality)); err != nil {
		metrics.RecordComposite("error")
		return "", fmt.Errorf("save composite: %w", err)
	}

	metrics.RecordComposite("success")
	logging.Info("preview grid composed",
		zap.Int("previews", len(previews)),
		zap.Int("placed", placed),
		zap.Int("cols", layout.Cols),
		zap.Int("rows", layout.Rows),
		zap.String("output", outputPath))
	return outputPath, nil
}

// loadTile decodes one preview, applies EXIF orientation, and returns it
// contain-fitted into a background-padded cell.
func loadTile(path string, opts Options) (image.Image, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	img = applyOrientation(img, readOrientation(content))

	fitted := imaging.Fit(img, opts.CellWidth, opts.CellHeight, imaging.Lanczos)
	cell := imaging.New(opts.CellWidth, opts.CellHeight, opts.Background)
	return imaging.PasteCenter(cell, fitted), nil
}

// readOrientation extracts the EXIF orientation value, defaulting to 1
// (upright) when the image carries no usable EXIF.
func readOrientation(content []byte) int {
	x, err := exif.Decode(bytes.NewReader(content))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil || v < 1 || v > 8 {
		return 1
	}
	return v
}

// applyOrientation transforms an image according to its EXIF orientation.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

func copyFile(src, dst string) error {
	content, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, content, 0644)
}
