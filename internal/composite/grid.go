// Package composite combines pack preview images into a single grid image.
package composite

import (
	"image"
	"image/color"
	"math"
)

// Options holds the fixed geometry and encoding settings for a composition.
// They are passed in explicitly so the compositor carries no package state.
type Options struct {
	CellWidth  int
	CellHeight int
	Padding    int
	Background color.NRGBA
	Quality    int // JPEG quality
}

// DefaultOptions returns the standard 16:9 grid settings.
func DefaultOptions() Options {
	return Options{
		CellWidth:  960,
		CellHeight: 540,
		Padding:    15,
		Background: color.NRGBA{R: 40, G: 40, B: 40, A: 255},
		Quality:    90,
	}
}

// Layout is the computed geometry for an n-tile grid.
type Layout struct {
	Cols   int
	Rows   int
	Width  int
	Height int
}

// GridLayout computes the near-square grid for n tiles: cols = ceil(sqrt(n)),
// rows = ceil(n/cols), with padding between and around all cells.
func GridLayout(n int, opts Options) Layout {
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	if cols < 1 {
		cols = 1
	}
	rows := (n + cols - 1) / cols
	if rows < 1 {
		rows = 1
	}
	return Layout{
		Cols:   cols,
		Rows:   rows,
		Width:  cols*opts.CellWidth + (cols+1)*opts.Padding,
		Height: rows*opts.CellHeight + (rows+1)*opts.Padding,
	}
}

// CellOrigin returns the top-left canvas offset of tile i, assigned
// row-major in input order.
func (l Layout) CellOrigin(i int, opts Options) image.Point {
	col := i % l.Cols
	row := i / l.Cols
	return image.Pt(
		opts.Padding+col*(opts.CellWidth+opts.Padding),
		opts.Padding+row*(opts.CellHeight+opts.Padding),
	)
}
