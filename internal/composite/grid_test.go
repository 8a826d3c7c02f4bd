package composite

import "testing"

func TestGridLayoutGeometry(t *testing.T) {
	opts := DefaultOptions()
	cases := []struct {
		n    int
		cols int
		rows int
	}{
		{1, 1, 1},
		{2, 2, 1},
		{3, 2, 2},
		{4, 2, 2},
		{5, 3, 2},
		{9, 3, 3},
		{10, 4, 3},
	}

	for _, c := range cases {
		l := GridLayout(c.n, opts)
		if l.Cols != c.cols || l.Rows != c.rows {
			t.Errorf("GridLayout(%d) = %dx%d, want %dx%d", c.n, l.Cols, l.Rows, c.cols, c.rows)
		}
	}
}

func TestGridLayoutCanvasSize(t *testing.T) {
	opts := DefaultOptions()
	l := GridLayout(5, opts)
	if l.Width != 2940 {
		t.Errorf("width = %d, want 2940", l.Width)
	}
	if l.Height != 1125 {
		t.Errorf("height = %d, want 1125", l.Height)
	}
}

func TestCellOriginRowMajor(t *testing.T) {
	opts := DefaultOptions()
	l := GridLayout(5, opts) // 3x2

	origin := l.CellOrigin(0, opts)
	if origin.X != 15 || origin.Y != 15 {
		t.Errorf("cell 0 origin = %v, want (15,15)", origin)
	}

	origin = l.CellOrigin(4, opts) // second row, second column
	wantX := 15 + 1*(960+15)
	wantY := 15 + 1*(540+15)
	if origin.X != wantX || origin.Y != wantY {
		t.Errorf("cell 4 origin = %v, want (%d,%d)", origin, wantX, wantY)
	}
}
