// Package spatial provides the uniform grid used to restrict collision checks
// to geometrically nearby arena entities.
package spatial

import (
	"math"

	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/geometry"
)

// Body is anything that can be stored in the grid.
// Key must be stable for the lifetime of the entity: duplicates coming from
// multi-cell bodies are removed on it, never on coordinates.
type Body interface {
	Key() uint64
	Shape() geometry.Circle
}

// Entry pairs an inserted body with caller metadata.
type Entry[M any] struct {
	Body Body
	Meta M
}

// Index is a uniform grid over a width x height arena.
// A body is appended to every cell its bounding square touches, so bodies
// larger than a cell legitimately live in several buckets.
type Index[M any] struct {
	cellSize float64
	cols     int
	rows     int
	cells    [][]Entry[M] // flat grid: index = row*cols + col
	count    int

	seen map[uint64]struct{}
}

// New creates an index covering the arena. cells per axis = ceil(dim/cellSize).
func New[M any](width, height, cellSize float64) *Index[M] {
	if cellSize <= 0 {
		cellSize = math.Max(width, height)
	}
	cols := max(1, int(math.Ceil(width/cellSize)))
	rows := max(1, int(math.Ceil(height/cellSize)))

	cells := make([][]Entry[M], cols*rows)
	for i := range cells {
		cells[i] = make([]Entry[M], 0, 4)
	}

	return &Index[M]{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
		seen:     make(map[uint64]struct{}, 64),
	}
}

// Dimensions returns the number of columns and rows.
func (g *Index[M]) Dimensions() (cols, rows int) {
	return g.cols, g.rows
}

// Len returns the number of Insert calls since the last Clear.
func (g *Index[M]) Len() int {
	return g.count
}

// Clear empties all buckets.
// Slices are truncated, not dropped: the backing arrays are reused on the next
// rebuild which keeps per-frame allocation close to zero.
func (g *Index[M]) Clear() {
	for i := range g.cells {
		clear(g.cells[i]) // drop Body references held past len
		g.cells[i] = g.cells[i][:0]
	}
	g.count = 0
}

// Insert stores the body in every cell overlapped by its bounding square.
func (g *Index[M]) Insert(b Body, meta M) {
	minCol, minRow, maxCol, maxRow := g.cellRange(b.Shape())
	e := Entry[M]{Body: b, Meta: meta}
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			idx := row*g.cols + col
			g.cells[idx] = append(g.cells[idx], e)
		}
	}
	g.count++
}

// QueryNearby returns every distinct entry sharing at least one cell with b.
// The queried body itself is part of the result when it was inserted.
// The result order is deterministic: cells row-major, insertion order inside
// a cell, first occurrence wins.
func (g *Index[M]) QueryNearby(b Body) []Entry[M] {
	minCol, minRow, maxCol, maxRow := g.cellRange(b.Shape())
	clear(g.seen)

	var out []Entry[M]
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			for _, e := range g.cells[row*g.cols+col] {
				k := e.Body.Key()
				if _, dup := g.seen[k]; dup {
					continue
				}
				g.seen[k] = struct{}{}
				out = append(out, e)
			}
		}
	}
	return out
}

// CellEntries returns the raw bucket at (col, row); nil when out of range.
// INTERNAL USE ONLY - the slice is reused on the next Clear.
func (g *Index[M]) CellEntries(col, row int) []Entry[M] {
	if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
		return nil
	}
	return g.cells[row*g.cols+col]
}

// cellRange returns the inclusive, clamped cell coordinates of the bounding
// square of c.
func (g *Index[M]) cellRange(c geometry.Circle) (minCol, minRow, maxCol, maxRow int) {
	x0, y0, x1, y1 := c.Bounds()
	minCol = g.clampCol(int(math.Floor(x0 / g.cellSize)))
	maxCol = g.clampCol(int(math.Floor(x1 / g.cellSize)))
	minRow = g.clampRow(int(math.Floor(y0 / g.cellSize)))
	maxRow = g.clampRow(int(math.Floor(y1 / g.cellSize)))
	return
}

func (g *Index[M]) clampCol(c int) int {
	return min(max(c, 0), g.cols-1)
}

func (g *Index[M]) clampRow(r int) int {
	return min(max(r, 0), g.rows-1)
}
