package fractal

import (
	"fmt"
	"sync/atomic"
)

// Cache remembers escape iterations per grid cell across frames. Once a cell
// escapes at k it escapes at k for every bound >= k, so only cells that have
// not escaped yet are ever recomputed.
type Cache struct {
	width, height int
	cells         []int // 0 = not escaped yet
	hits, misses  atomic.Int64
}

func NewCache(width, height int) *Cache {
	return &Cache{
		width:  width,
		height: height,
		cells:  make([]int, width*height),
	}
}

// Lookup returns the escape result of cell (row, col) for maxIter, computing
// and storing it from c when the cell has no escape recorded.
func (ch *Cache) Lookup(row, col int, c complex128, maxIter int) (Result, error) {
	if row < 0 || row >= ch.height || col < 0 || col >= ch.width {
		return Result{}, fmt.Errorf("%w: (%d,%d) in %dx%d", ErrCacheShape, row, col, ch.width, ch.height)
	}
	idx := row*ch.width + col
	if k := ch.cells[idx]; k > 0 {
		ch.hits.Add(1)
		if k > maxIter {
			return Result{}, nil
		}
		return EscapedAt(k), nil
	}

	ch.misses.Add(1)
	r := Escape(c, maxIter)
	if r.Escaped {
		ch.cells[idx] = r.Iterations
	}
	return r, nil
}

// Reset forgets every recorded escape.
func (ch *Cache) Reset() {
	for i := range ch.cells {
		ch.cells[i] = 0
	}
	ch.hits.Store(0)
	ch.misses.Store(0)
}

func (ch *Cache) Hits() int64   { return ch.hits.Load() }
func (ch *Cache) Misses() int64 { return ch.misses.Load() }
