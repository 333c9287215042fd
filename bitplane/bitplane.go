// Package bitplane implements the BitPlane entity of a PIM subarray: a
// fixed R x C array of single-bit DRAM cells, bit-packed into machine
// words along the column axis, plus the per-row ColumnSenseAmps vector
// used by column-oriented micro-ops.
package bitplane

import (
	"math/rand"

	"github.com/YingmingMa/pimcore/status"
)

const wordBits = 64

// Plane is a fixed R x C grid of single-bit cells. Rows and cols are
// fixed at construction; every index access is bounds-checked.
type Plane struct {
	rows, cols int
	words      [][]uint64 // words[row] is the packed bit storage for that row.

	// senseAmpCol is the column sense-amp register: one bit per row,
	// populated by ReadCol and drained by WriteCol.
	senseAmpCol []bool
}

// New creates a Plane of the given dimensions. If randomize is true, cells
// are seeded with pseudo-random 0/1 values from rng instead of zero; rng
// must be non-nil in that case. This replaces the source's unreachable
// `if (0)` random-init branch with an explicit, deterministic option.
func New(rows, cols int, randomize bool, rng *rand.Rand) *Plane {
	nWords := (cols + wordBits - 1) / wordBits
	words := make([][]uint64, rows)
	for r := range words {
		words[r] = make([]uint64, nWords)
		if randomize {
			for w := range words[r] {
				words[r][w] = rng.Uint64()
			}
			// Clear any bits beyond cols in the last word so they never
			// leak into row reads.
			if rem := cols % wordBits; rem != 0 {
				mask := uint64(1)<<rem - 1
				words[r][nWords-1] &= mask
			}
		}
	}
	return &Plane{
		rows:        rows,
		cols:        cols,
		words:       words,
		senseAmpCol: make([]bool, rows),
	}
}

// Rows returns the number of rows (R).
func (p *Plane) Rows() int { return p.rows }

// Cols returns the number of columns (C).
func (p *Plane) Cols() int { return p.cols }

func (p *Plane) bit(row, col int) bool {
	return p.words[row][col/wordBits]&(uint64(1)<<uint(col%wordBits)) != 0
}

func (p *Plane) setBit(row, col int, v bool) {
	mask := uint64(1) << uint(col%wordBits)
	if v {
		p.words[row][col/wordBits] |= mask
	} else {
		p.words[row][col/wordBits] &^= mask
	}
}

// ReadRow returns a copy of row r as a bit vector of length C.
func (p *Plane) ReadRow(r int) ([]bool, error) {
	if r < 0 || r >= p.rows {
		return nil, status.Error{Status: status.OutOfBounds, Reason: "row read index out of range"}
	}
	out := make([]bool, p.cols)
	for c := 0; c < p.cols; c++ {
		out[c] = p.bit(r, c)
	}
	return out, nil
}

// WriteRow replaces row r with vec, which must have length C.
func (p *Plane) WriteRow(r int, vec []bool) error {
	if r < 0 || r >= p.rows {
		return status.Error{Status: status.OutOfBounds, Reason: "row write index out of range"}
	}
	if len(vec) != p.cols {
		return status.Error{Status: status.SizeMismatch, Reason: "row write vector length mismatch"}
	}
	for c, v := range vec {
		p.setBit(r, c, v)
	}
	return nil
}

// ReadCol populates and returns the ColumnSenseAmps vector from column c
// (one bit per row).
func (p *Plane) ReadCol(c int) ([]bool, error) {
	if c < 0 || c >= p.cols {
		return nil, status.Error{Status: status.OutOfBounds, Reason: "column read index out of range"}
	}
	for r := 0; r < p.rows; r++ {
		p.senseAmpCol[r] = p.bit(r, c)
	}
	out := make([]bool, p.rows)
	copy(out, p.senseAmpCol)
	return out, nil
}

// WriteCol writes the current ColumnSenseAmps vector back into column c.
func (p *Plane) WriteCol(c int) error {
	if c < 0 || c >= p.cols {
		return status.Error{Status: status.OutOfBounds, Reason: "column write index out of range"}
	}
	for r := 0; r < p.rows; r++ {
		p.setBit(r, c, p.senseAmpCol[r])
	}
	return nil
}

// SetSenseAmpCol overwrites the ColumnSenseAmps vector directly, letting a
// caller stage a column write without first running it through ReadCol.
func (p *Plane) SetSenseAmpCol(vals []bool) error {
	if len(vals) != p.rows {
		return status.Error{Status: status.SizeMismatch, Reason: "column SA vector length mismatch"}
	}
	copy(p.senseAmpCol, vals)
	return nil
}

// SenseAmpCol returns a copy of the current ColumnSenseAmps contents.
func (p *Plane) SenseAmpCol() []bool {
	out := make([]bool, p.rows)
	copy(out, p.senseAmpCol)
	return out
}

// Bit returns the raw cell value at (row, col) without bounds checking; it
// is used internally by the subarray controller for majority computation
// and by tests that need to inspect BitPlane state directly.
func (p *Plane) Bit(row, col int) bool { return p.bit(row, col) }

// SetBitUnsafe sets the raw cell value at (row, col) without bounds
// checking. Exported for use by subarray, which has already validated
// indices against the same Plane.
func (p *Plane) SetBitUnsafe(row, col int, v bool) { p.setBit(row, col, v) }
