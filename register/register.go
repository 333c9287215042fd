// Package register implements the RowRegisterFile entity of a PIM
// subarray: a fixed, named set of per-column 1-bit registers (SA plus
// auxiliary registers R1..Rn) and the combinators micro-ops use to
// compute across them.
package register

import "github.com/YingmingMa/pimcore/status"

// Reg names a single row register. Registers are a fixed, compile-time
// enumeration rather than a dynamically registered map, so access can be
// array-indexed and out-of-range names are caught by valid().
type Reg int

const (
	regUnimplemented Reg = iota // Start of valid register enumerations.
	SA                          // Sense-amplifier row register; always present.
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	R8
	regMax // End of register enumerations.
)

// Max is one past the highest valid register value: the size of the
// register array. Index 0 (regUnimplemented) is not a usable register, so
// the file holds Max-1 named registers (SA, R1..R8).
const Max = int(regMax)

// File holds one C-bit vector per named register, zero-initialized.
type File struct {
	cols int
	regs [regMax][]bool
}

// New creates a register file with cols-wide, zero-initialized registers.
func New(cols int) *File {
	f := &File{cols: cols}
	for r := range f.regs {
		f.regs[r] = make([]bool, cols)
	}
	return f
}

func (f *File) valid(r Reg) bool { return r > regUnimplemented && r < regMax }

func (f *File) vec(r Reg) ([]bool, error) {
	if !f.valid(r) {
		return nil, status.Error{Status: status.OutOfBounds, Reason: "unknown register"}
	}
	return f.regs[r], nil
}

// Get returns a copy of the named register's contents.
func (f *File) Get(r Reg) ([]bool, error) {
	v, err := f.vec(r)
	if err != nil {
		return nil, err
	}
	out := make([]bool, f.cols)
	copy(out, v)
	return out, nil
}

// Put overwrites the named register's contents with vec, which must be
// cols wide.
func (f *File) Put(r Reg, vec []bool) error {
	dst, err := f.vec(r)
	if err != nil {
		return err
	}
	if len(vec) != f.cols {
		return status.Error{Status: status.SizeMismatch, Reason: "register vector length mismatch"}
	}
	copy(dst, vec)
	return nil
}

// Set broadcasts a single bit across all columns of reg.
func (f *File) Set(reg Reg, bit bool) error {
	dst, err := f.vec(reg)
	if err != nil {
		return err
	}
	for c := range dst {
		dst[c] = bit
	}
	return nil
}

// Move copies src into dst.
func (f *File) Move(dst, src Reg) error {
	s, err := f.vec(src)
	if err != nil {
		return err
	}
	d, err := f.vec(dst)
	if err != nil {
		return err
	}
	copy(d, s)
	return nil
}

func (f *File) binOp(dst, a, b Reg, op func(x, y bool) bool) error {
	av, err := f.vec(a)
	if err != nil {
		return err
	}
	bv, err := f.vec(b)
	if err != nil {
		return err
	}
	dv, err := f.vec(dst)
	if err != nil {
		return err
	}
	for c := 0; c < f.cols; c++ {
		dv[c] = op(av[c], bv[c])
	}
	return nil
}

// Nor computes dst[c] = !(a[c] || b[c]).
func (f *File) Nor(dst, a, b Reg) error {
	return f.binOp(dst, a, b, func(x, y bool) bool { return !(x || y) })
}

// Xor computes dst[c] = a[c] != b[c].
func (f *File) Xor(dst, a, b Reg) error {
	return f.binOp(dst, a, b, func(x, y bool) bool { return x != y })
}

// Xnor computes dst[c] = a[c] == b[c].
func (f *File) Xnor(dst, a, b Reg) error {
	return f.binOp(dst, a, b, func(x, y bool) bool { return x == y })
}

// And computes dst[c] = a[c] && b[c].
func (f *File) And(dst, a, b Reg) error {
	return f.binOp(dst, a, b, func(x, y bool) bool { return x && y })
}

// Or computes dst[c] = a[c] || b[c].
func (f *File) Or(dst, a, b Reg) error {
	return f.binOp(dst, a, b, func(x, y bool) bool { return x || y })
}

// Sel computes dst[c] = a[c] if cond[c] else b[c], used to synthesise
// conditional writes in bit-serial arithmetic.
func (f *File) Sel(cond, a, b, dst Reg) error {
	cv, err := f.vec(cond)
	if err != nil {
		return err
	}
	av, err := f.vec(a)
	if err != nil {
		return err
	}
	bv, err := f.vec(b)
	if err != nil {
		return err
	}
	dv, err := f.vec(dst)
	if err != nil {
		return err
	}
	for c := 0; c < f.cols; c++ {
		if cv[c] {
			dv[c] = av[c]
		} else {
			dv[c] = bv[c]
		}
	}
	return nil
}
