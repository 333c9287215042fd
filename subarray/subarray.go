// Package subarray implements the SubarrayController, the top-level owner
// of a PIM subarray's BitPlane, RowRegisterFile, BitlineCapacitorModel and
// AccessLog. It implements every primitive micro-op plus the composite
// AAP/AP/APP_AP operations built from them, and is the only entry point
// the outer BitSIMD/SIMDRAM programs use.
package subarray

import (
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/YingmingMa/pimcore/accesslog"
	"github.com/YingmingMa/pimcore/bitplane"
	"github.com/YingmingMa/pimcore/capacitor"
	"github.com/YingmingMa/pimcore/register"
	"github.com/YingmingMa/pimcore/status"
)

// Reg re-exports register.Reg so callers need not import the register
// package directly for the common case of naming SA/R1/R2/....
type Reg = register.Reg

// Register name aliases, re-exported for caller convenience.
const (
	SA = register.SA
	R1 = register.R1
	R2 = register.R2
	R3 = register.R3
	R4 = register.R4
	R5 = register.R5
	R6 = register.R6
	R7 = register.R7
	R8 = register.R8
)

// ShiftPolicy controls the boundary behavior of ColGrpShiftR/L at the ends
// of a column group.
type ShiftPolicy int

const (
	// ShiftWrap rotates bits within a group; a bit shifted past one end
	// re-enters at the other.
	ShiftWrap ShiftPolicy = iota
	// ShiftZeroFill shifts zeros in at the group boundary.
	ShiftZeroFill
)

// Config configures a new Controller. Keeping construction parameters in
// a single struct, rather than a long positional argument list, makes it
// cheap to add new knobs later without breaking callers. New does not
// validate the struct: Rows and Cols must be non-negative.
type Config struct {
	// Rows and Cols are the fixed BitPlane dimensions (R x C).
	Rows, Cols int
	// Randomize, if true, seeds BitPlane contents with pseudo-random 0/1
	// values from Rng instead of zero.
	Randomize bool
	// Rng supplies randomness when Randomize is true. Required in that
	// case; ignored otherwise.
	Rng *rand.Rand
	// ShiftPolicy is the boundary policy applied by ColGrpShiftR/L.
	// Zero value is ShiftWrap.
	ShiftPolicy ShiftPolicy
}

// RowSpec names one row plus whether it is referenced through a
// dual-contact cell (and therefore observed negated).
type RowSpec struct {
	Index int
	DCC   bool
}

// Controller is the SubarrayController: it owns the BitPlane,
// RowRegisterFile, BitlineCapacitorModel and AccessLog for one subarray
// and implements every micro-op against them.
type Controller struct {
	plane       *bitplane.Plane
	regs        *register.File
	cap         *capacitor.Model
	log         accesslog.Log
	shiftPolicy ShiftPolicy
}

// New creates a Controller for a fresh subarray of the given configuration.
func New(cfg Config) *Controller {
	return &Controller{
		plane:       bitplane.New(cfg.Rows, cfg.Cols, cfg.Randomize, cfg.Rng),
		regs:        register.New(cfg.Cols),
		cap:         capacitor.New(cfg.Cols),
		shiftPolicy: cfg.ShiftPolicy,
	}
}

// Rows and Cols report the fixed BitPlane dimensions.
func (c *Controller) Rows() int { return c.plane.Rows() }
func (c *Controller) Cols() int { return c.plane.Cols() }

// AccessLog exposes the AccessLog read-only, for diagnostics and tests.
func (c *Controller) AccessLog() []string { return c.log.Entries() }

func negate(v []bool) []bool {
	out := make([]bool, len(v))
	for i, b := range v {
		out[i] = !b
	}
	return out
}

// ReadRow copies row r of the BitPlane into SA. If dcc is true every bit
// is inverted en route. If the capacitor model is armed, its override
// rule modulates the bits written to SA. Clears enabled.
func (c *Controller) ReadRow(r int, dcc bool) error {
	row, err := c.plane.ReadRow(r)
	if err != nil {
		c.log.Append(fmt.Sprintf("Failed readRow: rowIndex = %d (out of bounds)", r))
		fmt.Fprintf(os.Stderr, "PIM-Error: Out-of-boundary subarray row read: index = %d, numRows = %d\n", r, c.plane.Rows())
		return err
	}
	if dcc {
		row = negate(row)
	}
	if c.cap.Enabled() {
		row, err = c.cap.Override(row)
		if err != nil {
			return err
		}
		c.cap.Disarm()
	}
	c.regs.Put(SA, row)
	c.log.Append(fmt.Sprintf("readRow: rowIndex = %d", r))
	return nil
}

// WriteRow copies SA into row r (optionally negated). Clears enabled.
func (c *Controller) WriteRow(r int, dcc bool) error {
	sa, _ := c.regs.Get(SA)
	if dcc {
		sa = negate(sa)
	}
	if err := c.plane.WriteRow(r, sa); err != nil {
		c.log.Append(fmt.Sprintf("Failed writeRow: rowIndex = %d (out of bounds)", r))
		fmt.Fprintf(os.Stderr, "PIM-Error: Out-of-boundary subarray row write: index = %d, numRows = %d\n", r, c.plane.Rows())
		return err
	}
	c.cap.Disarm()
	c.log.Append(fmt.Sprintf("writeRow: rowIndex = %d", r))
	return nil
}

// ReadCol populates ColumnSenseAmps from column c. Does not interact with
// the capacitor model.
func (c *Controller) ReadCol(col int) error {
	if _, err := c.plane.ReadCol(col); err != nil {
		c.log.Append(fmt.Sprintf("Failed readCol: colIndex = %d (out of bounds)", col))
		fmt.Fprintf(os.Stderr, "PIM-Error: Out-of-boundary subarray column read: index = %d, numCols = %d\n", col, c.plane.Cols())
		return err
	}
	c.log.Append(fmt.Sprintf("readCol: colIndex = %d", col))
	return nil
}

// WriteCol writes ColumnSenseAmps back to column c. Does not interact with
// the capacitor model.
func (c *Controller) WriteCol(col int) error {
	if err := c.plane.WriteCol(col); err != nil {
		c.log.Append(fmt.Sprintf("Failed writeCol: colIndex = %d (out of bounds)", col))
		fmt.Fprintf(os.Stderr, "PIM-Error: Out-of-boundary subarray column write: index = %d, numCols = %d\n", col, c.plane.Cols())
		return err
	}
	c.log.Append(fmt.Sprintf("writeCol: colIndex = %d", col))
	return nil
}

func logEntryForRows(op string, rows []RowSpec) string {
	var sb strings.Builder
	sb.WriteString(op)
	sb.WriteString(": indices = ")
	for _, r := range rows {
		fmt.Fprintf(&sb, "(%d, dualContact=%t) ", r.Index, r.DCC)
	}
	return sb.String()
}

// ReadMultiRows computes, for each column, the majority of the
// (possibly-negated) values across the listed rows and overwrites all
// listed rows and SA with that majority value. The list must be odd-sized.
// With exactly one row, an armed capacitor model still applies as in
// ReadRow; with more than one row, an armed capacitor model is an error.
// Clears enabled.
func (c *Controller) ReadMultiRows(rows []RowSpec) error {
	logEntry := logEntryForRows("readMultiRows", rows)
	if len(rows)%2 == 0 {
		c.log.Append(logEntry + " - Failed (even number of rows)")
		fmt.Fprintln(os.Stderr, "PIM-Error: Behavior of simultaneously reading even number of rows is undefined")
		return status.Error{Status: status.InvalidShape, Reason: "even number of rows"}
	}
	for _, r := range rows {
		if r.Index < 0 || r.Index >= c.plane.Rows() {
			c.log.Append(fmt.Sprintf("%s - Failed (index %d out of bounds)", logEntry, r.Index))
			fmt.Fprintf(os.Stderr, "PIM-Error: Out-of-boundary subarray multi-row read: idx = %d, numRows = %d\n", r.Index, c.plane.Rows())
			return status.Error{Status: status.OutOfBounds, Reason: "multi-row read index out of range"}
		}
	}
	if c.cap.Enabled() && len(rows) > 1 {
		c.log.Append(logEntry + " - Failed (undefined after APP)")
		fmt.Fprintln(os.Stderr, "PIM-Error: Multi-row read while APP is armed is undefined")
		return status.Error{Status: status.UndefinedAfterAPP, Reason: "multi-row read while capacitor model armed"}
	}
	c.log.Append(logEntry)

	cols := c.plane.Cols()
	maj := make([]bool, cols)
	for col := 0; col < cols; col++ {
		sum := 0
		for _, r := range rows {
			v := c.plane.Bit(r.Index, col)
			if r.DCC {
				v = !v
			}
			if v {
				sum++
			}
		}
		maj[col] = sum > len(rows)/2
	}
	if c.cap.Enabled() {
		var err error
		maj, err = c.cap.Override(maj)
		if err != nil {
			return err
		}
	}
	for _, r := range rows {
		for col := 0; col < cols; col++ {
			v := maj[col]
			if r.DCC {
				v = !v
			}
			c.plane.SetBitUnsafe(r.Index, col, v)
		}
	}
	c.regs.Put(SA, maj)
	c.cap.Disarm()
	return nil
}

// WriteMultiRows writes SA (optionally per-row negated) into every listed
// row. No majority semantics -- SA already carries the intended value.
// Clears enabled.
func (c *Controller) WriteMultiRows(rows []RowSpec) error {
	logEntry := logEntryForRows("writeMultiRows", rows)
	for _, r := range rows {
		if r.Index < 0 || r.Index >= c.plane.Rows() {
			c.log.Append(fmt.Sprintf("%s - Failed (index %d out of bounds)", logEntry, r.Index))
			fmt.Fprintf(os.Stderr, "PIM-Error: Out-of-boundary subarray multi-row read: idx = %d, numRows = %d\n", r.Index, c.plane.Rows())
			return status.Error{Status: status.OutOfBounds, Reason: "multi-row write index out of range"}
		}
	}
	c.log.Append(logEntry)
	sa, _ := c.regs.Get(SA)
	for _, r := range rows {
		vec := sa
		if r.DCC {
			vec = negate(sa)
		}
		for col, v := range vec {
			c.plane.SetBitUnsafe(r.Index, col, v)
		}
	}
	c.cap.Disarm()
	return nil
}

// AppAP performs one activate + one precharge of a single row: a
// functional refresh used as the building block inside AppGnd/AppVdd.
func (c *Controller) AppAP(r int, dcc bool) error {
	if err := c.ReadRow(r, dcc); err != nil {
		return err
	}
	return c.WriteRow(r, dcc)
}

// AppGnd performs the APP_GND transition: refreshes row r via AppAP, then
// arms the capacitor model so the next activation of a different row
// realises a column-wise logical OR with row r.
func (c *Controller) AppGnd(r int, dcc bool) error {
	if err := c.AppAP(r, dcc); err != nil {
		return err
	}
	effective, _ := c.regs.Get(SA)
	if err := c.cap.ArmGND(effective); err != nil {
		return err
	}
	c.log.Append(fmt.Sprintf("app_gnd: rowIndex = %d", r))
	return nil
}

// AppVdd performs the symmetric APP_VDD transition, arming the capacitor
// model for a column-wise logical AND with row r on the next activation.
func (c *Controller) AppVdd(r int, dcc bool) error {
	if err := c.AppAP(r, dcc); err != nil {
		return err
	}
	effective, _ := c.regs.Get(SA)
	if err := c.cap.ArmVDD(effective); err != nil {
		return err
	}
	c.log.Append(fmt.Sprintf("app_vdd: rowIndex = %d", r))
	return nil
}

// AP performs "activate k rows simultaneously, then precharge". For k=1
// this is a refresh; for k>1 (odd) rows it produces the in-place majority.
func (c *Controller) AP(rows ...int) error {
	if len(rows) == 1 {
		if err := c.ReadRow(rows[0], false); err != nil {
			return err
		}
		return c.WriteRow(rows[0], false)
	}
	specs := toSpecs(rows)
	if err := c.ReadMultiRows(specs); err != nil {
		return err
	}
	return c.WriteMultiRows(specs)
}

// AAP performs "activate source set, then activate destination set, then
// precharge": the AP majority of sources is computed into SA, then written
// into every destination row.
func (c *Controller) AAP(sources, dests []int) error {
	if len(sources) == 1 && len(dests) == 1 {
		if err := c.ReadRow(sources[0], false); err != nil {
			return err
		}
		return c.WriteRow(dests[0], false)
	}
	if err := c.ReadMultiRows(toSpecs(sources)); err != nil {
		return err
	}
	return c.WriteMultiRows(toSpecs(dests))
}

func toSpecs(rows []int) []RowSpec {
	specs := make([]RowSpec, len(rows))
	for i, r := range rows {
		specs[i] = RowSpec{Index: r}
	}
	return specs
}

// SetSARow sets the SA register directly. Not logged to the AccessLog,
// since it is a host-side setup primitive rather than a subarray access.
func (c *Controller) SetSARow(vals []bool) error {
	if err := c.regs.Put(SA, vals); err != nil {
		fmt.Fprintf(os.Stderr, "PIM-Error: Incorrect data size write to row SAs: size = %d, numCols = %d\n", len(vals), c.plane.Cols())
		return err
	}
	return nil
}

// SetSACol sets the ColumnSenseAmps register directly (set_sa_col).
func (c *Controller) SetSACol(vals []bool) error {
	if err := c.plane.SetSenseAmpCol(vals); err != nil {
		fmt.Fprintf(os.Stderr, "PIM-Error: Incorrect data size write to col SAs: size = %d, numRows = %d\n", len(vals), c.plane.Rows())
		return err
	}
	return nil
}

// Register-file combinators. These are pure (no BitPlane/capacitor
// interaction) and are not recorded to the AccessLog.
func (c *Controller) RegSet(reg Reg, bit bool) error          { return c.regs.Set(reg, bit) }
func (c *Controller) RegMove(dst, src Reg) error              { return c.regs.Move(dst, src) }
func (c *Controller) RegNor(dst, a, b Reg) error              { return c.regs.Nor(dst, a, b) }
func (c *Controller) RegXor(dst, a, b Reg) error              { return c.regs.Xor(dst, a, b) }
func (c *Controller) RegXnor(dst, a, b Reg) error             { return c.regs.Xnor(dst, a, b) }
func (c *Controller) RegAnd(dst, a, b Reg) error              { return c.regs.And(dst, a, b) }
func (c *Controller) RegOr(dst, a, b Reg) error               { return c.regs.Or(dst, a, b) }
func (c *Controller) RegSel(cond, a, b, dst Reg) error        { return c.regs.Sel(cond, a, b, dst) }
func (c *Controller) RegGet(reg Reg) ([]bool, error)          { return c.regs.Get(reg) }

func (c *Controller) shift(n, groupWidth, dir int) error {
	sa, _ := c.regs.Get(SA)
	cols := len(sa)
	gw := groupWidth
	if gw <= 0 || gw > cols {
		gw = cols
	}
	out := make([]bool, cols)
	for g := 0; g < cols; g += gw {
		end := g + gw
		if end > cols {
			end = cols
		}
		gl := end - g
		for i := 0; i < gl; i++ {
			srcI := i - dir*n
			switch c.shiftPolicy {
			case ShiftZeroFill:
				if srcI < 0 || srcI >= gl {
					out[g+i] = false
				} else {
					out[g+i] = sa[g+srcI]
				}
			default: // ShiftWrap
				srcI = ((srcI % gl) + gl) % gl
				out[g+i] = sa[g+srcI]
			}
		}
	}
	return c.regs.Put(SA, out)
}

// ColGrpShiftR shifts the SA register right by n columns within each
// column group of groupWidth columns (the full row if groupWidth <= 0),
// per the boundary policy configured at construction.
func (c *Controller) ColGrpShiftR(n, groupWidth int) error { return c.shift(n, groupWidth, 1) }

// ColGrpShiftL shifts the SA register left by n columns, symmetric to
// ColGrpShiftR.
func (c *Controller) ColGrpShiftL(n, groupWidth int) error { return c.shift(n, groupWidth, -1) }

// Dump renders the subarray contents in a stable, testable text format:
// one line per row (5-digit index, column SA bit, row contents), a
// `+`-marked header/footer every 8 columns, and a trailing SA line.
func (c *Controller) Dump() string {
	var sb strings.Builder
	cols := c.plane.Cols()
	ruler := func() string {
		var r strings.Builder
		for col := 0; col < cols; col++ {
			if col%8 == 0 {
				r.WriteByte('+')
			} else {
				r.WriteByte('-')
			}
		}
		return r.String()
	}()

	fmt.Fprintf(&sb, "  Row S %s\n", ruler)
	saCol := c.plane.SenseAmpCol()
	for r := 0; r < c.plane.Rows(); r++ {
		row, _ := c.plane.ReadRow(r)
		fmt.Fprintf(&sb, "%5d %s ", r, boolChar(saCol[r]))
		for _, v := range row {
			sb.WriteString(boolChar(v))
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "        %s\n", ruler)
	sa, _ := c.regs.Get(SA)
	sb.WriteString("     SA ")
	for _, v := range sa {
		sb.WriteString(boolChar(v))
	}
	sb.WriteString("\n")
	return sb.String()
}

func boolChar(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// DumpAccessLog renders the AccessLog the way pimCore.cpp's
// printMemoryAccess does.
func (c *Controller) DumpAccessLog() string {
	return c.log.Dump()
}
