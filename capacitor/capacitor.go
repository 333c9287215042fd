// Package capacitor implements the BitlineCapacitorModel entity: a
// per-column tri-valued charge state that retains residual charge between
// an APP (activate-pseudo-precharge) and the next activation, realising
// SIMDRAM's in-DRAM logical OR/AND trick.
package capacitor

import "github.com/YingmingMa/pimcore/status"

// ChargeState is the tri-valued bitline charge level held per column.
type ChargeState int

const (
	GND      ChargeState = iota // Bitline fully discharged.
	VDDHalf                     // Bitline at half-rail: the next activation dominates.
	VDD                         // Bitline fully charged.
)

// Model tracks the residual bitline charge per column between an APP
// (activate-pseudo-precharge) and the next activation. It is initialized
// with cap[c] = VDDHalf for all columns and enabled = false.
type Model struct {
	cap     []ChargeState
	enabled bool
}

// New creates a Model for the given number of columns.
func New(cols int) *Model {
	m := &Model{cap: make([]ChargeState, cols)}
	for c := range m.cap {
		m.cap[c] = VDDHalf
	}
	return m
}

// Enabled reports whether an APP is currently armed.
func (m *Model) Enabled() bool { return m.enabled }

// Disarm clears the enabled flag. It is a no-op if already cleared.
// Callers invoke this after any op that the spec says clears `enabled`:
// any non-APP write, any multi-row read with more than one row, or the
// single read/write that consumes an armed APP.
func (m *Model) Disarm() { m.enabled = false }

// ArmGND performs the APP_GND transition: for each
// column, the "1-side" is left charged (VDD) and the "0-side" is only
// pulled to half-rail (VDDHalf); enabled is set. effective holds the
// refreshed, post-AppAP row values that the arm is computed from.
func (m *Model) ArmGND(effective []bool) error {
	if len(effective) != len(m.cap) {
		return status.Error{Status: status.SizeMismatch, Reason: "capacitor arm vector length mismatch"}
	}
	for c, v := range effective {
		if v {
			m.cap[c] = VDD
		} else {
			m.cap[c] = VDDHalf
		}
	}
	m.enabled = true
	return nil
}

// ArmVDD performs the symmetric APP_VDD transition: value-0 columns are
// left at GND, value-1 columns are pulled to half-rail; enabled is set.
func (m *Model) ArmVDD(effective []bool) error {
	if len(effective) != len(m.cap) {
		return status.Error{Status: status.SizeMismatch, Reason: "capacitor arm vector length mismatch"}
	}
	for c, v := range effective {
		if v {
			m.cap[c] = VDDHalf
		} else {
			m.cap[c] = GND
		}
	}
	m.enabled = true
	return nil
}

// Override applies the armed capacitor state to a freshly activated row.
// For each column, if cap[c] == VDDHalf the new cell's (already
// dcc-negated) value wins; otherwise the residual charge wins
// (cap[c] == VDD reads as 1, cap[c] == GND reads as 0). It does not
// itself clear `enabled` -- callers must call Disarm once the read or
// write that consumed the arm has completed.
func (m *Model) Override(newVals []bool) ([]bool, error) {
	if len(newVals) != len(m.cap) {
		return nil, status.Error{Status: status.SizeMismatch, Reason: "capacitor override vector length mismatch"}
	}
	out := make([]bool, len(m.cap))
	for c := range m.cap {
		if m.cap[c] == VDDHalf {
			out[c] = newVals[c]
		} else {
			out[c] = m.cap[c] == VDD
		}
	}
	return out, nil
}
