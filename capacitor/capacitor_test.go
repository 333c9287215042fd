package capacitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitialStateIsHalfRailAndDisarmed(t *testing.T) {
	m := New(4)
	assert.False(t, m.Enabled())
	for c := 0; c < 4; c++ {
		assert.Equal(t, VDDHalf, m.cap[c])
	}
}

func TestArmGNDSetsOneSideVDD(t *testing.T) {
	m := New(4)
	if err := m.ArmGND([]bool{true, false, true, false}); err != nil {
		t.Fatalf("ArmGND: %v", err)
	}
	assert.True(t, m.Enabled())
	assert.Equal(t, []ChargeState{VDD, VDDHalf, VDD, VDDHalf}, m.cap)
}

func TestArmVDDSetsOneSideGND(t *testing.T) {
	m := New(4)
	if err := m.ArmVDD([]bool{true, false, true, false}); err != nil {
		t.Fatalf("ArmVDD: %v", err)
	}
	assert.True(t, m.Enabled())
	assert.Equal(t, []ChargeState{VDDHalf, GND, VDDHalf, GND}, m.cap)
}

// TestOverrideRealisesOR checks that after ArmGND(a), overriding with row
// b's values yields the column-wise OR of a and b -- the SIMDRAM OR trick.
func TestOverrideRealisesOR(t *testing.T) {
	a := []bool{true, true, false, false}
	b := []bool{true, false, true, false}
	m := New(4)
	if err := m.ArmGND(a); err != nil {
		t.Fatalf("ArmGND: %v", err)
	}
	got, err := m.Override(b)
	if err != nil {
		t.Fatalf("Override: %v", err)
	}
	for c := range a {
		want := a[c] || b[c]
		assert.Equalf(t, want, got[c], "column %d", c)
	}
}

// TestOverrideRealisesAND checks that after ArmVDD(a), overriding with row
// b's values yields the column-wise AND of a and b.
func TestOverrideRealisesAND(t *testing.T) {
	a := []bool{true, true, false, false}
	b := []bool{true, false, true, false}
	m := New(4)
	if err := m.ArmVDD(a); err != nil {
		t.Fatalf("ArmVDD: %v", err)
	}
	got, err := m.Override(b)
	if err != nil {
		t.Fatalf("Override: %v", err)
	}
	for c := range a {
		want := a[c] && b[c]
		assert.Equalf(t, want, got[c], "column %d", c)
	}
}

func TestDisarmClearsEnabled(t *testing.T) {
	m := New(2)
	if err := m.ArmGND([]bool{true, false}); err != nil {
		t.Fatalf("ArmGND: %v", err)
	}
	m.Disarm()
	assert.False(t, m.Enabled())
}

func TestArmVectorLengthMismatch(t *testing.T) {
	m := New(4)
	if err := m.ArmGND([]bool{true, false}); err == nil {
		t.Errorf("expected error for short arm vector")
	}
}
