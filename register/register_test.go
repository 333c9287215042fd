package register

import (
	"testing"

	"github.com/go-test/deep"

	"github.com/YingmingMa/pimcore/status"
)

func bits(s string) []bool {
	out := make([]bool, len(s))
	for i, c := range s {
		out[i] = c == '1'
	}
	return out
}

func TestSetAndMove(t *testing.T) {
	f := New(8)
	if err := f.Set(SA, true); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, _ := f.Get(SA)
	if diff := deep.Equal(got, bits("11111111")); diff != nil {
		t.Errorf("Set(SA, true): %v", diff)
	}
	if err := f.Move(R1, SA); err != nil {
		t.Fatalf("Move: %v", err)
	}
	got, _ = f.Get(R1)
	if diff := deep.Equal(got, bits("11111111")); diff != nil {
		t.Errorf("Move(R1, SA): %v", diff)
	}
}

func TestCombinators(t *testing.T) {
	tests := []struct {
		name string
		op   func(f *File) error
		a, b string
		want string
	}{
		{name: "nor", op: func(f *File) error { return f.Nor(R3, R1, R2) }, a: "1100", b: "1010", want: "0001"},
		{name: "xor", op: func(f *File) error { return f.Xor(R3, R1, R2) }, a: "1100", b: "1010", want: "0110"},
		{name: "xnor", op: func(f *File) error { return f.Xnor(R3, R1, R2) }, a: "1100", b: "1010", want: "1001"},
		{name: "and", op: func(f *File) error { return f.And(R3, R1, R2) }, a: "1100", b: "1010", want: "1000"},
		{name: "or", op: func(f *File) error { return f.Or(R3, R1, R2) }, a: "1100", b: "1010", want: "1110"},
	}
	for _, test := range tests {
		f := New(4)
		if err := f.Put(R1, bits(test.a)); err != nil {
			t.Fatalf("%s: Put a: %v", test.name, err)
		}
		if err := f.Put(R2, bits(test.b)); err != nil {
			t.Fatalf("%s: Put b: %v", test.name, err)
		}
		if err := test.op(f); err != nil {
			t.Fatalf("%s: op: %v", test.name, err)
		}
		got, _ := f.Get(R3)
		if diff := deep.Equal(got, bits(test.want)); diff != nil {
			t.Errorf("%s: got %v, diff %v", test.name, got, diff)
		}
	}
}

func TestSel(t *testing.T) {
	f := New(4)
	if err := f.Put(R1, bits("1010")); err != nil {
		t.Fatalf("Put cond: %v", err)
	}
	if err := f.Put(R2, bits("1111")); err != nil {
		t.Fatalf("Put a: %v", err)
	}
	if err := f.Put(R3, bits("0000")); err != nil {
		t.Fatalf("Put b: %v", err)
	}
	if err := f.Sel(R1, R2, R3, R4); err != nil {
		t.Fatalf("Sel: %v", err)
	}
	got, _ := f.Get(R4)
	if diff := deep.Equal(got, bits("1010")); diff != nil {
		t.Errorf("Sel: %v", diff)
	}
}

func TestUnknownRegister(t *testing.T) {
	f := New(4)
	if _, err := f.Get(regMax); status.Of(err) != status.OutOfBounds {
		t.Errorf("Get(regMax): got status %v, want OutOfBounds", status.Of(err))
	}
	if _, err := f.Get(regUnimplemented); status.Of(err) != status.OutOfBounds {
		t.Errorf("Get(regUnimplemented): got status %v, want OutOfBounds", status.Of(err))
	}
}

func TestPutSizeMismatch(t *testing.T) {
	f := New(4)
	if err := f.Put(SA, bits("101")); status.Of(err) != status.SizeMismatch {
		t.Errorf("Put short vector: got status %v, want SizeMismatch", status.Of(err))
	}
}
