package apreal

import (
	"math/big"
	"testing"
)

func TestShiftNoRound(t *testing.T) {
	cases := []struct {
		k    int64
		n    int
		want int64
	}{
		{5, 0, 5},
		{5, 2, 20},
		{20, -2, 5},
		{-20, -2, -5},
		{7, -2, 1}, // truncates toward -inf: 7>>2 = 1
		{-7, -2, -2},
	}
	for _, c := range cases {
		got := shiftNoRound(big.NewInt(c.k), c.n)
		if got.Int64() != c.want {
			t.Errorf("shiftNoRound(%d,%d) = %d, want %d", c.k, c.n, got.Int64(), c.want)
		}
	}
}

func TestShiftRoundedHalfUp(t *testing.T) {
	// shiftRounded biases by +1 before the arithmetic (floor) shift, so
	// exact ties round up rather than away from zero: round(3/2)=2 but
	// round(-3/2)=-1, not -2.
	cases := []struct {
		k    int64
		n    int
		want int64
	}{
		{3, -1, 2},
		{-3, -1, -1},
		{4, -1, 2},
	}
	for _, c := range cases {
		got := shiftRounded(big.NewInt(c.k), c.n)
		if got.Int64() != c.want {
			t.Errorf("shiftRounded(%d,%d) = %d, want %d", c.k, c.n, got.Int64(), c.want)
		}
	}
}

func TestMsdOfPositive(t *testing.T) {
	a := newApprox(big.NewInt(8), 0) // 8 = 2^3, bitlen 4 -> msd = 0+4-1 = 3
	if m := msdOf(a); m != 3 {
		t.Errorf("msdOf(8) = %d, want 3", m)
	}
}

func TestMsdOfNegativePowerOfTwo(t *testing.T) {
	// -8 is an exact power of two in magnitude: two's-complement needs one
	// fewer magnitude bit than +8 does.
	a := newApprox(big.NewInt(-8), 0)
	if m := msdOf(a); m != 2 {
		t.Errorf("msdOf(-8) = %d, want 2", m)
	}
}

func TestMsdOfNegativeNonPowerOfTwo(t *testing.T) {
	a := newApprox(big.NewInt(-9), 0) // bitlen(9)=4 -> msd = 0+4-1 = 3
	if m := msdOf(a); m != 3 {
		t.Errorf("msdOf(-9) = %d, want 3", m)
	}
}

func TestMsdOfZeroIsUnknown(t *testing.T) {
	a := newApprox(big.NewInt(0), -10)
	if m := msdOf(a); m != Unknown {
		t.Errorf("msdOf(0) = %d, want Unknown", m)
	}
}

func TestVerifyPrecisionRejectsOutOfRange(t *testing.T) {
	if err := verifyPrecision(MinPrecision - 1); err == nil {
		t.Error("expected error for precision below MinPrecision")
	}
	if err := verifyPrecision(MaxPrecision + 1); err == nil {
		t.Error("expected error for precision above MaxPrecision")
	}
	if err := verifyPrecision(0); err != nil {
		t.Errorf("unexpected error for precision 0: %v", err)
	}
}
