package apreal

import (
	"math"
	"testing"
)

func newTestSettings() *Settings { return NewSettings() }

func TestExpOfZero(t *testing.T) {
	s := newTestSettings()
	n := NewExp(NewZero(), s)
	got := evalFloat(t, n, -40)
	if !approxEqual(got, 1.0, 1e-10) {
		t.Errorf("exp(0) = %v, want 1", got)
	}
}

func TestExpOfOne(t *testing.T) {
	s := newTestSettings()
	n := NewExp(NewIntegerInt64(1), s)
	got := evalFloat(t, n, -50)
	if !approxEqual(got, math.E, 1e-12) {
		t.Errorf("exp(1) = %v, want %v", got, math.E)
	}
}

func TestExpOfNegative(t *testing.T) {
	s := newTestSettings()
	n := NewExp(NewIntegerInt64(-2), s)
	got := evalFloat(t, n, -40)
	if !approxEqual(got, math.Exp(-2), 1e-10) {
		t.Errorf("exp(-2) = %v, want %v", got, math.Exp(-2))
	}
}

func TestExpOfLargeArgument(t *testing.T) {
	s := newTestSettings()
	n := NewExp(NewIntegerInt64(20), s)
	got := evalFloat(t, n, -20)
	if !approxEqual(got, math.Exp(20), math.Exp(20)*1e-10) {
		t.Errorf("exp(20) = %v, want %v", got, math.Exp(20))
	}
}

func TestLnOfOne(t *testing.T) {
	s := newTestSettings()
	n := NewLn(NewIntegerInt64(1), s)
	got := evalFloat(t, n, -40)
	if !approxEqual(got, 0, 1e-10) {
		t.Errorf("ln(1) = %v, want 0", got)
	}
}

func TestLnOfE(t *testing.T) {
	s := newTestSettings()
	n := NewLn(s.Factory().E(), s)
	got := evalFloat(t, n, -40)
	if !approxEqual(got, 1.0, 1e-8) {
		t.Errorf("ln(e) = %v, want 1", got)
	}
}

func TestLnOfLargeArgument(t *testing.T) {
	s := newTestSettings()
	n := NewLn(NewIntegerInt64(100000), s)
	got := evalFloat(t, n, -30)
	if !approxEqual(got, math.Log(100000), 1e-8) {
		t.Errorf("ln(100000) = %v, want %v", got, math.Log(100000))
	}
}

func TestLnOfNonPositiveErrors(t *testing.T) {
	s := newTestSettings()
	n := NewLn(NewIntegerInt64(-5), s)
	_, err := n.Evaluate(bgCtx(), -20)
	if err == nil || !IsKind(err, KindArithmetic) {
		t.Fatalf("expected Arithmetic error for ln(-5), got %v", err)
	}
}

func TestSinOfZero(t *testing.T) {
	s := newTestSettings()
	n := NewSin(NewZero(), s)
	got := evalFloat(t, n, -40)
	if !approxEqual(got, 0, 1e-10) {
		t.Errorf("sin(0) = %v, want 0", got)
	}
}

func TestSinOfHalfPi(t *testing.T) {
	s := newTestSettings()
	halfPi := NewMultiply(s.Factory().Pi(), NewInverse(NewIntegerInt64(2), s.DivisionLimit))
	n := NewSin(halfPi, s)
	got := evalFloat(t, n, -30)
	if !approxEqual(got, 1.0, 1e-8) {
		t.Errorf("sin(pi/2) = %v, want 1", got)
	}
}

func TestSinOfLargeArgument(t *testing.T) {
	s := newTestSettings()
	n := NewSin(NewIntegerInt64(7), s) // |7| >= 1 exercises the triple-angle reduction
	got := evalFloat(t, n, -30)
	if !approxEqual(got, math.Sin(7), 1e-8) {
		t.Errorf("sin(7) = %v, want %v", got, math.Sin(7))
	}
}

func TestAtanOfOne(t *testing.T) {
	s := newTestSettings()
	n := NewAtan(NewIntegerInt64(1), s)
	got := evalFloat(t, n, -40)
	if !approxEqual(got, math.Pi/4, 1e-10) {
		t.Errorf("atan(1) = %v, want %v", got, math.Pi/4)
	}
}

func TestAtanOfLargeArgument(t *testing.T) {
	s := newTestSettings()
	n := NewAtan(NewIntegerInt64(50), s)
	got := evalFloat(t, n, -30)
	if !approxEqual(got, math.Atan(50), 1e-8) {
		t.Errorf("atan(50) = %v, want %v", got, math.Atan(50))
	}
}

func TestAsinOfZero(t *testing.T) {
	s := newTestSettings()
	n := NewAsin(NewZero(), s)
	got := evalFloat(t, n, -40)
	if !approxEqual(got, 0, 1e-10) {
		t.Errorf("asin(0) = %v, want 0", got)
	}
}

func TestAsinOfHalf(t *testing.T) {
	s := newTestSettings()
	half := NewInverse(NewIntegerInt64(2), s.DivisionLimit)
	n := NewAsin(half, s)
	got := evalFloat(t, n, -30)
	if !approxEqual(got, math.Asin(0.5), 1e-8) {
		t.Errorf("asin(0.5) = %v, want %v", got, math.Asin(0.5))
	}
}

func TestAsinOutOfDomainErrors(t *testing.T) {
	s := newTestSettings()
	n := NewAsin(NewIntegerInt64(2), s)
	_, err := n.Evaluate(bgCtx(), -20)
	if err == nil || !IsKind(err, KindArithmetic) {
		t.Fatalf("expected Arithmetic error for asin(2), got %v", err)
	}
}

func TestCosOfZero(t *testing.T) {
	s := newTestSettings()
	n := NewCos(NewZero(), s)
	got := evalFloat(t, n, -30)
	if !approxEqual(got, 1.0, 1e-8) {
		t.Errorf("cos(0) = %v, want 1", got)
	}
}

func TestAcosOfZero(t *testing.T) {
	s := newTestSettings()
	n := NewAcos(NewZero(), s)
	got := evalFloat(t, n, -30)
	if !approxEqual(got, math.Pi/2, 1e-8) {
		t.Errorf("acos(0) = %v, want %v", got, math.Pi/2)
	}
}

func TestTanOfZero(t *testing.T) {
	s := newTestSettings()
	n := NewTan(NewZero(), s)
	got := evalFloat(t, n, -30)
	if !approxEqual(got, 0, 1e-8) {
		t.Errorf("tan(0) = %v, want 0", got)
	}
}
