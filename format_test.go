package apreal

import (
	"strings"
	"testing"
)

func TestToStringFixedInteger(t *testing.T) {
	got, err := ToString(bgCtx(), NewIntegerInt64(42), 0, false, false)
	if err != nil {
		t.Fatalf("ToString error: %v", err)
	}
	if got != "42" {
		t.Errorf("ToString(42,0) = %q, want %q", got, "42")
	}
}

func TestToStringFixedFraction(t *testing.T) {
	half := NewInverse(NewIntegerInt64(2), DefaultDivisionLimit)
	got, err := ToString(bgCtx(), half, 4, false, false)
	if err != nil {
		t.Fatalf("ToString error: %v", err)
	}
	if got != "0.5000" {
		t.Errorf("ToString(1/2,4) = %q, want %q", got, "0.5000")
	}
}

func TestToStringNegative(t *testing.T) {
	got, err := ToString(bgCtx(), NewIntegerInt64(-7), 2, false, false)
	if err != nil {
		t.Fatalf("ToString error: %v", err)
	}
	if got != "-7.00" {
		t.Errorf("ToString(-7,2) = %q, want %q", got, "-7.00")
	}
}

func TestToStringHex(t *testing.T) {
	got, err := ToString(bgCtx(), NewIntegerInt64(255), 0, false, true)
	if err != nil {
		t.Fatalf("ToString error: %v", err)
	}
	if got != "0xff" {
		t.Errorf("ToString(255,0,hex) = %q, want %q", got, "0xff")
	}
}

func TestToStringScientific(t *testing.T) {
	got, err := ToString(bgCtx(), NewIntegerInt64(12345), 0, true, false)
	if err != nil {
		t.Fatalf("ToString error: %v", err)
	}
	if !strings.HasPrefix(got, "1.2345e+4") {
		t.Errorf("ToString(12345,sci) = %q, want prefix %q", got, "1.2345e+4")
	}
}

func TestToStringScientificSmall(t *testing.T) {
	oneOverEight := NewInverse(NewIntegerInt64(8), DefaultDivisionLimit)
	got, err := ToString(bgCtx(), oneOverEight, 6, true, false)
	if err != nil {
		t.Fatalf("ToString error: %v", err)
	}
	if !strings.HasPrefix(got, "1.25e-1") {
		t.Errorf("ToString(1/8,sci) = %q, want prefix %q", got, "1.25e-1")
	}
}
