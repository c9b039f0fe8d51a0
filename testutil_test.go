package apreal

import (
	"context"
	"math/big"
	"testing"
)

// evalFloat evaluates n at precision p and converts the result to a
// float64 for approximate comparison against math package constants.
func evalFloat(t *testing.T, n Node, p int) float64 {
	t.Helper()
	a, err := n.Evaluate(context.Background(), p)
	if err != nil {
		t.Fatalf("Evaluate(%d) error: %v", p, err)
	}
	mant := new(big.Float).SetPrec(200).SetInt(a.Value)
	scaled := new(big.Float).SetPrec(200).SetMantExp(mant, p)
	out, _ := scaled.Float64()
	return out
}

func bgCtx() context.Context { return context.Background() }

func approxEqual(got, want, tol float64) bool {
	d := got - want
	if d < 0 {
		d = -d
	}
	return d <= tol
}
