package apreal

import (
	"context"
	"math/big"
)

// PiNode is the singleton value-caching kernel for π, computed via the
// Brent–Salamin iteration (spec.md §4.9).
type PiNode struct{ cache }

func newPiNode() *PiNode { return &PiNode{} }

// ENode is the singleton value-caching kernel for e, computed via the
// continued-fraction sum Σ 1/k! (spec.md §4.9).
type ENode struct{ cache }

func newENode() *ENode { return &ENode{} }

// roundBigFloat rounds a big.Float to the nearest big.Int, ties away from
// zero (big.Float.Int truncates toward zero, which isn't quite what the
// iterative kernels below need).
func roundBigFloat(f *big.Float) *big.Int {
	half := new(big.Float).SetPrec(f.Prec()).SetFloat64(0.5)
	if f.Sign() >= 0 {
		f = new(big.Float).SetPrec(f.Prec()).Add(f, half)
	} else {
		f = new(big.Float).SetPrec(f.Prec()).Sub(f, half)
	}
	i, _ := f.Int(nil)
	if i == nil {
		return big.NewInt(0)
	}
	return i
}

func (n *PiNode) Evaluate(ctx context.Context, p int) (*Approximation, error) {
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	if err := verifyPrecision(p); err != nil {
		return nil, err
	}
	if v, ok := n.get(p); ok {
		return newApprox(v, p), nil
	}

	wp := 2*p - 32
	bits := uint(-wp) + 64
	if bits < 128 {
		bits = 128
	}

	one := big.NewInt(1)
	aVal := shiftNoRound(one, -wp)

	half := new(big.Float).SetPrec(bits).SetFloat64(0.5)
	bFloat := new(big.Float).SetPrec(bits).Sqrt(half)
	bVal := roundBigFloat(new(big.Float).SetPrec(bits).SetMantExp(bFloat, -wp))

	tVal := shiftNoRound(one, -wp-2) // T = 1/4 at scale wp
	xVal := new(big.Int).Set(aVal)

	thresholdExp := p - 8 - wp
	if thresholdExp < 0 {
		thresholdExp = 0
	}
	threshold := new(big.Int).Lsh(one, uint(thresholdExp))

	for iter := 0; iter < 10000; iter++ {
		if iter%16 == 0 {
			if err := checkCancelled(ctx); err != nil {
				return nil, err
			}
		}
		yVal := new(big.Int).Set(aVal)
		aVal = shiftRounded(new(big.Int).Add(aVal, bVal), -1)

		byVal := new(big.Int).Mul(bVal, yVal)
		byFloat := new(big.Float).SetPrec(bits).SetInt(byVal)
		sqFloat := new(big.Float).SetPrec(bits).Sqrt(byFloat)
		bVal = roundBigFloat(sqFloat)

		diffAY := new(big.Int).Sub(aVal, yVal)
		diffSq := new(big.Int).Mul(diffAY, diffAY)
		xDiffSq := new(big.Int).Mul(xVal, diffSq)
		rescaled := shiftRounded(xDiffSq, 2*wp)
		tVal.Sub(tVal, rescaled)

		xVal.Lsh(xVal, 1)

		diff := new(big.Int).Sub(aVal, bVal)
		if diff.CmpAbs(threshold) < 0 {
			break
		}
	}

	aSq := new(big.Int).Mul(aVal, aVal)
	piVal := divRound(aSq, tVal)

	n.put(piVal, wp)
	return newApprox(shiftRounded(piVal, wp-p), p), nil
}

func (n *PiNode) Msd(ctx context.Context, p int) (int, error) {
	if err := checkCancelled(ctx); err != nil {
		return 0, err
	}
	return 1, nil
}

func (n *ENode) Evaluate(ctx context.Context, p int) (*Approximation, error) {
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	if err := verifyPrecision(p); err != nil {
		return nil, err
	}
	if v, ok := n.get(p); ok {
		return newApprox(v, p), nil
	}

	q := 2 * p
	if q > -64 {
		q = -64
	}

	u := shiftNoRound(big.NewInt(1), -q)
	e := new(big.Int).Set(u)

	for k := int64(1); k < 100000; k++ {
		if k%16 == 0 {
			if err := checkCancelled(ctx); err != nil {
				return nil, err
			}
		}
		u = divRound(u, big.NewInt(k))
		if u.Sign() == 0 {
			break
		}
		e.Add(e, u)
	}

	n.put(e, q)
	return newApprox(shiftRounded(e, q-p), p), nil
}

func (n *ENode) Msd(ctx context.Context, p int) (int, error) {
	if err := checkCancelled(ctx); err != nil {
		return 0, err
	}
	return 1, nil
}
