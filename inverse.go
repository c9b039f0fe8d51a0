package apreal

import (
	"context"
	"math"
	"math/big"
)

// InverseNode computes 1/a by Newton iteration, caching its result
// (spec.md §4.6).
type InverseNode struct {
	cache
	a             Node
	divisionLimit int
	opMsd         opMsdMemo
}

// NewInverse returns a node for 1/a, folding Inverse(Inverse(x)) -> x
// (spec.md §3). divisionLimit is the binary precision below which a is
// declared indistinguishable from zero.
func NewInverse(a Node, divisionLimit int) Node {
	if inv, ok := a.(*InverseNode); ok {
		return inv.a
	}
	return &InverseNode{a: a, divisionLimit: divisionLimit}
}

func (n *InverseNode) operandMsd(ctx context.Context) (int, error) {
	return n.opMsd.lookup(ctx, n.a, n.divisionLimit)
}

func (n *InverseNode) Evaluate(ctx context.Context, p int) (*Approximation, error) {
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	if err := verifyPrecision(p); err != nil {
		return nil, err
	}
	if v, ok := n.get(p); ok {
		return newApprox(v, p), nil
	}

	opmsd, err := n.operandMsd(ctx)
	if err != nil {
		return nil, err
	}
	if opmsd == Unknown {
		return nil, wrapErr(KindArithmetic, ErrDivideByZero, "denominator indistinguishable from zero below division limit")
	}

	targetBits := abs(opmsd) - p + 32
	if targetBits < 31 {
		targetBits = 31
	}

	// Seed: evaluate a near its own magnitude and take a double-precision
	// reciprocal, giving ~30 correct bits (spec.md §4.6).
	seedEvalPrec := opmsd - 50
	aSeed, err := n.a.Evaluate(ctx, seedEvalPrec)
	if err != nil {
		return nil, err
	}
	af := bigIntToFloat(aSeed.Value)
	if af == 0 {
		return nil, wrapErr(KindArithmetic, ErrDivideByZero, "operand evaluated to zero at seed precision")
	}
	seedFloat := math.Ldexp(1, 79) / af // 2^49/af * 2^30
	zVal := floatToBigInt(seedFloat)
	zPrec := -opmsd + 1 - 30
	bits := 30

	for iter := 0; ; iter++ {
		if iter%16 == 0 {
			if err := checkCancelled(ctx); err != nil {
				return nil, err
			}
		}
		if bits >= targetBits {
			break
		}
		bits *= 2
		if bits > targetBits+8 {
			bits = targetBits + 8
		}
		nextPrec := -opmsd - bits - 4

		aAt, err := n.a.Evaluate(ctx, nextPrec)
		if err != nil {
			return nil, err
		}
		zAtNext := shiftRounded(zVal, zPrec-nextPrec)
		zSq := new(big.Int).Mul(zAtNext, zAtNext) // precision 2*nextPrec
		azSq := new(big.Int).Mul(aAt.Value, zSq)   // precision 3*nextPrec
		azSqAtNext := shiftRounded(azSq, 2*nextPrec)
		twoZ := new(big.Int).Lsh(zAtNext, 1)
		newZVal := new(big.Int).Sub(twoZ, azSqAtNext)

		diff := new(big.Int).Sub(newZVal, zAtNext)
		converged := diff.CmpAbs(big.NewInt(1<<30)) < 0

		zVal, zPrec = newZVal, nextPrec
		if bits >= targetBits && converged {
			break
		}
		if iter > 10000 {
			break
		}
	}

	n.put(zVal, zPrec)
	return newApprox(shiftRounded(zVal, zPrec-p), p), nil
}

func (n *InverseNode) Msd(ctx context.Context, p int) (int, error) {
	if err := checkCancelled(ctx); err != nil {
		return 0, err
	}
	opmsd, err := n.operandMsd(ctx)
	if err != nil {
		return 0, err
	}
	if opmsd == Unknown {
		return 0, wrapErr(KindArithmetic, ErrDivideByZero, "denominator indistinguishable from zero below division limit")
	}
	return -opmsd, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func bigIntToFloat(v *big.Int) float64 {
	f := new(big.Float).SetPrec(64).SetInt(v)
	out, _ := f.Float64()
	return out
}

func floatToBigInt(f float64) *big.Int {
	bf := new(big.Float).SetPrec(64).SetFloat64(f)
	out, _ := bf.Int(nil)
	if out == nil {
		return big.NewInt(0)
	}
	return out
}
