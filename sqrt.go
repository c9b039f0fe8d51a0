package apreal

import (
	"context"
	"math"
	"math/big"
)

// SqrtNode computes sqrt(a) by Newton iteration with doubling precision,
// caching its result (spec.md §4.7).
type SqrtNode struct {
	cache
	a Node
}

// NewSqrt returns a node for sqrt(a).
func NewSqrt(a Node) Node { return &SqrtNode{a: a} }

func (n *SqrtNode) Evaluate(ctx context.Context, p int) (*Approximation, error) {
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	if err := verifyPrecision(p); err != nil {
		return nil, err
	}
	if v, ok := n.get(p); ok {
		return newApprox(v, p), nil
	}

	probe := 2*p - 8
	opmsd, err := n.a.Msd(ctx, probe)
	if err != nil {
		return nil, err
	}
	if opmsd == Unknown || opmsd < probe {
		n.put(big.NewInt(0), p)
		return newApprox(big.NewInt(0), p), nil
	}

	seedPrec := opmsd - 80
	if seedPrec%2 != 0 {
		seedPrec--
	}
	aSeed, err := n.a.Evaluate(ctx, seedPrec)
	if err != nil {
		return nil, err
	}
	if aSeed.Value.Sign() < 0 {
		return nil, wrapErr(KindArithmetic, ErrNegativeSqrt, "sqrt of negative operand")
	}

	seedFloat := math.Sqrt(bigIntToFloat(aSeed.Value))
	zVal := floatToBigInt(seedFloat)
	zPrec := seedPrec / 2
	bits := 40

	resultMsd := floorDiv(opmsd, 2)
	targetBits := resultMsd - p + 32
	if targetBits < 31 {
		targetBits = 31
	}

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
		nextPrec := resultMsd - bits - 4

		aAt, err := n.a.Evaluate(ctx, 2*nextPrec)
		if err != nil {
			return nil, err
		}
		zAtNext := shiftRounded(zVal, zPrec-nextPrec)
		zSq := new(big.Int).Mul(zAtNext, zAtNext) // precision 2*nextPrec, matching aAt
		num := new(big.Int).Add(zSq, aAt.Value)
		denom := new(big.Int).Lsh(zAtNext, 1)
		if denom.Sign() == 0 {
			break
		}
		newZVal := divRound(num, denom)

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

func (n *SqrtNode) Msd(ctx context.Context, p int) (int, error) {
	if err := checkCancelled(ctx); err != nil {
		return 0, err
	}
	if m, ok := n.cachedMsd(); ok {
		return m, nil
	}
	m, err := n.a.Msd(ctx, 2*p)
	if err != nil {
		return 0, err
	}
	if m == Unknown {
		return Unknown, nil
	}
	return floorDiv(m, 2), nil
}
