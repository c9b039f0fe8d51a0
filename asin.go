package apreal

import (
	"context"
	"math"
	"math/big"
	"sync"
)

// AsinNode computes asin(a), rejecting out-of-domain operands and
// reducing arguments close to ±1 via the half-angle identity before
// handing off to the Newton kernel (spec.md §4.8.5).
type AsinNode struct {
	mu       sync.Mutex
	a        Node
	settings *Settings
	delegate Node
}

// NewAsin returns a node for asin(a).
func NewAsin(a Node, settings *Settings) Node {
	return &AsinNode{a: a, settings: settings}
}

func (n *AsinNode) ensureDelegate(ctx context.Context) (Node, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.delegate != nil {
		return n.delegate, nil
	}
	d, err := buildAsinReduction(ctx, n.a, n.settings)
	if err != nil {
		return nil, err
	}
	n.delegate = d
	return d, nil
}

func (n *AsinNode) Evaluate(ctx context.Context, p int) (*Approximation, error) {
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	d, err := n.ensureDelegate(ctx)
	if err != nil {
		return nil, err
	}
	return d.Evaluate(ctx, p)
}

func (n *AsinNode) Msd(ctx context.Context, p int) (int, error) {
	if err := checkCancelled(ctx); err != nil {
		return 0, err
	}
	d, err := n.ensureDelegate(ctx)
	if err != nil {
		return 0, err
	}
	return d.Msd(ctx, p)
}

func buildAsinReduction(ctx context.Context, a Node, settings *Settings) (Node, error) {
	probe, err := a.Evaluate(ctx, -5)
	if err != nil {
		return nil, err
	}
	oneAtScale := new(big.Int).Lsh(big.NewInt(1), 5)
	if probe.Value.CmpAbs(oneAtScale) > 0 {
		return nil, wrapErr(KindArithmetic, ErrOverflow, "asin argument out of domain")
	}

	m, err := a.Msd(ctx, -1)
	if err != nil {
		return nil, err
	}
	if m == Unknown || m <= -1 {
		return newAsinKernel(a), nil
	}

	xSq := NewMultiply(a, a)
	cosTheta := NewSqrt(NewAdd(NewIntegerInt64(1), NewNegate(xSq)))
	denom := NewSqrt(NewAdd(NewIntegerInt64(2), NewShift(cosTheta, 1)))
	reducedArg := NewMultiply(a, NewInverse(denom, settings.DivisionLimit))

	inner, err := buildAsinReduction(ctx, reducedArg, settings)
	if err != nil {
		return nil, err
	}
	return NewShift(inner, 1), nil
}

// asinKernelNode solves sin(z) = a for z by Newton iteration over z in
// [-π/2, π/2], using self-contained fixed-point sin/cos series rather
// than going through the Node graph (spec.md §4.8.5).
type asinKernelNode struct {
	cache
	a Node
}

func newAsinKernel(a Node) Node { return &asinKernelNode{a: a} }

// sinFixed returns sin(x * 2^q) as a fixed-point value at scale q.
func sinFixed(x *big.Int, q int) *big.Int {
	xSq := shiftNoRound(new(big.Int).Mul(x, x), q)
	term := new(big.Int).Set(x)
	sum := new(big.Int).Set(term)
	for k := int64(1); k < 1_000_000; k++ {
		prod := shiftNoRound(new(big.Int).Mul(term, xSq), q)
		denom := big.NewInt(2*k * (2*k + 1))
		term = new(big.Int).Neg(new(big.Int).Quo(prod, denom))
		if term.Sign() == 0 {
			break
		}
		sum.Add(sum, term)
	}
	return sum
}

// cosFixed returns cos(x * 2^q) as a fixed-point value at scale q.
func cosFixed(x *big.Int, q int) *big.Int {
	xSq := shiftNoRound(new(big.Int).Mul(x, x), q)
	term := shiftNoRound(big.NewInt(1), -q)
	sum := new(big.Int).Set(term)
	for k := int64(1); k < 1_000_000; k++ {
		prod := shiftNoRound(new(big.Int).Mul(term, xSq), q)
		denom := big.NewInt((2*k - 1) * (2 * k))
		term = new(big.Int).Neg(new(big.Int).Quo(prod, denom))
		if term.Sign() == 0 {
			break
		}
		sum.Add(sum, term)
	}
	return sum
}

func (n *asinKernelNode) Evaluate(ctx context.Context, p int) (*Approximation, error) {
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	if err := verifyPrecision(p); err != nil {
		return nil, err
	}
	if v, ok := n.get(p); ok {
		return newApprox(v, p), nil
	}

	seedPrec := -40
	aSeed, err := n.a.Evaluate(ctx, seedPrec)
	if err != nil {
		return nil, err
	}
	af := bigIntToFloat(aSeed.Value) * math.Pow(2, float64(seedPrec))
	if af > 1 {
		af = 1
	}
	if af < -1 {
		af = -1
	}

	zPrec := -30
	zVal := floatToBigInt(math.Asin(af) * math.Pow(2, 30))
	bits := 30

	targetBits := -p + 32
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
		nextPrec := -bits - 4

		aAt, err := n.a.Evaluate(ctx, nextPrec)
		if err != nil {
			return nil, err
		}
		zAtNext := shiftRounded(zVal, zPrec-nextPrec)
		sinZ := sinFixed(zAtNext, nextPrec)
		cosZ := cosFixed(zAtNext, nextPrec)
		if cosZ.Sign() == 0 {
			break
		}
		diff := new(big.Int).Sub(aAt.Value, sinZ)
		numerator := new(big.Int).Lsh(diff, uint(-nextPrec))
		ratio := divRound(numerator, cosZ)
		newZVal := new(big.Int).Add(zAtNext, ratio)

		diffZ := new(big.Int).Sub(newZVal, zAtNext)
		converged := diffZ.CmpAbs(big.NewInt(1<<30)) < 0

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

func (n *asinKernelNode) Msd(ctx context.Context, p int) (int, error) {
	if err := checkCancelled(ctx); err != nil {
		return 0, err
	}
	if m, ok := n.cachedMsd(); ok {
		return m, nil
	}
	return genericMsdSearch(ctx, n, p)
}
