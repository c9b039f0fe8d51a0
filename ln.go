package apreal

import (
	"context"
	"math"
	"math/big"
	"sync"
)

// LnNode computes ln(a). Like ExpNode it lazily builds a one-shot
// subordinate reduction node under a mutex (spec.md §4.8, §4.8.2).
type LnNode struct {
	mu       sync.Mutex
	a        Node
	settings *Settings
	delegate Node
}

// NewLn returns a node for ln(a).
func NewLn(a Node, settings *Settings) Node {
	return &LnNode{a: a, settings: settings}
}

func (n *LnNode) ensureDelegate(ctx context.Context) (Node, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.delegate != nil {
		return n.delegate, nil
	}
	d, err := buildLnReduction(ctx, n.a, n.settings)
	if err != nil {
		return nil, err
	}
	n.delegate = d
	return d, nil
}

func (n *LnNode) Evaluate(ctx context.Context, p int) (*Approximation, error) {
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	d, err := n.ensureDelegate(ctx)
	if err != nil {
		return nil, err
	}
	return d.Evaluate(ctx, p)
}

func (n *LnNode) Msd(ctx context.Context, p int) (int, error) {
	if err := checkCancelled(ctx); err != nil {
		return 0, err
	}
	d, err := n.ensureDelegate(ctx)
	if err != nil {
		return 0, err
	}
	return d.Msd(ctx, p)
}

// buildLnReduction implements spec.md §4.8.2: reject non-positive
// operands, fold large operands through sqrt (ln a = 2 ln sqrt(a)) and
// small operands through inversion (ln a = -ln(1/a)), and run the
// Newton kernel once a is pinned into a convenient range.
func buildLnReduction(ctx context.Context, a Node, settings *Settings) (Node, error) {
	probe, err := a.Evaluate(ctx, -30)
	if err != nil {
		return nil, err
	}
	if probe.Value.Sign() <= 0 {
		m, err := a.Msd(ctx, -1000)
		if err != nil {
			return nil, err
		}
		if m == Unknown {
			return nil, wrapErr(KindArithmetic, ErrOverflow, "ln of zero")
		}
		confirm, err := a.Evaluate(ctx, m-10)
		if err != nil {
			return nil, err
		}
		if confirm.Value.Sign() <= 0 {
			return nil, wrapErr(KindArithmetic, ErrOverflow, "ln of non-positive operand")
		}
	}

	m, err := a.Msd(ctx, -20)
	if err != nil {
		return nil, err
	}
	if m == Unknown {
		return nil, wrapErr(KindArithmetic, ErrOverflow, "ln of zero")
	}

	if m > 13 {
		inner, err := buildLnReduction(ctx, NewSqrt(a), settings)
		if err != nil {
			return nil, err
		}
		return NewShift(inner, 1), nil
	}
	if m < -13 {
		inner, err := buildLnReduction(ctx, NewInverse(a, settings.DivisionLimit), settings)
		if err != nil {
			return nil, err
		}
		return NewNegate(inner), nil
	}
	return newLnKernel(a), nil
}

// lnKernelNode solves exp(z) = a for z by Newton iteration, z_{n+1} =
// z_n + a*exp(-z_n) - 1, with doubling precision (spec.md §4.8.2).
type lnKernelNode struct {
	cache
	a Node
}

func newLnKernel(a Node) Node { return &lnKernelNode{a: a} }

// expFixed returns a fixed-point approximation, at scale q, of
// exp(x * 2^q), via the same Taylor series expKernelNode uses.
func expFixed(x *big.Int, q int) *big.Int {
	u := shiftNoRound(big.NewInt(1), -q)
	e := new(big.Int).Set(u)
	for k := int64(1); k < 1_000_000; k++ {
		prod := new(big.Int).Mul(u, x)
		shifted := shiftNoRound(prod, q)
		u = new(big.Int).Quo(shifted, big.NewInt(k))
		if u.Sign() == 0 {
			break
		}
		e.Add(e, u)
	}
	return e
}

func (n *lnKernelNode) Evaluate(ctx context.Context, p int) (*Approximation, error) {
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
	if af <= 0 {
		return nil, wrapErr(KindArithmetic, ErrOverflow, "ln of non-positive operand")
	}

	zPrec := -30
	zVal := floatToBigInt(math.Log(af) * math.Pow(2, 30))
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
		negZ := new(big.Int).Neg(zAtNext)
		expNegZ := expFixed(negZ, nextPrec)

		prod := new(big.Int).Mul(aAt.Value, expNegZ) // scale 2*nextPrec
		prodAtNext := shiftRounded(prod, nextPrec)
		one := shiftNoRound(big.NewInt(1), -nextPrec)
		newZVal := new(big.Int).Add(zAtNext, new(big.Int).Sub(prodAtNext, one))

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

func (n *lnKernelNode) Msd(ctx context.Context, p int) (int, error) {
	if err := checkCancelled(ctx); err != nil {
		return 0, err
	}
	if m, ok := n.cachedMsd(); ok {
		return m, nil
	}
	return genericMsdSearch(ctx, n, p)
}
