package apreal

import (
	"context"
	"math/big"
	"sync"
)

// SinNode computes sin(a), reducing the argument via the triple-angle
// identity before handing off to the Taylor kernel (spec.md §4.8.3).
type SinNode struct {
	mu       sync.Mutex
	a        Node
	settings *Settings
	delegate Node
}

// NewSin returns a node for sin(a).
func NewSin(a Node, settings *Settings) Node {
	return &SinNode{a: a, settings: settings}
}

func (n *SinNode) ensureDelegate(ctx context.Context) (Node, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.delegate != nil {
		return n.delegate, nil
	}
	d, err := buildSinReduction(ctx, n.a, n.settings)
	if err != nil {
		return nil, err
	}
	n.delegate = d
	return d, nil
}

func (n *SinNode) Evaluate(ctx context.Context, p int) (*Approximation, error) {
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	d, err := n.ensureDelegate(ctx)
	if err != nil {
		return nil, err
	}
	return d.Evaluate(ctx, p)
}

func (n *SinNode) Msd(ctx context.Context, p int) (int, error) {
	if err := checkCancelled(ctx); err != nil {
		return 0, err
	}
	d, err := n.ensureDelegate(ctx)
	if err != nil {
		return 0, err
	}
	return d.Msd(ctx, p)
}

// buildSinReduction folds sin(a) = 3 sin(a/3) - 4 sin(a/3)^3 whenever
// |a| >= 1, recursively shrinking the argument until the Taylor kernel
// converges quickly (spec.md §4.8.3).
func buildSinReduction(ctx context.Context, a Node, settings *Settings) (Node, error) {
	m, err := a.Msd(ctx, -1)
	if err != nil {
		return nil, err
	}
	if m == Unknown || m <= -1 {
		return newSinKernel(a), nil
	}

	third := NewMultiply(a, NewInverse(NewIntegerInt64(3), settings.DivisionLimit))
	sinThird, err := buildSinReduction(ctx, third, settings)
	if err != nil {
		return nil, err
	}
	threeS := NewMultiply(NewIntegerInt64(3), sinThird)
	cubed := NewMultiply(NewMultiply(sinThird, sinThird), sinThird)
	fourCubed := NewMultiply(NewIntegerInt64(4), cubed)
	return NewAdd(threeS, NewNegate(fourCubed)), nil
}

// sinKernelNode is the alternating Taylor series Σ (-1)^k x^(2k+1)/(2k+1)!
// for an argument already reduced below magnitude 1 (spec.md §4.8.3).
type sinKernelNode struct {
	cache
	a Node
}

func newSinKernel(a Node) Node { return &sinKernelNode{a: a} }

func (n *sinKernelNode) Evaluate(ctx context.Context, p int) (*Approximation, error) {
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

	x, err := n.a.Evaluate(ctx, q)
	if err != nil {
		return nil, err
	}
	xSq := shiftNoRound(new(big.Int).Mul(x.Value, x.Value), q)

	term := new(big.Int).Set(x.Value)
	sum := new(big.Int).Set(term)

	for k := int64(1); k < 1_000_000; k++ {
		if k%16 == 0 {
			if err := checkCancelled(ctx); err != nil {
				return nil, err
			}
		}
		prod := shiftNoRound(new(big.Int).Mul(term, xSq), q)
		denom := big.NewInt(2*k * (2*k + 1))
		term = new(big.Int).Neg(new(big.Int).Quo(prod, denom))
		if term.Sign() == 0 {
			break
		}
		sum.Add(sum, term)
	}

	n.put(sum, q)
	return newApprox(shiftRounded(sum, q-p), p), nil
}

func (n *sinKernelNode) Msd(ctx context.Context, p int) (int, error) {
	if err := checkCancelled(ctx); err != nil {
		return 0, err
	}
	if m, ok := n.cachedMsd(); ok {
		return m, nil
	}
	return genericMsdSearch(ctx, n, p)
}
