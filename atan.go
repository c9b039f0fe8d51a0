package apreal

import (
	"context"
	"math/big"
	"sync"
)

// AtanNode computes atan(a), reducing large arguments via the
// half-angle identity atan(x) = 2 atan(x / (1 + sqrt(1+x^2))) before
// handing off to the Taylor kernel (spec.md §4.8.4).
type AtanNode struct {
	mu       sync.Mutex
	a        Node
	settings *Settings
	delegate Node
}

// NewAtan returns a node for atan(a).
func NewAtan(a Node, settings *Settings) Node {
	return &AtanNode{a: a, settings: settings}
}

func (n *AtanNode) ensureDelegate(ctx context.Context) (Node, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.delegate != nil {
		return n.delegate, nil
	}
	d, err := buildAtanReduction(ctx, n.a, n.settings)
	if err != nil {
		return nil, err
	}
	n.delegate = d
	return d, nil
}

func (n *AtanNode) Evaluate(ctx context.Context, p int) (*Approximation, error) {
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	d, err := n.ensureDelegate(ctx)
	if err != nil {
		return nil, err
	}
	return d.Evaluate(ctx, p)
}

func (n *AtanNode) Msd(ctx context.Context, p int) (int, error) {
	if err := checkCancelled(ctx); err != nil {
		return 0, err
	}
	d, err := n.ensureDelegate(ctx)
	if err != nil {
		return 0, err
	}
	return d.Msd(ctx, p)
}

func buildAtanReduction(ctx context.Context, a Node, settings *Settings) (Node, error) {
	m, err := a.Msd(ctx, -1)
	if err != nil {
		return nil, err
	}
	if m == Unknown || m <= -1 {
		return newAtanKernel(a), nil
	}

	xSq := NewMultiply(a, a)
	onePlusXSq := NewAdd(NewIntegerInt64(1), xSq)
	sq := NewSqrt(onePlusXSq)
	denom := NewAdd(NewIntegerInt64(1), sq)
	reduced := NewMultiply(a, NewInverse(denom, settings.DivisionLimit))

	inner, err := buildAtanReduction(ctx, reduced, settings)
	if err != nil {
		return nil, err
	}
	return NewShift(inner, 1), nil
}

// atanKernelNode is the alternating Taylor series Σ (-1)^k x^(2k+1)/(2k+1)
// for an argument already reduced below magnitude 1 (spec.md §4.8.4).
type atanKernelNode struct {
	cache
	a Node
}

func newAtanKernel(a Node) Node { return &atanKernelNode{a: a} }

func (n *atanKernelNode) Evaluate(ctx context.Context, p int) (*Approximation, error) {
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	if err := verifyPrecision(p); err != nil {
		return nil, err
	}
	if v, ok := n.get(p); ok {
		return newApprox(v, p), nil
	}

	q := p - 16
	if q > -16 {
		q = -16
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
		step := shiftNoRound(new(big.Int).Mul(term, xSq), q)
		scaled := new(big.Int).Mul(step, big.NewInt(2*k-1))
		term = new(big.Int).Neg(divRound(scaled, big.NewInt(2*k+1)))
		if term.Sign() == 0 {
			break
		}
		sum.Add(sum, term)
	}

	n.put(sum, q)
	return newApprox(shiftRounded(sum, q-p), p), nil
}

func (n *atanKernelNode) Msd(ctx context.Context, p int) (int, error) {
	if err := checkCancelled(ctx); err != nil {
		return 0, err
	}
	if m, ok := n.cachedMsd(); ok {
		return m, nil
	}
	return genericMsdSearch(ctx, n, p)
}
