package apreal

import (
	"context"
	"math/big"
	"sync"
)

// ExpNode computes exp(a). It lazily builds, once under a mutex, a
// subordinate node performing the actual reduction-then-kernel
// computation (spec.md §4.8, §4.8.1).
type ExpNode struct {
	mu       sync.Mutex
	a        Node
	settings *Settings
	delegate Node
}

// NewExp returns a node for exp(a).
func NewExp(a Node, settings *Settings) Node {
	return &ExpNode{a: a, settings: settings}
}

func (n *ExpNode) ensureDelegate(ctx context.Context) (Node, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.delegate != nil {
		return n.delegate, nil
	}
	d, err := buildExpReduction(ctx, n.a, n.settings)
	if err != nil {
		return nil, err
	}
	n.delegate = d
	return d, nil
}

func (n *ExpNode) Evaluate(ctx context.Context, p int) (*Approximation, error) {
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	d, err := n.ensureDelegate(ctx)
	if err != nil {
		return nil, err
	}
	return d.Evaluate(ctx, p)
}

func (n *ExpNode) Msd(ctx context.Context, p int) (int, error) {
	if err := checkCancelled(ctx); err != nil {
		return 0, err
	}
	d, err := n.ensureDelegate(ctx)
	if err != nil {
		return 0, err
	}
	return d.Msd(ctx, p)
}

// buildExpReduction implements the argument reduction of spec.md §4.8.1:
// negative arguments invert exp(-a); large arguments halve-and-square;
// small arguments go through exp(a+1)/e; otherwise the kernel runs
// directly.
func buildExpReduction(ctx context.Context, a Node, settings *Settings) (Node, error) {
	probe, err := a.Evaluate(ctx, -10)
	if err != nil {
		return nil, err
	}
	if probe.Value.Sign() < 0 {
		inner, err := buildExpReduction(ctx, NewNegate(a), settings)
		if err != nil {
			return nil, err
		}
		return NewInverse(inner, settings.DivisionLimit), nil
	}

	upper := new(big.Int).Lsh(big.NewInt(1), 21) // 2^11 at scale -10
	if probe.Value.Cmp(upper) > 0 {
		half := NewShift(a, -1)
		halfExp, err := buildExpReduction(ctx, half, settings)
		if err != nil {
			return nil, err
		}
		return NewMultiply(halfExp, halfExp), nil
	}

	lower := new(big.Int).Lsh(big.NewInt(1), 20) // 2^10 at scale -10
	if probe.Value.Cmp(lower) < 0 {
		aPlus1 := NewAdd(a, NewIntegerInt64(1))
		kernel := newExpKernel(aPlus1)
		invE := settings.Factory().InvE()
		return NewMultiply(kernel, invE), nil
	}

	return newExpKernel(a), nil
}

// expKernelNode is the Taylor/continued-fraction kernel Σ x^k/k! for an
// argument already reduced into a convenient range (spec.md §4.8.1).
type expKernelNode struct {
	cache
	a Node
}

func newExpKernel(a Node) Node { return &expKernelNode{a: a} }

func (n *expKernelNode) Evaluate(ctx context.Context, p int) (*Approximation, error) {
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	if err := verifyPrecision(p); err != nil {
		return nil, err
	}
	if v, ok := n.get(p); ok {
		return newApprox(v, p), nil
	}

	q := p - 64
	if q > -32 {
		q = -32
	}

	x, err := n.a.Evaluate(ctx, q)
	if err != nil {
		return nil, err
	}

	u := shiftNoRound(big.NewInt(1), -q)
	e := new(big.Int).Set(u)

	for k := int64(1); k < 1_000_000; k++ {
		if k%16 == 0 {
			if err := checkCancelled(ctx); err != nil {
				return nil, err
			}
		}
		prod := new(big.Int).Mul(u, x.Value)
		shifted := shiftNoRound(prod, q)
		u = new(big.Int).Quo(shifted, big.NewInt(k))
		if u.Sign() == 0 {
			break
		}
		e.Add(e, u)
	}

	n.put(e, q)
	return newApprox(shiftRounded(e, q-p), p), nil
}

func (n *expKernelNode) Msd(ctx context.Context, p int) (int, error) {
	if err := checkCancelled(ctx); err != nil {
		return 0, err
	}
	if m, ok := n.cachedMsd(); ok {
		return m, nil
	}
	return genericMsdSearch(ctx, n, p)
}
