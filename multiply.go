package apreal

import (
	"context"
	"math/big"
	"sync"
)

// opMsdMemo remembers an operand's MSD once discovered, since an MSD
// estimate never becomes invalid (spec.md §4.2 point 3, §4.5 "a small
// side-cache of known MSDs for each operand").
type opMsdMemo struct {
	mu   sync.Mutex
	val  int
	have bool
}

func (m *opMsdMemo) lookup(ctx context.Context, n Node, p int) (int, error) {
	m.mu.Lock()
	if m.have {
		v := m.val
		m.mu.Unlock()
		return v, nil
	}
	m.mu.Unlock()

	v, err := n.Msd(ctx, p)
	if err != nil {
		return 0, err
	}
	if v != Unknown {
		m.mu.Lock()
		if !m.have {
			m.val, m.have = v, true
		}
		m.mu.Unlock()
	}
	return v, nil
}

// MultiplyNode computes a*b, caching its result (spec.md §4.5).
type MultiplyNode struct {
	cache
	a, b Node
	msdA opMsdMemo
	msdB opMsdMemo
}

// NewMultiply returns a node for a*b, folding the 0*x -> 0 and x*0 -> 0
// shortcuts (spec.md §3).
func NewMultiply(a, b Node) Node {
	if isZero(a) || isZero(b) {
		return NewZero()
	}
	return &MultiplyNode{a: a, b: b}
}

func isZero(n Node) bool {
	if _, ok := n.(ZeroNode); ok {
		return true
	}
	if i, ok := n.(*IntegerNode); ok {
		return i.k.Sign() == 0
	}
	return false
}

func (n *MultiplyNode) Evaluate(ctx context.Context, p int) (*Approximation, error) {
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	if err := verifyPrecision(p); err != nil {
		return nil, err
	}
	if v, ok := n.get(p); ok {
		return newApprox(v, p), nil
	}

	halfPrec := (p >> 1) - 1

	knownMsd, err := n.msdA.lookup(ctx, n.a, halfPrec)
	if err != nil {
		return nil, err
	}
	known, other := n.a, n.b
	otherMemo := &n.msdB
	if knownMsd == Unknown {
		knownMsd, err = n.msdB.lookup(ctx, n.b, halfPrec)
		if err != nil {
			return nil, err
		}
		known, other = n.b, n.a
		otherMemo = &n.msdA
		if knownMsd == Unknown {
			// Neither operand can be shown to exceed 2^halfPrec: the
			// product rounds to zero at precision p.
			n.put(big.NewInt(0), p)
			return newApprox(big.NewInt(0), p), nil
		}
	}

	otherMsd, err := otherMemo.lookup(ctx, other, knownMsd+p-4)
	if err != nil {
		return nil, err
	}
	if otherMsd == Unknown || knownMsd+otherMsd-p < -4 {
		n.put(big.NewInt(0), p)
		return newApprox(big.NewInt(0), p), nil
	}

	var knownApprox, otherApprox *Approximation
	if sameNode(known, other) {
		knownApprox, err = known.Evaluate(ctx, p-otherMsd-4)
		if err != nil {
			return nil, err
		}
		otherApprox = knownApprox
	} else if multithreadingEnabled(ctx) {
		knownApprox, otherApprox, err = evalTwoPrecisions(ctx, known, p-otherMsd-4, other, p-knownMsd-4)
		if err != nil {
			return nil, err
		}
	} else {
		knownApprox, err = known.Evaluate(ctx, p-otherMsd-4)
		if err != nil {
			return nil, err
		}
		otherApprox, err = other.Evaluate(ctx, p-knownMsd-4)
		if err != nil {
			return nil, err
		}
	}

	product := new(big.Int).Mul(knownApprox.Value, otherApprox.Value)
	scale := knownApprox.Precision + otherApprox.Precision - p
	result := shiftRounded(product, scale)
	n.put(result, p)
	return newApprox(result, p), nil
}

func (n *MultiplyNode) Msd(ctx context.Context, p int) (int, error) {
	if err := checkCancelled(ctx); err != nil {
		return 0, err
	}
	if m, ok := n.cachedMsd(); ok {
		return m, nil
	}
	return genericMsdSearch(ctx, n, p)
}
