package apreal

import (
	"context"
	"math/big"
)

// AddNode computes a+b, caching its result (spec.md §4.4).
type AddNode struct {
	cache
	a, b Node
}

// NewAdd returns a node for a+b, folding the x + (-x) -> 0 shortcut when
// one operand is syntactically the negation of the other (spec.md §3).
func NewAdd(a, b Node) Node {
	if isNegationOf(a, b) || isNegationOf(b, a) {
		return NewZero()
	}
	return &AddNode{a: a, b: b}
}

// isNegationOf reports whether neg is a NegateNode wrapping x (or, when
// both are Integer literals, represents the same magnitude with opposite
// sign).
func isNegationOf(neg, x Node) bool {
	if n, ok := neg.(*NegateNode); ok {
		return sameNode(n.op, x)
	}
	ni, nok := neg.(*IntegerNode)
	xi, xok := x.(*IntegerNode)
	if nok && xok {
		sum := new(big.Int).Add(ni.k, xi.k)
		return sum.Sign() == 0
	}
	return false
}

func (n *AddNode) Evaluate(ctx context.Context, p int) (*Approximation, error) {
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	if err := verifyPrecision(p); err != nil {
		return nil, err
	}
	if v, ok := n.get(p); ok {
		return newApprox(v, p), nil
	}

	av, bv, err := evalPair(ctx, n.a, n.b, p-2)
	if err != nil {
		return nil, err
	}
	sum := new(big.Int).Add(av.Value, bv.Value)
	result := shiftRounded(sum, -2)
	n.put(result, p)
	return newApprox(result, p), nil
}

func (n *AddNode) Msd(ctx context.Context, p int) (int, error) {
	if err := checkCancelled(ctx); err != nil {
		return 0, err
	}
	if m, ok := n.cachedMsd(); ok {
		return m, nil
	}
	return genericMsdSearch(ctx, n, p)
}
