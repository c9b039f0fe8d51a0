package apreal

import (
	"context"
	"math/big"
)

// ZeroNode is the terminal node representing the real number 0.
type ZeroNode struct{}

// NewZero returns a node for the constant 0.
func NewZero() Node { return ZeroNode{} }

func (ZeroNode) Evaluate(ctx context.Context, p int) (*Approximation, error) {
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	if err := verifyPrecision(p); err != nil {
		return nil, err
	}
	return newApprox(big.NewInt(0), p), nil
}

func (ZeroNode) Msd(ctx context.Context, p int) (int, error) {
	if err := checkCancelled(ctx); err != nil {
		return 0, err
	}
	return Unknown, nil
}

// IntegerNode is a terminal node for an exact integer literal.
type IntegerNode struct {
	k   *big.Int
	msd int // computed once from bitlen(k); Unknown if k==0
}

// NewInteger returns a node for the exact integer k. Negate(Integer(k))
// folds to Integer(-k) at construction (spec.md §3 algebraic shortcuts):
// NewNegate calls Neg instead of wrapping an Integer in a NegateNode.
func NewInteger(k *big.Int) Node {
	if k.Sign() == 0 {
		return NewZero()
	}
	return &IntegerNode{k: new(big.Int).Set(k), msd: msdOf(newApprox(k, 0))}
}

// NewIntegerInt64 is a convenience constructor for small literals.
func NewIntegerInt64(k int64) Node { return NewInteger(big.NewInt(k)) }

// Neg returns the node for -k without an intermediate NegateNode, the
// "Negate(Integer(k)) -> Integer(-k)" shortcut from spec.md §3.
func (n *IntegerNode) Neg() Node { return NewInteger(new(big.Int).Neg(n.k)) }

func (n *IntegerNode) Evaluate(ctx context.Context, p int) (*Approximation, error) {
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	if err := verifyPrecision(p); err != nil {
		return nil, err
	}
	return newApprox(shiftRounded(n.k, -p), p), nil
}

func (n *IntegerNode) Msd(ctx context.Context, p int) (int, error) {
	if err := checkCancelled(ctx); err != nil {
		return 0, err
	}
	return n.msd, nil
}
