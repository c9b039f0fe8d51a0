package apreal

import (
	"context"
	"sync"
)

// CosNode computes cos(a) as sin(π/2 - a), built once under a mutex on
// first use (spec.md §4.8.6).
type CosNode struct {
	mu       sync.Mutex
	a        Node
	settings *Settings
	delegate Node
}

// NewCos returns a node for cos(a).
func NewCos(a Node, settings *Settings) Node {
	return &CosNode{a: a, settings: settings}
}

func (n *CosNode) ensureDelegate() Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.delegate == nil {
		piOverTwo := NewMultiply(n.settings.Factory().Pi(), NewInverse(NewIntegerInt64(2), n.settings.DivisionLimit))
		n.delegate = NewSin(NewAdd(piOverTwo, NewNegate(n.a)), n.settings)
	}
	return n.delegate
}

func (n *CosNode) Evaluate(ctx context.Context, p int) (*Approximation, error) {
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	return n.ensureDelegate().Evaluate(ctx, p)
}

func (n *CosNode) Msd(ctx context.Context, p int) (int, error) {
	if err := checkCancelled(ctx); err != nil {
		return 0, err
	}
	return n.ensureDelegate().Msd(ctx, p)
}

// TanNode computes tan(a) as sin(a) / sqrt(1 - sin(a)^2), built once
// under a mutex on first use (spec.md §4.8.6).
type TanNode struct {
	mu       sync.Mutex
	a        Node
	settings *Settings
	delegate Node
}

// NewTan returns a node for tan(a).
func NewTan(a Node, settings *Settings) Node {
	return &TanNode{a: a, settings: settings}
}

func (n *TanNode) ensureDelegate() Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.delegate == nil {
		sinA := NewSin(n.a, n.settings)
		cosA := NewSqrt(NewAdd(NewIntegerInt64(1), NewNegate(NewMultiply(sinA, sinA))))
		n.delegate = NewMultiply(sinA, NewInverse(cosA, n.settings.DivisionLimit))
	}
	return n.delegate
}

func (n *TanNode) Evaluate(ctx context.Context, p int) (*Approximation, error) {
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	return n.ensureDelegate().Evaluate(ctx, p)
}

func (n *TanNode) Msd(ctx context.Context, p int) (int, error) {
	if err := checkCancelled(ctx); err != nil {
		return 0, err
	}
	return n.ensureDelegate().Msd(ctx, p)
}

// AcosNode computes acos(a) as π/2 - asin(a), built once under a mutex
// on first use (spec.md §4.8.6).
type AcosNode struct {
	mu       sync.Mutex
	a        Node
	settings *Settings
	delegate Node
}

// NewAcos returns a node for acos(a).
func NewAcos(a Node, settings *Settings) Node {
	return &AcosNode{a: a, settings: settings}
}

func (n *AcosNode) ensureDelegate() Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.delegate == nil {
		piOverTwo := NewMultiply(n.settings.Factory().Pi(), NewInverse(NewIntegerInt64(2), n.settings.DivisionLimit))
		n.delegate = NewAdd(piOverTwo, NewNegate(NewAsin(n.a, n.settings)))
	}
	return n.delegate
}

func (n *AcosNode) Evaluate(ctx context.Context, p int) (*Approximation, error) {
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	return n.ensureDelegate().Evaluate(ctx, p)
}

func (n *AcosNode) Msd(ctx context.Context, p int) (int, error) {
	if err := checkCancelled(ctx); err != nil {
		return 0, err
	}
	return n.ensureDelegate().Msd(ctx, p)
}
