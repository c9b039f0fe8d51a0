package apreal

import "context"

// Node is the computable-real contract from spec.md §2: every node in the
// lazy expression DAG answers Evaluate and Msd for any requested precision.
// Implementations are immutable after construction; any mutable state
// (approximation caches) lives behind cache's own mutex.
type Node interface {
	// Evaluate returns an Approximation whose Precision field equals p and
	// whose Value is round(x * 2^-p) for the real x this node represents.
	Evaluate(ctx context.Context, p int) (*Approximation, error)
	// Msd returns the position of the most significant bit of x, or
	// Unknown if that cannot be shown to exceed p.
	Msd(ctx context.Context, p int) (int, error)
}

// checkCancelled surfaces a Cancelled EngineError if ctx has been cancelled.
// Every Evaluate/Msd entry point and every iterative loop polls this.
func checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return wrapErr(KindCancelled, ErrCancelled, ctx.Err().Error())
	default:
		return nil
	}
}

// sameNode reports whether a and b are the same underlying node instance,
// used by Multiply to detect self-squaring (spec.md §4.5, §9).
func sameNode(a, b Node) bool {
	return a == b
}

type multithreadKey struct{}

// WithMultithreading returns a context that instructs composed operations
// (Add, Multiply) to evaluate independent operands concurrently, per the
// use_multithreading setting in spec.md §5.
func WithMultithreading(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, multithreadKey{}, enabled)
}

func multithreadingEnabled(ctx context.Context) bool {
	v, _ := ctx.Value(multithreadKey{}).(bool)
	return v
}

// pairResult carries one operand's Evaluate outcome back from a goroutine.
type pairResult struct {
	approx *Approximation
	err    error
}

// evalPair evaluates a and b at precision p, concurrently when the
// context requests multithreading and deterministically in post-order
// (a then b) otherwise (spec.md §5).
func evalPair(ctx context.Context, a, b Node, p int) (*Approximation, *Approximation, error) {
	if sameNode(a, b) {
		v, err := a.Evaluate(ctx, p)
		if err != nil {
			return nil, nil, err
		}
		return v, v, nil
	}
	if !multithreadingEnabled(ctx) {
		av, err := a.Evaluate(ctx, p)
		if err != nil {
			return nil, nil, err
		}
		bv, err := b.Evaluate(ctx, p)
		if err != nil {
			return nil, nil, err
		}
		return av, bv, nil
	}

	resA := make(chan pairResult, 1)
	resB := make(chan pairResult, 1)
	go func() {
		v, err := a.Evaluate(ctx, p)
		resA <- pairResult{v, err}
	}()
	go func() {
		v, err := b.Evaluate(ctx, p)
		resB <- pairResult{v, err}
	}()
	ra, rb := <-resA, <-resB
	if ra.err != nil {
		return nil, nil, ra.err
	}
	if rb.err != nil {
		return nil, nil, rb.err
	}
	return ra.approx, rb.approx, nil
}

// evalTwoPrecisions evaluates a at pa and b at pb concurrently, for
// callers (Multiply) whose two operands need different target precisions.
func evalTwoPrecisions(ctx context.Context, a Node, pa int, b Node, pb int) (*Approximation, *Approximation, error) {
	resA := make(chan pairResult, 1)
	resB := make(chan pairResult, 1)
	go func() {
		v, err := a.Evaluate(ctx, pa)
		resA <- pairResult{v, err}
	}()
	go func() {
		v, err := b.Evaluate(ctx, pb)
		resB <- pairResult{v, err}
	}()
	ra, rb := <-resA, <-resB
	if ra.err != nil {
		return nil, nil, ra.err
	}
	if rb.err != nil {
		return nil, nil, rb.err
	}
	return ra.approx, rb.approx, nil
}
