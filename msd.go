package apreal

import "context"

// genericMsdSearch implements the MSD discovery schedule from spec.md
// §4.10: evaluate at a decreasing schedule of precisions, starting by
// halving down from a generous initial guess to 64, then stepping more
// slowly (factor 1.3, offset -16) until either a nonzero value is
// observed or the requested bound p is reached. Cancellation is polled
// every iteration.
func genericMsdSearch(ctx context.Context, n Node, p int) (int, error) {
	start := p + 64
	if start < 64 {
		start = 64
	}

	prec := start
	for prec > 64 {
		if err := checkCancelled(ctx); err != nil {
			return 0, err
		}
		m, err := tryMsdAt(ctx, n, prec)
		if err != nil {
			return 0, err
		}
		if m != Unknown {
			return m, nil
		}
		prec /= 2
	}

	for prec >= p {
		if err := checkCancelled(ctx); err != nil {
			return 0, err
		}
		m, err := tryMsdAt(ctx, n, prec)
		if err != nil {
			return 0, err
		}
		if m != Unknown {
			return m, nil
		}
		if prec == p {
			break
		}
		next := int(float64(prec)*1.3) - 16
		if next >= prec {
			next = prec - 1
		}
		if next < p {
			next = p
		}
		prec = next
	}

	return Unknown, nil
}

// tryMsdAt evaluates n at precision prec and derives an MSD from the
// result if it is nonzero.
func tryMsdAt(ctx context.Context, n Node, prec int) (int, error) {
	a, err := n.Evaluate(ctx, prec)
	if err != nil {
		return 0, err
	}
	if a.Value.Sign() == 0 {
		return Unknown, nil
	}
	return msdOf(a), nil
}
