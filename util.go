package apreal

import "math/big"

// divRound computes round(num/den) with ties away from zero, for divisors
// that are not necessarily powers of two (the Newton kernels for Sqrt and
// Asin divide by an iterate rather than shift by one).
func divRound(num, den *big.Int) *big.Int {
	q, r := new(big.Int).QuoRem(num, den, new(big.Int))
	if r.Sign() == 0 {
		return q
	}
	twiceR := new(big.Int).Lsh(new(big.Int).Abs(r), 1)
	if twiceR.CmpAbs(new(big.Int).Abs(den)) >= 0 {
		if (num.Sign() < 0) != (den.Sign() < 0) {
			q.Sub(q, big.NewInt(1))
		} else {
			q.Add(q, big.NewInt(1))
		}
	}
	return q
}

// floorDiv computes a/b rounded toward negative infinity, used to derive
// Sqrt's MSD (opmsd/2 with floor semantics, spec.md §4.7).
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
