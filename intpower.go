package apreal

// NewIntegerPower returns a node for a^n, lowered at construction time to
// a chain of multiplications via square-and-multiply on |n| (spec.md
// §4.12). A negative exponent first replaces a with 1/a.
func NewIntegerPower(a Node, n int, divisionLimit int) Node {
	if n < 0 {
		return NewIntegerPower(NewInverse(a, divisionLimit), -n, divisionLimit)
	}
	if n == 0 {
		return NewIntegerInt64(1)
	}
	return buildPowerChain(a, n)
}

// buildPowerChain builds the reduced chain of multiplications once, via
// binary (square-and-multiply) decomposition of n.
func buildPowerChain(a Node, n int) Node {
	if n == 1 {
		return a
	}
	half := buildPowerChain(a, n/2)
	sq := NewMultiply(half, half)
	if n%2 == 1 {
		return NewMultiply(sq, a)
	}
	return sq
}
