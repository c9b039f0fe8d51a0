package apreal

import (
	"context"
	"math/big"
	"strings"
)

// ToString renders n as a fixed-point (or, if scientific is set,
// scientific-notation) string with digits fractional places, in base
// 16 when hex is set and base 10 otherwise (spec.md §4.11).
//
// The node is first scaled by 10^digits (or, for hex, shifted left by
// 4*digits — one hex digit per nibble) and evaluated at precision 0,
// producing the rounded integer that holds digits fractional places;
// the decimal/hex point is then reinserted textually.
func ToString(ctx context.Context, n Node, digits int, scientific bool, hex bool) (string, error) {
	if digits < 0 {
		digits = 0
	}

	var scaled Node = n
	if hex {
		if digits > 0 {
			scaled = NewShift(n, 4*digits)
		}
	} else if digits > 0 {
		pow := NewIntegerPower(NewIntegerInt64(10), digits, DefaultDivisionLimit)
		scaled = NewMultiply(n, pow)
	}

	approx, err := scaled.Evaluate(ctx, 0)
	if err != nil {
		return "", err
	}

	v := approx.Value
	neg := v.Sign() < 0
	abs := new(big.Int).Abs(v)

	var digitsStr string
	if hex {
		digitsStr = abs.Text(16)
	} else {
		digitsStr = abs.Text(10)
	}
	for len(digitsStr) <= digits {
		digitsStr = "0" + digitsStr
	}

	intPart := digitsStr[:len(digitsStr)-digits]
	fracPart := digitsStr[len(digitsStr)-digits:]

	var sb strings.Builder
	if hex {
		sb.WriteString("0x")
	}
	if neg {
		sb.WriteByte('-')
	}
	sb.WriteString(intPart)
	if digits > 0 {
		sb.WriteByte('.')
		sb.WriteString(fracPart)
	}
	plain := sb.String()

	if !scientific {
		return plain, nil
	}
	return toScientific(intPart, fracPart, neg, hex), nil
}

// toScientific reassembles intPart/fracPart into mantissa-e-exponent
// form, e.g. "123.45" -> "1.2345e+2", "0.0012" -> "1.2e-3".
func toScientific(intPart, fracPart string, neg bool, hex bool) string {
	full := intPart + fracPart
	firstNonZero := strings.IndexFunc(full, func(r rune) bool { return r != '0' })
	if firstNonZero < 0 {
		return zeroScientific(neg, hex)
	}
	exp := len(intPart) - 1 - firstNonZero
	digits := full[firstNonZero:]

	mantissa := digits[:1]
	rest := strings.TrimRight(digits[1:], "0")
	if rest != "" {
		mantissa += "." + rest
	}

	var sb strings.Builder
	if hex {
		sb.WriteString("0x")
	}
	if neg {
		sb.WriteByte('-')
	}
	sb.WriteString(mantissa)
	sb.WriteByte('e')
	if exp >= 0 {
		sb.WriteByte('+')
	}
	sb.WriteString(big.NewInt(int64(exp)).String())
	return sb.String()
}

func zeroScientific(neg bool, hex bool) string {
	var sb strings.Builder
	if hex {
		sb.WriteString("0x")
	}
	if neg {
		sb.WriteByte('-')
	}
	sb.WriteString("0e+0")
	return sb.String()
}
