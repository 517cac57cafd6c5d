package lang

import (
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

var (
	intPattern    = regexp.MustCompile(`^[0-9]+$`)
	hexPattern    = regexp.MustCompile(`^0x[0-9a-fA-F]+$`)
	binaryPattern = regexp.MustCompile(`^0b[01]+$`)
	ePattern      = regexp.MustCompile(`^[1-9][0-9]*e[0-9]+$`)
)

// maxUint256 is 2^256 - 1.
var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// IsNumeric reports whether s is a numeric literal: decimal, 0x hex, 0b
// binary or NeM e-notation.
func IsNumeric(s string) bool {
	return intPattern.MatchString(s) ||
		hexPattern.MatchString(s) ||
		binaryPattern.MatchString(s) ||
		ePattern.MatchString(s)
}

// ParseNumeric returns the value of a numeric literal and whether it is a
// well-formed literal that fits in 256 bits.
func ParseNumeric(s string) (*big.Int, bool) {
	var (
		v  = new(big.Int)
		ok bool
	)

	switch {
	case binaryPattern.MatchString(s):
		_, ok = v.SetString(s[2:], 2)
	case hexPattern.MatchString(s):
		_, ok = v.SetString(s[2:], 16)
	case ePattern.MatchString(s):
		mantissa, exp, _ := strings.Cut(s, "e")

		// 2^256 has 78 decimal digits.
		n, err := strconv.Atoi(exp)
		if err != nil || len(mantissa)+n > 78 {
			return nil, false
		}

		_, ok = v.SetString(mantissa+strings.Repeat("0", n), 10)
	case intPattern.MatchString(s):
		_, ok = v.SetString(s, 10)
	}

	if !ok || v.Cmp(maxUint256) > 0 {
		return nil, false
	}

	return v, true
}
