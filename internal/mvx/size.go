package mvx

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
)

// unit is a size multiplier expressed as base^exponent.
type unit struct {
	base     uint64
	exponent uint
}

// units maps every accepted suffix to its multiplier. Tokens are case-sensitive.
var units = map[string]unit{
	"B": {1000, 0},

	"k": {1000, 1}, "kB": {1000, 1},
	"M": {1000, 2}, "MB": {1000, 2},
	"G": {1000, 3}, "GB": {1000, 3},
	"T": {1000, 4}, "TB": {1000, 4},
	"P": {1000, 5}, "PB": {1000, 5},
	"E": {1000, 6}, "EB": {1000, 6},

	"Ki": {1024, 1}, "KiB": {1024, 1},
	"Mi": {1024, 2}, "MiB": {1024, 2},
	"Gi": {1024, 3}, "GiB": {1024, 3},
	"Ti": {1024, 4}, "TiB": {1024, 4},
	"Pi": {1024, 5}, "PiB": {1024, 5},
	"Ei": {1024, 6}, "EiB": {1024, 6},

	"K": {1024, 1}, "KB": {1024, 1},
}

// legacyUnits are kept for backward compatibility and warned about on use.
var legacyUnits = map[string]bool{"K": true, "KB": true}

// multiplier returns base^exponent, or false if it does not fit in 64 bits.
func (u unit) multiplier() (uint64, bool) {
	m := uint64(1)
	for i := uint(0); i < u.exponent; i++ {
		hi, lo := bits.Mul64(m, u.base)
		if hi != 0 {
			return 0, false
		}
		m = lo
	}
	return m, true
}

// ParseSize converts a size expression such as "100", "1k" or "20GiB" into a
// byte count. The grammar is an optional sign, decimal digits and an optional
// unit suffix with no whitespace in between. The empty string is 0 bytes.
//
// The legacy suffixes K and KB mean 1024 and are reported to logger as
// deprecated every time they are used.
func ParseSize(expr string, logger Logger) (uint64, error) {
	if expr == "" {
		return 0, nil
	}

	i := 0
	negative := false
	if expr[0] == '-' || expr[0] == '+' {
		negative = expr[0] == '-'
		i++
	}
	start := i
	for i < len(expr) && expr[i] >= '0' && expr[i] <= '9' {
		i++
	}
	digits, suffix := expr[start:i], expr[i:]
	if digits == "" {
		return 0, fmt.Errorf("%w: %q", ErrMalformedNumber, expr)
	}

	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			if negative {
				return 0, ErrNegativeAmount
			}
			return 0, fmt.Errorf("%w: %q", ErrOutOfRange, expr)
		}
		return 0, fmt.Errorf("%w: %q", ErrMalformedNumber, expr)
	}
	if negative && n != 0 {
		return 0, ErrNegativeAmount
	}

	if suffix == "" {
		return n, nil
	}

	u, ok := units[suffix]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownUnit, suffix)
	}
	if legacyUnits[suffix] {
		logger.Warn("legacy unit prefix K used, use Ki instead", "unit", suffix)
	}

	m, ok := u.multiplier()
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrOutOfRange, expr)
	}
	hi, bytes := bits.Mul64(n, m)
	if hi != 0 {
		return 0, fmt.Errorf("%w: %q", ErrOutOfRange, expr)
	}
	return bytes, nil
}
