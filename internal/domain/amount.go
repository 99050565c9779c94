package domain

import (
	"fmt"
	"strings"
)

// MaxDecimals is the largest fractional-unit scale a mint can be created with.
const MaxDecimals = 9

// ScaleToBaseUnits converts a human-entered decimal amount into base units:
// "1.5" with decimals=9 becomes 1_500_000_000. The input is parsed as an
// exact decimal string; floats are never involved, so no precision is lost.
// Returns an error for negative, malformed, or too-precise amounts and on
// uint64 overflow.
func ScaleToBaseUnits(human string, decimals uint8) (uint64, error) {
	if decimals > MaxDecimals {
		return 0, fmt.Errorf("decimals %d out of range [0,%d]", decimals, MaxDecimals)
	}

	s := strings.TrimSpace(human)
	if s == "" {
		return 0, fmt.Errorf("amount is empty")
	}
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("amount %q is negative", human)
	}
	if strings.HasPrefix(s, "+") {
		s = s[1:]
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("amount %q is malformed", human)
	}
	if whole == "" {
		whole = "0"
	}

	if len(frac) > int(decimals) {
		// Trailing zeros beyond the scale are harmless; real digits are not.
		if strings.Trim(frac[decimals:], "0") != "" {
			return 0, fmt.Errorf("amount %q has more than %d fractional digits", human, decimals)
		}
		frac = frac[:decimals]
	}
	frac += strings.Repeat("0", int(decimals)-len(frac))

	var out uint64
	for _, r := range whole + frac {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("amount %q is malformed", human)
		}
		d := uint64(r - '0')
		if out > (^uint64(0)-d)/10 {
			return 0, fmt.Errorf("amount %q overflows uint64 at %d decimals", human, decimals)
		}
		out = out*10 + d
	}
	return out, nil
}

// FormatBaseUnits renders a base-unit amount as a human decimal string,
// trimming trailing fractional zeros: 1_500_000_000 at decimals=9 is "1.5",
// 100_000_000_000 at decimals=9 is "100".
func FormatBaseUnits(raw uint64, decimals uint8) string {
	if decimals == 0 {
		return fmt.Sprintf("%d", raw)
	}
	div := uint64(1)
	for i := uint8(0); i < decimals; i++ {
		div *= 10
	}
	whole := raw / div
	rem := raw % div
	if rem == 0 {
		return fmt.Sprintf("%d", whole)
	}
	frac := strings.TrimRight(fmt.Sprintf("%0*d", decimals, rem), "0")
	return fmt.Sprintf("%d.%s", whole, frac)
}
