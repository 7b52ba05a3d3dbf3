package data

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadAmount is returned by ParseAmount for input that cannot be read as
// a currency value.
var ErrBadAmount = errors.New("malformed currency amount")

// ParseAmount reads a currency string ("300.00", "$299", "1,250.5") and
// returns the value as an integer count of minor units (cents). A leading
// currency symbol and thousands separators are stripped; at most two
// decimal places are accepted. Amounts are stored as integers so no
// floating-point rounding ever enters the document.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, ErrBadAmount
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" && frac == "" {
		return 0, ErrBadAmount
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, ErrBadAmount
	}
	// right-pad the fraction to exactly two digits
	frac += strings.Repeat("0", 2-len(frac))

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, ErrBadAmount
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, ErrBadAmount
	}

	amount := units*100 + cents
	if neg {
		amount = -amount
	}
	return amount, nil
}

// FormatAmount renders minor units as a fixed two-decimal string:
// 30000 -> "300.00".
func FormatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}
