package models

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidAmount is returned when a monetary value cannot be parsed.
var ErrInvalidAmount = errors.New("invalid amount")

// Cents stores a monetary amount as integer cents. Amounts are kept as
// cents everywhere except at the JSON boundary, where they render as a
// plain decimal number, so typical 2-decimal currency values round-trip
// exactly.
type Cents int64

// ParseCents converts a decimal string like "12.34" to cents.
// It accepts at most two fractional digits and rejects signs;
// a third fractional digit is rounded half-up.
func ParseCents(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return 0, ErrInvalidAmount
	}
	var frac int64
	if len(fracPart) > 0 {
		frac = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			frac += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				frac++
			}
		}
	}
	return Cents(iv*100 + frac), nil
}

// Float returns the amount in whole currency units for display.
// Use cents for arithmetic to avoid floating-point drift.
func (c Cents) Float() float64 {
	return float64(c) / 100.0
}

// String formats the amount with two decimal places, e.g. "12.34".
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + strconv.FormatInt(v/100, 10) + "." + pad2(v%100)
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}

// MarshalJSON renders the amount as a bare decimal number.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a numeric string.
func (c *Cents) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	if s == "null" {
		return nil
	}
	parsed, err := ParseCents(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
