package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var maxCents = decimal.NewFromInt(math.MaxInt64)

// parseCents converts a decimal amount such as "90", "12.5" or "$3.07" into
// cents. Amounts must be positive with at most two decimal places.
func parseCents(s string) (int64, error) {
	cents, err := toCents(s)
	if err != nil {
		return 0, err
	}
	if cents <= 0 {
		return 0, fmt.Errorf("amount %q must be positive", s)
	}
	return cents, nil
}

// toCents is parseCents without the positivity check; zero is allowed.
func toCents(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	if cents.Sign() < 0 {
		return 0, fmt.Errorf("amount %q cannot be negative", s)
	}
	if cents.GreaterThan(maxCents) {
		return 0, fmt.Errorf("amount %q is too large", s)
	}
	return cents.IntPart(), nil
}

// parseShare parses "member=amount". A share of zero is valid.
func parseShare(s string) (string, int64, error) {
	member, amount, ok := strings.Cut(s, "=")
	member = strings.TrimSpace(member)
	if !ok || member == "" {
		return "", 0, fmt.Errorf("share %q must look like member=amount", s)
	}
	cents, err := toCents(amount)
	if err != nil {
		return "", 0, err
	}
	return member, cents, nil
}
