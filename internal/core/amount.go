// Package core provides the expense domain model and amount parsing.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount converts a decimal string to a positive amount rounded to two
// decimal places.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Returns
// ErrInvalidAmount for non-numeric input, non-finite values, and anything
// not strictly positive.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidAmount
	}
	return math.Round(v*100) / 100, nil
}
