package analytics

import (
	"math"
	"strconv"
	"strings"
)

// Amount is the outcome of parsing a numeric form field. Invalid amounts
// (blank, non-numeric, NaN, Inf) carry Value 0.
type Amount struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// ParseAmount parses raw leniently: anything that is not a finite number
// becomes an invalid Amount worth 0 instead of an error.
func ParseAmount(raw string) Amount {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Amount{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Amount{}
	}
	return Amount{Value: v, Valid: true}
}

// Float returns the parsed value, 0 when invalid.
func (a Amount) Float() float64 {
	if !a.Valid {
		return 0
	}
	return a.Value
}
