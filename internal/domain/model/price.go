package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidPrice is returned when a price string cannot be read as a
// non-negative finite number.
var ErrInvalidPrice = errors.New("invalid price")

// currencyTokens are stripped from price text before parsing. Longer
// tokens come first so "INR" is not left as "NR" after removing "I".
var currencyTokens = []string{"INR", "Rs.", "Rs", "₹", "$", "€", "£", "¥"}

// ParsePrice turns catalog price text such as "₹1,200.00" or "$25" into a
// float. Currency symbols, whitespace and thousands separators are
// ignored. Anything else that is not a plain unsigned decimal is rejected,
// including "-0".
func ParsePrice(text string) (float64, error) {
	s := strings.TrimSpace(text)
	for _, token := range currencyTokens {
		s = strings.ReplaceAll(s, token, "")
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, text)
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' && r != '+' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, text)
		}
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, text)
	}
	if err := ValidatePrice(value); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, text)
	}
	return value, nil
}

// ValidatePrice rejects negative (including -0), NaN and infinite prices.
func ValidatePrice(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Signbit(v) {
		return ErrInvalidPrice
	}
	return nil
}

// FormatMoney renders v with the currency symbol and two decimals.
// Rounding happens here and nowhere else.
func FormatMoney(symbol string, v float64) string {
	return symbol + strconv.FormatFloat(v, 'f', 2, 64)
}
