//go:build !integration

package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected float64
		wantErr  bool
	}{
		{name: "rupee symbol", text: "₹1200", expected: 1200},
		{name: "dollar with cents", text: "$25.50", expected: 25.5},
		{name: "thousands separator", text: "₹1,299.99", expected: 1299.99},
		{name: "rs prefix", text: "Rs. 450", expected: 450},
		{name: "inr suffix", text: "450 INR", expected: 450},
		{name: "plain number", text: "99", expected: 99},
		{name: "zero", text: "₹0", expected: 0},
		{name: "empty", text: "", wantErr: true},
		{name: "only symbol", text: "₹", wantErr: true},
		{name: "words", text: "free", wantErr: true},
		{name: "trailing garbage", text: "12abc", wantErr: true},
		{name: "negative", text: "-5", wantErr: true},
		{name: "two dots", text: "1.2.3", wantErr: true},
		{name: "negative zero", text: "-0", wantErr: true},
		{name: "negative zero after prefix", text: "Rs-0", wantErr: true},
		{name: "sign inside", text: "1-0", wantErr: true},
		{name: "exponent text", text: "1e3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePrice(tt.text)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPrice)
				return
			}
			assert.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestValidatePrice(t *testing.T) {
	assert.NoError(t, ValidatePrice(0))
	assert.NoError(t, ValidatePrice(10.5))
	assert.ErrorIs(t, ValidatePrice(-1), ErrInvalidPrice)
	assert.ErrorIs(t, ValidatePrice(math.Copysign(0, -1)), ErrInvalidPrice)
	assert.ErrorIs(t, ValidatePrice(math.NaN()), ErrInvalidPrice)
	assert.ErrorIs(t, ValidatePrice(math.Inf(1)), ErrInvalidPrice)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "₹6282.00", FormatMoney("₹", 6282))
	assert.Equal(t, "$0.00", FormatMoney("$", 0))
	assert.Equal(t, "₹882.00", FormatMoney("₹", 4900*0.18))
	assert.Equal(t, "1.24", FormatMoney("", 1.235000001))
}
