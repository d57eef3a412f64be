// Package model defines the core domain entities for the cart service.
package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

const (
	// MinQuantity is the smallest quantity a line item can hold.
	MinQuantity = 1
	// DefaultMaxQuantity is the per-line cap used when none is configured.
	DefaultMaxQuantity = 99
)

var (
	// ErrInvalidIndex is returned when a line item index is outside the cart.
	ErrInvalidIndex = errors.New("line item index out of range")
	// ErrEmptyCart is returned when checkout is attempted on an empty cart.
	ErrEmptyCart = errors.New("cart is empty")
)

// ProductID identifies a catalog product. Catalog ids can be numbers or
// strings, so the JSON form accepts both and always encodes as a string.
type ProductID string

// UnmarshalJSON accepts `"sku-1"` as well as `12`.
func (p *ProductID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = ProductID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = ProductID(n.String())
	return nil
}

// String returns the id as a plain string.
func (p ProductID) String() string {
	return string(p)
}

// LineItem is one product entry in the cart with its quantity.
type LineItem struct {
	ID       ProductID `json:"id" bson:"id"`
	Name     string    `json:"name" bson:"name"`
	Price    float64   `json:"price" bson:"price"`
	Quantity int       `json:"quantity" bson:"quantity"`
}

// LineTotal returns price × quantity, unrounded.
func (i LineItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Cart is an ordered list of line items, unique by ID.
type Cart struct {
	Items []LineItem `json:"items"`
}

// IsEmpty reports whether the cart has no line items.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount returns the sum of quantities across all line items.
func (c Cart) ItemCount() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// IndexOf returns the position of the line item with the given id, or -1.
func (c Cart) IndexOf(id ProductID) int {
	for i, item := range c.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a copy whose Items slice does not alias the receiver's.
func (c Cart) Clone() Cart {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}

// ValidIndex reports whether index addresses an existing line item.
func (c Cart) ValidIndex(index int) bool {
	return index >= 0 && index < len(c.Items)
}

// ClampQuantity bounds q to [MinQuantity, max].
func ClampQuantity(q, max int) int {
	if max < MinQuantity {
		max = DefaultMaxQuantity
	}
	if q < MinQuantity {
		return MinQuantity
	}
	if q > max {
		return max
	}
	return q
}

// ParseQuantity reads user-entered quantity text the way a form field is
// read: the leading integer is used ("3.7" is 3, "12abc" is 12) and
// anything that does not start with a number yields MinQuantity. The
// result is clamped to [MinQuantity, max].
func ParseQuantity(raw string, max int) int {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return MinQuantity
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// Only overflow reaches here; the sign decides which bound applies.
		if s[0] == '-' {
			return MinQuantity
		}
		return ClampQuantity(max, max)
	}
	return ClampQuantity(n, max)
}
