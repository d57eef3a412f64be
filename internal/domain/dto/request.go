// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs decouple the HTTP layer from the domain model and carry request
// validation.
package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/guttosm/cart-service/internal/domain/model"
)

// Command types accepted by the generic command endpoint.
const (
	CommandAddItem        = "add_item"
	CommandUpdateQuantity = "update_quantity"
	CommandAdjustQuantity = "adjust_quantity"
	CommandRemoveItem     = "remove_item"
	CommandCheckout       = "checkout"
)

// Text is a JSON value read as text. Form fields arrive as strings, but
// API clients often send numbers; both are accepted.
type Text string

// UnmarshalJSON accepts a JSON string, number or null.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*t = Text(plainNumber(n))
	return nil
}

// plainNumber spells a JSON number without an exponent, so 1e3 reads as
// "1000" to price and quantity parsing. Numbers out of float64 range are
// left as sent and rejected downstream.
func plainNumber(n json.Number) string {
	s := n.String()
	if !strings.ContainsAny(s, "eE") {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// String returns the raw text.
func (t Text) String() string {
	return string(t)
}

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

var (
	// ErrMissingProductID is returned when an add request has no product id.
	ErrMissingProductID = &ValidationError{Field: "id", Message: "is required"}
	// ErrMissingPrice is returned when an add request has no price.
	ErrMissingPrice = &ValidationError{Field: "price", Message: "is required"}
	// ErrMissingQuantity is returned when an update request has no quantity.
	ErrMissingQuantity = &ValidationError{Field: "quantity", Message: "is required"}
	// ErrZeroDelta is returned when an adjust request would change nothing.
	ErrZeroDelta = &ValidationError{Field: "delta", Message: "must not be zero"}
	// ErrMissingIndex is returned when an index-based command has no index.
	ErrMissingIndex = &ValidationError{Field: "index", Message: "is required"}
	// ErrUnknownCommandType is returned for an unsupported command type.
	ErrUnknownCommandType = &ValidationError{Field: "type", Message: "is not a supported command"}
)

// AddItemRequest is the body of POST /cart/items.
// Price is the catalog price text, e.g. "₹1,200".
type AddItemRequest struct {
	ID    model.ProductID `json:"id"`
	Name  string          `json:"name"`
	Price Text            `json:"price"`
}

// Validate checks required fields.
func (r *AddItemRequest) Validate() error {
	if r.ID == "" {
		return ErrMissingProductID
	}
	if strings.TrimSpace(r.Price.String()) == "" {
		return ErrMissingPrice
	}
	return nil
}

// UpdateQuantityRequest is the body of PUT /cart/items/:index. Quantity
// is whatever the shopper typed; it is clamped, never rejected.
type UpdateQuantityRequest struct {
	Quantity *Text `json:"quantity"`
}

// Validate checks required fields.
func (r *UpdateQuantityRequest) Validate() error {
	if r.Quantity == nil {
		return ErrMissingQuantity
	}
	return nil
}

// AdjustQuantityRequest is the body of PATCH /cart/items/:index.
type AdjustQuantityRequest struct {
	Delta int `json:"delta"`
}

// Validate checks required fields.
func (r *AdjustQuantityRequest) Validate() error {
	if r.Delta == 0 {
		return ErrZeroDelta
	}
	return nil
}

// CommandRequest is the body of POST /commands. Fields other than Type
// are read according to Type.
type CommandRequest struct {
	Type     string          `json:"type"`
	ID       model.ProductID `json:"id,omitempty"`
	Name     string          `json:"name,omitempty"`
	Price    Text            `json:"price,omitempty"`
	Index    *int            `json:"index,omitempty"`
	Quantity *Text           `json:"quantity,omitempty"`
	Delta    int             `json:"delta,omitempty"`
}

// Validate checks that Type is known and its fields are present.
func (r *CommandRequest) Validate() error {
	switch r.Type {
	case CommandAddItem:
		add := AddItemRequest{ID: r.ID, Name: r.Name, Price: r.Price}
		return add.Validate()
	case CommandUpdateQuantity:
		if r.Index == nil {
			return ErrMissingIndex
		}
		upd := UpdateQuantityRequest{Quantity: r.Quantity}
		return upd.Validate()
	case CommandAdjustQuantity:
		if r.Index == nil {
			return ErrMissingIndex
		}
		adj := AdjustQuantityRequest{Delta: r.Delta}
		return adj.Validate()
	case CommandRemoveItem:
		if r.Index == nil {
			return ErrMissingIndex
		}
		return nil
	case CommandCheckout:
		return nil
	default:
		return ErrUnknownCommandType
	}
}
