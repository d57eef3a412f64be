package dto

import (
	"net/http"
	"time"

	"github.com/guttosm/cart-service/internal/domain/model"
)

const (
	// ErrCodeInvalidRequest indicates an invalid request.
	ErrCodeInvalidRequest = "invalid_request"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal = "internal_error"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound = "not_found"
	// ErrCodeRateLimit indicates rate limit exceeded.
	ErrCodeRateLimit = "rate_limit_exceeded"
	// ErrCodeConflict indicates a conflict with current state.
	ErrCodeConflict = "conflict"
	// ErrCodeTimeout indicates a request timeout.
	ErrCodeTimeout = "timeout"
	// ErrCodeUnavailable indicates the storage backend is unavailable.
	ErrCodeUnavailable = "unavailable"
	// ErrCodeTooLarge indicates the request body exceeds the accepted size.
	ErrCodeTooLarge = "request_too_large"
)

// SuccessResponse wraps successful API responses with metadata.
type SuccessResponse struct {
	Data      interface{} `json:"data"`
	RequestID string      `json:"request_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ErrorResponse represents a standardized error response for the API.
type ErrorResponse struct {
	Error        string              `json:"error"`
	Message      string              `json:"message,omitempty"`
	Details      map[string]string   `json:"details,omitempty"`
	Notification *model.Notification `json:"notification,omitempty"`
	RequestID    string              `json:"request_id,omitempty"`
	Timestamp    time.Time           `json:"timestamp"`
}

// NewError creates a new ErrorResponse with the given code and message.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WithRequestID adds a request ID to the error response.
func (e ErrorResponse) WithRequestID(requestID string) ErrorResponse {
	e.RequestID = requestID
	return e
}

// WithNotification attaches the shopper notification for the failure.
func (e ErrorResponse) WithNotification(n model.Notification) ErrorResponse {
	if n.Message != "" {
		e.Notification = &n
	}
	return e
}

// ErrCodeFromStatus returns the appropriate error code for an HTTP status.
func ErrCodeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusConflict:
		return ErrCodeConflict
	case http.StatusTooManyRequests:
		return ErrCodeRateLimit
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return ErrCodeTimeout
	case http.StatusServiceUnavailable:
		return ErrCodeUnavailable
	case http.StatusRequestEntityTooLarge:
		return ErrCodeTooLarge
	default:
		return ErrCodeInternal
	}
}

// LineItemView is a line item as shown in the cart page.
type LineItemView struct {
	Index              int             `json:"index"`
	ID                 model.ProductID `json:"id"`
	Name               string          `json:"name"`
	Price              float64         `json:"price"`
	Quantity           int             `json:"quantity"`
	LineTotal          float64         `json:"line_total"`
	FormattedPrice     string          `json:"formatted_price"`
	FormattedLineTotal string          `json:"formatted_line_total"`
}

// CartView is the cart with its totals. Empty drives the empty-state view.
type CartView struct {
	Items       []LineItemView `json:"items"`
	Summary     model.Summary  `json:"summary"`
	Empty       bool           `json:"empty"`
	MaxQuantity int            `json:"max_quantity"`
}

// NewCartView builds the view of cart. format renders money amounts.
func NewCartView(cart model.Cart, summary model.Summary, maxQuantity int, format func(float64) string) CartView {
	items := make([]LineItemView, 0, len(cart.Items))
	for i, item := range cart.Items {
		items = append(items, LineItemView{
			Index:              i,
			ID:                 item.ID,
			Name:               item.Name,
			Price:              item.Price,
			Quantity:           item.Quantity,
			LineTotal:          item.LineTotal(),
			FormattedPrice:     format(item.Price),
			FormattedLineTotal: format(item.LineTotal()),
		})
	}
	return CartView{
		Items:       items,
		Summary:     summary,
		Empty:       cart.IsEmpty(),
		MaxQuantity: maxQuantity,
	}
}

// CartActionResponse is returned by every cart mutation.
type CartActionResponse struct {
	Cart         CartView            `json:"cart"`
	Notification *model.Notification `json:"notification,omitempty"`
	Removed      string              `json:"removed,omitempty"`
	Order        *model.Order        `json:"order,omitempty"`
}

// OrdersResponse is the order history, newest first.
type OrdersResponse struct {
	Orders []model.Order `json:"orders"`
	Count  int           `json:"count"`
}
