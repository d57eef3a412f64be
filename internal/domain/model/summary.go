package model

// Summary holds the order totals for a cart. Amounts are unrounded;
// Formatted carries the display strings.
type Summary struct {
	Subtotal     float64          `json:"subtotal"`
	Shipping     float64          `json:"shipping"`
	Tax          float64          `json:"tax"`
	Total        float64          `json:"total"`
	FreeShipping bool             `json:"free_shipping"`
	ItemCount    int              `json:"item_count"`
	Formatted    FormattedSummary `json:"formatted"`
}

// FormattedSummary is the display form of a Summary. Shipping reads
// "FREE" when the threshold is crossed.
type FormattedSummary struct {
	Subtotal string `json:"subtotal"`
	Shipping string `json:"shipping"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

// Notification is the transient feedback shown to a shopper after an action.
type Notification struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

const (
	// SeveritySuccess marks a notification for a completed action.
	SeveritySuccess = "success"
	// SeverityError marks a notification for a rejected action.
	SeverityError = "error"
)
