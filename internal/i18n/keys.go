package i18n

// Error message translation keys.
const (
	ErrKeyInvalidRequest     = "error.invalid_request"
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	ErrKeyInternalError      = "error.internal_error"
	ErrKeyNotFound           = "error.not_found"
	ErrKeyRateLimitExceeded  = "error.rate_limit_exceeded"
	ErrKeyConflict           = "error.conflict"
	ErrKeyTimeout            = "error.timeout"
	ErrKeyInvalidSession     = "error.invalid_session"
	ErrKeyInvalidPrice       = "error.invalid_price"
	ErrKeyInvalidIndex       = "error.invalid_index"
	ErrKeyUnknownCommand     = "error.unknown_command"
	ErrKeyStoreUnavailable   = "error.store_unavailable"
	ErrKeyRequestTooLarge    = "error.request_too_large"
)

// Shopper notification keys. Some take a product name argument.
const (
	NoticeKeyItemAdded       = "notice.item_added"
	NoticeKeyItemRemoved     = "notice.item_removed"
	NoticeKeyCartUpdated     = "notice.cart_updated"
	NoticeKeyCartEmpty       = "notice.cart_empty"
	NoticeKeyCheckoutSuccess = "notice.checkout_success"
)
