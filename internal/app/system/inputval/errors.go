package inputval

// Codes carried by ValidationError. They are stable and safe to match on.
const (
	CodeNoItems          = "no_items"
	CodeQuantityPositive = "quantity_not_positive"
	CodeExceedsMax       = "exceeds_max_quantity"
	CodeUnknownItem      = "unknown_item"
	CodeUnknownOption    = "unknown_option"
	CodeOptionRequired   = "option_required"
	CodeNameTooShort     = "name_too_short"
	CodeNoValidItems     = "no_valid_items"
	CodeTooManyImages    = "too_many_images"
	CodeNegativePrice    = "negative_price"
	CodeInvalidInput     = "invalid_input"
)

// ValidationError rejects input before any write. Message is already
// localized and can be shown to the user as is.
type ValidationError struct {
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string { return e.Message }

func newError(code, msg string) *ValidationError {
	return &ValidationError{Code: code, Message: msg}
}
