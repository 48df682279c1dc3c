package locale

// Message keys. Every key must be registered for each supported language.
const (
	KeyOrderEnded      = "eligibility.order_ended"
	KeyCapacityReached = "eligibility.capacity_reached"
	KeyDeadlinePassed  = "eligibility.deadline_passed"

	KeyUnknownUser     = "placeholder.unknown_user"
	KeyDeletedItem     = "placeholder.deleted_item"
	KeyDefaultUserName = "placeholder.new_user"

	KeyCSVParticipant   = "csv.header.participant"
	KeyCSVItem          = "csv.header.item"
	KeyCSVQuantity      = "csv.header.quantity"
	KeyCSVUnitPrice     = "csv.header.unit_price"
	KeyCSVOptions       = "csv.header.options"
	KeyCSVSubtotal      = "csv.header.subtotal"
	KeyCSVPaymentStatus = "csv.header.payment_status"
	KeyCSVPaid          = "csv.paid"
	KeyCSVUnpaid        = "csv.unpaid"

	KeyStatusCreated  = "status.created"
	KeyStatusOpened   = "status.opened"
	KeyStatusClosed   = "status.closed"
	KeyStatusArchived = "status.archived"

	KeyNoItems          = "validation.no_items"
	KeyQuantityPositive = "validation.quantity_positive"
	KeyExceedsMax       = "validation.exceeds_max"
	KeyUnknownItem      = "validation.unknown_item"
	KeyUnknownOption    = "validation.unknown_option"
	KeyOptionRequired   = "validation.option_required"
	KeyNameTooShort     = "validation.name_too_short"
	KeyNoValidItems     = "validation.no_valid_items"
	KeyTooManyImages    = "validation.too_many_images"
	KeyNegativePrice    = "validation.negative_price"
	KeyInvalidInput     = "validation.invalid_input"
	KeyMessageRequired  = "validation.message_required"

	KeyAlreadyJoined      = "order.already_joined"
	KeyInvalidTransition  = "order.invalid_transition"
	KeyTrackingDisabled   = "order.tracking_disabled"
	KeyForbidden          = "order.forbidden"
	KeyCSRFInvalid        = "request.csrf_invalid"
	KeyRateLimited        = "request.rate_limited"
	KeyNotFound           = "order.not_found"
	KeyNotEditable        = "order.not_editable"
	KeySummaryNotClosed   = "order.summary_not_closed"
	KeyNotParticipant     = "order.not_participant"
	KeyExtractMenuFailed  = "extract.menu_failed"
	KeyExtractLinkFailed  = "extract.link_failed"
	KeyExtractUnavailable = "extract.unavailable"
	KeySummaryFailed      = "extract.summary_failed"
	KeyImageRequired      = "extract.image_required"
	KeyImageTooLarge      = "extract.image_too_large"
	KeyInvalidURL         = "extract.invalid_url"
	KeyServerError        = "server.error"
	KeySignInRequired     = "auth.sign_in_required"
)
