package locale

import "golang.org/x/text/message"

func init() {
	lang := English

	// Eligibility
	message.SetString(lang, KeyOrderEnded, "This order has ended.")
	message.SetString(lang, KeyCapacityReached, "Capacity reached.")
	message.SetString(lang, KeyDeadlinePassed, "The deadline has passed.")

	// Placeholders
	message.SetString(lang, KeyUnknownUser, "Unknown user")
	message.SetString(lang, KeyDeletedItem, "Deleted item")
	message.SetString(lang, KeyDefaultUserName, "New user")

	// CSV export
	message.SetString(lang, KeyCSVParticipant, "Participant")
	message.SetString(lang, KeyCSVItem, "Item")
	message.SetString(lang, KeyCSVQuantity, "Quantity")
	message.SetString(lang, KeyCSVUnitPrice, "UnitPrice")
	message.SetString(lang, KeyCSVOptions, "Options")
	message.SetString(lang, KeyCSVSubtotal, "Subtotal")
	message.SetString(lang, KeyCSVPaymentStatus, "PaymentStatus")
	message.SetString(lang, KeyCSVPaid, "Paid")
	message.SetString(lang, KeyCSVUnpaid, "Unpaid")

	// Timeline
	message.SetString(lang, KeyStatusCreated, "Order created.")
	message.SetString(lang, KeyStatusOpened, "The order is open again. Join in!")
	message.SetString(lang, KeyStatusClosed, "The organizer stopped taking orders and is processing them.")
	message.SetString(lang, KeyStatusArchived, "The order has been archived.")

	// Validation
	message.SetString(lang, KeyNoItems, "Select at least one item.")
	message.SetString(lang, KeyQuantityPositive, "Quantity for %q must be greater than 0.")
	message.SetString(lang, KeyExceedsMax, "Not enough stock: %q is limited to %d per order.")
	message.SetString(lang, KeyUnknownItem, "This item no longer exists. Please choose again.")
	message.SetString(lang, KeyOptionRequired, "Choose a %s before adding to the cart.")
	message.SetString(lang, KeyUnknownOption, "Options for %q have changed. Please choose again.")
	message.SetString(lang, KeyNameTooShort, "Order name must be at least 2 characters.")
	message.SetString(lang, KeyNoValidItems, "Add at least one valid item.")
	message.SetString(lang, KeyTooManyImages, "Each item can have at most %d images.")
	message.SetString(lang, KeyNegativePrice, "Price cannot be negative.")
	message.SetString(lang, KeyInvalidInput, "Invalid input.")
	message.SetString(lang, KeyMessageRequired, "Enter a status message.")

	// Orders
	message.SetString(lang, KeyAlreadyJoined, "You have already joined this order.")
	message.SetString(lang, KeyInvalidTransition, "The order cannot move to that status.")
	message.SetString(lang, KeyTrackingDisabled, "Status tracking is not enabled for this order.")
	message.SetString(lang, KeyForbidden, "You do not have permission to do that.")
	message.SetString(lang, KeyRateLimited, "Too many import requests. Please wait a minute and try again.")
	message.SetString(lang, KeyCSRFInvalid, "Your session token has expired. Please reload the page.")
	message.SetString(lang, KeyNotFound, "Order not found.")
	message.SetString(lang, KeyNotEditable, "This order has ended and can no longer be changed.")
	message.SetString(lang, KeySummaryNotClosed, "Summaries can only be generated for closed orders.")
	message.SetString(lang, KeyNotParticipant, "Participant not found.")

	// Extraction
	message.SetString(lang, KeyExtractMenuFailed, "Could not read items from the image. Please try again.")
	message.SetString(lang, KeyExtractLinkFailed, "Could not read the web page. Please try again.")
	message.SetString(lang, KeyExtractUnavailable, "AI features are not configured.")
	message.SetString(lang, KeySummaryFailed, "Could not generate the summary. Please try again.")
	message.SetString(lang, KeyImageRequired, "Please upload an image file.")
	message.SetString(lang, KeyImageTooLarge, "The image is too large. The limit is 10 MB.")
	message.SetString(lang, KeyInvalidURL, "Please enter a valid http or https link.")

	message.SetString(lang, KeyServerError, "Something went wrong. Please try again.")
	message.SetString(lang, KeySignInRequired, "Please sign in.")
}
