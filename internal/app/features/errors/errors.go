// Package errors writes JSON error responses for the API.
//
// Every error body has the shape {"error": code, "message": text}. Codes
// are stable identifiers clients can branch on; messages are localized for
// the request and safe to show as is.
package errors

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/litego/internal/app/system/i18n"
	"github.com/dalemusser/litego/internal/domain/locale"
)

// Common codes. Feature-specific codes (validation, eligibility) are
// defined where they are produced.
const (
	CodeBadRequest       = "bad_request"
	CodeUnauthorized     = "unauthorized"
	CodeForbidden        = "forbidden"
	CodeNotFound         = "not_found"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeConflict         = "conflict"
	CodeServerError      = "server_error"
	CodeUpstream         = "upstream_error"
	CodeUnavailable      = "unavailable"
	CodeRateLimited      = "rate_limited"
	CodeCSRFInvalid      = "csrf_invalid"
)

// Body is the JSON error envelope.
type Body struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Write sends an error body.
func Write(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, Body{Error: code, Message: message})
}

// BadRequest answers 400 with a caller-supplied code and message.
func BadRequest(w http.ResponseWriter, code, message string) {
	Write(w, http.StatusBadRequest, code, message)
}

// Conflict answers 409 with a caller-supplied code and message.
func Conflict(w http.ResponseWriter, code, message string) {
	Write(w, http.StatusConflict, code, message)
}

// Unauthorized answers 401 asking the client to sign in.
func Unauthorized(w http.ResponseWriter, r *http.Request) {
	Write(w, http.StatusUnauthorized, CodeUnauthorized, locale.T(i18n.Tag(r), locale.KeySignInRequired))
}

// Forbidden answers 403.
func Forbidden(w http.ResponseWriter, r *http.Request) {
	Write(w, http.StatusForbidden, CodeForbidden, locale.T(i18n.Tag(r), locale.KeyForbidden))
}

// NotFound answers 404 for a missing order.
func NotFound(w http.ResponseWriter, r *http.Request) {
	Write(w, http.StatusNotFound, CodeNotFound, locale.T(i18n.Tag(r), locale.KeyNotFound))
}

// NotFoundHandler answers unknown routes.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	Write(w, http.StatusNotFound, CodeNotFound, http.StatusText(http.StatusNotFound))
}

// MethodNotAllowedHandler answers known routes hit with the wrong method.
func MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	Write(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
}
