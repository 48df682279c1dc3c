package errors

import (
	"net/http"

	"github.com/dalemusser/litego/internal/app/system/authz"
	"github.com/dalemusser/litego/internal/app/system/i18n"
	"github.com/dalemusser/litego/internal/domain/locale"
	"go.uber.org/zap"
)

// ErrorLogger logs an error with request context and writes the matching
// JSON response in one call.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger creates an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{Log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	fs := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if uid, ok := authz.UserID(r); ok {
		fs = append(fs, zap.String("user_id", uid.Hex()))
	}
	if err != nil {
		fs = append(fs, zap.Error(err))
	}
	return fs
}

// LogServerError logs at Error and answers 500 with a generic message.
// err is never shown to the client.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	e.Log.Error(msg, e.fields(r, err)...)
	Write(w, http.StatusInternalServerError, CodeServerError, locale.T(i18n.Tag(r), locale.KeyServerError))
}

// LogBadRequest logs at Warn and answers 400 with code and userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, code, userMsg string) {
	e.Log.Warn(msg, e.fields(r, err)...)
	BadRequest(w, code, userMsg)
}

// LogUpstreamError logs at Warn and answers 502 with userMsg. Used when an
// external dependency fails and the client may retry.
func (e *ErrorLogger) LogUpstreamError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	e.Log.Warn(msg, e.fields(r, err)...)
	Write(w, http.StatusBadGateway, CodeUpstream, userMsg)
}

// LogForbidden logs at Info and answers 403.
func (e *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, msg string) {
	e.Log.Info(msg, e.fields(r, nil)...)
	Forbidden(w, r)
}
