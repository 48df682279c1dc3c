// internal/app/features/orders/handler.go
package orders

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	apierrors "github.com/dalemusser/litego/internal/app/features/errors"
	itemstore "github.com/dalemusser/litego/internal/app/store/items"
	orderstore "github.com/dalemusser/litego/internal/app/store/orders"
	participantstore "github.com/dalemusser/litego/internal/app/store/participants"
	statusupdatestore "github.com/dalemusser/litego/internal/app/store/statusupdates"
	"github.com/dalemusser/litego/internal/app/system/authz"
	"github.com/dalemusser/litego/internal/app/system/extract"
	"github.com/dalemusser/litego/internal/app/system/i18n"
	"github.com/dalemusser/litego/internal/app/system/inputval"
	"github.com/dalemusser/litego/internal/domain/locale"
	"github.com/dalemusser/litego/internal/domain/models"
	"github.com/dalemusser/litego/internal/domain/orderlogic"
	"github.com/dalemusser/litego/internal/domain/orderview"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

var tracer = otel.Tracer("github.com/dalemusser/litego/internal/app/features/orders")

// Errors returned from inside write transactions and mapped to HTTP
// responses by writeActionError.
var (
	ErrForbidden         = errors.New("not allowed")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotParticipant    = errors.New("participant not found")
	ErrTrackingDisabled  = errors.New("status tracking disabled")
)

// Handler is the shared dependency container for the orders feature.
type Handler struct {
	DB           *mongo.Database
	Log          *zap.Logger
	ErrLog       *apierrors.ErrorLogger
	Orders       *orderstore.Store
	Items        *itemstore.Store
	Participants *participantstore.Store
	Updates      *statusupdatestore.Store
	Loader       *orderview.Loader

	// AI generates closed-order summaries. Nil when not configured.
	AI extract.AI

	Now func() time.Time
}

// NewHandler wires the stores and the order loader. users resolves
// display identities for composition.
func NewHandler(db *mongo.Database, users orderview.UserLookup, ai extract.AI, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	h := &Handler{
		DB:           db,
		Log:          logger,
		ErrLog:       errLog,
		Orders:       orderstore.New(db),
		Items:        itemstore.New(db),
		Participants: participantstore.New(db),
		Updates:      statusupdatestore.New(db),
		AI:           ai,
		Now:          time.Now,
	}
	h.Loader = &orderview.Loader{
		Orders:       h.Orders,
		Items:        h.Items,
		Participants: h.Participants,
		Updates:      h.Updates,
		Composer:     orderview.NewComposer(users, logger),
		Log:          logger,
	}
	return h
}

func (h *Handler) now() time.Time {
	if h.Now == nil {
		return time.Now().UTC()
	}
	return h.Now().UTC()
}

/*─────────────────────────────────────────────────────────────────────────────*
| Request helpers                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// objectIDParam parses a hex ObjectID URL parameter. It writes a 404 and
// reports false when the value is malformed.
func objectIDParam(w http.ResponseWriter, r *http.Request, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		apierrors.NotFound(w, r)
		return primitive.NilObjectID, false
	}
	return id, true
}

// requireUser returns the signed-in user's id or writes a 401.
func requireUser(w http.ResponseWriter, r *http.Request) (string, primitive.ObjectID, bool) {
	name, id, ok := authz.UserCtx(r)
	if !ok {
		apierrors.Unauthorized(w, r)
		return "", primitive.NilObjectID, false
	}
	return name, id, true
}

// decodeJSON reads a bounded JSON body into dst. It writes a 400 and
// reports false on malformed input.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		apierrors.BadRequest(w, inputval.CodeInvalidInput, locale.T(i18n.Tag(r), locale.KeyInvalidInput))
		return false
	}
	return true
}

// loadRoot reads the order root, writing a 404 or 500 on failure.
func (h *Handler) loadRoot(ctx context.Context, w http.ResponseWriter, r *http.Request, id primitive.ObjectID) (models.OrderDoc, bool) {
	o, err := h.Orders.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		apierrors.Write(w, http.StatusNotFound, apierrors.CodeNotFound, locale.T(i18n.Tag(r), locale.KeyNotFound))
		return models.OrderDoc{}, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load order failed", err)
		return models.OrderDoc{}, false
	}
	return o, true
}

// writeActionError maps an error from a write path to a JSON response.
// msg is logged for unexpected errors.
func (h *Handler) writeActionError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	tag := i18n.Tag(r)

	var ve *inputval.ValidationError
	var ee *orderlogic.EligibilityError
	switch {
	case errors.As(err, &ve):
		apierrors.WriteJSON(w, http.StatusBadRequest, ve)
	case errors.As(err, &ee):
		apierrors.Conflict(w, string(ee.Reason), ee.Reason.Message(tag))
	case errors.Is(err, participantstore.ErrAlreadyJoined):
		apierrors.Conflict(w, "already_joined", locale.T(tag, locale.KeyAlreadyJoined))
	case errors.Is(err, orderview.ErrOrderNotFound), errors.Is(err, mongo.ErrNoDocuments):
		apierrors.Write(w, http.StatusNotFound, apierrors.CodeNotFound, locale.T(tag, locale.KeyNotFound))
	case errors.Is(err, ErrNotParticipant):
		apierrors.Write(w, http.StatusNotFound, apierrors.CodeNotFound, locale.T(tag, locale.KeyNotParticipant))
	case errors.Is(err, ErrForbidden):
		h.ErrLog.LogForbidden(w, r, msg)
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, orderstore.ErrStatusConflict):
		apierrors.Conflict(w, "invalid_transition", locale.T(tag, locale.KeyInvalidTransition))
	case errors.Is(err, ErrTrackingDisabled):
		apierrors.Conflict(w, "tracking_disabled", locale.T(tag, locale.KeyTrackingDisabled))
	case errors.Is(err, context.DeadlineExceeded):
		h.Log.Warn(msg+": timed out", zap.String("path", r.URL.Path))
		apierrors.Write(w, http.StatusServiceUnavailable, apierrors.CodeUnavailable, locale.T(tag, locale.KeyServerError))
	default:
		h.ErrLog.LogServerError(w, r, msg, err)
	}
}
