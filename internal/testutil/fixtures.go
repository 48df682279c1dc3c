package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/litego/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Calling it again on the same request adds to the existing params.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with the given display name.
func (f *Fixtures) CreateUser(ctx context.Context, name string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		GoogleID:  "google-" + primitive.NewObjectID().Hex(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// OrderOption customizes an order before it is inserted.
type OrderOption func(*models.OrderDoc)

// WithStatus sets the order's status.
func WithStatus(s models.OrderStatus) OrderOption {
	return func(o *models.OrderDoc) { o.Status = s }
}

// WithMaxParticipants caps the order.
func WithMaxParticipants(n int) OrderOption {
	return func(o *models.OrderDoc) { o.MaxParticipants = &n }
}

// WithDeadline sets the order's deadline.
func WithDeadline(t time.Time) OrderOption {
	return func(o *models.OrderDoc) {
		t = t.UTC()
		o.Deadline = &t
	}
}

// WithVisibility sets the order's visibility.
func WithVisibility(v models.Visibility) OrderOption {
	return func(o *models.OrderDoc) { o.Visibility = v }
}

// WithStatusTracking enables the timeline.
func WithStatusTracking() OrderOption {
	return func(o *models.OrderDoc) { o.EnableStatusTracking = true }
}

// CreateOrder inserts an open, public order started by initiator.
func (f *Fixtures) CreateOrder(ctx context.Context, name string, initiator models.User, opts ...OrderOption) models.OrderDoc {
	f.t.Helper()

	now := time.Now().UTC()
	o := models.OrderDoc{
		ID:             primitive.NewObjectID(),
		Name:           name,
		NameCI:         text.Fold(name),
		Status:         models.StatusOpen,
		Visibility:     models.VisibilityPublic,
		InitiatorID:    initiator.ID,
		InitiatorName:  initiator.Name,
		ParticipantIDs: []primitive.ObjectID{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if _, err := f.db.Collection("orders").InsertOne(ctx, o); err != nil {
		f.t.Fatalf("failed to create test order: %v", err)
	}
	return o
}

// CreateItem appends a catalog item to orderID.
func (f *Fixtures) CreateItem(ctx context.Context, orderID primitive.ObjectID, name string, price int64, attrs ...models.Attribute) models.Item {
	f.t.Helper()

	n, err := f.db.Collection("order_items").CountDocuments(ctx, bson.M{"order_id": orderID})
	if err != nil {
		f.t.Fatalf("failed to count test items: %v", err)
	}
	now := time.Now().UTC()
	it := models.Item{
		ID:         primitive.NewObjectID(),
		OrderID:    orderID,
		Name:       name,
		Price:      price,
		Attributes: attrs,
		Position:   int(n),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("order_items").InsertOne(ctx, it); err != nil {
		f.t.Fatalf("failed to create test item: %v", err)
	}
	return it
}

// AddParticipant inserts a participant record and mirrors the user id on
// the order root.
func (f *Fixtures) AddParticipant(ctx context.Context, orderID, userID primitive.ObjectID, items []models.CartSelection, total int64) models.ParticipantRecord {
	f.t.Helper()

	now := time.Now().UTC()
	if items == nil {
		items = []models.CartSelection{}
	}
	p := models.ParticipantRecord{
		ID:        primitive.NewObjectID(),
		OrderID:   orderID,
		UserID:    userID,
		Items:     items,
		TotalCost: total,
		JoinedAt:  now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("order_participants").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test participant: %v", err)
	}
	if _, err := f.db.Collection("orders").UpdateByID(ctx, orderID,
		bson.M{"$addToSet": bson.M{"participant_ids": userID}}); err != nil {
		f.t.Fatalf("failed to mirror test participant: %v", err)
	}
	return p
}
