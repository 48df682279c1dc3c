package orderqueries_test

import (
	"errors"
	"testing"

	orderstore "github.com/dalemusser/litego/internal/app/store/orders"
	participantstore "github.com/dalemusser/litego/internal/app/store/participants"
	"github.com/dalemusser/litego/internal/app/store/queries/orderqueries"
	"github.com/dalemusser/litego/internal/domain/models"
	"github.com/dalemusser/litego/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestListOrders_Scopes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	orders := orderstore.New(db)
	parts := participantstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	me := primitive.NewObjectID()
	pub, _ := orders.Create(ctx, models.OrderDoc{Name: "Bubble Tea", InitiatorID: me})
	_, _ = orders.Create(ctx, models.OrderDoc{Name: "Private lunch", InitiatorID: me, Visibility: models.VisibilityPrivate})
	_, _ = orders.Create(ctx, models.OrderDoc{Name: "Archived", InitiatorID: primitive.NewObjectID(), Status: models.StatusArchived})
	other, _ := orders.Create(ctx, models.OrderDoc{Name: "Bento", InitiatorID: primitive.NewObjectID()})

	_, _ = parts.Insert(ctx, models.ParticipantRecord{OrderID: other.ID, UserID: me, TotalCost: 120})
	_, _ = parts.Insert(ctx, models.ParticipantRecord{OrderID: other.ID, UserID: primitive.NewObjectID(), TotalCost: 80})
	_ = orders.AddParticipantID(ctx, other.ID, me)

	tests := []struct {
		name   string
		filter orderqueries.ListFilter
		want   int
	}{
		{"initiated", orderqueries.ListFilter{Scope: orderqueries.ScopeInitiated, UserID: me}, 2},
		{"participated", orderqueries.ListFilter{Scope: orderqueries.ScopeParticipated, UserID: me}, 1},
		{"mine", orderqueries.ListFilter{Scope: orderqueries.ScopeMine, UserID: me}, 3},
		{"public", orderqueries.ListFilter{Scope: orderqueries.ScopePublic}, 2},
		{"public search", orderqueries.ListFilter{Scope: orderqueries.ScopePublic, SearchQuery: "bub"}, 1},
		{"limit", orderqueries.ListFilter{Scope: orderqueries.ScopeMine, UserID: me, Limit: 1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := orderqueries.ListOrders(ctx, db, tt.filter)
			if err != nil {
				t.Fatalf("ListOrders failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d orders, want %d", len(got), tt.want)
			}
		})
	}

	public, _ := orderqueries.ListOrders(ctx, db, orderqueries.ListFilter{Scope: orderqueries.ScopePublic})
	if len(public) == 2 {
		if public[0].ID != other.ID || public[1].ID != pub.ID {
			t.Error("expected newest first")
		}
		if public[0].ParticipantCount != 2 || public[0].TotalAmount != 200 {
			t.Errorf("computed totals: count=%d total=%d", public[0].ParticipantCount, public[0].TotalAmount)
		}
		if public[1].ParticipantCount != 0 || public[1].TotalAmount != 0 {
			t.Errorf("empty order totals: count=%d total=%d", public[1].ParticipantCount, public[1].TotalAmount)
		}
	}
}

func TestListOrders_RequiresUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := orderqueries.ListOrders(ctx, db, orderqueries.ListFilter{Scope: orderqueries.ScopeInitiated})
	if !errors.Is(err, orderqueries.ErrUserRequired) {
		t.Errorf("expected ErrUserRequired, got %v", err)
	}
}

func TestParseScope(t *testing.T) {
	tests := []struct {
		in   string
		want orderqueries.Scope
		ok   bool
	}{
		{"", orderqueries.ScopeMine, true},
		{"initiated", orderqueries.ScopeInitiated, true},
		{"participated", orderqueries.ScopeParticipated, true},
		{"mine", orderqueries.ScopeMine, true},
		{"public", "", false},
		{"bogus", "", false},
	}
	for _, tt := range tests {
		got, ok := orderqueries.ParseScope(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseScope(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
