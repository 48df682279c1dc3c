package orderview

import (
	"testing"
	"time"

	"github.com/dalemusser/litego/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func int64Ptr(v int64) *int64 { return &v }

func TestSummarize_Empty(t *testing.T) {
	st := Summarize(models.Order{})
	assert.Equal(t, int64(0), st.TotalCost)
	assert.Equal(t, 0, st.PaidCount)
	assert.Nil(t, st.ProgressPercent, "no target means no progress figure")
	assert.Empty(t, st.Items)

	st = Summarize(models.Order{OrderDoc: models.OrderDoc{TargetAmount: int64Ptr(500)}})
	require.NotNil(t, st.ProgressPercent)
	assert.Equal(t, 0.0, *st.ProgressPercent)
}

func TestSummarize_TotalsAndItems(t *testing.T) {
	tea := models.Item{ID: primitive.NewObjectID(), Name: "Green Tea", Price: 30}
	boba := models.Item{
		ID: primitive.NewObjectID(), Name: "Boba", Price: 50,
		Attributes: []models.Attribute{{ID: "size", Name: "Size", Options: []models.AttributeOption{{Value: "L", Price: 10}}}},
	}

	o := models.Order{
		OrderDoc: models.OrderDoc{TargetAmount: int64Ptr(200)},
		Participants: []models.Participant{
			{TotalCost: 60, Paid: true, Items: []models.CartItem{{Item: tea, Quantity: 2}}},
			{TotalCost: 180, Items: []models.CartItem{
				{Item: boba, Quantity: 3, SelectedAttributes: map[string]string{"size": "L"}},
			}},
		},
	}

	st := Summarize(o)
	assert.Equal(t, int64(240), st.TotalCost)
	assert.Equal(t, 1, st.PaidCount)
	assert.Equal(t, 2, st.ParticipantCount)
	require.NotNil(t, st.ProgressPercent)
	assert.Equal(t, 100.0, *st.ProgressPercent, "progress is capped")

	require.Len(t, st.Items, 2)
	assert.Equal(t, "Boba", st.Items[0].Name, "sorted by quantity")
	assert.Equal(t, 3, st.Items[0].Quantity)
	assert.Equal(t, int64(180), st.Items[0].Total)
	assert.Equal(t, "Green Tea", st.Items[1].Name)
	assert.Equal(t, int64(60), st.Items[1].Total)
}

func TestSummarize_PartialProgress(t *testing.T) {
	o := models.Order{
		OrderDoc:     models.OrderDoc{TargetAmount: int64Ptr(400)},
		Participants: []models.Participant{{TotalCost: 100}},
	}
	st := Summarize(o)
	require.NotNil(t, st.ProgressPercent)
	assert.InDelta(t, 25.0, *st.ProgressPercent, 0.0001)
}

func TestTimeline_MostRecentFirst(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	o := models.Order{StatusUpdates: []models.StatusUpdate{
		{Message: "first", CreatedAt: base},
		{Message: "second", CreatedAt: base.Add(time.Minute)},
		{Message: "third", CreatedAt: base.Add(2 * time.Minute)},
	}}

	tl := Timeline(o)
	require.Len(t, tl, 3)
	assert.Equal(t, "third", tl[0].Message)
	assert.Equal(t, "first", tl[2].Message)
	assert.Equal(t, "first", o.StatusUpdates[0].Message, "input order untouched")
}

func TestMirrorDrift(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	recs := []models.ParticipantRecord{{UserID: a}, {UserID: b}}

	assert.False(t, MirrorDrift(models.OrderDoc{ParticipantIDs: []primitive.ObjectID{b, a}}, recs))
	assert.True(t, MirrorDrift(models.OrderDoc{ParticipantIDs: []primitive.ObjectID{a}}, recs))
	assert.True(t, MirrorDrift(models.OrderDoc{ParticipantIDs: []primitive.ObjectID{a, b, primitive.NewObjectID()}}, recs))
	assert.False(t, MirrorDrift(models.OrderDoc{}, nil))
	assert.Equal(t, []primitive.ObjectID{a, b}, ParticipantIDs(recs))
}
