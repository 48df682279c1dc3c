package orderlogic

import (
	"testing"
	"time"

	"github.com/dalemusser/litego/internal/domain/locale"
	"github.com/dalemusser/litego/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func TestEvaluate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name         string
		doc          models.OrderDoc
		participants int
		want         Eligibility
	}{
		{
			name: "closed without limits",
			doc:  models.OrderDoc{Status: models.StatusClosed},
			want: Eligibility{Reason: ReasonOrderEnded},
		},
		{
			name: "archived",
			doc:  models.OrderDoc{Status: models.StatusArchived},
			want: Eligibility{Reason: ReasonOrderEnded},
		},
		{
			name:         "status dominates capacity and deadline",
			doc:          models.OrderDoc{Status: models.StatusClosed, MaxParticipants: intPtr(1), Deadline: timePtr(past)},
			participants: 5,
			want:         Eligibility{Reason: ReasonOrderEnded},
		},
		{
			name:         "capacity reached",
			doc:          models.OrderDoc{Status: models.StatusOpen, MaxParticipants: intPtr(2)},
			participants: 2,
			want:         Eligibility{Reason: ReasonCapacityReached},
		},
		{
			name:         "capacity reached before deadline",
			doc:          models.OrderDoc{Status: models.StatusOpen, MaxParticipants: intPtr(2), Deadline: timePtr(future)},
			participants: 2,
			want:         Eligibility{Reason: ReasonCapacityReached},
		},
		{
			name:         "capacity checked before deadline",
			doc:          models.OrderDoc{Status: models.StatusOpen, MaxParticipants: intPtr(2), Deadline: timePtr(past)},
			participants: 3,
			want:         Eligibility{Reason: ReasonCapacityReached},
		},
		{
			name: "deadline passed",
			doc:  models.OrderDoc{Status: models.StatusOpen, Deadline: timePtr(past)},
			want: Eligibility{Reason: ReasonDeadlinePassed},
		},
		{
			name: "deadline equal to now is still open",
			doc:  models.OrderDoc{Status: models.StatusOpen, Deadline: timePtr(now)},
			want: Eligibility{IsOpen: true},
		},
		{
			name:         "no capacity limit",
			doc:          models.OrderDoc{Status: models.StatusOpen},
			participants: 10000,
			want:         Eligibility{IsOpen: true},
		},
		{
			name:         "room left",
			doc:          models.OrderDoc{Status: models.StatusOpen, MaxParticipants: intPtr(3), Deadline: timePtr(future)},
			participants: 2,
			want:         Eligibility{IsOpen: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.doc, tt.participants, now))
		})
	}
}

func TestIsOrderOpen_UsesParticipantList(t *testing.T) {
	now := time.Now()
	o := models.Order{
		OrderDoc:     models.OrderDoc{Status: models.StatusOpen, MaxParticipants: intPtr(2)},
		Participants: []models.Participant{{}, {}},
	}
	got := IsOrderOpen(o, now)
	assert.False(t, got.IsOpen)
	assert.Equal(t, "名額已滿", got.Reason.String())
}

func TestReason_Messages(t *testing.T) {
	assert.Equal(t, "訂單已結束", ReasonOrderEnded.String())
	assert.Equal(t, "名額已滿", ReasonCapacityReached.String())
	assert.Equal(t, "已過截止時間", ReasonDeadlinePassed.String())
	assert.Equal(t, "Capacity reached.", ReasonCapacityReached.Message(locale.English))
	assert.Equal(t, "", ReasonNone.String())
}

func TestEligibility_Err(t *testing.T) {
	assert.NoError(t, Eligibility{IsOpen: true}.Err())

	err := Eligibility{Reason: ReasonDeadlinePassed}.Err()
	require.Error(t, err)
	var ee *EligibilityError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, ReasonDeadlinePassed, ee.Reason)
	assert.Equal(t, "已過截止時間", err.Error())
}
