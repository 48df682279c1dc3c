package orderview

import (
	"github.com/dalemusser/litego/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParticipantIDs returns the user ids of records in order.
func ParticipantIDs(records []models.ParticipantRecord) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.UserID)
	}
	return ids
}

// MirrorDrift reports whether the root's participant_ids disagree with the
// participant records, compared as sets.
func MirrorDrift(root models.OrderDoc, records []models.ParticipantRecord) bool {
	want := make(map[primitive.ObjectID]struct{}, len(records))
	for _, r := range records {
		want[r.UserID] = struct{}{}
	}
	have := make(map[primitive.ObjectID]struct{}, len(root.ParticipantIDs))
	for _, id := range root.ParticipantIDs {
		have[id] = struct{}{}
	}
	if len(want) != len(have) {
		return true
	}
	for id := range want {
		if _, ok := have[id]; !ok {
			return true
		}
	}
	return false
}
