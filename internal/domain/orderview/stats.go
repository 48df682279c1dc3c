package orderview

import (
	"sort"

	"github.com/dalemusser/litego/internal/domain/models"
	"github.com/dalemusser/litego/internal/domain/orderlogic"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ItemSummary is the total ordered quantity of one catalog item.
type ItemSummary struct {
	ItemID   primitive.ObjectID `json:"item_id"`
	Name     string             `json:"name"`
	Quantity int                `json:"quantity"`
	Total    int64              `json:"total"`
}

// Stats are the figures derived from a composed order at read time.
// ProgressPercent is nil when the order has no target amount.
type Stats struct {
	TotalCost        int64         `json:"total_cost"`
	PaidCount        int           `json:"paid_count"`
	ParticipantCount int           `json:"participant_count"`
	ProgressPercent  *float64      `json:"progress_percent,omitempty"`
	Items            []ItemSummary `json:"items"`
}

// Summarize derives Stats from o. Totals use each participant's stored
// TotalCost; per-item totals are priced with orderlogic.
func Summarize(o models.Order) Stats {
	st := Stats{
		ParticipantCount: len(o.Participants),
		Items:            []ItemSummary{},
	}

	idx := map[primitive.ObjectID]int{}
	for _, p := range o.Participants {
		st.TotalCost += p.TotalCost
		if p.Paid {
			st.PaidCount++
		}
		for _, ci := range p.Items {
			i, ok := idx[ci.Item.ID]
			if !ok {
				i = len(st.Items)
				idx[ci.Item.ID] = i
				st.Items = append(st.Items, ItemSummary{ItemID: ci.Item.ID, Name: ci.Item.Name})
			}
			st.Items[i].Quantity += ci.Quantity
			st.Items[i].Total += orderlogic.CartItemTotal(ci)
		}
	}

	sort.SliceStable(st.Items, func(a, b int) bool {
		return st.Items[a].Quantity > st.Items[b].Quantity
	})

	if o.TargetAmount != nil && *o.TargetAmount > 0 {
		pct := float64(st.TotalCost) / float64(*o.TargetAmount) * 100
		if pct > 100 {
			pct = 100
		}
		st.ProgressPercent = &pct
	}
	return st
}

// Timeline returns the status updates most recent first. The input is
// left in insertion order.
func Timeline(o models.Order) []models.StatusUpdate {
	out := make([]models.StatusUpdate, len(o.StatusUpdates))
	copy(out, o.StatusUpdates)
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	return out
}
