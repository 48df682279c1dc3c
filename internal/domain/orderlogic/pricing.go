// Package orderlogic holds the pricing and eligibility rules for group-buy
// orders. Everything here is pure: no I/O, no clock reads, no logging.
package orderlogic

import (
	"sort"

	"github.com/dalemusser/litego/internal/domain/models"
)

// UnitPrice is the item's base price plus the surcharge of every selected
// option. A selection whose attribute or option no longer resolves adds 0.
func UnitPrice(ci models.CartItem) int64 {
	unit := ci.Item.Price
	for attrID, value := range ci.SelectedAttributes {
		attr, ok := ci.Item.Attribute(attrID)
		if !ok {
			continue
		}
		if opt, ok := attr.Option(value); ok {
			unit += opt.Price
		}
	}
	return unit
}

// CartItemTotal is (base price + surcharges) × quantity.
func CartItemTotal(ci models.CartItem) int64 {
	return UnitPrice(ci) * int64(ci.Quantity)
}

// ParticipantTotal sums CartItemTotal over items. It is 0 for no items.
func ParticipantTotal(items []models.CartItem) int64 {
	var total int64
	for _, ci := range items {
		total += CartItemTotal(ci)
	}
	return total
}

// UnresolvedSelections returns, sorted, the attribute ids in ci whose
// attribute or chosen option cannot be found on the item. These lines are
// still priced (with zero surcharge) but usually point at a stale cart.
func UnresolvedSelections(ci models.CartItem) []string {
	var out []string
	for attrID, value := range ci.SelectedAttributes {
		attr, ok := ci.Item.Attribute(attrID)
		if !ok {
			out = append(out, attrID)
			continue
		}
		if _, ok := attr.Option(value); !ok {
			out = append(out, attrID)
		}
	}
	sort.Strings(out)
	return out
}
