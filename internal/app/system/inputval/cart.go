package inputval

import (
	"github.com/dalemusser/litego/internal/domain/locale"
	"github.com/dalemusser/litego/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/text/language"
)

// CartLine is one requested cart line as sent by a client.
// SelectedAttributes maps attribute id to option value.
type CartLine struct {
	ItemID             primitive.ObjectID `json:"item_id"`
	Quantity           int                `json:"quantity"`
	SelectedAttributes map[string]string  `json:"selected_attributes,omitempty"`
}

// ValidateCart checks lines against the order's current catalog and
// returns them hydrated with the live items, in request order.
//
// When joining, an empty cart is rejected and every quantity must be
// positive. When editing, zero-quantity lines are dropped before any
// catalog lookup and an empty result is allowed; the caller treats it as
// leaving the order. A kept line must name a live item, so an edit that
// keeps a line whose item was deleted is rejected with unknown_item.
//
// Every attribute that has options must be chosen, and every chosen
// option must exist. Quantities for the same item are summed before
// checking the item's max quantity.
func ValidateCart(tag language.Tag, catalog []models.Item, lines []CartLine, editing bool) ([]models.CartItem, error) {
	byID := make(map[primitive.ObjectID]models.Item, len(catalog))
	for _, it := range catalog {
		byID[it.ID] = it
	}

	out := make([]models.CartItem, 0, len(lines))
	perItem := map[primitive.ObjectID]int{}

	for _, ln := range lines {
		if ln.Quantity == 0 && editing {
			continue
		}
		it, ok := byID[ln.ItemID]
		if !ok {
			return nil, newError(CodeUnknownItem, locale.T(tag, locale.KeyUnknownItem))
		}
		if ln.Quantity <= 0 {
			return nil, newError(CodeQuantityPositive, locale.T(tag, locale.KeyQuantityPositive, it.Name))
		}
		if err := checkSelections(tag, it, ln.SelectedAttributes); err != nil {
			return nil, err
		}

		perItem[it.ID] += ln.Quantity
		if it.MaxQuantity != nil && perItem[it.ID] > *it.MaxQuantity {
			return nil, newError(CodeExceedsMax, locale.T(tag, locale.KeyExceedsMax, it.Name, *it.MaxQuantity))
		}

		var sel map[string]string
		if len(ln.SelectedAttributes) > 0 {
			sel = make(map[string]string, len(ln.SelectedAttributes))
			for k, v := range ln.SelectedAttributes {
				sel[k] = v
			}
		}
		out = append(out, models.CartItem{Item: it, Quantity: ln.Quantity, SelectedAttributes: sel})
	}

	if len(out) == 0 && !editing {
		return nil, newError(CodeNoItems, locale.T(tag, locale.KeyNoItems))
	}
	return out, nil
}

func checkSelections(tag language.Tag, it models.Item, sel map[string]string) error {
	for attrID, value := range sel {
		attr, ok := it.Attribute(attrID)
		if !ok {
			return newError(CodeUnknownOption, locale.T(tag, locale.KeyUnknownOption, it.Name))
		}
		if _, ok := attr.Option(value); !ok {
			return newError(CodeUnknownOption, locale.T(tag, locale.KeyUnknownOption, it.Name))
		}
	}
	for _, attr := range it.Attributes {
		if len(attr.Options) == 0 {
			continue
		}
		if _, ok := sel[attr.ID]; !ok {
			return newError(CodeOptionRequired, locale.T(tag, locale.KeyOptionRequired, attr.Name))
		}
	}
	return nil
}
