package orderview

import (
	"github.com/dalemusser/litego/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Catalog indexes an order's items by id.
type Catalog map[primitive.ObjectID]models.Item

// NewCatalog builds a Catalog from items.
func NewCatalog(items []models.Item) Catalog {
	c := make(Catalog, len(items))
	for _, it := range items {
		c[it.ID] = it
	}
	return c
}

// Hydrate resolves a stored selection against the catalog. When the item
// is gone, a stand-in is built from the selection's snapshot so the line
// stays displayable; missingName is used if the snapshot has no name.
// The stand-in has no attributes, so its price is the snapshotted unit
// price (surcharges included) when one was stored.
// The bool reports whether the live item was found.
func (c Catalog) Hydrate(sel models.CartSelection, missingName string) (models.CartItem, bool) {
	ci := models.CartItem{
		Quantity:           sel.Quantity,
		SelectedAttributes: sel.SelectedAttributes,
	}
	if it, ok := c[sel.ItemID]; ok {
		ci.Item = it
		return ci, true
	}
	name := sel.ItemName
	if name == "" {
		name = missingName
	}
	price := sel.ItemPrice
	if sel.UnitPrice > 0 {
		price = sel.UnitPrice
	}
	ci.Item = models.Item{
		ID:    sel.ItemID,
		Name:  name,
		Price: price,
	}
	return ci, false
}

// HydrateAll resolves every selection, preserving order.
func (c Catalog) HydrateAll(sels []models.CartSelection, missingName string) []models.CartItem {
	out := make([]models.CartItem, 0, len(sels))
	for _, s := range sels {
		ci, _ := c.Hydrate(s, missingName)
		out = append(out, ci)
	}
	return out
}
