package orderview

import (
	"testing"

	"github.com/dalemusser/litego/internal/domain/models"
	"github.com/dalemusser/litego/internal/domain/orderlogic"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestHydrate_DeletedItemKeepsSurcharges(t *testing.T) {
	sel := models.CartSelection{
		ItemID:             primitive.NewObjectID(),
		ItemName:           "Milk Tea",
		ItemPrice:          50,
		UnitPrice:          60,
		Quantity:           2,
		SelectedAttributes: map[string]string{"size": "L"},
	}

	ci, live := NewCatalog(nil).Hydrate(sel, "Deleted item")
	assert.False(t, live)
	assert.Equal(t, "Milk Tea", ci.Item.Name)
	assert.Equal(t, int64(60), ci.Item.Price)
	assert.Equal(t, "L", ci.SelectedAttributes["size"])
	assert.Equal(t, int64(120), orderlogic.CartItemTotal(ci), "matches the total stored at join time")
}

func TestHydrate_LegacySnapshotUsesBasePrice(t *testing.T) {
	sel := models.CartSelection{ItemID: primitive.NewObjectID(), ItemPrice: 45, Quantity: 1}

	ci, live := NewCatalog(nil).Hydrate(sel, "Deleted item")
	assert.False(t, live)
	assert.Equal(t, "Deleted item", ci.Item.Name)
	assert.Equal(t, int64(45), ci.Item.Price)
}

func TestHydrate_LiveItemWins(t *testing.T) {
	tea := models.Item{ID: primitive.NewObjectID(), Name: "Green Tea", Price: 30}
	sel := models.CartSelection{ItemID: tea.ID, ItemName: "Old", ItemPrice: 25, UnitPrice: 25, Quantity: 3}

	ci, live := NewCatalog([]models.Item{tea}).Hydrate(sel, "Deleted item")
	assert.True(t, live)
	assert.Equal(t, tea, ci.Item)
	assert.Equal(t, 3, ci.Quantity)
}
