// internal/domain/models/item.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxItemImages bounds the image list on a catalog item.
const MaxItemImages = 5

// Item is one purchasable entry in an order's catalog.
// Prices are whole currency units.
type Item struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	OrderID     primitive.ObjectID `bson:"order_id" json:"-"`
	Name        string             `bson:"name" json:"name"`
	Price       int64              `bson:"price" json:"price"`
	Images      []ItemImage        `bson:"images,omitempty" json:"images,omitempty"`
	Attributes  []Attribute        `bson:"attributes,omitempty" json:"attributes,omitempty"`
	MaxQuantity *int               `bson:"max_quantity,omitempty" json:"max_quantity,omitempty"`
	Position    int                `bson:"position" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"-"`
	UpdatedAt time.Time `bson:"updated_at" json:"-"`
}

// ItemImage references an image shown alongside an item.
type ItemImage struct {
	ID   string `bson:"id" json:"id"`
	URL  string `bson:"url" json:"url"`
	Name string `bson:"name,omitempty" json:"name,omitempty"`
}

// Attribute is a named choice axis on an item, such as size or sweetness.
type Attribute struct {
	ID      string            `bson:"id" json:"id"`
	Name    string            `bson:"name" json:"name"`
	Options []AttributeOption `bson:"options" json:"options"`
}

// AttributeOption is one selectable value. Price is added to the item's
// base price when the option is chosen.
type AttributeOption struct {
	ID    string `bson:"id" json:"id"`
	Value string `bson:"value" json:"value"`
	Price int64  `bson:"price" json:"price"`
}

// Attribute looks up an attribute by id.
func (it Item) Attribute(id string) (Attribute, bool) {
	for _, a := range it.Attributes {
		if a.ID == id {
			return a, true
		}
	}
	return Attribute{}, false
}

// Option looks up an option by its display value. Selections store the
// value string, not the option id.
func (a Attribute) Option(value string) (AttributeOption, bool) {
	for _, o := range a.Options {
		if o.Value == value {
			return o, true
		}
	}
	return AttributeOption{}, false
}
