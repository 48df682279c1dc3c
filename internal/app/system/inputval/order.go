package inputval

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dalemusser/litego/internal/domain/locale"
	"github.com/dalemusser/litego/internal/domain/models"
	"github.com/google/uuid"
	"golang.org/x/text/language"
)

// MinOrderNameLen is the shortest accepted order name, in characters.
const MinOrderNameLen = 2

// OptionInput is a submitted attribute option.
type OptionInput struct {
	ID    string `json:"id,omitempty"`
	Value string `json:"value"`
	Price int64  `json:"price"`
}

// AttributeInput is a submitted attribute.
type AttributeInput struct {
	ID      string        `json:"id,omitempty"`
	Name    string        `json:"name"`
	Options []OptionInput `json:"options"`
}

// ImageInput is a submitted item image.
type ImageInput struct {
	ID   string `json:"id,omitempty"`
	URL  string `json:"url" validate:"required,httpurl" label:"Image URL"`
	Name string `json:"name,omitempty" validate:"max=200" label:"Image name"`
}

// ItemInput is a submitted catalog item.
type ItemInput struct {
	Name        string           `json:"name" validate:"max=200" label:"Item name"`
	Price       int64            `json:"price"`
	MaxQuantity *int             `json:"max_quantity,omitempty"`
	Images      []ImageInput     `json:"images,omitempty" validate:"dive"`
	Attributes  []AttributeInput `json:"attributes,omitempty"`
}

// SettingsInput holds the order fields shared by create and settings edits.
type SettingsInput struct {
	Name                 string     `json:"name" validate:"max=200" label:"Order name"`
	Description          string     `json:"description" validate:"max=5000" label:"Description"`
	Visibility           string     `json:"visibility" validate:"omitempty,oneof=public private" label:"Visibility"`
	Deadline             *time.Time `json:"deadline,omitempty"`
	TargetAmount         *int64     `json:"target_amount,omitempty"`
	MaxParticipants      *int       `json:"max_participants,omitempty"`
	ImageURL             string     `json:"image_url,omitempty" validate:"omitempty,httpurl" label:"Image URL"`
	EnableStatusTracking bool       `json:"enable_status_tracking"`
}

// CreateOrderInput is the body of a create-order request.
type CreateOrderInput struct {
	SettingsInput
	Items []ItemInput `json:"items"`
}

// OrderDraft is a normalized, validated order ready to be written.
// Items have no ids yet.
type OrderDraft struct {
	Name                 string
	Description          string
	Visibility           models.Visibility
	Deadline             *time.Time
	TargetAmount         *int64
	MaxParticipants      *int
	ImageURL             string
	EnableStatusTracking bool
	Items                []models.Item
}

// NormalizeSettings trims and validates the order-level fields.
// Non-positive targets and caps are treated as unset.
func NormalizeSettings(tag language.Tag, in SettingsInput) (OrderDraft, error) {
	if res := Validate(in); res.HasErrors() {
		return OrderDraft{}, newError(CodeInvalidInput, res.First())
	}
	name := strings.TrimSpace(in.Name)
	if utf8.RuneCountInString(name) < MinOrderNameLen {
		return OrderDraft{}, newError(CodeNameTooShort, locale.T(tag, locale.KeyNameTooShort))
	}

	d := OrderDraft{
		Name:                 name,
		Description:          strings.TrimSpace(in.Description),
		Visibility:           models.Visibility(in.Visibility),
		ImageURL:             strings.TrimSpace(in.ImageURL),
		EnableStatusTracking: in.EnableStatusTracking,
	}
	if d.Visibility == "" {
		d.Visibility = models.VisibilityPublic
	}
	if in.Deadline != nil {
		t := in.Deadline.UTC()
		d.Deadline = &t
	}
	if in.TargetAmount != nil && *in.TargetAmount > 0 {
		v := *in.TargetAmount
		d.TargetAmount = &v
	}
	if in.MaxParticipants != nil && *in.MaxParticipants > 0 {
		v := *in.MaxParticipants
		d.MaxParticipants = &v
	}
	return d, nil
}

// NormalizeCreateOrder validates a create-order request. Items without a
// name are dropped; at least one item must remain.
func NormalizeCreateOrder(tag language.Tag, in CreateOrderInput) (OrderDraft, error) {
	d, err := NormalizeSettings(tag, in.SettingsInput)
	if err != nil {
		return OrderDraft{}, err
	}
	for _, ii := range in.Items {
		if strings.TrimSpace(ii.Name) == "" {
			continue
		}
		it, err := NormalizeItem(tag, ii)
		if err != nil {
			return OrderDraft{}, err
		}
		d.Items = append(d.Items, it)
	}
	if len(d.Items) == 0 {
		return OrderDraft{}, newError(CodeNoValidItems, locale.T(tag, locale.KeyNoValidItems))
	}
	return d, nil
}

// NormalizeItem validates one catalog item. Blank attributes and options
// are dropped, and missing attribute, option and image ids are generated.
func NormalizeItem(tag language.Tag, in ItemInput) (models.Item, error) {
	if res := Validate(in); res.HasErrors() {
		return models.Item{}, newError(CodeInvalidInput, res.First())
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Item{}, newError(CodeNoValidItems, locale.T(tag, locale.KeyNoValidItems))
	}
	if in.Price < 0 {
		return models.Item{}, newError(CodeNegativePrice, locale.T(tag, locale.KeyNegativePrice))
	}
	if len(in.Images) > models.MaxItemImages {
		return models.Item{}, newError(CodeTooManyImages, locale.T(tag, locale.KeyTooManyImages, models.MaxItemImages))
	}

	it := models.Item{Name: name, Price: in.Price}
	if in.MaxQuantity != nil && *in.MaxQuantity > 0 {
		v := *in.MaxQuantity
		it.MaxQuantity = &v
	}
	for _, img := range in.Images {
		it.Images = append(it.Images, models.ItemImage{
			ID:   idOrNew(img.ID),
			URL:  strings.TrimSpace(img.URL),
			Name: strings.TrimSpace(img.Name),
		})
	}
	for _, ai := range in.Attributes {
		attrName := strings.TrimSpace(ai.Name)
		if attrName == "" {
			continue
		}
		attr := models.Attribute{ID: idOrNew(ai.ID), Name: attrName, Options: []models.AttributeOption{}}
		for _, oi := range ai.Options {
			val := strings.TrimSpace(oi.Value)
			if val == "" {
				continue
			}
			if oi.Price < 0 {
				return models.Item{}, newError(CodeNegativePrice, locale.T(tag, locale.KeyNegativePrice))
			}
			attr.Options = append(attr.Options, models.AttributeOption{ID: idOrNew(oi.ID), Value: val, Price: oi.Price})
		}
		it.Attributes = append(it.Attributes, attr)
	}
	return it, nil
}

func idOrNew(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return uuid.NewString()
}
