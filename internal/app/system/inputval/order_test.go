package inputval

import (
	"testing"
	"time"

	"github.com/dalemusser/litego/internal/domain/locale"
	"github.com/dalemusser/litego/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func TestNormalizeCreateOrder(t *testing.T) {
	deadline := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("TPE", 8*3600))
	in := CreateOrderInput{
		SettingsInput: SettingsInput{
			Name:            "  週五飲料  ",
			Deadline:        &deadline,
			TargetAmount:    int64Ptr(0),
			MaxParticipants: intPtr(10),
		},
		Items: []ItemInput{
			{Name: "   ", Price: 20},
			{
				Name: "珍奶", Price: 50, MaxQuantity: intPtr(0),
				Attributes: []AttributeInput{
					{Name: "大小", Options: []OptionInput{{Value: "M"}, {Value: " "}, {Value: "L", Price: 10}}},
					{Name: " "},
				},
				Images: []ImageInput{{URL: "https://img.example.com/a.png"}},
			},
		},
	}

	d, err := NormalizeCreateOrder(locale.Default, in)
	require.NoError(t, err)
	assert.Equal(t, "週五飲料", d.Name)
	assert.Equal(t, models.VisibilityPublic, d.Visibility)
	require.NotNil(t, d.Deadline)
	assert.Equal(t, time.UTC, d.Deadline.Location())
	assert.True(t, d.Deadline.Equal(deadline))
	assert.Nil(t, d.TargetAmount, "non-positive target is unset")
	require.NotNil(t, d.MaxParticipants)
	assert.Equal(t, 10, *d.MaxParticipants)

	require.Len(t, d.Items, 1, "blank items are dropped")
	it := d.Items[0]
	assert.Nil(t, it.MaxQuantity)
	require.Len(t, it.Attributes, 1)
	attr := it.Attributes[0]
	assert.NotEmpty(t, attr.ID)
	require.Len(t, attr.Options, 2)
	assert.Equal(t, "L", attr.Options[1].Value)
	assert.NotEqual(t, attr.Options[0].ID, attr.Options[1].ID)
	require.Len(t, it.Images, 1)
	assert.NotEmpty(t, it.Images[0].ID)
}

func TestNormalizeCreateOrder_Rejections(t *testing.T) {
	valid := []ItemInput{{Name: "Tea", Price: 30}}
	tooMany := make([]ImageInput, models.MaxItemImages+1)
	for i := range tooMany {
		tooMany[i] = ImageInput{URL: "https://img.example.com/x.png"}
	}

	tests := []struct {
		name string
		in   CreateOrderInput
		code string
	}{
		{"short name", CreateOrderInput{SettingsInput: SettingsInput{Name: " 茶 "}, Items: valid}, CodeNameTooShort},
		{"no items", CreateOrderInput{SettingsInput: SettingsInput{Name: "Drinks"}}, CodeNoValidItems},
		{"only blank items", CreateOrderInput{SettingsInput: SettingsInput{Name: "Drinks"}, Items: []ItemInput{{Name: ""}}}, CodeNoValidItems},
		{"negative price", CreateOrderInput{SettingsInput: SettingsInput{Name: "Drinks"}, Items: []ItemInput{{Name: "Tea", Price: -1}}}, CodeNegativePrice},
		{"negative surcharge", CreateOrderInput{SettingsInput: SettingsInput{Name: "Drinks"}, Items: []ItemInput{{
			Name: "Tea", Attributes: []AttributeInput{{Name: "Size", Options: []OptionInput{{Value: "S", Price: -5}}}},
		}}}, CodeNegativePrice},
		{"too many images", CreateOrderInput{SettingsInput: SettingsInput{Name: "Drinks"}, Items: []ItemInput{{Name: "Tea", Images: tooMany}}}, CodeTooManyImages},
		{"bad visibility", CreateOrderInput{SettingsInput: SettingsInput{Name: "Drinks", Visibility: "secret"}, Items: valid}, CodeInvalidInput},
		{"bad image url", CreateOrderInput{SettingsInput: SettingsInput{Name: "Drinks", ImageURL: "javascript:alert(1)"}, Items: valid}, CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeCreateOrder(locale.Default, tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.code, codeOf(t, err))
		})
	}
}

func TestNormalizeItem_KeepsSubmittedIDs(t *testing.T) {
	it, err := NormalizeItem(locale.Default, ItemInput{
		Name: "Boba", Price: 50,
		Attributes: []AttributeInput{{ID: "size", Name: "Size", Options: []OptionInput{{ID: "l", Value: "L", Price: 10}}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "size", it.Attributes[0].ID)
	assert.Equal(t, "l", it.Attributes[0].Options[0].ID)
}
