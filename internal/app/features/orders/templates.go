// internal/app/features/orders/templates.go
package orders

import (
	"net/http"

	apierrors "github.com/dalemusser/litego/internal/app/features/errors"
	"github.com/dalemusser/litego/internal/app/system/inputval"
)

// AttributeTemplates are ready-made attributes a creator can add to an
// item. Clients copy one into an item as is.
var AttributeTemplates = []inputval.AttributeInput{
	{
		ID:   "template-size",
		Name: "尺寸",
		Options: []inputval.OptionInput{
			{Value: "小", Price: 0},
			{Value: "中", Price: 10},
			{Value: "大", Price: 20},
		},
	},
	{
		ID:   "template-color",
		Name: "顏色",
		Options: []inputval.OptionInput{
			{Value: "黑色"},
			{Value: "白色"},
			{Value: "紅色"},
		},
	},
	{
		ID:   "template-capacity",
		Name: "容量",
		Options: []inputval.OptionInput{
			{Value: "350ml", Price: 0},
			{Value: "500ml", Price: 15},
			{Value: "750ml", Price: 25},
		},
	},
	{
		ID:   "template-sweetness",
		Name: "甜度",
		Options: []inputval.OptionInput{
			{Value: "正常糖"},
			{Value: "少糖"},
			{Value: "半糖"},
			{Value: "微糖"},
			{Value: "無糖"},
		},
	},
	{
		ID:   "template-ice",
		Name: "冰塊",
		Options: []inputval.OptionInput{
			{Value: "正常冰"},
			{Value: "少冰"},
			{Value: "微冰"},
			{Value: "去冰"},
		},
	},
}

// ServeAttributeTemplates handles GET /api/attribute-templates.
func (h *Handler) ServeAttributeTemplates(w http.ResponseWriter, r *http.Request) {
	apierrors.WriteJSON(w, http.StatusOK, map[string]any{"templates": AttributeTemplates})
}
