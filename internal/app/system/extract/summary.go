package extract

import (
	"github.com/dalemusser/litego/internal/domain/models"
	"github.com/dalemusser/litego/internal/domain/orderlogic"
)

// SummaryLine is one cart line as shown to the model.
type SummaryLine struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

// SummaryParticipant is one participant as shown to the model.
type SummaryParticipant struct {
	Name  string        `json:"name"`
	Items []SummaryLine `json:"items"`
	Total int64         `json:"total"`
	Paid  bool          `json:"paid"`
}

// SummaryInput is the payload for a summary table. Contact details are
// never included.
type SummaryInput struct {
	OrderName    string               `json:"order_name"`
	Participants []SummaryParticipant `json:"participants"`
	Total        int64                `json:"total"`
}

// NewSummaryInput flattens a composed order. Line prices include option
// surcharges and option choices are appended to the item name.
func NewSummaryInput(o models.Order) SummaryInput {
	in := SummaryInput{OrderName: o.Name, Participants: make([]SummaryParticipant, 0, len(o.Participants))}
	for _, p := range o.Participants {
		sp := SummaryParticipant{Name: p.User.Name, Total: p.TotalCost, Paid: p.Paid, Items: make([]SummaryLine, 0, len(p.Items))}
		for _, ci := range p.Items {
			name := ci.Item.Name
			if opts := optionLabel(ci); opts != "" {
				name += " (" + opts + ")"
			}
			sp.Items = append(sp.Items, SummaryLine{Name: name, Quantity: ci.Quantity, Price: orderlogic.UnitPrice(ci)})
		}
		in.Participants = append(in.Participants, sp)
		in.Total += p.TotalCost
	}
	return in
}

func optionLabel(ci models.CartItem) string {
	var out string
	for _, a := range ci.Item.Attributes {
		v, ok := ci.SelectedAttributes[a.ID]
		if !ok {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += v
	}
	return out
}
