package csvutil

import (
	"strings"
	"testing"

	"github.com/dalemusser/litego/internal/domain/locale"
	"github.com/dalemusser/litego/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func greenTeaOrder() models.Order {
	tea := models.Item{
		ID:    primitive.NewObjectID(),
		Name:  "Green Tea",
		Price: 30,
		Attributes: []models.Attribute{{
			ID:      "a1",
			Name:    "sugar",
			Options: []models.AttributeOption{{ID: "o1", Value: "none"}},
		}},
	}
	return models.Order{
		Participants: []models.Participant{{
			User:  models.User{Name: "Jill"},
			Items: []models.CartItem{{Item: tea, Quantity: 2, SelectedAttributes: map[string]string{"a1": "none"}}},
			Paid:  true,
		}},
	}
}

func TestGenerateOrderCSV_SingleRow(t *testing.T) {
	got := GenerateOrderCSV(greenTeaOrder(), locale.TraditionalChineseTW)
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), got)
	}
	if lines[0] != "參與者,項目,數量,單價,選項,小計,付款狀態" {
		t.Errorf("header = %q", lines[0])
	}
	want := `Jill,Green Tea,2,30,"sugar: none",60,已付`
	if lines[1] != want {
		t.Errorf("row = %q, want %q", lines[1], want)
	}
}

func TestGenerateOrderCSV_EmptyOrderIsHeaderOnly(t *testing.T) {
	got := GenerateOrderCSV(models.Order{}, locale.English)
	want := "Participant,Item,Quantity,UnitPrice,Options,Subtotal,PaymentStatus\n"
	if got != want {
		t.Errorf("GenerateOrderCSV() = %q, want %q", got, want)
	}
}

func TestGenerateOrderCSV_QuotesSpecialCharacters(t *testing.T) {
	o := models.Order{Participants: []models.Participant{{
		User:  models.User{Name: `Lin, "Amy"`},
		Items: []models.CartItem{{Item: models.Item{Name: "Tea\nLatte", Price: 10}, Quantity: 1}},
	}}}
	got := GenerateOrderCSV(o, locale.English)
	want := "\"Lin, \"\"Amy\"\"\",\"Tea\nLatte\",1,10,\"\",10,Unpaid\n"
	if !strings.HasSuffix(got, want) {
		t.Errorf("GenerateOrderCSV() = %q, want suffix %q", got, want)
	}
}

func TestFormatOptions_Order(t *testing.T) {
	ci := models.CartItem{
		Item: models.Item{Attributes: []models.Attribute{
			{ID: "s", Name: "Size"},
			{ID: "i", Name: "Ice"},
		}},
		SelectedAttributes: map[string]string{"zz": "x", "i": "less", "s": "L", "gone": "y"},
	}
	got := FormatOptions(ci)
	want := "Size: L; Ice: less; gone: y; zz: x"
	if got != want {
		t.Errorf("FormatOptions() = %q, want %q", got, want)
	}
	if FormatOptions(models.CartItem{}) != "" {
		t.Error("FormatOptions() with no selections should be empty")
	}
}

func TestSubtotalIncludesSurcharge(t *testing.T) {
	item := models.Item{
		Name:  "Boba",
		Price: 50,
		Attributes: []models.Attribute{{
			ID: "size", Name: "Size",
			Options: []models.AttributeOption{{Value: "L", Price: 10}},
		}},
	}
	o := models.Order{Participants: []models.Participant{{
		User:  models.User{Name: "Ken"},
		Items: []models.CartItem{{Item: item, Quantity: 3, SelectedAttributes: map[string]string{"size": "L"}}},
	}}}
	rows := Rows(o, locale.English)
	if len(rows) != 1 {
		t.Fatalf("got %d rows", len(rows))
	}
	if rows[0].UnitPrice != 50 {
		t.Errorf("UnitPrice = %d, want base price 50", rows[0].UnitPrice)
	}
	if rows[0].Subtotal != 180 {
		t.Errorf("Subtotal = %d, want 180", rows[0].Subtotal)
	}
}

func TestParseOrderCSV_RoundTrip(t *testing.T) {
	o := greenTeaOrder()
	cola := models.Item{ID: primitive.NewObjectID(), Name: "Cola, large", Price: 25}
	o.Participants = append(o.Participants,
		models.Participant{
			User: models.User{Name: "阿明"},
			Items: []models.CartItem{
				{Item: cola, Quantity: 1},
				{Item: o.Participants[0].Items[0].Item, Quantity: 4},
			},
		},
	)

	csvText := BOM + GenerateOrderCSV(o, locale.TraditionalChineseTW)
	rows, err := ParseOrderCSV(strings.NewReader(csvText))
	if err != nil {
		t.Fatalf("ParseOrderCSV() error = %v", err)
	}

	want := []OrderCSVRow{
		{Participant: "Jill", Item: "Green Tea", Quantity: 2, UnitPrice: 30, Options: "sugar: none", Subtotal: 60, PaymentStatus: "已付"},
		{Participant: "阿明", Item: "Cola, large", Quantity: 1, UnitPrice: 25, Subtotal: 25, PaymentStatus: "未付"},
		{Participant: "阿明", Item: "Green Tea", Quantity: 4, UnitPrice: 30, Subtotal: 120, PaymentStatus: "未付"},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, rows[i], want[i])
		}
	}
}

func TestParseOrderCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad quantity", "h1,h2,h3,h4,h5,h6,h7\nJill,Tea,two,30,\"\",60,Paid\n"},
		{"bad price", "h1,h2,h3,h4,h5,h6,h7\nJill,Tea,2,x,\"\",60,Paid\n"},
		{"short row", "h1,h2,h3,h4,h5,h6,h7\nJill,Tea,2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseOrderCSV(strings.NewReader(tt.input)); err == nil {
				t.Error("ParseOrderCSV() expected error")
			}
		})
	}
}

func TestParseOrderCSV_Empty(t *testing.T) {
	rows, err := ParseOrderCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ParseOrderCSV() error = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}
