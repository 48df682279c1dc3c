// internal/app/system/csvutil/orders.go
package csvutil

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/dalemusser/litego/internal/domain/locale"
	"github.com/dalemusser/litego/internal/domain/models"
	"github.com/dalemusser/litego/internal/domain/orderlogic"
	"golang.org/x/text/language"
)

// BOM is written ahead of downloads so spreadsheet apps detect UTF-8.
const BOM = "\ufeff"

// ErrTooManyRows is returned by ParseOrderCSV past MaxRows data rows.
var ErrTooManyRows = errors.New("csv has too many rows")

// OrderCSVRow is one (participant, cart item) line of an order export.
type OrderCSVRow struct {
	Participant   string
	Item          string
	Quantity      int
	UnitPrice     int64
	Options       string
	Subtotal      int64
	PaymentStatus string
}

// Header returns the localized header row.
func Header(tag language.Tag) []string {
	return []string{
		locale.T(tag, locale.KeyCSVParticipant),
		locale.T(tag, locale.KeyCSVItem),
		locale.T(tag, locale.KeyCSVQuantity),
		locale.T(tag, locale.KeyCSVUnitPrice),
		locale.T(tag, locale.KeyCSVOptions),
		locale.T(tag, locale.KeyCSVSubtotal),
		locale.T(tag, locale.KeyCSVPaymentStatus),
	}
}

// FormatOptions renders a line's selections as "key: value" pairs joined
// with "; ". Attributes known to the item come first in the item's order,
// keyed by name; anything else follows sorted, keyed by raw id.
func FormatOptions(ci models.CartItem) string {
	if len(ci.SelectedAttributes) == 0 {
		return ""
	}
	seen := make(map[string]bool, len(ci.SelectedAttributes))
	parts := make([]string, 0, len(ci.SelectedAttributes))
	for _, a := range ci.Item.Attributes {
		v, ok := ci.SelectedAttributes[a.ID]
		if !ok {
			continue
		}
		seen[a.ID] = true
		key := a.Name
		if key == "" {
			key = a.ID
		}
		parts = append(parts, key+": "+v)
	}
	var rest []string
	for id := range ci.SelectedAttributes {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	for _, id := range rest {
		parts = append(parts, id+": "+ci.SelectedAttributes[id])
	}
	return strings.Join(parts, "; ")
}

// Rows flattens o into export rows in participant-then-item order.
func Rows(o models.Order, tag language.Tag) []OrderCSVRow {
	paid := locale.T(tag, locale.KeyCSVPaid)
	unpaid := locale.T(tag, locale.KeyCSVUnpaid)

	var rows []OrderCSVRow
	for _, p := range o.Participants {
		status := unpaid
		if p.Paid {
			status = paid
		}
		for _, ci := range p.Items {
			rows = append(rows, OrderCSVRow{
				Participant:   p.User.Name,
				Item:          ci.Item.Name,
				Quantity:      ci.Quantity,
				UnitPrice:     ci.Item.Price,
				Options:       FormatOptions(ci),
				Subtotal:      orderlogic.CartItemTotal(ci),
				PaymentStatus: status,
			})
		}
	}
	return rows
}

// WriteOrderCSV writes the header and one line per (participant, cart
// item). The options column is always quoted; other fields are quoted only
// when they hold a comma, quote, CR or LF. Lines end with "\n".
func WriteOrderCSV(w io.Writer, o models.Order, tag language.Tag) error {
	bw := bufio.NewWriter(w)

	h := Header(tag)
	for i := range h {
		h[i] = quoteIfNeeded(h[i])
	}
	if _, err := bw.WriteString(strings.Join(h, ",") + "\n"); err != nil {
		return err
	}

	for _, r := range Rows(o, tag) {
		line := strings.Join([]string{
			quoteIfNeeded(r.Participant),
			quoteIfNeeded(r.Item),
			strconv.Itoa(r.Quantity),
			strconv.FormatInt(r.UnitPrice, 10),
			quote(r.Options),
			strconv.FormatInt(r.Subtotal, 10),
			quoteIfNeeded(r.PaymentStatus),
		}, ",")
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// GenerateOrderCSV returns the export as a string, without a BOM.
func GenerateOrderCSV(o models.Order, tag language.Tag) string {
	var sb strings.Builder
	_ = WriteOrderCSV(&sb, o, tag)
	return sb.String()
}

// ParseOrderCSV reads an export back. A leading BOM and the header row are
// skipped; blank lines are ignored.
func ParseOrderCSV(r io.Reader) ([]OrderCSVRow, error) {
	br := bufio.NewReader(r)
	if lead, err := br.Peek(len(BOM)); err == nil && string(lead) == BOM {
		_, _ = br.Discard(len(BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = 7

	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	var rows []OrderCSVRow
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rows) >= MaxRows {
			return nil, ErrTooManyRows
		}
		line, _ := reader.FieldPos(0)

		qty, err := strconv.Atoi(rec[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: quantity: %w", line, err)
		}
		unit, err := strconv.ParseInt(rec[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: unit price: %w", line, err)
		}
		sub, err := strconv.ParseInt(rec[5], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: subtotal: %w", line, err)
		}
		rows = append(rows, OrderCSVRow{
			Participant:   rec[0],
			Item:          rec[1],
			Quantity:      qty,
			UnitPrice:     unit,
			Options:       rec[4],
			Subtotal:      sub,
			PaymentStatus: rec[6],
		})
	}
	return rows, nil
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quote(s)
	}
	return s
}
