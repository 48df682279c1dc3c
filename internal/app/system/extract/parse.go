package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dalemusser/litego/internal/app/system/htmlsanitize"
)

// flexPrice accepts a price sent as a JSON number or string.
type flexPrice struct {
	value int64
	ok    bool
}

func (p *flexPrice) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		p.value, p.ok = ParsePrice(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	p.value, p.ok = ParsePrice(s)
	return nil
}

// stripFence removes a surrounding ``` block, which models add despite
// being asked not to.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSuffix(strings.TrimSpace(s), "```")
}

// jsonObject returns the outermost {...} in s.
func jsonObject(s string) string {
	s = stripFence(s)
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}

// ParseMenuJSON reads {"items":[{"name","price"}]} or a bare array.
// Entries without a name or a readable price are skipped.
func ParseMenuJSON(raw string) ([]MenuItem, error) {
	type entry struct {
		Name  string    `json:"name"`
		Price flexPrice `json:"price"`
	}
	var entries []entry

	body := stripFence(raw)
	if strings.HasPrefix(strings.TrimSpace(body), "[") {
		if err := json.Unmarshal([]byte(body), &entries); err != nil {
			return nil, fmt.Errorf("menu: decode: %w", err)
		}
	} else {
		var wrapped struct {
			Items []entry `json:"items"`
		}
		if err := json.Unmarshal([]byte(jsonObject(body)), &wrapped); err != nil {
			return nil, fmt.Errorf("menu: decode: %w", err)
		}
		entries = wrapped.Items
	}

	out := make([]MenuItem, 0, len(entries))
	for _, e := range entries {
		name := htmlsanitize.PlainText(e.Name)
		if name == "" || !e.Price.ok {
			continue
		}
		out = append(out, MenuItem{Name: name, Price: e.Price.value})
	}
	if len(out) == 0 {
		return nil, ErrNoResult
	}
	return out, nil
}

// ParseProductJSON reads {"name","price","description","imageUrl"}.
func ParseProductJSON(raw string) (Product, error) {
	var v struct {
		Name        string    `json:"name"`
		Price       flexPrice `json:"price"`
		Description string    `json:"description"`
		ImageURL    string    `json:"imageUrl"`
	}
	if err := json.Unmarshal([]byte(jsonObject(raw)), &v); err != nil {
		return Product{}, fmt.Errorf("product: decode: %w", err)
	}
	p := Product{
		Title:       htmlsanitize.PlainText(v.Name),
		Price:       v.Price.value,
		Description: htmlsanitize.PlainText(v.Description),
		ImageURL:    strings.TrimSpace(v.ImageURL),
		Source:      "ai",
	}
	if p.Title == "" {
		return Product{}, ErrNoResult
	}
	return p, nil
}
