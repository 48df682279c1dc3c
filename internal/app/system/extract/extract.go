// Package extract turns menu photos and product pages into catalog item
// candidates, and renders order summaries, using a generative model and a
// small HTML scraper. Nothing here touches pricing or order state.
package extract

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrUnavailable means no model client is configured.
	ErrUnavailable = errors.New("extract: ai client not configured")
	// ErrNoResult means the source was read but nothing usable came out.
	ErrNoResult = errors.New("extract: nothing extracted")
)

// MenuItem is one item candidate read from a menu photo.
type MenuItem struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// Product is what a product page says about itself.
// Source is "page" when read from markup and "ai" when the model filled in.
type Product struct {
	Title       string `json:"title"`
	Price       int64  `json:"price"`
	ImageURL    string `json:"image_url,omitempty"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source"`
}

// ParsePrice reads a price such as "NT$1,280", "45元" or "12.5" and
// rounds it to whole units. ok is false when no number is present.
func ParsePrice(s string) (int64, bool) {
	var b strings.Builder
	seenDot := false
loop:
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && !seenDot && b.Len() > 0:
			seenDot = true
			b.WriteRune(r)
		case r == ',' || r == ' ':
			// thousands separators
		default:
			if b.Len() > 0 {
				break loop
			}
		}
	}
	v := strings.TrimSuffix(b.String(), ".")
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return int64(math.Round(f)), true
}
