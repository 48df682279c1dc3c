// Package htmlsanitize cleans user- and web-supplied text before it is stored.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richOnce   sync.Once
	richPolicy *bluemonday.Policy

	strictOnce   sync.Once
	strictPolicy *bluemonday.Policy
)

func rich() *bluemonday.Policy {
	richOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowElements("u", "s", "sub", "sup", "mark")
		p.AllowAttrs("class").OnElements("table", "tr", "td", "th")
		p.AllowAttrs("style").OnElements("table", "td", "th")
		p.AllowStyles("width", "text-align").OnElements("table", "td", "th")
		richPolicy = p
	})
	return richPolicy
}

func strict() *bluemonday.Policy {
	strictOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// Sanitize keeps safe formatting markup and drops scripts, event handlers,
// frames and forms. Used for order descriptions.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return rich().Sanitize(s)
}

// PlainText strips every tag and returns unescaped text, trimmed.
// Used for names, timeline messages and scraped page metadata.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict().Sanitize(s)))
}

// IsPlainText reports whether s looks free of markup.
func IsPlainText(s string) bool {
	return !(strings.Contains(s, "<") && strings.Contains(s, ">"))
}
