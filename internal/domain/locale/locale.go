// Package locale holds the supported language tags and the message catalog
// for user-visible strings produced by the domain and app layers.
//
// Messages are registered with golang.org/x/text/message at init time, one
// file per language. Callers resolve any incoming tag with Match before
// printing so lookups always hit a registered catalog entry.
package locale

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	// TraditionalChineseTW is the product's primary language.
	TraditionalChineseTW = language.MustParse("zh-TW")
	// English is the secondary language.
	English = language.English
)

// Default is used when nothing better is known about the reader.
var Default = TraditionalChineseTW

var supported = []language.Tag{TraditionalChineseTW, English}

var matcher = language.NewMatcher(supported)

// Supported returns the registered tags, default first.
func Supported() []language.Tag {
	out := make([]language.Tag, len(supported))
	copy(out, supported)
	return out
}

// Match maps an arbitrary tag onto one of the supported tags.
func Match(tag language.Tag) language.Tag {
	if tag == language.Und {
		return Default
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return Default
	}
	return supported[idx]
}

// Parse converts a BCP 47 string such as "en-US" or "zh-TW" into a
// supported tag. The bool is false when the input does not parse.
func Parse(v string) (language.Tag, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return Default, false
	}
	tag, err := language.Parse(v)
	if err != nil {
		return Default, false
	}
	return Match(tag), true
}

// Printer returns a message printer for the closest supported tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(Match(tag))
}

// T looks up key in the catalog for tag.
func T(tag language.Tag, key string, args ...any) string {
	return Printer(tag).Sprintf(key, args...)
}
