// Package i18n picks the response language for a request.
package i18n

import (
	"context"
	"net/http"

	"github.com/dalemusser/litego/internal/domain/locale"
	"golang.org/x/text/language"
)

// CookieName holds a reader's explicit language choice.
const CookieName = "lang"

// QueryParam overrides the language for a single request.
const QueryParam = "lang"

type ctxKey struct{}

// Resolver resolves request languages, falling back to Default.
type Resolver struct {
	Default language.Tag
}

// NewResolver returns a resolver whose fallback is def matched onto a
// supported tag.
func NewResolver(def language.Tag) *Resolver {
	return &Resolver{Default: locale.Match(def)}
}

// Resolve returns the language for r. Precedence: ?lang, the lang cookie,
// Accept-Language, then the resolver's default.
func (rs *Resolver) Resolve(r *http.Request) language.Tag {
	if v := r.URL.Query().Get(QueryParam); v != "" {
		if tag, ok := locale.Parse(v); ok {
			return tag
		}
	}
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		if tag, ok := locale.Parse(c.Value); ok {
			return tag
		}
	}
	if h := r.Header.Get("Accept-Language"); h != "" {
		tags, _, err := language.ParseAcceptLanguage(h)
		if err == nil && len(tags) > 0 {
			return locale.Match(tags[0])
		}
	}
	return rs.Default
}

// Middleware stores the resolved tag in the request context and sets
// Content-Language on the response.
func (rs *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tag := rs.Resolve(r)
		w.Header().Set("Content-Language", tag.String())
		next.ServeHTTP(w, r.WithContext(WithTag(r.Context(), tag)))
	})
}

// WithTag returns a context carrying tag.
func WithTag(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, ctxKey{}, tag)
}

// Tag returns the request's language, or locale.Default when the
// middleware did not run.
func Tag(r *http.Request) language.Tag {
	if tag, ok := r.Context().Value(ctxKey{}).(language.Tag); ok {
		return tag
	}
	return locale.Default
}
