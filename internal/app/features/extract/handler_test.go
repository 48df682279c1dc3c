package extract_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	apierrors "github.com/dalemusser/litego/internal/app/features/errors"
	"github.com/dalemusser/litego/internal/app/features/extract"
	"github.com/dalemusser/litego/internal/app/system/auth"
	extractor "github.com/dalemusser/litego/internal/app/system/extract"
	"github.com/dalemusser/litego/internal/app/system/ratelimit"
	"github.com/dalemusser/litego/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAI struct {
	items    []extractor.MenuItem
	product  extractor.Product
	err      error
	gotMime  string
	gotBytes int
}

func (f *fakeAI) Menu(ctx context.Context, mimeType string, img []byte) ([]extractor.MenuItem, error) {
	f.gotMime, f.gotBytes = mimeType, len(img)
	return f.items, f.err
}

func (f *fakeAI) Product(ctx context.Context, pageURL, html string) (extractor.Product, error) {
	return f.product, f.err
}

func (f *fakeAI) Summary(ctx context.Context, in extractor.SummaryInput) (string, error) {
	return "", f.err
}

type fakePages struct {
	html string
	err  error
}

func (f fakePages) Fetch(ctx context.Context, pageURL string) (string, error) {
	return f.html, f.err
}

func newHandler(ai extractor.AI, pages extractor.PageFetcher) *extract.Handler {
	logger := zap.NewNop()
	return extract.NewHandler(ai, pages, apierrors.NewErrorLogger(logger), logger)
}

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func menuRequest(t *testing.T, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="image"; filename="menu.png"`)
	if contentType != "" {
		hdr.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/api/extract/menu", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestHandleMenu_ReturnsItems(t *testing.T) {
	ai := &fakeAI{items: []extractor.MenuItem{{Name: "珍珠奶茶 (M)", Price: 50}, {Name: "珍珠奶茶 (L)", Price: 60}}}
	h := newHandler(ai, fakePages{})

	rec := testutil.NewRecorder()
	h.HandleMenu(rec, menuRequest(t, "image/png", pngHeader))

	rec.AssertStatus(t, http.StatusOK)
	var resp struct {
		Items []extractor.MenuItem `json:"items"`
	}
	rec.DecodeJSON(t, &resp)
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, "image/png", ai.gotMime)
	assert.Equal(t, len(pngHeader), ai.gotBytes)
}

func TestHandleMenu_SniffsMissingContentType(t *testing.T) {
	ai := &fakeAI{items: []extractor.MenuItem{}}
	h := newHandler(ai, fakePages{})

	rec := testutil.NewRecorder()
	h.HandleMenu(rec, menuRequest(t, "application/octet-stream", pngHeader))

	rec.AssertStatus(t, http.StatusOK)
	assert.Equal(t, "image/png", ai.gotMime)
}

func TestHandleMenu_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		ai     extractor.AI
		req    func(t *testing.T) *http.Request
		status int
		code   string
	}{
		{
			name:   "ai not configured",
			ai:     nil,
			req:    func(t *testing.T) *http.Request { return menuRequest(t, "image/png", pngHeader) },
			status: http.StatusServiceUnavailable,
			code:   apierrors.CodeUnavailable,
		},
		{
			name:   "not an image",
			ai:     &fakeAI{},
			req:    func(t *testing.T) *http.Request { return menuRequest(t, "text/plain", []byte("hello")) },
			status: http.StatusBadRequest,
			code:   "image_required",
		},
		{
			name:   "empty file",
			ai:     &fakeAI{},
			req:    func(t *testing.T) *http.Request { return menuRequest(t, "image/png", nil) },
			status: http.StatusBadRequest,
			code:   "image_required",
		},
		{
			name: "not multipart",
			ai:   &fakeAI{},
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/api/extract/menu", bytes.NewBufferString("{}"))
			},
			status: http.StatusBadRequest,
			code:   "image_required",
		},
		{
			name: "too large",
			ai:   &fakeAI{},
			req: func(t *testing.T) *http.Request {
				return menuRequest(t, "image/png", make([]byte, extract.DefaultMaxImageBytes+1))
			},
			status: http.StatusRequestEntityTooLarge,
			code:   "image_too_large",
		},
		{
			name:   "model failure",
			ai:     &fakeAI{err: errors.New("rate limited")},
			req:    func(t *testing.T) *http.Request { return menuRequest(t, "image/png", pngHeader) },
			status: http.StatusBadGateway,
			code:   apierrors.CodeUpstream,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandler(tt.ai, fakePages{})
			rec := testutil.NewRecorder()
			h.HandleMenu(rec, tt.req(t))
			rec.AssertStatus(t, tt.status)
			assert.Equal(t, tt.code, rec.ErrorCode())
		})
	}
}

const productPage = `<html><head>
<meta property="og:title" content="Thermos Bottle">
<meta property="og:image" content="https://shop.example/bottle.jpg">
<script type="application/ld+json">{"@type":"Product","offers":{"price":"1,280"}}</script>
</head><body></body></html>`

func TestHandleLink_ReadsPageMetadata(t *testing.T) {
	h := newHandler(nil, fakePages{html: productPage})

	rec := testutil.NewRecorder()
	h.HandleLink(rec, testutil.NewJSONRequest(http.MethodPost, "/api/extract/link", map[string]string{"url": "https://shop.example/p/1"}))

	rec.AssertStatus(t, http.StatusOK)
	var resp struct {
		Product extractor.Product `json:"product"`
	}
	rec.DecodeJSON(t, &resp)
	assert.Equal(t, "Thermos Bottle", resp.Product.Title)
	assert.Equal(t, int64(1280), resp.Product.Price)
	assert.Equal(t, "https://shop.example/bottle.jpg", resp.Product.ImageURL)
}

func TestHandleLink_FallsBackToModel(t *testing.T) {
	ai := &fakeAI{product: extractor.Product{Title: "Mug", Price: 350}}
	h := newHandler(ai, fakePages{html: `<html><head><title>x</title></head></html>`})

	rec := testutil.NewRecorder()
	h.HandleLink(rec, testutil.NewJSONRequest(http.MethodPost, "/api/extract/link", map[string]string{"url": "https://shop.example/p/2"}))

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"price":350`)
	rec.AssertContains(t, `"source":"ai"`)
}

func TestHandleLink_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		pages  fakePages
		body   any
		status int
		code   string
	}{
		{"invalid url", fakePages{}, map[string]string{"url": "ftp://example.com"}, http.StatusBadRequest, "invalid_url"},
		{"missing url", fakePages{}, map[string]string{}, http.StatusBadRequest, "invalid_url"},
		{"bad json", fakePages{}, "not an object", http.StatusBadRequest, "invalid_input"},
		{"fetch fails", fakePages{err: extractor.ErrBlockedAddress}, map[string]string{"url": "http://10.0.0.1/"}, http.StatusBadGateway, apierrors.CodeUpstream},
		{"nothing found", fakePages{html: "<html></html>"}, map[string]string{"url": "https://shop.example/"}, http.StatusBadGateway, apierrors.CodeUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandler(nil, tt.pages)
			rec := testutil.NewRecorder()
			h.HandleLink(rec, testutil.NewJSONRequest(http.MethodPost, "/api/extract/link", tt.body))
			rec.AssertStatus(t, tt.status)
			assert.Equal(t, tt.code, rec.ErrorCode())
		})
	}
}

func TestRoutes_RateLimitsImports(t *testing.T) {
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("test-session-key-0123456789abcdef", "test", "", time.Hour, false, logger)
	require.NoError(t, err)

	h := newHandler(nil, fakePages{html: productPage})
	h.Limiter = ratelimit.New(1, time.Minute)
	t.Cleanup(h.Limiter.Stop)
	router := extract.Routes(h, sm)

	link := func(userID string) *testutil.ResponseRecorder {
		r := testutil.NewJSONRequest(http.MethodPost, "/link", map[string]string{"url": "https://shop.example/p/1"})
		r = auth.WithTestUser(r, &auth.SessionUser{ID: userID})
		rec := testutil.NewRecorder()
		router.ServeHTTP(rec, r)
		return rec
	}

	link("u1").AssertStatus(t, http.StatusOK)

	rec := link("u1")
	rec.AssertStatus(t, http.StatusTooManyRequests)
	assert.Equal(t, apierrors.CodeRateLimited, rec.ErrorCode())
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	link("u2").AssertStatus(t, http.StatusOK)
}

func TestRoutes_RequireSignIn(t *testing.T) {
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("test-session-key-0123456789abcdef", "test", "", time.Hour, false, logger)
	require.NoError(t, err)

	rec := testutil.NewRecorder()
	extract.Routes(newHandler(nil, fakePages{}), sm).ServeHTTP(rec,
		testutil.NewJSONRequest(http.MethodPost, "/link", map[string]string{"url": "https://shop.example/"}))
	rec.AssertStatus(t, http.StatusUnauthorized)
}
