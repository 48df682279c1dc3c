// internal/app/features/extract/handler.go
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	apierrors "github.com/dalemusser/litego/internal/app/features/errors"
	extractor "github.com/dalemusser/litego/internal/app/system/extract"
	"github.com/dalemusser/litego/internal/app/system/i18n"
	"github.com/dalemusser/litego/internal/app/system/inputval"
	"github.com/dalemusser/litego/internal/app/system/ratelimit"
	"github.com/dalemusser/litego/internal/app/system/timeouts"
	"github.com/dalemusser/litego/internal/domain/locale"
	"go.uber.org/zap"
)

// DefaultMaxImageBytes is the largest menu photo accepted unless the
// handler is configured otherwise.
const DefaultMaxImageBytes = 10 << 20

// multipart framing on top of the image itself
const formOverhead = 1 << 20

// LinkReader turns a product URL into a Product.
type LinkReader interface {
	Extract(ctx context.Context, pageURL string) (extractor.Product, error)
}

// Handler serves the item import endpoints used while creating an order.
type Handler struct {
	Log    *zap.Logger
	ErrLog *apierrors.ErrorLogger
	AI     extractor.AI // nil when no model is configured
	Links  LinkReader

	MaxImage int64

	// Limiter caps import requests per caller; nil disables the cap.
	Limiter *ratelimit.Limiter
}

// NewHandler wires the import endpoints. ai may be nil; link import then
// relies on page metadata alone.
func NewHandler(ai extractor.AI, pages extractor.PageFetcher, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:    logger,
		ErrLog: errLog,
		AI:     ai,
		Links:  &extractor.LinkExtractor{Pages: pages, AI: ai, Log: logger},

		MaxImage: DefaultMaxImageBytes,
	}
}

type menuResponse struct {
	Items []extractor.MenuItem `json:"items"`
}

type linkRequest struct {
	URL string `json:"url"`
}

type linkResponse struct {
	Product extractor.Product `json:"product"`
}

// HandleMenu handles POST /api/extract/menu. The form field "image" holds
// a photo of a menu; the response lists the items the model read from it.
func (h *Handler) HandleMenu(w http.ResponseWriter, r *http.Request) {
	tag := i18n.Tag(r)
	if h.AI == nil {
		apierrors.Write(w, http.StatusServiceUnavailable, apierrors.CodeUnavailable, locale.T(tag, locale.KeyExtractUnavailable))
		return
	}

	limit := h.MaxImage
	if limit <= 0 {
		limit = DefaultMaxImageBytes
	}

	r.Body = http.MaxBytesReader(w, r.Body, limit+formOverhead)
	if err := r.ParseMultipartForm(limit + formOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			apierrors.Write(w, http.StatusRequestEntityTooLarge, "image_too_large", locale.T(tag, locale.KeyImageTooLarge))
			return
		}
		apierrors.BadRequest(w, "image_required", locale.T(tag, locale.KeyImageRequired))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("image")
	if err != nil || header.Size == 0 {
		apierrors.BadRequest(w, "image_required", locale.T(tag, locale.KeyImageRequired))
		return
	}
	defer file.Close()

	if header.Size > limit {
		apierrors.Write(w, http.StatusRequestEntityTooLarge, "image_too_large", locale.T(tag, locale.KeyImageTooLarge))
		return
	}

	img, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "read menu image failed", err, "image_required", locale.T(tag, locale.KeyImageRequired))
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(img)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		apierrors.BadRequest(w, "image_required", locale.T(tag, locale.KeyImageRequired))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Extract(), h.Log, "extract menu")
	defer cancel()

	items, err := h.AI.Menu(ctx, mimeType, img)
	if err != nil {
		h.ErrLog.LogUpstreamError(w, r, "menu extraction failed", err, locale.T(tag, locale.KeyExtractMenuFailed))
		return
	}

	h.Log.Info("menu extracted",
		zap.String("mime", mimeType),
		zap.Int64("bytes", header.Size),
		zap.Int("items", len(items)))
	apierrors.WriteJSON(w, http.StatusOK, menuResponse{Items: items})
}

// HandleLink handles POST /api/extract/link with body {"url": "..."}.
func (h *Handler) HandleLink(w http.ResponseWriter, r *http.Request) {
	tag := i18n.Tag(r)

	var req linkRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, 64<<10))
	if err := dec.Decode(&req); err != nil {
		apierrors.BadRequest(w, inputval.CodeInvalidInput, locale.T(tag, locale.KeyInvalidInput))
		return
	}
	pageURL := strings.TrimSpace(req.URL)
	if !inputval.IsValidHTTPURL(pageURL) {
		apierrors.BadRequest(w, "invalid_url", locale.T(tag, locale.KeyInvalidURL))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Extract(), h.Log, "extract link")
	defer cancel()

	p, err := h.Links.Extract(ctx, pageURL)
	if err != nil {
		h.ErrLog.LogUpstreamError(w, r, "link extraction failed", err, locale.T(tag, locale.KeyExtractLinkFailed))
		return
	}

	h.Log.Info("link extracted",
		zap.String("url", pageURL),
		zap.String("source", p.Source),
		zap.Bool("priced", p.Price > 0))
	apierrors.WriteJSON(w, http.StatusOK, linkResponse{Product: p})
}

func (h *Handler) tooManyRequests(w http.ResponseWriter, r *http.Request) {
	h.Log.Info("import rate limited", zap.String("key", ratelimit.RequestKey(r)))
	apierrors.Write(w, http.StatusTooManyRequests, apierrors.CodeRateLimited, locale.T(i18n.Tag(r), locale.KeyRateLimited))
}
