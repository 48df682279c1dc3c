package extract

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// PageFetcher downloads a page body.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// LinkExtractor turns a product URL into a Product. Page metadata is tried
// first; when it yields no price and an AI is configured, the model reads
// the markup and fills in the blanks.
type LinkExtractor struct {
	Pages PageFetcher
	AI    AI
	Log   *zap.Logger
}

// Extract fetches and reads pageURL.
func (x *LinkExtractor) Extract(ctx context.Context, pageURL string) (Product, error) {
	page, err := x.Pages.Fetch(ctx, pageURL)
	if err != nil {
		return Product{}, err
	}

	p, err := ParseProductPage(page)
	if err != nil {
		return Product{}, err
	}
	if p.Price > 0 && p.Title != "" {
		return p, nil
	}
	if x.AI == nil {
		if p.Title == "" {
			return Product{}, fmt.Errorf("%s: %w", pageURL, ErrNoResult)
		}
		return p, nil
	}

	ap, err := x.AI.Product(ctx, pageURL, page)
	if err != nil {
		x.logger().Warn("ai product extraction failed", zap.String("url", pageURL), zap.Error(err))
		if p.Title != "" {
			return p, nil
		}
		return Product{}, err
	}
	return merge(p, ap), nil
}

// merge keeps what the page stated and fills the rest from the model.
func merge(page, ai Product) Product {
	out := page
	out.Source = "ai"
	if out.Title == "" {
		out.Title = ai.Title
	}
	if out.Price == 0 {
		out.Price = ai.Price
	}
	if out.ImageURL == "" {
		out.ImageURL = ai.ImageURL
	}
	if out.Description == "" {
		out.Description = ai.Description
	}
	return out
}

func (x *LinkExtractor) logger() *zap.Logger {
	if x.Log == nil {
		return zap.NewNop()
	}
	return x.Log
}
