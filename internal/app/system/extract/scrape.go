package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/dalemusser/litego/internal/app/system/htmlsanitize"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultMaxPageBytes bounds how much of a page is read.
const DefaultMaxPageBytes = 2 << 20

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// ErrBlockedAddress is returned when a URL resolves to a non-public
// address such as a private, loopback, link-local or CGNAT one.
var ErrBlockedAddress = errors.New("extract: address not allowed")

// Scraper fetches product pages.
type Scraper struct {
	client   *http.Client
	maxBytes int64
}

// ScraperOptions configures NewScraper.
type ScraperOptions struct {
	Timeout  time.Duration
	MaxBytes int64
	// AllowPrivate permits non-public addresses. Tests only.
	AllowPrivate bool
}

// NewScraper returns a scraper that refuses to dial non-public addresses
// unless opts.AllowPrivate is set.
func NewScraper(opts ScraperOptions) *Scraper {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxPageBytes
	}
	dialer := &net.Dialer{Timeout: opts.Timeout}
	if !opts.AllowPrivate {
		dialer.Control = func(network, address string, _ syscall.RawConn) error {
			host, _, err := net.SplitHostPort(address)
			if err != nil {
				return err
			}
			ip := net.ParseIP(host)
			if ip == nil || !isPublic(ip) {
				return ErrBlockedAddress
			}
			return nil
		}
	}
	tr := http.DefaultTransport.(*http.Transport).Clone()
	// A proxy would make the dial guard see the proxy's address, not the page's.
	tr.Proxy = nil
	tr.DialContext = dialer.DialContext
	return &Scraper{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: tr,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return errors.New("too many redirects")
				}
				if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
					return fmt.Errorf("redirect to %s not allowed", req.URL.Scheme)
				}
				return nil
			},
		},
		maxBytes: opts.MaxBytes,
	}
}

// sharedAddressSpace is the carrier-grade NAT range (RFC 6598).
var sharedAddressSpace = &net.IPNet{IP: net.IPv4(100, 64, 0, 0), Mask: net.CIDRMask(10, 32)}

func isPublic(ip net.IP) bool {
	return !(ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsMulticast() ||
		sharedAddressSpace.Contains(ip))
}

// Fetch downloads pageURL and returns at most maxBytes of its body.
func (s *Scraper) Fetch(ctx context.Context, pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("fetch: invalid url %q", pageURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch: %s returned %s", u.Host, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes))
	if err != nil {
		return "", fmt.Errorf("fetch: read body: %w", err)
	}
	return string(body), nil
}

// ParseProductPage reads title, image, description and price from page
// metadata. Title prefers og:title, then twitter:title, then <title>.
// Price comes from JSON-LD offers (price, lowPrice, highPrice), then
// product:price:amount. A missing price is 0.
func ParseProductPage(page string) (Product, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return Product{}, fmt.Errorf("parse page: %w", err)
	}

	meta := map[string]string{}
	var title string
	var ldBlocks []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Meta:
				key := attr(n, "property")
				if key == "" {
					key = attr(n, "name")
				}
				if key != "" {
					key = strings.ToLower(key)
					if _, seen := meta[key]; !seen {
						meta[key] = attr(n, "content")
					}
				}
			case atom.Title:
				if title == "" && n.FirstChild != nil {
					title = n.FirstChild.Data
				}
			case atom.Script:
				if strings.EqualFold(attr(n, "type"), "application/ld+json") && n.FirstChild != nil {
					ldBlocks = append(ldBlocks, n.FirstChild.Data)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	p := Product{
		Title:       htmlsanitize.PlainText(firstNonEmpty(meta["og:title"], meta["twitter:title"], title)),
		ImageURL:    strings.TrimSpace(firstNonEmpty(meta["og:image"], meta["twitter:image"])),
		Description: htmlsanitize.PlainText(firstNonEmpty(meta["og:description"], meta["description"])),
		Source:      "page",
	}
	for _, block := range ldBlocks {
		if v, ok := jsonLDPrice(block); ok {
			p.Price = v
			break
		}
	}
	if p.Price == 0 {
		if v, ok := ParsePrice(meta["product:price:amount"]); ok {
			p.Price = v
		}
	}
	return p, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// jsonLDPrice finds the first offers price in a JSON-LD block, searching
// arrays and @graph entries.
func jsonLDPrice(block string) (int64, bool) {
	var v any
	if err := json.Unmarshal([]byte(strings.TrimSpace(block)), &v); err != nil {
		return 0, false
	}
	return findOfferPrice(v, 0)
}

func findOfferPrice(v any, depth int) (int64, bool) {
	if depth > 6 {
		return 0, false
	}
	switch t := v.(type) {
	case []any:
		for _, e := range t {
			if p, ok := findOfferPrice(e, depth+1); ok {
				return p, true
			}
		}
	case map[string]any:
		if offers, ok := t["offers"]; ok {
			if p, ok := offerPrice(offers); ok {
				return p, true
			}
		}
		if g, ok := t["@graph"]; ok {
			return findOfferPrice(g, depth+1)
		}
	}
	return 0, false
}

func offerPrice(offers any) (int64, bool) {
	switch t := offers.(type) {
	case []any:
		for _, o := range t {
			if p, ok := offerPrice(o); ok {
				return p, true
			}
		}
	case map[string]any:
		for _, key := range []string{"price", "lowPrice", "highPrice"} {
			if p, ok := scalarPrice(t[key]); ok && p > 0 {
				return p, true
			}
		}
	}
	return 0, false
}

func scalarPrice(v any) (int64, bool) {
	switch t := v.(type) {
	case float64:
		return ParsePrice(fmt.Sprintf("%f", t))
	case string:
		return ParsePrice(t)
	}
	return 0, false
}
