package contact

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/octobees/prospector/internal/entity"
	"github.com/octobees/prospector/internal/normalize"
	"github.com/octobees/prospector/internal/service/scoring"
)

// PageFetcher retrieves a single page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) entity.FetchOutcome
}

// DefaultProbePaths are tried, in order, when no anchor on the root page qualifies.
var DefaultProbePaths = []string{
	"/contact/",
	"/contact",
	"/inquiry/",
	"/contact.html",
	"/toiawase/",
	"/otoiawase/",
	"/form/",
	"/contact-us/",
	"/contactus/",
	"/inquiry.html",
	"/contact/index.html",
}

// sameSiteFragment is the only in-page anchor accepted as a contact target.
const sameSiteFragment = "#contact"

const sameSiteAnchorDepth = 5

var gateKeywords = append(append([]string{"form"}, scoring.ContactTokens...), scoring.ContactPhrases...)

// Extractor locates the contact page of a site.
type Extractor struct {
	fetcher    PageFetcher
	probePaths []string
	logger     *zap.Logger
}

// Option customises an Extractor.
type Option func(*Extractor)

// WithProbePaths replaces DefaultProbePaths.
func WithProbePaths(paths []string) Option {
	return func(e *Extractor) { e.probePaths = paths }
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExtractor builds an Extractor that probes conventional paths through fetcher.
func NewExtractor(fetcher PageFetcher, opts ...Option) *Extractor {
	e := &Extractor{fetcher: fetcher, probePaths: DefaultProbePaths, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FindContactURL returns the absolute contact URL for the site rooted at
// rootURL, or "" when neither the anchors in body nor the probed paths yield one.
// A page found on a conventional path is returned with its body; an anchor
// hit has none.
func (e *Extractor) FindContactURL(ctx context.Context, body, rootURL string) (contactURL, pageBody string) {
	if found := BestAnchor(body, rootURL); found != "" {
		return found, ""
	}
	return e.probe(ctx, rootURL)
}

// IsSamePageAnchor reports whether contactURL points back into the root page.
func IsSamePageAnchor(contactURL string) bool {
	return strings.Contains(contactURL, "#")
}

// BestAnchor scores every same-site contact-like anchor in body and returns the
// highest-scoring absolute URL. Ties keep document order.
func BestAnchor(body, rootURL string) string {
	base, err := url.Parse(strings.TrimRight(rootURL, "/") + "/")
	if err != nil || base.Host == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}

	best, bestScore := "", 0
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		text := strings.TrimSpace(s.Text())

		target, ok := resolve(base, href)
		if !ok || !passesGate(href, text) {
			return
		}
		depth := pathDepth(target)
		if target.Fragment != "" {
			// in-page anchors never earn the shallow-path bonus
			depth = sameSiteAnchorDepth
		}
		score := scoring.ScoreAnchor(scoring.AnchorFeatures{
			Href:      href,
			Text:      text,
			PathDepth: depth,
		}).Total
		if score > bestScore {
			best, bestScore = target.String(), score
		}
	})
	return best
}

func resolve(base *url.URL, href string) (*url.URL, bool) {
	lower := strings.ToLower(href)
	switch {
	case href == "":
		return nil, false
	case strings.HasPrefix(lower, "mailto:"), strings.HasPrefix(lower, "javascript:"), strings.HasPrefix(lower, "tel:"):
		return nil, false
	case strings.HasPrefix(href, "#"):
		if lower != sameSiteFragment {
			return nil, false
		}
	}

	ref, err := url.Parse(href)
	if err != nil {
		return nil, false
	}
	target := base.ResolveReference(ref)
	if target.Scheme != "http" && target.Scheme != "https" {
		return nil, false
	}
	if !normalize.SameSite(target.Hostname(), base.Hostname()) {
		return nil, false
	}
	if !strings.HasPrefix(href, "#") {
		target.Fragment = ""
	}
	return target, true
}

func passesGate(href, text string) bool {
	lowerHref := strings.ToLower(href)
	lowerText := strings.ToLower(text)
	for _, kw := range gateKeywords {
		if strings.Contains(lowerHref, kw) || strings.Contains(lowerText, kw) {
			return true
		}
	}
	return false
}

func pathDepth(u *url.URL) int {
	depth := 0
	for _, seg := range strings.Split(u.Path, "/") {
		if seg != "" {
			depth++
		}
	}
	return depth
}

func (e *Extractor) probe(ctx context.Context, rootURL string) (string, string) {
	if e.fetcher == nil {
		return "", ""
	}
	root := strings.TrimRight(rootURL, "/")
	for _, path := range e.probePaths {
		if ctx.Err() != nil {
			return "", ""
		}
		target := root + path
		out := e.fetcher.Fetch(ctx, target)
		if out.Succeeded && out.HTTPStatus == http.StatusOK && looksLikeContactPage(out.Body) {
			e.logger.Debug("contact page found by probing", zap.String("url", target))
			return target, out.Body
		}
	}
	return "", ""
}

func looksLikeContactPage(body string) bool {
	lower := strings.ToLower(body)
	if strings.Contains(lower, "<form") || strings.Contains(lower, "contact us") {
		return true
	}
	for _, phrase := range scoring.ContactPhrases {
		if strings.Contains(body, phrase) {
			return true
		}
	}
	return false
}
