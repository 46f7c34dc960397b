package service

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/octobees/prospector/internal/dto"
	"github.com/octobees/prospector/internal/entity"
	"github.com/octobees/prospector/internal/normalize"
	"github.com/octobees/prospector/internal/service/pipeline"
)

const (
	trackingPrefix     = "utm_"
	maxScrapeCompanies = 200
	defaultTargetCount = 100
)

// ValidationError indicates that a caller-supplied payload is invalid.
type ValidationError struct {
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return e.Message
}

// normalizeRunRequest trims the request, expands a bare keyword into queries
// and enforces the target cap.
func normalizeRunRequest(req dto.RunRequest, maxTarget int) (dto.RunRequest, error) {
	req.Keyword = strings.Join(strings.Fields(req.Keyword), " ")

	queries := make([]string, 0, len(req.Queries))
	for _, q := range req.Queries {
		if q = strings.TrimSpace(q); q != "" {
			queries = append(queries, q)
		}
	}
	if len(queries) == 0 {
		queries = pipeline.GenerateQueries(req.Keyword)
	}
	if len(queries) == 0 {
		return req, ValidationError{Message: "keyword or queries is required"}
	}
	req.Queries = queries
	if req.Keyword == "" {
		req.Keyword = queries[0]
	}

	if req.TargetCount == 0 {
		req.TargetCount = defaultTargetCount
	}
	if req.TargetCount < 0 {
		return req, ValidationError{Message: "target_count must be positive"}
	}
	if maxTarget > 0 && req.TargetCount > maxTarget {
		return req, ValidationError{Message: fmt.Sprintf("target_count must be at most %d", maxTarget)}
	}

	domains := make([]string, 0, len(req.ExcludeDomains))
	for _, d := range req.ExcludeDomains {
		if d = normalize.Domain(strings.TrimSpace(d)); d != "" {
			domains = append(domains, d)
		}
	}
	req.ExcludeDomains = domains
	return req, nil
}

// ScrapeCandidates validates a direct scrape payload and converts it into
// pipeline candidates. URLs without a scheme are treated as https.
func ScrapeCandidates(req dto.ScrapeRequest) ([]entity.Candidate, error) {
	if len(req.Companies) == 0 {
		return nil, ValidationError{Message: "companies is required"}
	}
	if len(req.Companies) > maxScrapeCompanies {
		return nil, ValidationError{Message: fmt.Sprintf("at most %d companies per request", maxScrapeCompanies)}
	}

	out := make([]entity.Candidate, 0, len(req.Companies))
	for i, company := range req.Companies {
		name := strings.TrimSpace(company.CompanyName)
		if name == "" {
			return nil, ValidationError{Message: fmt.Sprintf("companies[%d].company_name is required", i)}
		}
		u, err := sanitizeURL(company.URL)
		if err != nil || !isDomainValid(u.Hostname()) {
			return nil, ValidationError{Message: fmt.Sprintf("companies[%d].url is invalid", i)}
		}
		stripTracking(u)
		out = append(out, entity.Candidate{
			CompanyName: name,
			URL:         u.String(),
			Domain:      normalize.Domain(u.String()),
		})
	}
	return out, nil
}

func sanitizeURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty url")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, errors.New("invalid url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.New("unsupported scheme")
	}
	return u, nil
}

func stripTracking(u *url.URL) {
	if u == nil {
		return
	}
	query := u.Query()
	changed := false
	for key := range query {
		if strings.HasPrefix(strings.ToLower(key), trackingPrefix) {
			query.Del(key)
			changed = true
		}
	}
	if changed {
		u.RawQuery = query.Encode()
	}
}

func isDomainValid(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return false
	}
	parts := strings.Split(domain, ".")
	for _, part := range parts {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	return true
}
