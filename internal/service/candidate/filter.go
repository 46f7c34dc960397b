package candidate

import (
	"github.com/octobees/prospector/internal/entity"
	"github.com/octobees/prospector/internal/normalize"
)

// Reason names the rule that rejected a hit.
type Reason string

const (
	ReasonInvalidURL     Reason = "invalid_url"
	ReasonExcludedDomain Reason = "excluded_domain"
	ReasonExcludedURL    Reason = "excluded_url"
	ReasonExcludedTitle  Reason = "excluded_title"
	ReasonDuplicate      Reason = "duplicate_domain"
	ReasonNoName         Reason = "no_name"
	ReasonLowQualityName Reason = "low_quality_name"
)

// Stats tallies rejections per reason for one Apply call.
type Stats struct {
	Accepted int
	Rejected map[Reason]int
}

type hitState struct {
	hit    entity.RawHit
	domain string
	name   string
	seen   map[string]struct{}
}

type rule struct {
	reason Reason
	reject func(*hitState) bool
}

// Filter turns raw search hits into distinct candidates.
type Filter struct {
	exclusions compiledExclusions
	rules      []rule
}

// NewFilter builds a filter around the given exclusion table.
func NewFilter(ex Exclusions) *Filter {
	c := ex.compile()
	return &Filter{exclusions: c, rules: []rule{
		{ReasonInvalidURL, func(s *hitState) bool { return s.domain == "" }},
		{ReasonExcludedDomain, func(s *hitState) bool { return c.domainExcluded(s.domain) }},
		{ReasonExcludedURL, func(s *hitState) bool { return c.urlExcluded(s.hit.URL) }},
		{ReasonExcludedTitle, func(s *hitState) bool { return c.titleExcluded(s.hit.Title, s.domain) }},
		{ReasonDuplicate, func(s *hitState) bool {
			_, dup := s.seen[s.domain]
			return dup
		}},
		{ReasonNoName, func(s *hitState) bool {
			s.name = ExtractName(s.hit.Title)
			return s.name == "" || nameTooShort(s.name)
		}},
		{ReasonLowQualityName, func(s *hitState) bool { return nameLowQuality(s.name) }},
	}}
}

// Apply evaluates hits in order. Accepted domains are added to seen, so a
// domain repeated later in hits, or in a later call sharing seen, is dropped.
// seen must not be shared with concurrent callers.
func (f *Filter) Apply(hits []entity.RawHit, seen map[string]struct{}) ([]entity.Candidate, Stats) {
	stats := Stats{Rejected: map[Reason]int{}}
	var out []entity.Candidate

	for _, hit := range hits {
		state := &hitState{hit: hit, domain: normalize.Domain(hit.URL), seen: seen}
		if reason, rejected := f.evaluate(state); rejected {
			stats.Rejected[reason]++
			continue
		}
		seen[state.domain] = struct{}{}
		out = append(out, entity.Candidate{
			CompanyName: state.name,
			URL:         hit.URL,
			Domain:      state.domain,
		})
		stats.Accepted++
	}
	return out, stats
}

// ExcludesDomain reports whether domain is on the exclusion table.
func (f *Filter) ExcludesDomain(domain string) bool {
	return f.exclusions.domainExcluded(domain)
}

func (f *Filter) evaluate(state *hitState) (Reason, bool) {
	for _, r := range f.rules {
		if r.reject(state) {
			return r.reason, true
		}
	}
	return "", false
}
