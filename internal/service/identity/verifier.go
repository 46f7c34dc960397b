package identity

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/octobees/prospector/internal/entity"
	"github.com/octobees/prospector/internal/normalize"
)

// Verdict is the result of comparing a candidate name with its root page.
type Verdict string

const (
	VerdictMatch    Verdict = "match"
	VerdictMismatch Verdict = "mismatch"
	// VerdictSkipped means the name was too short to compare; callers treat it as a match.
	VerdictSkipped Verdict = "skipped"
)

const minComparableRunes = 2

// Accepts reports whether the verdict lets the candidate proceed.
func (v Verdict) Accepts() bool { return v != VerdictMismatch }

// PageIdentity holds the page-level naming signals.
type PageIdentity struct {
	Title    string
	SiteName string
}

// ReadIdentity extracts <title> and og:site_name from an HTML document.
func ReadIdentity(body string) PageIdentity {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return PageIdentity{}
	}
	id := PageIdentity{Title: strings.TrimSpace(doc.Find("title").First().Text())}
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		property, _ := s.Attr("property")
		if !strings.EqualFold(property, "og:site_name") {
			return true
		}
		id.SiteName, _ = s.Attr("content")
		id.SiteName = strings.TrimSpace(id.SiteName)
		return false
	})
	return id
}

// Verify decides whether the fetched root page belongs to the candidate.
// Only the page title and site name are compared, never body text.
func Verify(candidate entity.Candidate, outcome entity.FetchOutcome) Verdict {
	name := normalize.CompanyName(candidate.CompanyName)
	if utf8.RuneCountInString(name) < minComparableRunes {
		return VerdictSkipped
	}
	return Compare(name, ReadIdentity(outcome.Body))
}

// Compare matches an already normalised name against a page identity.
func Compare(name string, page PageIdentity) Verdict {
	for _, signal := range []string{page.Title, page.SiteName} {
		key := normalize.CompanyName(signal)
		if key == "" {
			continue
		}
		if strings.Contains(key, name) {
			return VerdictMatch
		}
		if utf8.RuneCountInString(key) >= minComparableRunes && strings.Contains(name, key) {
			return VerdictMatch
		}
	}
	return VerdictMismatch
}
