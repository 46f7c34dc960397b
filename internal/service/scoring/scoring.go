package scoring

import (
	"strings"
)

const (
	categoryHrefToken = "href_token"
	categoryLinkText  = "link_text"
	categoryFormHint  = "form_hint"
	categoryShallow   = "shallow_path"
)

const (
	weightHrefToken = 10
	weightLinkText  = 8
	weightFormHint  = 5
	maxShallowBonus = 5
)

// ContactTokens mark an href as pointing at a contact page.
var ContactTokens = []string{"contact", "inquiry", "enquiry", "toiawase", "otoiawase"}

// ContactPhrases are native "contact us" labels looked for in link text.
var ContactPhrases = []string{"お問い合わせ", "お問合せ", "お問合わせ", "おといあわせ", "問い合わせ"}

// AnchorFeatures captures the signals of a single same-site link.
type AnchorFeatures struct {
	Href string
	Text string
	// PathDepth is the number of non-empty path segments of the resolved target.
	PathDepth int
}

// ScoreResult reports the aggregate score and the per-category breakdown.
type ScoreResult struct {
	Total     int
	Breakdown map[string]int
}

// ScoreAnchor rates how likely a link leads to a contact form.
func ScoreAnchor(input AnchorFeatures) ScoreResult {
	breakdown := map[string]int{
		categoryHrefToken: scoreHrefToken(input.Href),
		categoryLinkText:  scoreLinkText(input.Text),
		categoryFormHint:  scoreFormHint(input.Href),
		categoryShallow:   scoreShallow(input.PathDepth),
	}

	total := 0
	for _, value := range breakdown {
		total += value
	}

	return ScoreResult{
		Total:     total,
		Breakdown: breakdown,
	}
}

func scoreHrefToken(href string) int {
	if containsAny(strings.ToLower(href), ContactTokens) {
		return weightHrefToken
	}
	return 0
}

func scoreLinkText(text string) int {
	if containsAny(text, ContactPhrases) {
		return weightLinkText
	}
	return 0
}

func scoreFormHint(href string) int {
	if strings.Contains(strings.ToLower(href), "form") {
		return weightFormHint
	}
	return 0
}

func scoreShallow(depth int) int {
	return max(0, maxShallowBonus-depth)
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
