package candidate

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/octobees/prospector/internal/normalize"
)

// separators are tried in priority order; the first one present in a title wins.
var separators = []string{"｜", "|", " - ", " – ", " — ", "－", "—", " : ", "："}

var openBrackets = "【「『["

var bracketSplitter = strings.NewReplacer("【", "\x00", "】", "\x00", "「", "\x00", "」", "\x00", "『", "\x00", "』", "\x00", "[", "\x00", "]", "\x00")

var legalNamePattern = regexp.MustCompile(
	`(?:株式会社|有限会社|合同会社|合資会社|合名会社|一般社団法人|一般財団法人)\s?[\p{Han}\p{Katakana}ー\p{Latin}\d&・.\-]{1,30}` +
		`|[\p{Han}\p{Katakana}ー\p{Latin}\d&・.\-]{1,30}\s?(?:株式会社|有限会社|合同会社|合資会社|合名会社)` +
		`|[\p{Latin}\d&.\-]+(?:\s[\p{Latin}\d&.\-]+){0,4},?\s(?:Inc\.?|Corp\.?|Corporation|Co\.,?\s?Ltd\.?|Ltd\.?|LLC)`)

var leadingRun = regexp.MustCompile(`^[\p{L}\p{N}ー&・.'\s]+`)

// suffixPhrases are site-furniture words stripped from the end of an extracted name.
var suffixPhrases = []string{
	"公式ホームページ", "公式ウェブサイト", "公式サイト", "オフィシャルサイト", "ホームページ", "トップページ",
	"official website", "official site", "official homepage", "homepage", "home page", "website", "top page",
}

// genericSegments are title fragments that never name a company on their own.
var genericSegments = map[string]struct{}{
	"公式": {}, "公式サイト": {}, "ホーム": {}, "トップ": {}, "トップページ": {}, "top": {}, "home": {},
	"official site": {}, "official website": {},
}

// ExtractName pulls the most likely company name out of a search-result title.
// It returns "" when nothing usable is found.
func ExtractName(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}

	if segments := splitTitle(title); len(segments) > 0 {
		return stripSuffixPhrases(pickSegment(segments))
	}

	if m := legalNamePattern.FindString(title); m != "" {
		return strings.TrimSpace(m)
	}

	return stripSuffixPhrases(strings.TrimSpace(leadingRun.FindString(title)))
}

func splitTitle(title string) []string {
	var parts []string
	for _, sep := range separators {
		if strings.Contains(title, sep) {
			parts = strings.Split(title, sep)
			break
		}
	}
	if parts == nil && strings.ContainsAny(title, openBrackets) {
		parts = strings.Split(bracketSplitter.Replace(title), "\x00")
	}

	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func pickSegment(segments []string) string {
	for _, s := range segments {
		if normalize.HasLegalForm(s) {
			return s
		}
	}
	for _, s := range segments {
		if _, generic := genericSegments[strings.ToLower(s)]; !generic {
			return s
		}
	}
	return segments[0]
}

func stripSuffixPhrases(name string) string {
	for {
		trimmed := strings.TrimSpace(name)
		changed := false
		for _, p := range suffixPhrases {
			if n := len(trimmed) - len(p); n >= 0 && strings.EqualFold(trimmed[n:], p) {
				trimmed = trimmed[:n]
				changed = true
				break
			}
		}
		trimmed = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(trimmed), "の"))
		if !changed {
			return trimmed
		}
		name = trimmed
	}
}

var qualityRejects = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ranking|ランキング|一覧|リスト|まとめ|会社概要|企業情報|お問い合わせ|お知らせ`),
	regexp.MustCompile(`(?i)\blists?\b|\babout us\b|\bcompany profile\b|\bcontact us\b`),
	regexp.MustCompile(`(?i)^(?:home|top|ホーム|トップ|公式)$`),
	regexp.MustCompile(`(?i)^[\p{Latin}\s]+\s(?:companies|firms|businesses)$`),
}

// placeListing matches a bare place name followed by a generic "companies"
// noun. 株式会社 and friends end in 会社 too, so names with a legal form are
// never checked against it.
var placeListing = regexp.MustCompile(`^\p{Han}{1,4}(?:都|府|県|市|区)?の?(?:企業|会社)$`)

func nameTooShort(name string) bool {
	return utf8.RuneCountInString(normalize.CompanyName(name)) < 2 && !normalize.HasLegalForm(name)
}

func nameLowQuality(name string) bool {
	legal := normalize.HasLegalForm(name)
	if !legal && placeListing.MatchString(name) {
		return true
	}
	for _, re := range qualityRejects {
		if re.MatchString(name) {
			return true
		}
	}
	for _, r := range normalize.CompanyName(name) {
		if unicode.IsLetter(r) {
			return false
		}
	}
	return !legal
}
