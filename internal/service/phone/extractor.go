package phone

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/width"
)

// Page is one fetched document searched for a phone number.
type Page struct {
	URL  string
	Body string
}

var (
	scriptStyle = regexp.MustCompile(`(?is)<script\b.*?</script>|<style\b.*?</style>`)
	tags        = regexp.MustCompile(`<[^>]*>`)

	labeledNumber = regexp.MustCompile(`(?i:tel)|電話番号|電話|☎|📞|℡|代表`)
	labeledShape  = regexp.MustCompile(`^[\s:：.]*\(?(0\d{1,4})\)?[-\s.]?\(?(\d{1,4})\)?[-\s.]?(\d{3,4})\b`)
	bareNumber    = regexp.MustCompile(`\b0\d{1,4}[-\s.]?\d{1,4}[-\s.]?\d{3,4}\b`)

	separatorFolder = strings.NewReplacer(
		"\u3000", " ", "\u00a0", " ",
		"－", "-", "‐", "-", "‑", "-", "–", "-", "—", "-", "―", "-", "−", "-", "ー", "-",
		"（", "(", "）", ")",
	)
)

const faxLookbehind = 12

// Find returns the first valid phone number across pages, formatted with
// hyphens. Tiers apply globally: every page is searched for tel: links before
// any page is searched for labelled numbers, and labelled numbers before bare
// digit runs. Returns "" when nothing validates.
func Find(pages []Page) string {
	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = pageText(p.Body)
	}

	for _, p := range pages {
		if n := fromTelLinks(p.Body); n != "" {
			return n
		}
	}
	for _, t := range texts {
		if n := fromLabeled(t); n != "" {
			return n
		}
	}
	for _, t := range texts {
		if n := fromBare(t); n != "" {
			return n
		}
	}
	return ""
}

func fromTelLinks(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}
	var found string
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if len(href) < 4 || !strings.EqualFold(href[:4], "tel:") {
			return true
		}
		digits := Digits(href[4:])
		if Valid(digits) {
			found = Format(digits)
			return false
		}
		return true
	})
	return found
}

func fromLabeled(text string) string {
	for _, loc := range labeledNumber.FindAllStringIndex(text, -1) {
		if insideWord(text, loc) {
			continue
		}
		m := labeledShape.FindStringSubmatch(text[loc[1]:])
		if m == nil {
			continue
		}
		digits := m[1] + m[2] + m[3]
		if Valid(digits) {
			return Format(digits)
		}
	}
	return ""
}

// insideWord reports whether a latin label such as "tel" is part of a longer
// word (Hotel, Intel, telecom). Digits may follow directly: TEL03-1234-5678.
func insideWord(text string, loc []int) bool {
	if !isASCIILetter(text[loc[0]]) {
		return false
	}
	if loc[0] > 0 && isASCIILetter(text[loc[0]-1]) {
		return true
	}
	return loc[1] < len(text) && isASCIILetter(text[loc[1]])
}

func isASCIILetter(b byte) bool {
	return 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z'
}

func fromBare(text string) string {
	for _, loc := range bareNumber.FindAllStringIndex(text, -1) {
		if precededByFax(text, loc[0]) {
			continue
		}
		digits := Digits(text[loc[0]:loc[1]])
		if Valid(digits) {
			return Format(digits)
		}
	}
	return ""
}

func precededByFax(text string, at int) bool {
	start := max(0, at-faxLookbehind)
	window := strings.ToLower(text[start:at])
	return strings.Contains(window, "fax") || strings.Contains(window, "ファックス")
}

func pageText(body string) string {
	s := scriptStyle.ReplaceAllString(body, " ")
	s = tags.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return separatorFolder.Replace(width.Fold.String(s))
}

// Digits keeps the ASCII digits of raw, folding full-width digits and an
// international +81 prefix into national form.
func Digits(raw string) string {
	raw = width.Fold.String(strings.TrimSpace(raw))
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	d := b.String()
	if strings.HasPrefix(raw, "+81") && strings.HasPrefix(d, "81") {
		d = "0" + strings.TrimPrefix(d[2:], "0")
	}
	return d
}

// Valid applies the national-number shape check: 10 or 11 digits, leading
// zero, and no placeholder runs.
func Valid(digits string) bool {
	if len(digits) < 10 || len(digits) > 11 || digits[0] != '0' {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	if strings.Contains(digits, "0000") {
		return false
	}
	return strings.Count(digits[1:], digits[1:2]) != len(digits)-1
}
