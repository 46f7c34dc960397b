package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// LegalForms lists the native legal-entity designations, longest first.
var LegalForms = []string{
	"特定非営利活動法人",
	"一般社団法人",
	"一般財団法人",
	"公益社団法人",
	"公益財団法人",
	"npo法人",
	"株式会社",
	"有限会社",
	"合同会社",
	"合資会社",
	"合名会社",
	"(株)",
	"(有)",
}

var latinLegalForms = regexp.MustCompile(`(?i)\b(?:co\.,\s?ltd\.?|co\.\s?ltd\.?|corporation\b|company\b|corp\b\.?|inc\b\.?|ltd\b\.?|llc\b|llp\b|co\b\.)`)

// CompanyName folds a company name into a comparison key: width-folded,
// lower-cased, legal-entity designations removed, whitespace and punctuation
// dropped.
func CompanyName(name string) string {
	s := strings.ToLower(width.Fold.String(name))
	for _, form := range LegalForms {
		s = strings.ReplaceAll(s, form, "")
	}
	s = latinLegalForms.ReplaceAllString(s, "")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// HasLegalForm reports whether name carries an explicit legal-entity designation.
func HasLegalForm(name string) bool {
	s := strings.ToLower(width.Fold.String(name))
	for _, form := range LegalForms {
		if strings.Contains(s, form) {
			return true
		}
	}
	return latinLegalForms.MatchString(s)
}
