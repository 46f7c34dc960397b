package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "JP"

type grouping struct {
	prefix string
	length int
	groups []int
}

// groupings is checked in order; longer prefixes come first.
var groupings = []grouping{
	{"0120", 10, []int{4, 3, 3}},
	{"0570", 10, []int{4, 3, 3}},
	{"0800", 11, []int{4, 3, 4}},
	{"050", 11, []int{3, 4, 4}},
	{"070", 11, []int{3, 4, 4}},
	{"080", 11, []int{3, 4, 4}},
	{"090", 11, []int{3, 4, 4}},
	{"03", 10, []int{2, 4, 4}},
	{"06", 10, []int{2, 4, 4}},
}

// Format renders a validated digit string with hyphens.
func Format(digits string) string {
	groups := []int{3, 4, 4}
	if len(digits) == 10 {
		groups = []int{3, 3, 4}
	}
	for _, g := range groupings {
		if g.length == len(digits) && strings.HasPrefix(digits, g.prefix) {
			groups = g.groups
			break
		}
	}

	parts := make([]string, 0, len(groups))
	pos := 0
	for _, n := range groups {
		if pos+n > len(digits) {
			return digits
		}
		parts = append(parts, digits[pos:pos+n])
		pos += n
	}
	return strings.Join(parts, "-")
}

// E164 renders a formatted national number in international form, or "" when
// it cannot be parsed.
func E164(formatted, region string) string {
	if formatted == "" {
		return ""
	}
	if region == "" {
		region = defaultRegion
	}
	number, err := phonenumbers.Parse(formatted, region)
	if err != nil {
		return ""
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}
