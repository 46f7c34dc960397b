package normalize

import (
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

var idnaProfile = idna.Lookup

// URL reduces an absolute URL to scheme://host. Input that does not parse into
// both a scheme and a host is returned unchanged.
func URL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host)
}

// Domain returns the canonical host of raw: lower-case, without port or
// trailing dot, internationalised labels in their ASCII form.
func Domain(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return Host(u.Hostname())
}

// Host canonicalises a bare host name.
func Host(host string) string {
	host = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
	if host == "" || isASCII(host) {
		return host
	}
	ascii, err := idnaProfile.ToASCII(host)
	if err != nil {
		return host
	}
	return ascii
}

// SameSite reports whether two hosts name the same site, ignoring a leading "www.".
func SameSite(a, b string) bool {
	return strings.TrimPrefix(Host(a), "www.") == strings.TrimPrefix(Host(b), "www.")
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
