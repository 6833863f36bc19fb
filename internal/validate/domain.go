// Package validate provides shared input validation helpers.
package validate

import (
	"regexp"
	"strings"
)

// domainRegexp validates RFC-compliant hostnames.
var domainRegexp = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)

// IsDomain reports whether s is a valid RFC-compliant hostname.
func IsDomain(s string) bool {
	return domainRegexp.MatchString(s)
}

// CleanDomain extracts a bare lowercase hostname from URL-ish input,
// e.g. "https://www.example.com:8443/foo?q=1" -> "www.example.com".
func CleanDomain(raw string) string {
	s := raw
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.IndexAny(s, "/?"); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[:i]
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// ParentDomain returns the registrable parent (SLD+TLD) for a subdomain.
// Inputs that are already two labels or fewer are returned unchanged.
func ParentDomain(domain string) string {
	parts := strings.Split(domain, ".")
	if len(parts) > 2 {
		return parts[len(parts)-2] + "." + parts[len(parts)-1]
	}
	return domain
}
