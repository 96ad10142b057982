package normalize

import (
	"net/url"
	"strings"
)

// ResolveURL turns a possibly relative link into an absolute one using
// standard URL resolution against the page it was extracted from. Absolute
// URLs pass through, protocol-relative links get https, root-relative links
// resolve against the base origin, and path-relative links resolve against
// the base path the way a browser would.
func ResolveURL(base, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	if strings.HasPrefix(raw, "//") {
		return "https:" + raw
	}
	b, err := url.Parse(base)
	if err != nil || b.Scheme == "" || b.Host == "" {
		return joinPath(base, raw)
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return joinPath(base, raw)
	}
	return b.ResolveReference(ref).String()
}

// joinPath is the crude fallback for unparseable inputs.
func joinPath(base, raw string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(raw, "/")
}
