package auth

import (
	"net/url"
	"strings"
)

// IsSafeRedirect reports whether target, resolved against the serving
// scheme and host, stays on that host over http or https.
func IsSafeRedirect(scheme, host, target string) bool {
	if target == "" || strings.ContainsAny(target, "\\\r\n\t") {
		return false
	}
	base, err := url.Parse(scheme + "://" + host + "/")
	if err != nil {
		return false
	}
	ref, err := url.Parse(target)
	if err != nil {
		return false
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return false
	}
	return strings.EqualFold(resolved.Host, base.Host)
}
