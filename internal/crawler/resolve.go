package crawler

import (
	"net/url"
	"strings"
)

// Resolve returns ref as an absolute URL.
//
// References that already carry a scheme are returned unchanged. Others are
// resolved against base following RFC 3986, so "../img.png" on
// https://example.com/dir/page.html becomes https://example.com/img.png.
// The second return value is false for empty or unparsable references.
func Resolve(base *url.URL, ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}

	u, err := url.Parse(ref)
	if err != nil {
		return "", false
	}
	if u.Scheme != "" {
		return ref, true
	}
	return base.ResolveReference(u).String(), true
}
