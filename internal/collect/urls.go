// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import "strings"

const siteBase = "https://x.com"

// CanonicalPostURL normalizes a status-link href to a canonical absolute
// post URL: relative hrefs gain the site base, query parameters and
// fragments are dropped. The second return value is false when the href is
// not a status link.
func CanonicalPostURL(href string) (string, bool) {
	if href == "" {
		return "", false
	}
	if strings.HasPrefix(href, "/") {
		href = siteBase + href
	}
	if !strings.Contains(href, "/status/") {
		return "", false
	}
	if i := strings.IndexByte(href, '?'); i >= 0 {
		href = href[:i]
	}
	if i := strings.IndexByte(href, '#'); i >= 0 {
		href = href[:i]
	}
	return href, true
}

// TweetID extracts the numeric post identifier from a canonical post URL.
// The second return value is false when no purely numeric id follows
// "/status/".
func TweetID(url string) (string, bool) {
	_, rest, found := strings.Cut(url, "/status/")
	if !found {
		return "", false
	}
	id := rest
	if i := strings.IndexByte(id, '/'); i >= 0 {
		id = id[:i]
	}
	if i := strings.IndexByte(id, '?'); i >= 0 {
		id = id[:i]
	}
	if id == "" {
		return "", false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return id, true
}
