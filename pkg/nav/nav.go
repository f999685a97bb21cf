// Package nav provides the navigation capability: opening URLs in a new
// browsing context. Navigation is best-effort; callers treat failures as
// unobservable.
package nav

import (
	"net/url"
	"strings"

	"github.com/pkg/browser"
)

// Navigator opens a URL in a browsing context.
// The interface is defined where it's consumed, so tests can record
// navigations instead of launching a browser.
type Navigator interface {
	Open(url string) error
}

// Browser opens URLs in the system default browser.
type Browser struct{}

// Open implements Navigator.
func (Browser) Open(u string) error {
	return browser.OpenURL(u)
}

// SearchURL appends the percent-encoded query to a search URL template.
// Spaces are encoded as %20 rather than "+" so the result matches what a
// browser address bar would show.
func SearchURL(template, query string) string {
	return template + EncodeQuery(query)
}

// EncodeQuery percent-encodes a search query for use in a URL.
func EncodeQuery(query string) string {
	return strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
}
