// Package web contains the embedded landing page.
package web

import "embed"

// Pages contains the embedded HTML pages served by the server.
//
//go:embed *.html
var Pages embed.FS

// Index returns the landing page.
func Index() ([]byte, error) {
	return Pages.ReadFile("index.html")
}
