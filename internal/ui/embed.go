// Package ui embeds the single-page client served at "/".
package ui

import (
	"embed"
	"io/fs"
)

//go:embed static
var files embed.FS

// IndexFile is the page served at the site root.
const IndexFile = "index.html"

// Assets returns the page files rooted at the static directory.
func Assets() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
