// Package web embeds the browser front end and the static 404 page.
package web

import (
	"embed"
	"io/fs"
)

//go:embed public
var publicFS embed.FS

// Assets returns the front end rooted at the public directory.
func Assets() fs.FS {
	sub, err := fs.Sub(publicFS, "public")
	if err != nil {
		// The directory is embedded at build time.
		panic(err)
	}
	return sub
}

// NotFoundPage returns the contents of 404.html.
func NotFoundPage() []byte {
	page, err := publicFS.ReadFile("public/404.html")
	if err != nil {
		panic(err)
	}
	return page
}
