// Package web embeds the browser front-end.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var content embed.FS

// Static returns the static assets rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

func IndexHTML() ([]byte, error) {
	return content.ReadFile("static/index.html")
}
