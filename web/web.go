// Package web bundles the HTML template and static assets of the upload page.
package web

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*.html
var templates embed.FS

//go:embed static
var static embed.FS

const IndexTemplate = "index.html"

func Templates() (*template.Template, error) {
	return template.ParseFS(templates, "templates/*.html")
}

// Static returns the asset tree rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}

	return sub
}
