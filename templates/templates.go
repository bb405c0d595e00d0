// Package templates holds the HTML pages served by the web front end.
package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var files embed.FS

// Load parses every page. Pages are addressed by file name, e.g. "home.html".
func Load() (*template.Template, error) {
	return template.ParseFS(files, "*.html")
}
