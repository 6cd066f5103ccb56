// Package web embeds the HTML templates of the shortener pages.
package web

import (
	"embed"
	"html/template"
	"strings"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Templates parses every page and partial. Pages are addressed by file name,
// e.g. "index.tmpl".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"shortLink": ShortLink,
	}).ParseFS(templateFS, "templates/*.tmpl")
}

// ShortLink joins a base URL and a code into the public short link.
func ShortLink(baseURL, code string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + code
}
