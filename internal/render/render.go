// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the public site.
// It supports full-page and HTMX partial rendering, automatically detecting
// the request type via the HX-Request header.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"voiceaikb/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData holds all data passed to page templates.
type PageData struct {
	Title       string           // Page title for <title> tag
	Description string           // Meta description
	SiteName    string           // Set by the renderer
	Nav         []models.NavNode // Sidebar navigation tree
	ActivePath  string           // Request path, used to highlight the sidebar
	Query       string           // Current search query, echoed in the header
	Data        map[string]any   // Page-specific data
}

// Renderer handles template parsing and execution for site pages.
type Renderer struct {
	siteName  string
	templates map[string]*template.Template
	funcMap   template.FuncMap
}

// standaloneTemplates lists templates that render without the layout.
var standaloneTemplates = map[string]bool{
	"quick": true,
}

// New creates a Renderer by parsing all templates from the embedded
// filesystem. Each page template is paired with the layout.
func New(siteName string) (*Renderer, error) {
	r := &Renderer{
		siteName:  siteName,
		templates: make(map[string]*template.Template),
		funcMap: template.FuncMap{
			// active reports whether href is the current page or one of its ancestors.
			"active": func(current, href string) bool {
				return current == href || strings.HasPrefix(current, href+"/")
			},
			// dict builds a map from alternating key/value arguments so
			// recursive templates can receive more than one value.
			"dict": func(kv ...any) (map[string]any, error) {
				if len(kv)%2 != 0 {
					return nil, fmt.Errorf("dict: odd number of arguments")
				}
				m := make(map[string]any, len(kv)/2)
				for i := 0; i < len(kv); i += 2 {
					k, ok := kv[i].(string)
					if !ok {
						return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
					}
					m[k] = kv[i+1]
				}
				return m, nil
			},
			"matchLabel": func(m models.MatchType) string {
				switch m {
				case models.MatchTitle:
					return "Title"
				case models.MatchDescription:
					return "Description"
				case models.MatchTag:
					return "Tag"
				}
				return string(m)
			},
		},
	}

	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == "layout.html" {
			continue
		}
		tmplName := strings.TrimSuffix(name, path.Ext(name))

		var tmpl *template.Template
		var parseErr error
		if standaloneTemplates[tmplName] {
			tmpl, parseErr = template.New(name).Funcs(r.funcMap).ParseFS(
				templateFS, "templates/"+name,
			)
		} else {
			tmpl, parseErr = template.New("layout.html").Funcs(r.funcMap).ParseFS(
				templateFS, "templates/layout.html", "templates/"+name,
			)
		}
		if parseErr != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, parseErr)
		}

		r.templates[tmplName] = tmpl
	}

	return r, nil
}

// Execute writes the named template. When partial is true only the
// "content" block of a layout page is written.
func (rn *Renderer) Execute(w io.Writer, name string, partial bool, data *PageData) error {
	tmpl, ok := rn.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	data.SiteName = rn.siteName

	execName := "layout"
	switch {
	case standaloneTemplates[name]:
		execName = name
	case partial:
		execName = "content"
	}
	return tmpl.ExecuteTemplate(w, execName, data)
}

// Bytes renders a full page into memory, for callers that cache output.
func (rn *Renderer) Bytes(name string, data *PageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := rn.Execute(&buf, name, false, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Page renders a full page or an HTMX partial, depending on the request
// headers. Output is buffered so template errors become a clean 500.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) {
	var buf bytes.Buffer
	if err := rn.Execute(&buf, name, IsHTMX(r), data); err != nil {
		slog.Error("render template failed", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Add("Vary", "HX-Request")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// IsHTMX returns true if the request was made by HTMX (has HX-Request header).
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
