// Package views renders the dashboard's HTML pages from embedded templates.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"slices"
	"strings"

	"github.com/kudzaitsapo/fileflow-web/internal/fileflow"
	"github.com/kudzaitsapo/fileflow-web/internal/format"
)

//go:embed templates/*.html
var templateFS embed.FS

// shared templates are parsed into every page.
var shared = []string{"templates/layout.html", "templates/partials.html"}

// Crumb is one breadcrumb entry. The last crumb has no URL.
type Crumb struct {
	Label string
	URL   string
}

// User is the signed-in user shown in the header.
type User struct {
	Name    string
	Email   string
	Initial string
}

// Page is what every template receives.
type Page struct {
	Title         string
	Section       string
	User          *User
	ActiveProject *fileflow.Project
	Crumbs        []Crumb
	Flash         string
	Error         string
	Data          any
}

// Renderer holds one parsed template set per page.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"bytes":    func(n int64) string { return format.Bytes(n, 2) },
	"datetime": func(t fileflow.Timestamp) string { return format.DateTime(t.Time) },
	"count":    format.Count,
	"contains": func(list []string, v string) bool { return slices.Contains(list, v) },
	"navClass": navClass,
}

func navClass(current, name string) string {
	if current == name {
		return "nav-link active"
	}
	return "nav-link"
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	base, err := template.New("").Funcs(funcs).ParseFS(templateFS, shared...)
	if err != nil {
		return nil, fmt.Errorf("parse shared templates: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, file := range files {
		if slices.Contains(shared, file) {
			continue
		}
		page, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone templates for %s: %w", file, err)
		}
		if _, err := page.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		r.pages[strings.TrimSuffix(path.Base(file), ".html")] = page
	}
	return r, nil
}

// Must is like New but panics on error.
func Must() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Has reports whether a page template exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Render executes the page template into a buffer first, so a template
// error never leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page *Page) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
