// Package view renders the wallet pages from immutable state snapshots.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"Vaultium/internal/format"
	"Vaultium/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Pages are the content templates, one per route.
var Pages = []string{"dashboard", "transactions", "send", "smart", "portfolio", "history", "settings", "search"}

var funcs = template.FuncMap{
	"short":       func(s string) string { return format.ShortHash(s, 10) },
	"shortn":      format.ShortHash,
	"num":         format.Number,
	"dec":         format.Decimal,
	"compact":     format.Compact,
	"usd":         format.USD,
	"change":      format.Change,
	"local":       format.LocalTime,
	"iso":         format.ISOTime,
	"ago":         format.Ago,
	"statusClass": StatusClass,
	"upper":       func(v any) string { return strings.ToUpper(fmt.Sprint(v)) },
	"pct":         func(f float64) string { return fmt.Sprintf("%.0f%%", f) },
	"signed":      func(f float64) string { return fmt.Sprintf("%+.2f%%", f) },
	"nav":         func() []NavItem { return Nav },
	"tracker": func(m map[string]model.Tracker, id string) *model.Tracker {
		if t, ok := m[id]; ok {
			return &t
		}
		return nil
	},
}

// Renderer executes the page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the layout once per page.
func NewRenderer() (*Renderer, error) {
	base, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/modal.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	r := &Renderer{pages: make(map[string]*template.Template, len(Pages))}
	for _, name := range Pages {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout: %w", err)
		}
		if _, err := t.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes the full HTML document for p.Name.
func (r *Renderer) Render(w io.Writer, p Page) error {
	t, ok := r.pages[p.Name]
	if !ok {
		return fmt.Errorf("unknown page %q", p.Name)
	}
	if p.Title == "" {
		p.Title = titleOf(p.Name)
	}
	return t.ExecuteTemplate(w, "layout.html", p)
}

func titleOf(name string) string {
	for _, n := range Nav {
		if n.Name == name {
			return n.Label
		}
	}
	if name == "" {
		return "Vaultium"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
