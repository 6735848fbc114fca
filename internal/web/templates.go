package web

import (
	"bytes"
	"database/sql"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/erazemk/pixelpet/internal/auth"
	"github.com/erazemk/pixelpet/internal/model"
	"github.com/erazemk/pixelpet/internal/service"
	"github.com/erazemk/pixelpet/internal/view"
	webembed "github.com/erazemk/pixelpet/web"
)

// partials holds the fragment definitions shared by pages and fragment routes.
const partials = "partials.html"

// Templates holds parsed HTML templates.
type Templates struct {
	pages     map[string]*template.Template
	fragments *template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"roleAtLeast": model.RoleAtLeast,
		"roleName": func(role string) string {
			switch role {
			case model.RoleAdmin:
				return "Administrator"
			case model.RolePlayer:
				return "Player"
			default:
				return role
			}
		},
		"width": func(v float64) template.CSS {
			return template.CSS(fmt.Sprintf("width: %.1f%%", model.ClampPercent(v)))
		},
		"ago": func(t time.Time) string {
			return humanize.Time(t)
		},
		"seq": func(n int) []int {
			return make([]int, n)
		},
	}
}

// LoadTemplates parses every page with the layout and the shared partials.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}
	partialBytes, err := fs.ReadFile(tfs, partials)
	if err != nil {
		return nil, fmt.Errorf("reading partials: %w", err)
	}

	pages := []string{
		"login.html",
		"dashboard.html",
		"inventory_all.html",
		"dalle_test.html",
		"generations.html",
		"users.html",
		"settings.html",
	}

	ts := &Templates{pages: make(map[string]*template.Template)}

	ts.fragments, err = template.New(partials).Funcs(FuncMap()).Parse(string(partialBytes))
	if err != nil {
		return nil, fmt.Errorf("parsing partials: %w", err)
	}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		for _, src := range []string{string(layoutBytes), string(partialBytes), string(pageBytes)} {
			if tmpl, err = tmpl.Parse(src); err != nil {
				return nil, fmt.Errorf("parsing template %s: %w", page, err)
			}
		}
		ts.pages[page] = tmpl
	}

	return ts, nil
}

// Render renders a page inside the layout.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := ts.pages[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	ts.write(w, tmpl, "layout", name, data)
}

// RenderFragment renders one named partial without the layout.
func (ts *Templates) RenderFragment(w http.ResponseWriter, name string, data any) {
	if ts.fragments.Lookup(name) == nil {
		http.Error(w, "fragment not found", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	ts.write(w, ts.fragments, name, name, data)
}

// write buffers the output so a failing template yields a clean 500.
func (ts *Templates) write(w http.ResponseWriter, tmpl *template.Template, entry, name string, data any) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, entry, data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write response", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title   string
	User    *auth.Claims
	Error   string
	Success string

	// Overlay is rendered by the layout on every authenticated page.
	Overlay view.Overlay
	// Refresh reloads the page for clients without scripts.
	Refresh bool
}

// Server holds all dependencies for page handlers.
type Server struct {
	DB            *sql.DB
	Templates     *Templates
	Issuer        *auth.Issuer
	Service       *service.Service
	SecureCookies bool
}

// page returns the base data for an authenticated page.
func (s *Server) page(r *http.Request, title string) PageData {
	claims := GetWebClaims(r.Context())
	pd := PageData{Title: title, User: claims}
	if claims != nil {
		pd.Overlay = s.Service.Overlay(claims.UserID)
	}
	return pd
}
