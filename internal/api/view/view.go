// Package view holds the server-rendered pages of the dashboard.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var files embed.FS

// Page names accepted by Renderer.Render.
const (
	PageAuth      = "auth"
	PageDashboard = "dashboard"
	PageBooks     = "books"
	PageUsers     = "users"
	PageSection   = "section"
)

var pages = []string{PageAuth, PageDashboard, PageBooks, PageUsers, PageSection}

// Renderer implements echo.Renderer. Each page is parsed together with the
// shared layout and executed through its "base" template.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the embedded templates. It panics on a malformed
// template since they are compiled into the binary.
func NewRenderer() *Renderer {
	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		r.pages[name] = template.Must(template.New(name).ParseFS(files,
			"templates/layout.html",
			"templates/"+name+".html",
		))
	}
	return r
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "base", data)
}
