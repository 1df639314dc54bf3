package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin/render"
)

// Page template names.
const (
	IndexPage    = "index.html"
	DetailPage   = "detail.html"
	NotFoundPage = "not_found.html"
)

//go:embed templates/*.html
var templateFS embed.FS

// HTMLRenderer keeps a separate template set per page, each combined with the base layout.
type HTMLRenderer struct {
	Templates map[string]*template.Template
}

// NewHTMLRenderer parses the embedded page templates.
func NewHTMLRenderer() (*HTMLRenderer, error) {
	templates := make(map[string]*template.Template)
	for _, page := range []string{IndexPage, DetailPage, NotFoundPage} {
		tmpl, err := template.New(page).ParseFS(templateFS, "templates/"+page, "templates/base.html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		templates[page] = tmpl
	}
	return &HTMLRenderer{Templates: templates}, nil
}

// Instance implements render.HTMLRender.
func (r *HTMLRenderer) Instance(name string, data any) render.Render {
	return render.HTML{
		Template: r.Templates[name],
		Data:     data,
	}
}

// Render writes the named page with data. data must be the page name followed by its data.
func (r *HTMLRenderer) Render(w http.ResponseWriter, code int, data ...any) error {
	if len(data) != 2 {
		return fmt.Errorf("render expects a page name and its data, got %d values", len(data))
	}
	name, ok := data[0].(string)
	if !ok {
		return fmt.Errorf("render expects a page name, got %T", data[0])
	}
	instance := r.Instance(name, data[1])
	instance.WriteContentType(w)
	w.WriteHeader(code)
	return instance.Render(w)
}
