package api

import (
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/taskdeck/todo-webapp/web"
)

// renderer adapts the embedded HTML templates to echo.Renderer.
type renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates. Parse failures are programmer
// errors, caught at startup.
func NewRenderer() echo.Renderer {
	return &renderer{
		templates: template.Must(template.ParseFS(web.Templates, "templates/*.html")),
	}
}

func (r *renderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	if tmpl := r.templates.Lookup(name); tmpl == nil {
		return fmt.Errorf("render: unknown template %q", name)
	}
	return r.templates.ExecuteTemplate(w, name, data)
}
