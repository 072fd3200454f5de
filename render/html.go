package render

import (
	"embed"
	"html/template"
	"io"

	"github.com/authgate/authgate"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// HTML renders the consent form from the embedded template set.
type HTML struct{}

func NewHTML() *HTML {
	return &HTML{}
}

func (h *HTML) RenderForm(w io.Writer, params authgate.FormParams) error {
	return templates.ExecuteTemplate(w, "authorize.html", params)
}
