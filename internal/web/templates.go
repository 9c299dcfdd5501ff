package web

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/jobtab/jobtab/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(
	template.New("").Funcs(template.FuncMap{
		"statusTitle": func(s model.Status) string { return s.Title() },
		"statusClass": func(s model.Status) string { return s.CSSClass() },
	}).ParseFS(templateFS, "templates/*.html"),
)

// render executes the named page wrapped in the shared layout. Data is
// passed through untouched; each page template documents its shape.
func render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("rendering template", "template", name, "error", err)
	}
}
