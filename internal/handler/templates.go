package handler

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strconv"

	"medicine-catalog/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("pages").Funcs(template.FuncMap{
	"money": money,
}).ParseFS(templateFS, "templates/*.html"))

// money formats a price with two decimals. Nil prices render empty.
func money(v interface{}) string {
	switch p := v.(type) {
	case float64:
		return strconv.FormatFloat(p, 'f', 2, 64)
	case *float64:
		if p == nil {
			return ""
		}
		return strconv.FormatFloat(*p, 'f', 2, 64)
	default:
		return ""
	}
}

// listPage is the data of the listing view.
type listPage struct {
	Medicines     []model.Medicine
	Manufacturers []string
	Query         model.ListQuery
}

// render executes the named page into a buffer first, so a template failure
// still produces a clean 500 response.
func render(w http.ResponseWriter, status int, name string, data interface{}) error {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
