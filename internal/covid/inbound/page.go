package inbound

import (
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shandysiswandi/gocovid/internal/covid/entity"
	"github.com/shandysiswandi/gocovid/internal/covid/usecase"
)

//go:embed templates/*.html
var templateFS embed.FS

//nolint:gochecknoglobals // parsed once, read-only
var pages = map[string]*template.Template{
	"index":   parsePage("index"),
	"compare": parsePage("compare"),
	"country": parsePage("country"),
}

func parsePage(name string) *template.Template {
	funcs := template.FuncMap{
		"comma":   humanize.Comma,
		"ago":     humanize.Time,
		"image":   imageURL,
		"updated": latestUpdate,
	}

	return template.Must(template.New(name).Funcs(funcs).ParseFS(templateFS,
		"templates/layout.html",
		"templates/"+name+".html",
	))
}

// imageURL turns a base64 PNG into a data URI that html/template keeps as is.
func imageURL(b64 string) template.URL {
	//nolint:gosec // the payload is our own base64 output
	return template.URL("data:image/png;base64," + b64)
}

func latestUpdate(stats []entity.CountryStat) string {
	var latest time.Time
	for _, s := range stats {
		if s.UpdatedAt.After(latest) {
			latest = s.UpdatedAt
		}
	}
	if latest.IsZero() {
		return ""
	}
	return humanize.Time(latest)
}

type htmlPage struct {
	name string
	data any
}

func (htmlPage) ContentType() string {
	return "text/html; charset=utf-8"
}

func (p htmlPage) Render(w io.Writer) error {
	return pages[p.name].ExecuteTemplate(w, "layout", p.data)
}

type indexData struct {
	Routes []entity.Route
}

func indexPage(routes []entity.Route) htmlPage {
	return htmlPage{name: "index", data: indexData{Routes: routes}}
}

func comparePage(res usecase.CompareResult) htmlPage {
	return htmlPage{name: "compare", data: res}
}

func countryPage(res usecase.CountryResult) htmlPage {
	return htmlPage{name: "country", data: res}
}
