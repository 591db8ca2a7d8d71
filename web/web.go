// Package web holds the embedded page templates and static assets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"time"

	"learnbase/auth"
	"learnbase/models"
	"learnbase/render"
)

// SummaryLength is the rune limit of note excerpts on list cards.
const SummaryLength = 160

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

// pages are rendered inside the "layout" template.
var pages = []string{"index", "note_form", "view_note", "error"}

// PageData is everything a page template may read. Handlers fill only the
// fields their page uses.
type PageData struct {
	Title     string
	Admin     bool
	CanMutate bool
	Flashes   []auth.Flash

	Notes           []models.Note
	Pagination      *models.Pagination
	PageBase        string
	Categories      []models.CategorySummary
	CurrentCategory string
	SearchQuery     string
	Searching       bool

	Note       *models.Note
	Form       models.NoteInput
	Errors     map[string]string
	FormAction string
	CancelURL  string

	Status  int
	Message string
}

var funcs = template.FuncMap{
	"markdown": render.Markdown,
	"summary": func(src string) string {
		return render.Summary(src, SummaryLength)
	},
	"datetime": func(t time.Time) string {
		return t.Local().Format("2006-01-02 15:04")
	},
	"pathEscape": url.PathEscape,
}

// Renderer executes the parsed page set.
type Renderer struct {
	pages    map[string]*template.Template
	partials *template.Template
}

func NewRenderer() (*Renderer, error) {
	base, err := template.New("base").Funcs(funcs).ParseFS(templateFiles,
		"templates/layout.html", "templates/_note_cards.html", "templates/_pagination.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base templates: %w", err)
	}
	partials, err := base.Clone()
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(pages)), partials: partials}
	for _, name := range pages {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFiles, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Page writes the full layout around the named page.
func (r *Renderer) Page(w io.Writer, name string, data PageData) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page template %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// Partial writes a fragment such as "note_cards" without the layout.
func (r *Renderer) Partial(w io.Writer, name string, data PageData) error {
	return r.partials.ExecuteTemplate(w, name, data)
}

// Static serves the embedded stylesheet and script.
func Static() http.Handler {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
