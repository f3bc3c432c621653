package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/microcosm-cc/bluemonday"

	"github.com/nhle/todolist/internal/auth"
	"github.com/nhle/todolist/internal/form"
	"github.com/nhle/todolist/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pages = []string{"index", "register", "login", "home", "edit", "error"}

// page is the data handed to every template.
type page struct {
	Title   string
	User    *model.User
	CSRF    string
	Year    int
	Message string

	Form   url.Values
	Errors *form.ValidationError
	Action string

	Tasks []model.Task
	Task  *model.Task

	Code int
}

// TaskCount is the number of tasks shown in the "You currently have"
// banner.
func (p *page) TaskCount() int {
	return len(p.Tasks)
}

// descriptionPolicy keeps the formatting a rich-text editor produces and
// drops scripts, event handlers and unsafe URLs.
var descriptionPolicy = bluemonday.UGCPolicy()

// richText sanitises stored markup for display.
func richText(s string) template.HTML {
	return template.HTML(descriptionPolicy.Sanitize(s))
}

type renderer struct {
	templates map[string]*template.Template
}

var funcs = template.FuncMap{
	"fieldError": func(ve *form.ValidationError, name string) string {
		return ve.Field(name)
	},
	"datetime": func(t time.Time) string {
		return t.UTC().Format("Jan 2, 2006 15:04")
	},
	"richtext": richText,
	"plural": func(n int, one, many string) string {
		if n == 1 {
			return one
		}
		return many
	},
}

func newRenderer() (*renderer, error) {
	r := &renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

// Render implements echo.Renderer.
func (r *renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// newPage fills the fields every page needs from the request.
func newPage(c echo.Context, title string) *page {
	p := &page{
		Title: title,
		Year:  time.Now().Year(),
	}
	if u, ok := auth.UserFromContext(c.Request().Context()); ok {
		p.User = u
	}
	if token, ok := c.Get(csrfContextKey).(string); ok {
		p.CSRF = token
	}
	return p
}
