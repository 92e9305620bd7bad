package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/behaviorchart/internal/websocket"
	"github.com/dukerupert/behaviorchart/web"
)

// Broadcaster is the part of the websocket hub handlers need.
type Broadcaster interface {
	Broadcast(msg websocket.Message)
}

// Ordinal formats n with its English ordinal suffix: 1st, 2nd, 3rd, 11th.
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// Renderer executes the embedded page templates.
type Renderer struct {
	templates *template.Template
	logger    *slog.Logger
}

// NewRenderer parses the embedded templates. Timestamps are shown in loc.
func NewRenderer(loc *time.Location, logger *slog.Logger) (*Renderer, error) {
	if loc == nil {
		loc = time.UTC
	}
	funcs := template.FuncMap{
		"ordinal": Ordinal,
		"localTime": func(t time.Time) string {
			return t.In(loc).Format("Jan 2, 3:04 PM")
		},
	}
	tmpl, err := template.New("").Funcs(funcs).ParseFS(web.Templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{templates: tmpl, logger: logger}, nil
}

// Render writes the named page with status 200. The page is rendered into a
// buffer first so a template error becomes a clean 500.
func (rd *Renderer) Render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := rd.templates.ExecuteTemplate(&buf, name, data); err != nil {
		rd.logger.Error("render template", "template", name, "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// serverError logs err and writes a generic 500.
func serverError(w http.ResponseWriter, logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	http.Error(w, "Internal error", http.StatusInternalServerError)
}
