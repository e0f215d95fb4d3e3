package templates

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"tinyboard/internal/render"
)

//go:embed *.html
var files embed.FS

var pages = template.Must(template.ParseFS(files, "*.html"))

// Stats is the home page summary. Zero values render as dashes.
type Stats struct {
	Enabled bool
	Started int64
	Active  int64
	Moves   int64
}

// BoardPage carries everything the board page needs.
type BoardPage struct {
	BoardID string
	Commit  string
	Squares []render.SquareView
}

var commit = "dev"

// SetCommit stamps the build commit into rendered pages.
func SetCommit(c string) {
	if c != "" {
		commit = c
	}
}

// WriteHomeHTML serves the home page template
func WriteHomeHTML(w http.ResponseWriter, stats Stats) {
	write(w, "home.html", map[string]any{"Stats": stats, "Commit": commit})
}

// WriteBoardHTML serves the board page with all 64 squares rendered
func WriteBoardHTML(w http.ResponseWriter, page BoardPage) {
	if page.Commit == "" {
		page.Commit = commit
	}
	write(w, "board.html", page)
}

func write(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
