package server

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/TobiSchelling/ContentForge/internal/database"
	"github.com/TobiSchelling/ContentForge/internal/export"
	"github.com/TobiSchelling/ContentForge/internal/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Server is the HTTP server for previewing runs.
type Server struct {
	db    *database.DB
	pages map[string]*template.Template
	mux   *http.ServeMux
	log   logger.Logger
}

// New creates a new Server.
func New(db *database.DB, log logger.Logger) (*Server, error) {
	if log == nil {
		log = logger.Nop()
	}
	funcMap := template.FuncMap{
		"markdown": renderMarkdown,
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"short": func(id string) string {
			if len(id) > 8 {
				return id[:8]
			}
			return id
		},
	}

	// Parse base template first
	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	// For each page template, clone the base and parse the page into the clone.
	// This gives each page its own {{define "content"}} and {{define "title"}}.
	pageNames := []string{"index.html", "run.html"}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		_, err = clone.ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = clone
	}

	s := &Server{db: db, pages: pages, mux: http.NewServeMux(), log: log}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	// Static files
	staticSub, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	// Routes
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/run/", s.handleRun)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	runs, err := s.db.GetRecentRuns(100)
	if err != nil {
		s.log.Error(r.Context(), "Listing runs: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	stats, _ := s.db.GetStats()

	s.render(r.Context(), w, "index.html", map[string]any{
		"Runs":  runs,
		"Stats": stats,
	})
}

// handleRun serves /run/{id} and /run/{id}/{generated|polished}.{md|html}.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/run/"), "/")
	if path == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	id, file, _ := strings.Cut(path, "/")

	run, err := s.db.GetRun(id)
	if err != nil {
		s.log.Error(r.Context(), "Loading run %s: %v", id, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if run == nil {
		http.NotFound(w, r)
		return
	}

	if file != "" {
		s.download(w, r, run, file)
		return
	}

	view := r.URL.Query().Get("view")
	markdown := run.Report()
	if view == "generated" {
		markdown = run.GeneratedMarkdown
	} else {
		view = "polished"
		if run.PolishedMarkdown == nil {
			view = "generated"
		}
	}
	outcomes, _ := s.db.GetOutcomes(run.ID)

	s.render(r.Context(), w, "run.html", map[string]any{
		"Run":      run,
		"View":     view,
		"Report":   markdown,
		"Outcomes": outcomes,
	})
}

func (s *Server) download(w http.ResponseWriter, r *http.Request, run *database.Run, file string) {
	which, ext, ok := strings.Cut(file, ".")
	if !ok {
		http.NotFound(w, r)
		return
	}

	var markdown string
	switch which {
	case "generated":
		markdown = run.GeneratedMarkdown
	case "polished":
		if run.PolishedMarkdown == nil {
			http.NotFound(w, r)
			return
		}
		markdown = *run.PolishedMarkdown
	default:
		http.NotFound(w, r)
		return
	}

	switch ext {
	case "md":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", which+"_content.md"))
		w.Write([]byte(markdown))
	case "html":
		page, err := export.HTML(run.Name, markdown)
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) render(ctx context.Context, w http.ResponseWriter, name string, data any) {
	tmpl, ok := s.pages[name]
	if !ok {
		s.log.Error(ctx, "Template %s not found", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		s.log.Error(ctx, "Error rendering template %s: %v", name, err)
	}
}

func renderMarkdown(text string) template.HTML {
	html, err := export.Markdown(text)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return html
}

// Serve starts the HTTP server on the given port.
func Serve(db *database.DB, port int, log logger.Logger) error {
	srv, err := New(db, log)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	srv.log.Info(context.Background(), "Server listening on http://%s", addr)
	return http.ListenAndServe(addr, srv.Handler())
}
