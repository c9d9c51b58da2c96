package server

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/TobiSchelling/ContentForge/internal/database"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func ptr(s string) *string { return &s }

const generated = `# Generated Content Report

## Blog Post
### Title
Rates Hold Steady
### Content
The Federal Reserve kept rates unchanged.

## Excerpt
Rates held steady as inflation cooled.
`

func seedRun(t *testing.T, db *database.DB, polished *string) *database.Run {
	t.Helper()
	run := &database.Run{
		ID:                "3f2a9c10-5555-4e2a-8d11-00000000abcd",
		Name:              "episode-7",
		Source:            ptr("episode-7.txt"),
		GeneratedMarkdown: generated,
	}
	outcomes := []database.ArtifactOutcome{
		{Artifact: "blog", Stage: "generate", Status: "ok"},
		{Artifact: "faq", Stage: "generate", Status: "failed", Error: ptr("no questions detected")},
	}
	if err := db.InsertRun(run, outcomes); err != nil {
		t.Fatalf("insert run: %v", err)
	}
	if polished != nil {
		if err := db.SetPolished(run.ID, *polished, nil); err != nil {
			t.Fatalf("set polished: %v", err)
		}
	}
	return run
}

func newServer(t *testing.T, db *database.DB) *Server {
	t.Helper()
	srv, err := New(db, nil)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	return srv
}

func get(srv *Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestIndexRouteEmpty(t *testing.T) {
	srv := newServer(t, openTestDB(t))

	rec := get(srv, "/")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No runs yet") {
		t.Error("expected empty state message")
	}
}

func TestIndexListsRuns(t *testing.T) {
	db := openTestDB(t)
	run := seedRun(t, db, nil)
	srv := newServer(t, db)

	body := get(srv, "/").Body.String()
	if !strings.Contains(body, "episode-7") {
		t.Error("expected run name in index")
	}
	if !strings.Contains(body, "/run/"+run.ID) {
		t.Error("expected link to run")
	}
	if !strings.Contains(body, "1 runs") {
		t.Error("expected stats line")
	}
}

func TestUnknownPathNotFound(t *testing.T) {
	srv := newServer(t, openTestDB(t))
	if rec := get(srv, "/nope"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestRunRouteRendersReport(t *testing.T) {
	db := openTestDB(t)
	run := seedRun(t, db, nil)
	srv := newServer(t, db)

	rec := get(srv, "/run/"+run.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<h2>Blog Post</h2>") {
		t.Error("expected rendered markdown heading")
	}
	if !strings.Contains(body, "no questions detected") {
		t.Error("expected outcome error in table")
	}
	if strings.Contains(body, "?view=polished") {
		t.Error("did not expect polished tab for unpolished run")
	}
}

func TestRunRoutePrefersPolished(t *testing.T) {
	db := openTestDB(t)
	polished := strings.Replace(generated, "Generated Content Report", "Polished Content Report", 1)
	polished = strings.Replace(polished, "Rates Hold Steady", "Federal Reserve Holds Rates", 1)
	run := seedRun(t, db, &polished)
	srv := newServer(t, db)

	body := get(srv, "/run/"+run.ID).Body.String()
	if !strings.Contains(body, "Federal Reserve Holds Rates") {
		t.Error("expected polished report by default")
	}

	body = get(srv, "/run/"+run.ID+"?view=generated").Body.String()
	if !strings.Contains(body, "Rates Hold Steady") {
		t.Error("expected generated report when requested")
	}
}

func TestRunRouteMissing(t *testing.T) {
	srv := newServer(t, openTestDB(t))
	if rec := get(srv, "/run/does-not-exist"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestRunRouteRedirectsWithoutID(t *testing.T) {
	srv := newServer(t, openTestDB(t))
	rec := get(srv, "/run/")
	if rec.Code != http.StatusFound {
		t.Errorf("expected 302, got %d", rec.Code)
	}
}

func TestDownloadMarkdown(t *testing.T) {
	db := openTestDB(t)
	run := seedRun(t, db, nil)
	srv := newServer(t, db)

	rec := get(srv, "/run/"+run.ID+"/generated.md")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != generated {
		t.Error("expected raw generated markdown")
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "generated_content.md") {
		t.Errorf("unexpected disposition %q", rec.Header().Get("Content-Disposition"))
	}
}

func TestDownloadHTML(t *testing.T) {
	db := openTestDB(t)
	run := seedRun(t, db, nil)
	srv := newServer(t, db)

	rec := get(srv, "/run/"+run.ID+"/generated.html")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<h3>Title</h3>") {
		t.Error("expected rendered html document")
	}
}

func TestDownloadPolishedMissing(t *testing.T) {
	db := openTestDB(t)
	run := seedRun(t, db, nil)
	srv := newServer(t, db)

	if rec := get(srv, "/run/"+run.ID+"/polished.md"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if rec := get(srv, "/run/"+run.ID+"/generated.pdf"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown format, got %d", rec.Code)
	}
}

func TestStaticRoute(t *testing.T) {
	srv := newServer(t, openTestDB(t))

	rec := get(srv, "/static/style.css")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "font-sans") {
		t.Error("expected CSS content")
	}
}
