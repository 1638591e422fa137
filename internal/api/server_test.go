package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/flagdoc/internal/config"
	"github.com/dgallion1/flagdoc/internal/pipeline"
)

var quiet = slog.New(slog.DiscardHandler)

const widgetJS = `/*!
 * widgets
**/
/*?
 * class ui.Widget
 * A widget.
 * new ui.Widget()
 * ui.Widget#show() -> ui.Widget
**/
/*?
 * helpers.noop() -> undefined
**/
`

func newTestServer(t *testing.T) (*Server, config.Config) {
	t.Helper()
	dir := t.TempDir()
	script := filepath.Join(dir, "widget.js")
	readme := filepath.Join(dir, "README.md")
	if err := os.WriteFile(script, []byte(widgetJS), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(readme, []byte("Preview me."), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Load()
	cfg.Scripts = []string{script}
	cfg.Readme = readme

	srv := NewServer(pipeline.NewGenerator(cfg, quiet), quiet)
	if _, err := srv.Rebuild(context.Background()); err != nil {
		t.Fatalf("initial build: %v", err)
	}
	return srv, cfg
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	srv := NewServer(nil, quiet)
	rec := get(t, srv, "/health")
	if rec.Code != http.StatusOK || rec.Body.String() != `{"status":"ok"}` {
		t.Errorf("unexpected health response %d %q", rec.Code, rec.Body.String())
	}
}

func TestPages(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		target string
		code   int
		ctype  string
		body   string
	}{
		{"/", http.StatusOK, "text/html", "Preview me."},
		{"/index.html", http.StatusOK, "text/html", "<title>Top - widgets</title>"},
		{"/ui.Widget.prototype.show.html", http.StatusOK, "text/html", `<span class="key">ui.Widget#show</span>`},
		{"/new%20ui.Widget.html", http.StatusOK, "text/html", "new ui.Widget"},
		{"/flagdoc.css", http.StatusOK, "text/css", "api-list"},
		{"/missing.html", http.StatusNotFound, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, srv, tt.target)
			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			if tt.ctype != "" && !strings.HasPrefix(rec.Header().Get("Content-Type"), tt.ctype) {
				t.Errorf("expected content type %q, got %q", tt.ctype, rec.Header().Get("Content-Type"))
			}
			if !strings.Contains(rec.Body.String(), tt.body) {
				t.Errorf("body lacks %q", tt.body)
			}
		})
	}
}

func TestPages_BeforeFirstBuild(t *testing.T) {
	srv := NewServer(nil, quiet)
	if rec := get(t, srv, "/"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 before any build, got %d", rec.Code)
	}
	if rec := get(t, srv, "/api/build"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 build status before any build, got %d", rec.Code)
	}
}

func TestListEntities(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := get(t, srv, "/api/entities")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Product  string        `json:"product"`
		Entities []entityEntry `json:"entities"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Product != "widgets" {
		t.Errorf("expected product widgets, got %q", resp.Product)
	}
	if len(resp.Entities) != 4 {
		t.Fatalf("expected 4 entities, got %+v", resp.Entities)
	}
	show := resp.Entities[2]
	if show.Key != "ui.Widget#show" || show.Kind != "instance-method" || show.ClassKey != "ui.Widget" || show.Href != "ui.Widget.prototype.show.html" {
		t.Errorf("unexpected entry %+v", show)
	}
	if resp.Entities[3].ClassKey != "" {
		t.Errorf("top-level entity should have no class, got %+v", resp.Entities[3])
	}

	rec = get(t, srv, "/api/entities?kind=class")
	resp.Entities = nil
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Entities) != 1 || resp.Entities[0].Key != "ui.Widget" {
		t.Errorf("kind filter failed: %+v", resp.Entities)
	}
}

func TestRebuild(t *testing.T) {
	srv, cfg := newTestServer(t)
	updated := strings.Replace(widgetJS, "A widget.", "A rebuilt widget.", 1)
	if err := os.WriteFile(cfg.Scripts[0], []byte(updated), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/rebuild", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var snap pipeline.BuildSnapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatal(err)
	}
	if snap.Status != pipeline.StatusCompleted || snap.ID != 2 {
		t.Errorf("unexpected snapshot %+v", snap)
	}

	if body := get(t, srv, "/ui.Widget.html").Body.String(); !strings.Contains(body, "A rebuilt widget.") {
		t.Errorf("page not refreshed after rebuild")
	}
}

func TestRebuild_FailureKeepsPreviousSite(t *testing.T) {
	srv, cfg := newTestServer(t)
	if err := os.WriteFile(cfg.Scripts[0], []byte("/*?\n * ui.Widget#bad(a, ) -> ui.Widget\n**/"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/rebuild", nil))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	if rec := get(t, srv, "/ui.Widget.html"); rec.Code != http.StatusOK {
		t.Errorf("previous site should still be served, got %d", rec.Code)
	}
	var snap pipeline.BuildSnapshot
	if err := json.NewDecoder(get(t, srv, "/api/build").Body).Decode(&snap); err != nil {
		t.Fatal(err)
	}
	if snap.Status != pipeline.StatusFailed || len(snap.Progress.Errors) != 1 {
		t.Errorf("build status should report the failure, got %+v", snap)
	}
}

type failingRenderer struct{}

func (failingRenderer) Render(context.Context) (*pipeline.Build, error) {
	return nil, errors.New("boom")
}

func TestRebuild_RendererWithoutBuild(t *testing.T) {
	srv := NewServer(failingRenderer{}, quiet)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/rebuild", nil))
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), "boom") {
		t.Errorf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
}
