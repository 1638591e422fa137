package api

import (
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/flagdoc/internal/render"
)

// handlePage serves one generated page. The root path serves the index.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	res := s.current()
	if res == nil {
		jsonError(w, "no site has been built yet", http.StatusServiceUnavailable)
		return
	}

	name := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if name == "" {
		name = render.IndexPath
	}
	page, ok := res.Site.Page(name)
	if !ok {
		http.NotFound(w, r)
		return
	}

	ctype := mime.TypeByExtension(path.Ext(name))
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("ETag", `"`+res.Digest+`"`)
	w.Write(page.Content)
}

type entityEntry struct {
	Key        string `json:"key"`
	Kind       string `json:"kind"`
	Href       string `json:"href"`
	ClassKey   string `json:"class_key,omitempty"`
	SourceName string `json:"source_name"`
	SourceLine int    `json:"source_line"`
}

// handleListEntities returns every documented entity in declaration order.
func (s *Server) handleListEntities(w http.ResponseWriter, r *http.Request) {
	res := s.current()
	if res == nil {
		jsonError(w, "no site has been built yet", http.StatusServiceUnavailable)
		return
	}

	kind := r.URL.Query().Get("kind")
	entities := make([]entityEntry, 0, res.Tree.Len())
	for _, e := range res.Tree.Entities() {
		if kind != "" && e.Kind().String() != kind {
			continue
		}
		info := e.Info()
		entry := entityEntry{
			Key:        info.Key,
			Kind:       e.Kind().String(),
			Href:       render.Href(info.Key),
			SourceName: info.SourceName,
			SourceLine: info.SourceLine,
		}
		if owner := res.Tree.Owner(info.Key); owner != nil {
			entry.ClassKey = owner.Key
		}
		entities = append(entities, entry)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"product":  res.Tree.Product,
		"entities": entities,
	})
}

// handleBuildStatus reports the last attempted build.
func (s *Server) handleBuildStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()
	if last == nil {
		jsonError(w, "no build has run yet", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, last.Snapshot())
}

// handleRebuild re-reads the inputs and renders the site again.
func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	b, err := s.Rebuild(r.Context())
	if err != nil {
		s.log.Warn("rebuild failed", "error", err)
		if b == nil {
			jsonError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		writeJSON(w, http.StatusUnprocessableEntity, b.Snapshot())
		return
	}
	writeJSON(w, http.StatusOK, b.Snapshot())
}
