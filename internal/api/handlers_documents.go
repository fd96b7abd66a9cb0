package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/jsondir/internal/catalog"
	"github.com/dgallion1/jsondir/internal/config"
)

// handleListDocuments serves one page of documents. The page query
// parameter is clamped into range; it never fails the request.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	files := s.catalog.ListFiles()
	page := catalog.ParsePage(r.URL.Query().Get("page"))

	docs := s.catalog.Page(files, page)
	respondJSON(w, http.StatusOK, s.catalog.Envelope(docs, files))
}

// handleSearchDocuments returns every document matching q across the whole
// directory. Totals in the envelope describe the full file set.
func (s *Server) handleSearchDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("q") {
		jsonError(w, "q query parameter is required", http.StatusBadRequest)
		return
	}

	fields := config.SplitList(q.Get("fields"))
	if len(fields) == 0 {
		fields = s.cfg.SearchFields
	}

	files := s.catalog.ListFiles()
	docs := s.catalog.Search(q.Get("q"), fields, files)
	respondJSON(w, http.StatusOK, s.catalog.Envelope(docs, files))
}

// respondJSON marshals before touching headers so an encoding failure
// still produces a clean 500.
func respondJSON(w http.ResponseWriter, code int, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		jsonError(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(payload)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
