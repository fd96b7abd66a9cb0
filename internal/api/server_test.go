package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/jsondir/internal/catalog"
	"github.com/dgallion1/jsondir/internal/config"
	"github.com/dgallion1/jsondir/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Data         []map[string]any `json:"data"`
	TotalPages   int              `json:"total_pages"`
	TotalReports int              `json:"total_reports"`
}

func newTestServer(t *testing.T, docs int) (*Server, *stats.Latency) {
	t.Helper()
	dir := t.TempDir()
	for i := 1; i <= docs; i++ {
		body := fmt.Sprintf(`{"title":"Report %02d","content":{"body":"entry number %d"}}`, i, i)
		require.NoError(t, os.WriteFile(filepath.Join(dir, fmt.Sprintf("r%02d.json", i)), []byte(body), 0644))
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cat, err := catalog.New(dir, 9, log)
	require.NoError(t, err)

	cfg := config.Config{
		SearchFields: []string{"title"},
		CORSOrigins:  []string{"*"},
	}
	latency := stats.NewLatency(time.Hour)
	return NewServer(cat, latency, log, cfg), latency
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, 0)
	rec := get(t, s, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListDocuments_Pages(t *testing.T) {
	s, _ := newTestServer(t, 20)

	tests := []struct {
		query     string
		wantCount int
		wantFirst string
	}{
		{"", 9, "Report 01"},
		{"?page=2", 9, "Report 10"},
		{"?page=3", 2, "Report 19"},
		{"?page=999", 2, "Report 19"},
		{"?page=0", 9, "Report 01"},
		{"?page=abc", 9, "Report 01"},
		{"?page=99999999999999999999", 2, "Report 19"},
		{"?page=-99999999999999999999", 9, "Report 01"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			env := decodeEnvelope(t, get(t, s, "/api/documents"+tt.query))
			assert.Equal(t, 3, env.TotalPages)
			assert.Equal(t, 20, env.TotalReports)
			require.Len(t, env.Data, tt.wantCount)
			assert.Equal(t, tt.wantFirst, env.Data[0]["title"])
		})
	}
}

func TestListDocuments_EmptyDirectory(t *testing.T) {
	s, _ := newTestServer(t, 0)
	rec := get(t, s, "/api/documents?page=4")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[],"total_pages":0,"total_reports":0}`, rec.Body.String())
}

func TestSearchDocuments(t *testing.T) {
	s, _ := newTestServer(t, 20)

	env := decodeEnvelope(t, get(t, s, "/api/documents/search?q=report%2012"))
	require.Len(t, env.Data, 1)
	assert.Equal(t, "Report 12", env.Data[0]["title"])
	assert.Equal(t, 3, env.TotalPages)
	assert.Equal(t, 20, env.TotalReports)

	// Matches span pages; no paging is applied to search results.
	env = decodeEnvelope(t, get(t, s, "/api/documents/search?q=REPORT"))
	assert.Len(t, env.Data, 20)
}

func TestSearchDocuments_ExplicitFields(t *testing.T) {
	s, _ := newTestServer(t, 20)

	env := decodeEnvelope(t, get(t, s, "/api/documents/search?q=number%207&fields=content.missing,content.body"))
	require.Len(t, env.Data, 1)
	assert.Equal(t, "Report 07", env.Data[0]["title"])

	// Default fields only cover title.
	env = decodeEnvelope(t, get(t, s, "/api/documents/search?q=number%207"))
	assert.Empty(t, env.Data)
}

func TestSearchDocuments_RequiresQuery(t *testing.T) {
	s, _ := newTestServer(t, 3)
	rec := get(t, s, "/api/documents/search")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "q query parameter is required")
}

func TestStats_RecordsRoutePatterns(t *testing.T) {
	s, _ := newTestServer(t, 3)
	get(t, s, "/api/documents?page=1")
	get(t, s, "/api/documents?page=2")
	get(t, s, "/does-not-exist")

	rec := get(t, s, "/api/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Routes map[string]stats.Snapshot `json:"routes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Routes["/api/documents"].Count)
	assert.NotContains(t, body.Routes, "/does-not-exist")
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t, 1)
	req := httptest.NewRequest(http.MethodOptions, "/api/documents", nil)
	req.Header.Set("Origin", "https://reports.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestStats_IgnoresUnmatchedRoutes(t *testing.T) {
	s, latency := newTestServer(t, 3)

	for i := range 50 {
		req := httptest.NewRequest(http.MethodOptions, fmt.Sprintf("/junk/%d", i), nil)
		req.Header.Set("Origin", "https://reports.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		s.ServeHTTP(httptest.NewRecorder(), req)
	}

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/documents", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	get(t, s, "/api/documents")

	routes := latency.Snapshot()
	assert.Len(t, routes, 1)
	assert.Contains(t, routes, "/api/documents")
	assert.Equal(t, 1, routes["/api/documents"].Count)
}
