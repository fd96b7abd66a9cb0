package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// DefaultPerPage is the page size used when none is configured.
const DefaultPerPage = 9

// ErrInvalidPageSize is returned by New when the page size is not positive.
var ErrInvalidPageSize = errors.New("page size must be a positive integer")

// Document is one JSON value decoded from a file. Numbers decode as
// json.Number so they re-encode exactly as stored.
type Document = any

// Envelope is the response shape for both listing and search.
type Envelope struct {
	Data         []Document `json:"data"`
	TotalPages   int        `json:"total_pages"`
	TotalReports int        `json:"total_reports"`
}

// Catalog reads JSON documents from a flat directory. It holds no state
// besides its configuration; every call goes back to disk.
type Catalog struct {
	dir     string
	perPage int
	log     *slog.Logger
}

// New creates a catalog over dir serving perPage documents per page.
func New(dir string, perPage int, log *slog.Logger) (*Catalog, error) {
	if perPage <= 0 {
		return nil, fmt.Errorf("new catalog: %w (got %d)", ErrInvalidPageSize, perPage)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Catalog{
		dir:     trimDir(dir),
		perPage: perPage,
		log:     log,
	}, nil
}

// Dir returns the directory the catalog reads from.
func (c *Catalog) Dir() string { return c.dir }

// PerPage returns the configured page size.
func (c *Catalog) PerPage() int { return c.perPage }

// ListFiles returns the .json files directly under the catalog directory,
// sorted lexicographically. A missing directory yields no files.
func (c *Catalog) ListFiles() []string {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			c.log.Warn("list directory", "dir", c.dir, "error", err)
		}
		return []string{}
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		// Dotfiles are hidden from listing, matching shell glob rules.
		if e.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ".json" {
			continue
		}
		files = append(files, filepath.Join(c.dir, name))
	}
	sort.Strings(files)
	return files
}

// TotalPages returns ceil(len(files) / perPage).
func (c *Catalog) TotalPages(files []string) int {
	if len(files) == 0 {
		return 0
	}
	return (len(files)-1)/c.perPage + 1
}

// Page loads the documents on the given 1-based page. The page number is
// clamped into range first. Files that cannot be read or decoded occupy
// their slot as a nil document.
func (c *Catalog) Page(files []string, page int) []Document {
	page = ClampPage(page, c.TotalPages(files))

	start := (page - 1) * c.perPage
	if start >= len(files) {
		return []Document{}
	}
	end := min(start+c.perPage, len(files))

	docs := make([]Document, 0, end-start)
	for _, f := range files[start:end] {
		doc, err := c.load(f)
		if err != nil {
			c.log.Warn("load document", "file", f, "error", err)
		}
		docs = append(docs, doc)
	}
	return docs
}

// Envelope wraps data with pagination totals computed over allFiles.
func (c *Catalog) Envelope(data []Document, allFiles []string) Envelope {
	if data == nil {
		data = []Document{}
	}
	return Envelope{
		Data:         data,
		TotalPages:   c.TotalPages(allFiles),
		TotalReports: len(allFiles),
	}
}

// ParsePage interprets an externally supplied page value. Anything that is
// not an integer becomes 1; range checks happen in ClampPage. Integers too
// large for an int saturate so they still clamp to the nearest bound.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return n
		}
		return 1
	}
	return n
}

// ClampPage forces page into [1, max(1, totalPages)].
func ClampPage(page, totalPages int) int {
	return max(1, min(page, max(1, totalPages)))
}

func (c *Catalog) load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return decode(data)
}

func decode(data []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	// One value per file; trailing content means the file is malformed.
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("decode: unexpected data after top-level value")
	}
	return doc, nil
}

func trimDir(dir string) string {
	trimmed := strings.TrimRight(dir, "/")
	if trimmed == "" && dir != "" {
		return dir[:1]
	}
	return trimmed
}
