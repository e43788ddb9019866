// Package source loads date-keyed puzzle documents from a directory or an
// HTTP endpoint and falls back to the built-in puzzle on any failure.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"wordsearch/internal/puzzle"
)

// ErrNotFound is returned when no document exists for a date.
var ErrNotFound = errors.New("source: puzzle not found")

// ErrNullDocument is returned for a document that decodes to JSON null.
var ErrNullDocument = errors.New("source: puzzle document is null")

const maxDocumentSize = 1 << 20

// Source fetches the raw document for one day.
type Source interface {
	Fetch(ctx context.Context, date string) (puzzle.Document, error)
}

// DocumentName returns the file name for a date key.
func DocumentName(date string) string {
	return date + ".json"
}

// DirSource reads documents from a filesystem, e.g. os.DirFS("puzzles/wordsearch").
type DirSource struct {
	FS fs.FS
}

// Fetch implements Source.
func (s DirSource) Fetch(_ context.Context, date string) (puzzle.Document, error) {
	b, err := fs.ReadFile(s.FS, DocumentName(date))
	if errors.Is(err, fs.ErrNotExist) {
		return puzzle.Document{}, fmt.Errorf("%w: %s", ErrNotFound, date)
	}
	if err != nil {
		return puzzle.Document{}, fmt.Errorf("read %s: %w", DocumentName(date), err)
	}
	return decode(b)
}

// HTTPSource fetches <BaseURL>/<date>.json. There is no retry; the caller's
// context bounds the request.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

// Fetch implements Source.
func (s HTTPSource) Fetch(ctx context.Context, date string) (puzzle.Document, error) {
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return puzzle.Document{}, fmt.Errorf("parse base url: %w", err)
	}
	u.Path = path.Join(u.Path, DocumentName(date))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return puzzle.Document{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return puzzle.Document{}, fmt.Errorf("fetch %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return puzzle.Document{}, fmt.Errorf("%w: %s", ErrNotFound, date)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return puzzle.Document{}, fmt.Errorf("fetch %s: unexpected status %d", u, resp.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return puzzle.Document{}, fmt.Errorf("read body: %w", err)
	}
	return decode(b)
}

// decode reads a document leniently. Any JSON object is accepted: fields of
// the wrong type are left for puzzle.Normalize to coerce, and a "words" value
// that is not a list counts as no words. An array or scalar document carries
// no fields. A null document is rejected.
func decode(b []byte) (puzzle.Document, error) {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return puzzle.Document{}, fmt.Errorf("decode puzzle: %w", err)
	}
	switch v := raw.(type) {
	case nil:
		return puzzle.Document{}, ErrNullDocument
	case map[string]any:
		doc := puzzle.Document{Title: v["title"], Theme: v["theme"], Size: v["size"]}
		if words, ok := v["words"].([]any); ok {
			doc.Words = words
		}
		return doc, nil
	default:
		return puzzle.Document{}, nil
	}
}

// Origin says where a loaded puzzle came from.
type Origin string

const (
	OriginSource   Origin = "source"
	OriginFallback Origin = "fallback"
)

// Loader resolves today's puzzle. A nil Source always yields the default puzzle.
type Loader struct {
	Source   Source
	Location *time.Location
	// Timeout bounds one fetch; zero leaves it to the caller's context.
	Timeout time.Duration
	Logger  *slog.Logger
}

// DateKey formats now as the document key in the loader's location.
func (l *Loader) DateKey(now time.Time) string {
	loc := l.Location
	if loc == nil {
		loc = time.Local
	}
	return now.In(loc).Format(puzzle.DateLayout)
}

// Today loads and normalizes the puzzle for the day containing now. It never
// fails; every fetch or decode error falls through to puzzle.Default.
func (l *Loader) Today(ctx context.Context, now time.Time) (*puzzle.Puzzle, Origin) {
	date := l.DateKey(now)
	logger := l.logger()
	if l.Source == nil {
		return puzzle.Default(), OriginFallback
	}
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}
	doc, err := l.Source.Fetch(ctx, date)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logger.Debug("no puzzle for date, using default", "date", date)
		} else {
			logger.Warn("puzzle fetch failed, using default", "date", date, "error", err)
		}
		return puzzle.Default(), OriginFallback
	}
	p := puzzle.Normalize(doc, date)
	logger.Info("puzzle loaded", "date", date, "title", p.Title, "size", p.Size, "words", p.WordCount())
	return p, OriginSource
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

// New picks a Source from configuration: an http(s) URL wins over a directory.
func New(dir, baseURL string, client *http.Client) Source {
	if u := strings.TrimSpace(baseURL); u != "" {
		return HTTPSource{BaseURL: u, Client: client}
	}
	if d := strings.TrimSpace(dir); d != "" {
		return DirSource{FS: os.DirFS(d)}
	}
	return nil
}
