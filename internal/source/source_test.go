package source

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordsearch/internal/puzzle"
)

const animals = `{"title":"Animals","theme":"ZOO","size":10,"words":["cat","dog","horse","zebra","lion","tiger"]}`

var day = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDirSource_Fetch(t *testing.T) {
	src := DirSource{FS: fstest.MapFS{
		"2026-10-14.json": {Data: []byte(animals)},
		"2026-10-15.json": {Data: []byte(`{not json`)},
	}}

	doc, err := src.Fetch(context.Background(), "2026-10-14")
	require.NoError(t, err)
	assert.Equal(t, "Animals", doc.Title)
	assert.Len(t, doc.Words, 6)

	_, err = src.Fetch(context.Background(), "2026-10-16")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = src.Fetch(context.Background(), "2026-10-15")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestHTTPSource_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "no-store", r.Header.Get("Cache-Control"))
		switch r.URL.Path {
		case "/puzzles/wordsearch/2026-10-14.json":
			_, _ = w.Write([]byte(animals))
		case "/puzzles/wordsearch/2026-10-15.json":
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src := HTTPSource{BaseURL: srv.URL + "/puzzles/wordsearch", Client: srv.Client()}

	doc, err := src.Fetch(context.Background(), "2026-10-14")
	require.NoError(t, err)
	assert.Equal(t, "ZOO", doc.Theme)

	_, err = src.Fetch(context.Background(), "2026-10-13")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = src.Fetch(context.Background(), "2026-10-15")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
}

func TestLoader_Today(t *testing.T) {
	l := &Loader{
		Source:   DirSource{FS: fstest.MapFS{"2026-10-14.json": {Data: []byte(animals)}}},
		Location: time.UTC,
		Logger:   quietLogger(),
	}
	p, origin := l.Today(context.Background(), day)
	assert.Equal(t, OriginSource, origin)
	assert.Equal(t, "2026-10-14", p.Date)
	assert.Equal(t, 10, p.Size)
	assert.Equal(t, []string{"CAT", "DOG", "HORSE", "ZEBRA", "LION", "TIGER"}, p.Words())
}

func TestLoader_FallsBack(t *testing.T) {
	tests := []struct {
		name string
		src  Source
	}{
		{"no source", nil},
		{"missing document", DirSource{FS: fstest.MapFS{}}},
		{"malformed json", DirSource{FS: fstest.MapFS{"2026-10-14.json": {Data: []byte("[")}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &Loader{Source: tt.src, Location: time.UTC, Logger: quietLogger()}
			p, origin := l.Today(context.Background(), day)
			assert.Equal(t, OriginFallback, origin)
			assert.Equal(t, puzzle.GeneratedDate, p.Date)
			assert.Equal(t, puzzle.DefaultSize, p.Size)
			assert.Equal(t, 12, p.WordCount())
		})
	}
}

func TestLoader_TimeoutFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	l := &Loader{
		Source:   HTTPSource{BaseURL: srv.URL, Client: srv.Client()},
		Location: time.UTC,
		Timeout:  50 * time.Millisecond,
		Logger:   quietLogger(),
	}
	_, origin := l.Today(context.Background(), day)
	assert.Equal(t, OriginFallback, origin)
}

func TestLoader_DateKeyUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	l := &Loader{Location: loc}
	late := time.Date(2026, 10, 14, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-10-15", l.DateKey(late))
}

func TestNew(t *testing.T) {
	assert.Nil(t, New("", "", nil))
	assert.IsType(t, DirSource{}, New("puzzles/wordsearch", "", nil))
	assert.IsType(t, HTTPSource{}, New("puzzles/wordsearch", "https://example.com/puzzles", nil))
}

func TestLoader_LenientDocuments(t *testing.T) {
	fallback := []string{"PUZZLE", "BRAIN", "MOBILE", "SEARCH", "LOGIC", "DAILY"}
	tests := []struct {
		name       string
		body       string
		wantOrigin Origin
		wantTitle  string
		wantTheme  string
		wantSize   int
		wantDate   string
		wantWords  []string
	}{
		{
			name:       "words not a list",
			body:       `{"title":"Zoo","theme":"ANIMALS","size":9,"words":"CAT"}`,
			wantOrigin: OriginSource, wantTitle: "Zoo", wantTheme: "ANIMALS", wantSize: 9,
			wantDate: "2026-10-14", wantWords: fallback,
		},
		{
			name:       "words an object",
			body:       `{"title":"Zoo","words":{"a":"CAT"}}`,
			wantOrigin: OriginSource, wantTitle: "Zoo", wantTheme: puzzle.DefaultTheme, wantSize: puzzle.DefaultSize,
			wantDate: "2026-10-14", wantWords: fallback,
		},
		{
			name:       "top-level array",
			body:       `[1,2]`,
			wantOrigin: OriginSource, wantTitle: puzzle.DefaultTitle, wantTheme: puzzle.DefaultTheme, wantSize: puzzle.DefaultSize,
			wantDate: "2026-10-14", wantWords: fallback,
		},
		{
			name:       "null document",
			body:       `null`,
			wantOrigin: OriginFallback, wantTitle: puzzle.DefaultTitle, wantTheme: puzzle.DefaultTheme, wantSize: puzzle.DefaultSize,
			wantDate: puzzle.GeneratedDate, wantWords: puzzle.Default().Words(),
		},
		{
			name:       "null title and size",
			body:       `{"title":null,"size":null,"words":["cat","dog","horse","zebra","lion","tiger"]}`,
			wantOrigin: OriginSource, wantTitle: puzzle.DefaultTitle, wantTheme: puzzle.DefaultTheme, wantSize: puzzle.DefaultSize,
			wantDate: "2026-10-14", wantWords: []string{"CAT", "DOG", "HORSE", "ZEBRA", "LION", "TIGER"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &Loader{
				Source:   DirSource{FS: fstest.MapFS{"2026-10-14.json": {Data: []byte(tt.body)}}},
				Location: time.UTC,
				Logger:   quietLogger(),
			}
			p, origin := l.Today(context.Background(), day)
			assert.Equal(t, tt.wantOrigin, origin)
			assert.Equal(t, tt.wantTitle, p.Title)
			assert.Equal(t, tt.wantTheme, p.Theme)
			assert.Equal(t, tt.wantSize, p.Size)
			assert.Equal(t, tt.wantDate, p.Date)
			assert.Equal(t, tt.wantWords, p.Words())
		})
	}
}

func TestDirSource_NullDocument(t *testing.T) {
	src := DirSource{FS: fstest.MapFS{"2026-10-14.json": {Data: []byte(" null ")}}}
	_, err := src.Fetch(context.Background(), "2026-10-14")
	assert.ErrorIs(t, err, ErrNullDocument)
}
