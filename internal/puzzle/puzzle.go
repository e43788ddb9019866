package puzzle

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	MinSize     = 8
	MaxSize     = 16
	DefaultSize = 12

	MinWordLen = 3
	MinWords   = 6

	DefaultTitle = "Daily Word Search"
	DefaultTheme = "GENERAL"

	// GeneratedDate labels a puzzle built from the default definition.
	GeneratedDate = "Generated"

	// DateLayout names puzzle documents, e.g. 2026-10-14.json.
	DateLayout = "2006-01-02"
)

// fallbackWords replaces a document's word list when too few words survive normalization.
var fallbackWords = []string{"PUZZLE", "BRAIN", "MOBILE", "SEARCH", "LOGIC", "DAILY"}

// defaultWords is the word list of the built-in puzzle used when no document loads.
var defaultWords = []string{
	"PUZZLE", "BRAIN", "MOBILE", "SEARCH", "LOGIC", "DAILY",
	"FOCUS", "SMART", "GRID", "LETTER", "PLAY", "FUN",
}

// Document is the JSON shape of a puzzle file. Every field is optional and
// loosely typed; Normalize coerces whatever arrives.
type Document struct {
	Title any   `json:"title,omitempty"`
	Theme any   `json:"theme,omitempty"`
	Size  any   `json:"size,omitempty"`
	Words []any `json:"words,omitempty"`
}

// Puzzle is a normalized puzzle definition. It is not mutated after Normalize.
type Puzzle struct {
	Title string
	Theme string
	Date  string
	Size  int
	words []string
}

// Words returns a copy of the puzzle's word list in display order.
func (p *Puzzle) Words() []string {
	out := make([]string, len(p.words))
	copy(out, p.words)
	return out
}

// WordCount returns the number of words in the puzzle.
func (p *Puzzle) WordCount() int {
	return len(p.words)
}

// Meta returns the header line shown above the grid.
func (p *Puzzle) Meta() string {
	return p.Title + " • " + p.Theme + " • " + p.Date
}

// Default returns the built-in puzzle used when no document can be loaded.
func Default() *Puzzle {
	words := make([]any, len(defaultWords))
	for i, w := range defaultWords {
		words[i] = w
	}
	return Normalize(Document{
		Title: DefaultTitle,
		Theme: DefaultTheme,
		Size:  DefaultSize,
		Words: words,
	}, GeneratedDate)
}

// Normalize turns a raw document into a Puzzle. It never fails: missing or
// invalid fields take defaults and a short word list is replaced.
func Normalize(doc Document, date string) *Puzzle {
	size := DefaultSize
	if doc.Size != nil {
		size = ClampSize(doc.Size)
	}

	words := make([]string, 0, len(doc.Words))
	seen := make(map[string]struct{}, len(doc.Words))
	for _, raw := range doc.Words {
		w := CleanWord(stringOf(raw))
		if len(w) < MinWordLen {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		if len(w) <= size {
			words = append(words, w)
		}
	}
	if len(words) < MinWords {
		words = FallbackWords(size)
	}

	title := DefaultTitle
	if doc.Title != nil {
		title = stringOf(doc.Title)
	}
	theme := DefaultTheme
	if doc.Theme != nil {
		theme = stringOf(doc.Theme)
	}
	return &Puzzle{
		Title: title,
		Theme: theme,
		Date:  date,
		Size:  size,
		words: words,
	}
}

// FallbackWords returns the fixed fallback list filtered to words that fit size.
func FallbackWords(size int) []string {
	out := make([]string, 0, len(fallbackWords))
	for _, w := range fallbackWords {
		if len(w) <= size {
			out = append(out, w)
		}
	}
	return out
}

// CleanWord uppercases w and strips everything outside A-Z. Case mapping is
// the full Unicode one, so "ß" becomes "SS".
func CleanWord(w string) string {
	upper := cases.Upper(language.Und).String(w)
	var b strings.Builder
	b.Grow(len(upper))
	for i := 0; i < len(upper); i++ {
		if c := upper[i]; c >= 'A' && c <= 'Z' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// ClampSize coerces a decoded JSON value into [MinSize, MaxSize]. Values that
// are not numbers (or numeric strings) clamp to MinSize; fractions truncate.
func ClampSize(v any) int {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case int:
		n = float64(t)
	case bool:
		if t {
			n = 1
		}
	case []any:
		// A list coerces through its joined text: [9] is 9, [] is 0.
		return ClampSize(stringOf(t))
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			n = 0
			break
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return MinSize
		}
		n = f
	default:
		return MinSize
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return MinSize
	}
	n = math.Trunc(n)
	if n < MinSize {
		return MinSize
	}
	if n > MaxSize {
		return MaxSize
	}
	return int(n)
}

// stringOf renders a decoded JSON value as text the way a browser
// stringifies it: null is "null", lists join their items with commas and
// objects read "[object Object]".
func stringOf(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return formatNumber(t)
	case int:
		return strconv.Itoa(t)
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			if item != nil {
				parts[i] = stringOf(item)
			}
		}
		return strings.Join(parts, ",")
	case map[string]any:
		return "[object Object]"
	default:
		return ""
	}
}

func formatNumber(f float64) string {
	if abs := math.Abs(f); abs >= 1e21 || (abs != 0 && abs < 1e-6) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
