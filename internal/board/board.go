package board

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"
)

const (
	MinSize = 8
	MaxSize = 16

	// DefaultRetries is the attempt budget per word.
	DefaultRetries = 250

	filler = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// ErrInvalidSize is returned when the requested grid size is outside [MinSize, MaxSize].
var ErrInvalidSize = errors.New("board: size out of range")

// Point is a cell coordinate; X is the column, Y the row.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Direction is a unit step along one of the eight straight lines.
type Direction struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

// Directions lists the eight placement directions in draw order.
var Directions = []Direction{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// Grid is a square letter matrix indexed [y][x]. Zero bytes mark empty cells
// and only exist during generation.
type Grid [][]byte

func newGrid(size int) Grid {
	g := make(Grid, size)
	for y := range g {
		g[y] = make([]byte, size)
	}
	return g
}

// Size returns the side length of the grid.
func (g Grid) Size() int {
	return len(g)
}

// At returns the letter at (x, y).
func (g Grid) At(x, y int) byte {
	return g[y][x]
}

// Contains reports whether p lies inside the grid.
func (g Grid) Contains(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < len(g) && p.Y < len(g)
}

// Rows returns each row as a string.
func (g Grid) Rows() []string {
	rows := make([]string, len(g))
	for y, row := range g {
		rows[y] = string(row)
	}
	return rows
}

func (g Grid) String() string {
	return strings.Join(g.Rows(), "\n")
}

// Placement records where a word landed.
type Placement struct {
	Word      string    `json:"word"`
	Direction Direction `json:"direction"`
	Origin    Point     `json:"origin"`
}

// End returns the cell holding the word's last letter.
func (p Placement) End() Point {
	n := len(p.Word) - 1
	return Point{X: p.Origin.X + p.Direction.DX*n, Y: p.Origin.Y + p.Direction.DY*n}
}

// Cells returns every cell the word occupies, origin first.
func (p Placement) Cells() []Point {
	cells := make([]Point, len(p.Word))
	for i := range cells {
		cells[i] = Point{X: p.Origin.X + p.Direction.DX*i, Y: p.Origin.Y + p.Direction.DY*i}
	}
	return cells
}

// Board is the result of a generation run.
type Board struct {
	Grid       Grid
	Placements []Placement
	// Unplaced holds words that exhausted the retry budget. They are absent
	// from the grid.
	Unplaced []string
	// Skipped holds words that could never fit the grid and were not attempted.
	Skipped []string
}

// Placement returns the placement of word, if it was placed.
func (b *Board) Placement(word string) (Placement, bool) {
	for _, p := range b.Placements {
		if p.Word == word {
			return p, true
		}
	}
	return Placement{}, false
}

// UnplacedError reports words left out of a strict generation run.
type UnplacedError struct {
	Words []string
}

func (e *UnplacedError) Error() string {
	return fmt.Sprintf("board: %d word(s) could not be placed: %s", len(e.Words), strings.Join(e.Words, ", "))
}

// Rand is the randomness Generate draws from. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Options tunes Generate. The zero value uses the defaults.
type Options struct {
	Retries int
	// Strict makes Generate return an *UnplacedError alongside the board when
	// some word could not be placed.
	Strict bool
	Rand   Rand
}

// Generate lays words into a size×size grid and fills the remaining cells
// with random letters. Words are expected to be uppercase A-Z.
func Generate(size int, words []string, opts Options) (*Board, error) {
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	retries := opts.Retries
	if retries <= 0 {
		retries = DefaultRetries
	}

	b := &Board{Grid: newGrid(size)}
	ordered := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" || len(w) > size {
			b.Skipped = append(b.Skipped, w)
			continue
		}
		ordered = append(ordered, w)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i]) > len(ordered[j])
	})

	for _, w := range ordered {
		p, ok := place(b.Grid, w, retries, rng)
		if !ok {
			b.Unplaced = append(b.Unplaced, w)
			continue
		}
		b.Placements = append(b.Placements, p)
	}
	fill(b.Grid, rng)

	if opts.Strict && len(b.Unplaced) > 0 {
		return b, &UnplacedError{Words: append([]string(nil), b.Unplaced...)}
	}
	return b, nil
}

func place(g Grid, word string, retries int, rng Rand) (Placement, bool) {
	size := g.Size()
	for try := 0; try < retries; try++ {
		p := Placement{
			Word:      word,
			Direction: Directions[rng.Intn(len(Directions))],
			Origin:    Point{X: rng.Intn(size), Y: rng.Intn(size)},
		}
		if !g.Contains(p.End()) || !fits(g, p) {
			continue
		}
		for i, c := range p.Cells() {
			g[c.Y][c.X] = word[i]
		}
		return p, true
	}
	return Placement{}, false
}

// fits reports whether every cell along p is empty or already holds the same letter.
func fits(g Grid, p Placement) bool {
	for i, c := range p.Cells() {
		if ch := g[c.Y][c.X]; ch != 0 && ch != p.Word[i] {
			return false
		}
	}
	return true
}

func fill(g Grid, rng Rand) {
	for y := range g {
		for x := range g[y] {
			if g[y][x] == 0 {
				g[y][x] = filler[rng.Intn(len(filler))]
			}
		}
	}
}
