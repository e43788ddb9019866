// Package selection classifies a start/end cell pair against a puzzle's word list.
package selection

import "wordsearch/internal/board"

// Kind is the outcome of evaluating a selection.
type Kind int

const (
	InvalidLine Kind = iota
	NotAWord
	Matched
)

func (k Kind) String() string {
	switch k {
	case Matched:
		return "matched"
	case NotAWord:
		return "not_a_word"
	default:
		return "invalid_line"
	}
}

// LetterGrid is the read-only view of a grid the evaluator needs.
type LetterGrid interface {
	Size() int
	At(x, y int) byte
}

// Result is the classification of one selection. Word is set only for
// Matched; Path is set for Matched and NotAWord.
type Result struct {
	Kind Kind
	Word string
	Path []board.Point
}

// StraightPath returns the cells from a to b inclusive, or false when the
// two cells are not on a horizontal, vertical or 45° diagonal line.
func StraightPath(a, b board.Point) ([]board.Point, bool) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	if dx != 0 && dy != 0 && abs(dx) != abs(dy) {
		return nil, false
	}
	stepX, stepY := sign(dx), sign(dy)
	n := max(abs(dx), abs(dy)) + 1
	path := make([]board.Point, n)
	x, y := a.X, a.Y
	for i := range path {
		path[i] = board.Point{X: x, Y: y}
		x += stepX
		y += stepY
	}
	return path, true
}

// Evaluate extracts the letters from start to end and matches them, read in
// either direction, against words. Words already found match again.
func Evaluate(grid LetterGrid, words []string, start, end board.Point) Result {
	if !inside(grid, start) || !inside(grid, end) {
		return Result{Kind: InvalidLine}
	}
	path, ok := StraightPath(start, end)
	if !ok {
		return Result{Kind: InvalidLine}
	}
	forward := make([]byte, len(path))
	for i, p := range path {
		forward[i] = grid.At(p.X, p.Y)
	}
	reversed := make([]byte, len(forward))
	for i, c := range forward {
		reversed[len(forward)-1-i] = c
	}
	fs, rs := string(forward), string(reversed)
	for _, w := range words {
		if w == fs || w == rs {
			return Result{Kind: Matched, Word: w, Path: path}
		}
	}
	return Result{Kind: NotAWord, Path: path}
}

func inside(g LetterGrid, p board.Point) bool {
	n := g.Size()
	return p.X >= 0 && p.Y >= 0 && p.X < n && p.Y < n
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
