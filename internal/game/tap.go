package game

import (
	"fmt"

	"wordsearch/internal/board"
	"wordsearch/internal/selection"
)

const (
	MessageInstructions = "Tap a start letter, then tap an end letter in a straight line."
	MessageInvalidLine  = "Must be a straight line. Try again."
	MessageNotAWord     = "Not a word. Try again."
	messageComplete     = " All words found!"
)

// State is the selection state of one session. A nil Start means the
// session is idle; otherwise it waits for the end tap.
type State struct {
	Start *board.Point
	Found map[string]struct{}
}

// Idle reports whether no start cell is pending.
func (s State) Idle() bool {
	return s.Start == nil
}

// HasFound reports whether word is in the found set.
func (s State) HasFound(word string) bool {
	_, ok := s.Found[word]
	return ok
}

// Effect is what a tap changes on screen.
type Effect struct {
	// Result is nil for the first tap of a selection.
	Result *selection.Result
	// Selected is the transient highlight after the tap.
	Selected []board.Point
	// Message replaces the status line when non-empty.
	Message  string
	Complete bool
}

// Transition applies one tap. The first tap records the start cell; the
// second evaluates the line and always returns to idle. st is not modified.
func Transition(st State, tap board.Point, grid selection.LetterGrid, words []string) (State, Effect) {
	if st.Idle() {
		start := tap
		return State{Start: &start, Found: st.Found}, Effect{Selected: []board.Point{tap}}
	}

	res := selection.Evaluate(grid, words, *st.Start, tap)
	next := State{Found: st.Found}
	eff := Effect{Result: &res}
	switch res.Kind {
	case selection.InvalidLine:
		eff.Message = MessageInvalidLine
	case selection.NotAWord:
		eff.Selected = res.Path
		eff.Message = MessageNotAWord
	case selection.Matched:
		found := make(map[string]struct{}, len(st.Found)+1)
		for w := range st.Found {
			found[w] = struct{}{}
		}
		found[res.Word] = struct{}{}
		next.Found = found
		eff.Selected = res.Path
		eff.Message = fmt.Sprintf("Found: %s (%d/%d)", res.Word, len(found), len(words))
		if len(found) >= len(words) {
			eff.Complete = true
			eff.Message += messageComplete
		}
	}
	return next, eff
}
