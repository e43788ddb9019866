package game

import (
	"testing"

	"wordsearch/internal/board"
	"wordsearch/internal/selection"
)

func gridOf(rows ...string) board.Grid {
	g := make(board.Grid, len(rows))
	for i, r := range rows {
		g[i] = []byte(r)
	}
	return g
}

var catDog = gridOf(
	"CATXXXXX",
	"XXXXXXXX",
	"XXXXXXXX",
	"XXXXXXXX",
	"XXXXXXXX",
	"XXXXXXXX",
	"XXXXXXXX",
	"GODXXXXX",
)

func tapAll(st State, words []string, taps ...board.Point) (State, Effect) {
	var eff Effect
	for _, p := range taps {
		st, eff = Transition(st, p, catDog, words)
	}
	return st, eff
}

func TestTransition_FirstTapSetsStart(t *testing.T) {
	st, eff := Transition(State{}, board.Point{X: 2, Y: 3}, catDog, []string{"CAT"})
	if st.Idle() {
		t.Fatal("state should await end tap")
	}
	if *st.Start != (board.Point{X: 2, Y: 3}) {
		t.Errorf("Start %v, want (2,3)", *st.Start)
	}
	if eff.Result != nil {
		t.Error("first tap should not evaluate")
	}
	if len(eff.Selected) != 1 {
		t.Errorf("Selected %v, want the tapped cell", eff.Selected)
	}
	if eff.Message != "" {
		t.Errorf("Message %q, want unchanged", eff.Message)
	}
}

func TestTransition_MatchBothOrders(t *testing.T) {
	words := []string{"CAT", "DOG"}
	orders := [][]board.Point{
		{{X: 0, Y: 0}, {X: 2, Y: 0}},
		{{X: 2, Y: 0}, {X: 0, Y: 0}},
	}
	for _, taps := range orders {
		st, eff := tapAll(State{}, words, taps...)
		if !st.Idle() {
			t.Error("state should return to idle")
		}
		if eff.Result == nil || eff.Result.Kind != selection.Matched || eff.Result.Word != "CAT" {
			t.Fatalf("Result %+v, want Matched(CAT)", eff.Result)
		}
		if len(st.Found) != 1 || !st.HasFound("CAT") {
			t.Errorf("Found %v, want {CAT}", st.Found)
		}
		if eff.Message != "Found: CAT (1/2)" {
			t.Errorf("Message %q", eff.Message)
		}
		if len(eff.Selected) != 3 {
			t.Errorf("Selected %v, want 3 cells", eff.Selected)
		}
	}
}

func TestTransition_InvalidLine(t *testing.T) {
	st, eff := tapAll(State{Found: map[string]struct{}{}}, []string{"CAT"}, board.Point{X: 0, Y: 0}, board.Point{X: 1, Y: 2})
	if !st.Idle() {
		t.Error("state should return to idle")
	}
	if eff.Result.Kind != selection.InvalidLine {
		t.Errorf("Kind %v, want InvalidLine", eff.Result.Kind)
	}
	if eff.Message != MessageInvalidLine {
		t.Errorf("Message %q", eff.Message)
	}
	if len(st.Found) != 0 {
		t.Errorf("Found %v, want empty", st.Found)
	}
	if eff.Selected != nil {
		t.Errorf("Selected %v, want none", eff.Selected)
	}
}

func TestTransition_NotAWord(t *testing.T) {
	st, eff := tapAll(State{}, []string{"CAT"}, board.Point{X: 0, Y: 0}, board.Point{X: 3, Y: 0})
	if !st.Idle() {
		t.Error("state should return to idle")
	}
	if eff.Result.Kind != selection.NotAWord {
		t.Errorf("Kind %v, want NotAWord", eff.Result.Kind)
	}
	if eff.Message != MessageNotAWord {
		t.Errorf("Message %q", eff.Message)
	}
	if len(eff.Selected) != 4 {
		t.Errorf("Selected %v, want 4 cells", eff.Selected)
	}
}

func TestTransition_RefindDedupes(t *testing.T) {
	words := []string{"CAT", "DOG"}
	st, _ := tapAll(State{}, words, board.Point{X: 0, Y: 0}, board.Point{X: 2, Y: 0})
	st, eff := tapAll(st, words, board.Point{X: 0, Y: 0}, board.Point{X: 2, Y: 0})
	if eff.Result.Kind != selection.Matched {
		t.Fatalf("Kind %v, want Matched", eff.Result.Kind)
	}
	if len(st.Found) != 1 {
		t.Errorf("Found %v, want one word", st.Found)
	}
	if eff.Message != "Found: CAT (1/2)" {
		t.Errorf("Message %q", eff.Message)
	}
}

func TestTransition_Complete(t *testing.T) {
	words := []string{"CAT", "DOG"}
	st, _ := tapAll(State{}, words, board.Point{X: 0, Y: 0}, board.Point{X: 2, Y: 0})
	st, eff := tapAll(st, words, board.Point{X: 0, Y: 7}, board.Point{X: 2, Y: 7})
	if eff.Result.Word != "DOG" {
		t.Fatalf("Word %q, want DOG (read reversed)", eff.Result.Word)
	}
	if !eff.Complete {
		t.Error("Complete should be set once every word is found")
	}
	if eff.Message != "Found: DOG (2/2) All words found!" {
		t.Errorf("Message %q", eff.Message)
	}
	if len(st.Found) != 2 {
		t.Errorf("Found %v", st.Found)
	}
}

func TestTransition_DoesNotMutateInput(t *testing.T) {
	before := State{Found: map[string]struct{}{}}
	tapAll(before, []string{"CAT"}, board.Point{X: 0, Y: 0}, board.Point{X: 2, Y: 0})
	if len(before.Found) != 0 {
		t.Error("input state's found set was modified")
	}
}
