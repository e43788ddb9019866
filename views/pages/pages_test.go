package pages

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"wordsearch/internal/viewmodel"
)

func TestGamePage(t *testing.T) {
	var buf bytes.Buffer
	data := viewmodel.GamePage{
		Title:    "Daily Word Search",
		Meta:     "Daily Word Search • GENERAL • 2026-10-14",
		GameID:   "g1",
		ShareURL: "https://puzzles.example.com/game/g1",
		Board:    viewmodel.BoardFragment{GameID: "g1", Size: 8},
		Status:   viewmodel.StatusFragment{Message: "Tap a start letter"},
	}
	if err := GamePage(data).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := buf.String()
	for _, want := range []string{
		`<p id="meta" class="meta">Daily Word Search • GENERAL • 2026-10-14</p>`,
		`data-stream="/game/g1/stream"`,
		`action="/game/g1/reload"`,
		`id="board"`,
		`id="message"`,
		`id="words"`,
		`href="https://puzzles.example.com/game/g1"`,
		`<script src="/static/app.js" defer></script>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("game page missing %q:\n%s", want, html)
		}
	}
}

func TestGamePage_NoShareLink(t *testing.T) {
	var buf bytes.Buffer
	if err := GamePage(viewmodel.GamePage{Title: "T", GameID: "g1"}).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(buf.String(), `class="share"`) {
		t.Error("share link rendered without a share URL")
	}
}

func TestHomePage(t *testing.T) {
	var buf bytes.Buffer
	if err := HomePage(viewmodel.HomePage{Title: "Daily <Word> Search", Date: "2026-10-14"}).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, `action="/games"`) {
		t.Error("home page should post to /games")
	}
	if strings.Contains(html, "<Word>") {
		t.Error("title not escaped")
	}
}
