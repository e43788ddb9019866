package game

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"wordsearch/internal/board"
	"wordsearch/internal/metrics"
	"wordsearch/internal/puzzle"
	"wordsearch/pkg/realtime"
)

// ErrOutOfBounds is returned for taps outside the grid.
var ErrOutOfBounds = errors.New("game: cell out of bounds")

// Builder generates the grid for a puzzle.
type Builder struct {
	Options board.Options
	// Regenerate is how many extra boards a strict builder tries before
	// keeping one with unplaced words.
	Regenerate int
	Logger     *slog.Logger
	Metrics    *metrics.Recorder
}

// Build generates a board for p. Unplaced words are logged and counted but
// stay in the puzzle's word list.
func (b Builder) Build(p *puzzle.Puzzle) (*board.Board, error) {
	logger := b.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attempts := 1
	if b.Options.Strict {
		attempts += b.Regenerate
	}
	var (
		out *board.Board
		err error
	)
	for i := 0; i < attempts; i++ {
		out, err = board.Generate(p.Size, p.Words(), b.Options)
		var unplaced *board.UnplacedError
		if err == nil {
			break
		}
		if !errors.As(err, &unplaced) {
			return nil, fmt.Errorf("generate board: %w", err)
		}
		logger.Debug("regenerating board", "date", p.Date, "attempt", i+1, "unplaced", unplaced.Words)
	}
	if len(out.Unplaced) > 0 {
		logger.Warn("words could not be placed", "date", p.Date, "words", out.Unplaced)
		b.Metrics.WordsUnplaced(len(out.Unplaced))
	}
	return out, nil
}

// Game is one puzzle session: the puzzle, its grid and the player's progress.
type Game struct {
	mu         sync.Mutex
	ID         string
	CreatedAt  time.Time
	puzzle     *puzzle.Puzzle
	board      *board.Board
	daily      realtime.Daily
	state      State
	foundCells map[board.Point]struct{}
	selected   []board.Point
	message    string
	complete   bool
	lastActive time.Time
}

// NewGame starts a session on p with the board b.
func NewGame(p *puzzle.Puzzle, b *board.Board, now time.Time, loc *time.Location) *Game {
	g := &Game{
		ID:         uuid.NewString(),
		CreatedAt:  now.UTC(),
		daily:      realtime.NewDaily(now, loc),
		lastActive: now,
	}
	g.resetLocked(p, b)
	return g
}

// Reload replaces the puzzle and grid wholesale and clears all progress.
func (g *Game) Reload(p *puzzle.Puzzle, b *board.Board, now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resetLocked(p, b)
	g.daily.Advance(now)
}

func (g *Game) resetLocked(p *puzzle.Puzzle, b *board.Board) {
	g.puzzle = p
	g.board = b
	g.state = State{Found: map[string]struct{}{}}
	g.foundCells = make(map[board.Point]struct{})
	g.selected = nil
	g.message = MessageInstructions
	g.complete = false
}

// Tap feeds one cell tap through the selection state machine.
func (g *Game) Tap(x, y int) (Effect, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := board.Point{X: x, Y: y}
	if !g.board.Grid.Contains(p) {
		return Effect{}, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y)
	}
	next, eff := Transition(g.state, p, g.board.Grid, g.puzzle.Words())
	g.state = next
	g.selected = eff.Selected
	if eff.Message != "" {
		g.message = eff.Message
	}
	if eff.Result != nil && eff.Result.Word != "" {
		for _, c := range eff.Result.Path {
			g.foundCells[c] = struct{}{}
		}
	}
	if eff.Complete {
		g.complete = true
	}
	return eff, nil
}

// Touch records player activity at now.
func (g *Game) Touch(now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if now.After(g.lastActive) {
		g.lastActive = now
	}
}

// LastActive returns the time of the latest recorded activity.
func (g *Game) LastActive() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastActive
}

// Puzzle returns the current puzzle.
func (g *Game) Puzzle() *puzzle.Puzzle {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.puzzle
}

// Board returns the current board.
func (g *Game) Board() *board.Board {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board
}

// RolloverDue reports whether now is past the day the puzzle was loaded for.
func (g *Game) RolloverDue(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.daily.Due(now)
}

// NextRollover returns when the session should pick up the next day's puzzle.
func (g *Game) NextRollover() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.daily.NextWake()
}

// WordStatus pairs a puzzle word with whether it has been found.
type WordStatus struct {
	Word  string `json:"word"`
	Found bool   `json:"found"`
}

// Cell is one grid cell as shown to the player.
type Cell struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Letter   string `json:"letter"`
	Selected bool   `json:"selected"`
	Found    bool   `json:"found"`
}

// Snapshot is a consistent copy of the session for rendering.
type Snapshot struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Theme    string       `json:"theme"`
	Date     string       `json:"date"`
	Meta     string       `json:"meta"`
	Size     int          `json:"size"`
	Cells    [][]Cell     `json:"cells"`
	Words    []WordStatus `json:"words"`
	Found    int          `json:"found"`
	Total    int          `json:"total"`
	Pending  *board.Point `json:"pending,omitempty"`
	Message  string       `json:"message"`
	Complete bool         `json:"complete"`
}

// Snapshot returns the state needed to render the board, word list and status.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	selected := make(map[board.Point]struct{}, len(g.selected))
	for _, c := range g.selected {
		selected[c] = struct{}{}
	}
	grid := g.board.Grid
	cells := make([][]Cell, grid.Size())
	for y := range cells {
		cells[y] = make([]Cell, grid.Size())
		for x := range cells[y] {
			p := board.Point{X: x, Y: y}
			_, sel := selected[p]
			_, found := g.foundCells[p]
			cells[y][x] = Cell{
				X:        x,
				Y:        y,
				Letter:   string(grid.At(x, y)),
				Selected: sel,
				Found:    found,
			}
		}
	}

	words := g.puzzle.Words()
	statuses := make([]WordStatus, len(words))
	for i, w := range words {
		statuses[i] = WordStatus{Word: w, Found: g.state.HasFound(w)}
	}

	var pending *board.Point
	if g.state.Start != nil {
		p := *g.state.Start
		pending = &p
	}
	return Snapshot{
		ID:       g.ID,
		Title:    g.puzzle.Title,
		Theme:    g.puzzle.Theme,
		Date:     g.puzzle.Date,
		Meta:     g.puzzle.Meta(),
		Size:     grid.Size(),
		Cells:    cells,
		Words:    statuses,
		Found:    len(g.state.Found),
		Total:    len(words),
		Pending:  pending,
		Message:  g.message,
		Complete: g.complete,
	}
}
