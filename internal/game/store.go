package game

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"wordsearch/internal/metrics"
	"wordsearch/internal/puzzle"
	"wordsearch/internal/source"
	"wordsearch/pkg/realtime"
)

// Event names a fragment that subscribers should refresh.
type Event string

const (
	EventBoard  Event = "board"
	EventWords  Event = "words"
	EventStatus Event = "status"
)

// AllEvents refreshes every fragment.
var AllEvents = []Event{EventBoard, EventWords, EventStatus}

// PuzzleLoader resolves the puzzle for the day containing now.
type PuzzleLoader interface {
	Today(ctx context.Context, now time.Time) (*puzzle.Puzzle, source.Origin)
}

// Store holds game sessions and delegates to realtime.RoomStore for fan-out.
type Store struct {
	r        *realtime.RoomStore[*Game, Event]
	loader   PuzzleLoader
	builder  Builder
	location *time.Location
	metrics  *metrics.Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithBuilder sets the board builder.
func WithBuilder(b Builder) StoreOption {
	return func(s *Store) { s.builder = b }
}

// WithLocation sets the zone that decides when a day's puzzle rolls over.
func WithLocation(loc *time.Location) StoreOption {
	return func(s *Store) { s.location = loc }
}

// WithMetrics records loads and selections on m.
func WithMetrics(m *metrics.Recorder) StoreOption {
	return func(s *Store) { s.metrics = m }
}

// WithLogger sets the store's logger.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// NewStore creates an in-memory session store that loads puzzles from loader.
func NewStore(loader PuzzleLoader, opts ...StoreOption) *Store {
	s := &Store{
		r:        realtime.NewRoomStore[*Game, Event](),
		loader:   loader,
		location: time.Local,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.builder.Logger == nil {
		s.builder.Logger = s.logger
	}
	if s.builder.Metrics == nil {
		s.builder.Metrics = s.metrics
	}
	return s
}

// Metrics returns the recorder the store reports to, possibly nil.
func (s *Store) Metrics() *metrics.Recorder {
	return s.metrics
}

// CreateGame starts a session on today's puzzle.
func (s *Store) CreateGame(ctx context.Context, now time.Time) (*Game, error) {
	p := s.load(ctx, now)
	return s.CreateGameFrom(p, now)
}

// CreateGameFrom starts a session on p.
func (s *Store) CreateGameFrom(p *puzzle.Puzzle, now time.Time) (*Game, error) {
	b, err := s.builder.Build(p)
	if err != nil {
		return nil, err
	}
	g := NewGame(p, b, now, s.location)
	s.r.Create(g.ID, g)
	s.logger.Info("game created", "game", g.ID, "date", p.Date, "words", p.WordCount())
	return g, nil
}

// GetGame returns a session by ID if it exists and marks it active.
func (s *Store) GetGame(id string) (*Game, bool) {
	room, ok := s.r.Get(id)
	if !ok {
		return nil, false
	}
	room.State.Touch(s.now())
	return room.State, true
}

// Reload replaces a session's puzzle with today's and notifies subscribers.
func (s *Store) Reload(ctx context.Context, id string, now time.Time) error {
	g, ok := s.GetGame(id)
	if !ok {
		return fmt.Errorf("game not found: %s", id)
	}
	p := s.load(ctx, now)
	b, err := s.builder.Build(p)
	if err != nil {
		return err
	}
	g.Reload(p, b, now)
	s.r.Wake(id)
	s.Publish(id, AllEvents...)
	return nil
}

// Tap applies a tap to a session, records the outcome and notifies
// subscribers.
func (s *Store) Tap(id string, x, y int) (Effect, error) {
	g, ok := s.GetGame(id)
	if !ok {
		return Effect{}, fmt.Errorf("game not found: %s", id)
	}
	eff, err := g.Tap(x, y)
	if err != nil {
		return Effect{}, err
	}
	events := []Event{EventBoard}
	if eff.Result != nil {
		s.metrics.SelectionEvaluated(eff.Result.Kind.String())
		events = append(events, EventStatus)
		if eff.Result.Word != "" {
			events = append(events, EventWords)
			s.logger.Debug("word found", "game", id, "word", eff.Result.Word)
		}
	}
	s.Publish(id, events...)
	return eff, nil
}

// Broadcaster returns the fan-out hub of a session.
func (s *Store) Broadcaster(id string) (*realtime.Broadcaster[Event], bool) {
	return s.r.Broadcaster(id)
}

// Publish notifies subscribers of a session.
func (s *Store) Publish(id string, events ...Event) {
	s.r.Publish(id, events...)
}

// EnsureRolloverLoop starts the loop that swaps in the next day's puzzle at
// midnight. It is a no-op when a loop already runs.
func (s *Store) EnsureRolloverLoop(id string) {
	s.r.RunLoop(id, func(g *Game, now time.Time) (time.Time, []Event, bool) {
		if g == nil {
			return time.Time{}, nil, true
		}
		if !g.RolloverDue(now) {
			return g.NextRollover(), nil, false
		}
		p := s.load(context.Background(), now)
		b, err := s.builder.Build(p)
		if err != nil {
			s.logger.Error("rollover failed", "game", id, "error", err)
			return time.Time{}, nil, true
		}
		g.Reload(p, b, now)
		s.logger.Info("game rolled over", "game", id, "date", p.Date)
		return g.NextRollover(), AllEvents, false
	})
}

// Remove deletes a session and stops its loop.
func (s *Store) Remove(id string) {
	s.r.Delete(id)
}

// EvictIdle removes sessions with no open streams whose last activity is
// older than maxIdle, and returns how many it removed.
func (s *Store) EvictIdle(now time.Time, maxIdle time.Duration) int {
	evicted := 0
	for _, id := range s.r.IDs() {
		room, ok := s.r.Get(id)
		if !ok || now.Sub(room.State.LastActive()) <= maxIdle {
			continue
		}
		if hub, ok := s.r.Broadcaster(id); ok && hub.Len() > 0 {
			continue
		}
		s.r.Delete(id)
		evicted++
	}
	return evicted
}

// RunEviction calls EvictIdle every interval until ctx is done.
func (s *Store) RunEviction(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.EvictIdle(s.now(), maxIdle); n > 0 {
				s.logger.Info("evicted idle games", "count", n, "remaining", s.r.Len())
			}
		}
	}
}

func (s *Store) load(ctx context.Context, now time.Time) *puzzle.Puzzle {
	if s.loader == nil {
		s.metrics.PuzzleLoaded(string(source.OriginFallback))
		return puzzle.Default()
	}
	p, origin := s.loader.Today(ctx, now)
	s.metrics.PuzzleLoaded(string(origin))
	return p
}
