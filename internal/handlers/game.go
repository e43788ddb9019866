package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"wordsearch/internal/game"
	"wordsearch/internal/viewmodel"
	"wordsearch/views/components"
	"wordsearch/views/pages"
)

const keepAliveInterval = 25 * time.Second

type GameHandler struct {
	store   *game.Store
	baseURL string
}

func NewGameHandler(store *game.Store, baseURL string) *GameHandler {
	return &GameHandler{store: store, baseURL: strings.TrimRight(baseURL, "/")}
}

func (h *GameHandler) RegisterRoutes(r chi.Router) {
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", h.gamePage)
		r.Post("/tap", h.tap)
		r.Post("/reload", h.reload)
		r.Get("/board", h.boardFragment)
		r.Get("/words", h.wordsFragment)
		r.Get("/status", h.statusFragment)
		r.Get("/state", h.state)
		r.Get("/stream", h.stream)
	})
}

func (h *GameHandler) gamePage(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	instance, ok := h.store.GetGame(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.store.EnsureRolloverLoop(gameID)
	snapshot := instance.Snapshot()
	render(w, r, pages.GamePage(viewmodel.GamePage{
		Title:    snapshot.Title,
		Meta:     snapshot.Meta,
		GameID:   gameID,
		ShareURL: h.shareURL(r, gameID),
		Board:    toBoardFragment(snapshot),
		Words:    toWordsFragment(snapshot),
		Status:   toStatusFragment(snapshot),
	}))
}

func (h *GameHandler) tap(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	instance, ok := h.store.GetGame(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	x, y, err := parseCell(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	eff, err := h.store.Tap(gameID, x, y)
	if errors.Is(err, game.ErrOutOfBounds) {
		http.Error(w, "cell out of bounds", http.StatusBadRequest)
		return
	}
	if err != nil {
		// The game was removed between lookup and tap.
		http.NotFound(w, r)
		return
	}
	if eff.Result != nil {
		slog.Debug("selection evaluated", "game", gameID, "outcome", eff.Result.Kind.String(), "word", eff.Result.Word)
	}
	if isHTMX(r) {
		render(w, r, components.BoardFragment(toBoardFragment(instance.Snapshot())))
		return
	}
	http.Redirect(w, r, "/game/"+gameID, http.StatusSeeOther)
}

func (h *GameHandler) reload(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	if err := h.store.Reload(r.Context(), gameID, time.Now()); err != nil {
		if _, ok := h.store.GetGame(gameID); !ok {
			http.NotFound(w, r)
			return
		}
		slog.Error("reload failed", "game", gameID, "error", err)
		http.Error(w, "failed to reload puzzle", http.StatusInternalServerError)
		return
	}
	if isHTMX(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/game/"+gameID, http.StatusSeeOther)
}

func (h *GameHandler) boardFragment(w http.ResponseWriter, r *http.Request) {
	instance, ok := h.store.GetGame(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	render(w, r, components.BoardFragment(toBoardFragment(instance.Snapshot())))
}

func (h *GameHandler) wordsFragment(w http.ResponseWriter, r *http.Request) {
	instance, ok := h.store.GetGame(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	render(w, r, components.WordsFragment(toWordsFragment(instance.Snapshot())))
}

func (h *GameHandler) statusFragment(w http.ResponseWriter, r *http.Request) {
	instance, ok := h.store.GetGame(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	render(w, r, components.StatusFragment(toStatusFragment(instance.Snapshot())))
}

func (h *GameHandler) state(w http.ResponseWriter, r *http.Request) {
	instance, ok := h.store.GetGame(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "game not found"})
		return
	}
	writeJSON(w, http.StatusOK, instance.Snapshot())
}

func (h *GameHandler) stream(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	instance, ok := h.store.GetGame(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	hub, ok := h.store.Broadcaster(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)
	defer h.store.Metrics().StreamOpened()()

	send := func(events ...game.Event) {
		snapshot := instance.Snapshot()
		for _, event := range events {
			switch event {
			case game.EventBoard:
				writeSSE(w, string(event), renderToString(r, components.BoardFragment(toBoardFragment(snapshot))))
			case game.EventWords:
				writeSSE(w, string(event), renderToString(r, components.WordsFragment(toWordsFragment(snapshot))))
			case game.EventStatus:
				writeSSE(w, string(event), renderToString(r, components.StatusFragment(toStatusFragment(snapshot))))
				writeSSE(w, "meta", snapshot.Meta)
			}
		}
		flusher.Flush()
	}

	send(game.AllEvents...)

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-sub:
			if !open {
				return
			}
			send(event)
		case <-keepAlive.C:
			_, _ = w.Write([]byte(": keepalive\n\n"))
			flusher.Flush()
		}
	}
}

func (h *GameHandler) shareURL(r *http.Request, gameID string) string {
	if h.baseURL != "" {
		return h.baseURL + "/game/" + gameID
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/game/" + gameID
}

// parseCell reads the tapped cell from either a "cell" value of the form
// "x,y" or separate "x" and "y" fields.
func parseCell(r *http.Request) (int, int, error) {
	xs, ys := r.FormValue("x"), r.FormValue("y")
	if cell := r.FormValue("cell"); cell != "" {
		var found bool
		xs, ys, found = strings.Cut(cell, ",")
		if !found {
			return 0, 0, errors.New("cell must be x,y")
		}
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return 0, 0, errors.New("invalid x")
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return 0, 0, errors.New("invalid y")
	}
	return x, y, nil
}

func toBoardFragment(snapshot game.Snapshot) viewmodel.BoardFragment {
	rows := make([][]viewmodel.Cell, len(snapshot.Cells))
	for y, row := range snapshot.Cells {
		rows[y] = make([]viewmodel.Cell, len(row))
		for x, c := range row {
			selected := c.Selected
			if snapshot.Pending != nil && snapshot.Pending.X == c.X && snapshot.Pending.Y == c.Y {
				selected = true
			}
			rows[y][x] = viewmodel.Cell{
				X:        c.X,
				Y:        c.Y,
				Letter:   c.Letter,
				Selected: selected,
				Found:    c.Found,
			}
		}
	}
	return viewmodel.BoardFragment{
		GameID: snapshot.ID,
		Size:   snapshot.Size,
		Rows:   rows,
	}
}

func toWordsFragment(snapshot game.Snapshot) viewmodel.WordsFragment {
	words := make([]viewmodel.WordEntry, 0, len(snapshot.Words))
	for _, w := range snapshot.Words {
		words = append(words, viewmodel.WordEntry{Word: w.Word, Found: w.Found})
	}
	return viewmodel.WordsFragment{
		Words: words,
		Found: snapshot.Found,
		Total: snapshot.Total,
	}
}

func toStatusFragment(snapshot game.Snapshot) viewmodel.StatusFragment {
	return viewmodel.StatusFragment{
		Message:  snapshot.Message,
		Complete: snapshot.Complete,
	}
}
