package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"wordsearch/internal/game"
	"wordsearch/internal/puzzle"
	"wordsearch/internal/viewmodel"
	"wordsearch/views/pages"
)

type HomeHandler struct {
	store *game.Store
	loc   *time.Location
}

func NewHomeHandler(store *game.Store, loc *time.Location) *HomeHandler {
	if loc == nil {
		loc = time.Local
	}
	return &HomeHandler{store: store, loc: loc}
}

func (h *HomeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.home)
	r.Post("/games", h.createGame)
}

func (h *HomeHandler) home(w http.ResponseWriter, r *http.Request) {
	render(w, r, pages.HomePage(viewmodel.HomePage{
		Title: puzzle.DefaultTitle,
		Date:  time.Now().In(h.loc).Format(puzzle.DateLayout),
	}))
}

func (h *HomeHandler) createGame(w http.ResponseWriter, r *http.Request) {
	g, err := h.store.CreateGame(r.Context(), time.Now())
	if err != nil {
		slog.Error("create game failed", "error", err)
		http.Error(w, "failed to create game", http.StatusInternalServerError)
		return
	}
	h.store.EnsureRolloverLoop(g.ID)
	if isHTMX(r) {
		w.Header().Set("Hx-Redirect", "/game/"+g.ID)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/game/"+g.ID, http.StatusSeeOther)
}
