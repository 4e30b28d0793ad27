package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/astralign/memory-server/internal/memory"
	"github.com/astralign/memory-server/internal/middleware"
	"github.com/astralign/memory-server/internal/savefile"
)

var errLoginRequired = fmt.Errorf("log in to use saved games")

// Save writes the session's game to the player's save files. The turn
// in flight is not part of the record, matching the engine's
// transient-turn contract.
func (h GameHandler) Save(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.PlayerClaims(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		sendJSONOrLog(w, h.logger, wrapError(errLoginRequired))
		return
	}

	session, m := h.fetchMatch(w, r)
	if session == nil {
		return
	}
	if m.Game.Player != claims.Username {
		w.WriteHeader(http.StatusForbidden)
		sendJSONOrLog(w, h.logger, wrapError(savefile.ErrWrongOwner))
		return
	}
	// the time limit may have lapsed since the last request; an
	// expired game is a finished one and must not be saved
	wasCompleted := m.Game.Completed
	m.Tick()
	if m.Game.Completed {
		if !wasCompleted {
			if _, err := h.persistMatch(r.Context(), session, m); err != nil {
				h.logger.Error("unable to update session in db", "error", err)
			}
		}
		w.WriteHeader(http.StatusConflict)
		sendJSONOrLog(w, h.logger, wrapError(savefile.ErrGameFinished))
		return
	}

	name, err := h.saves.SaveGame(m.Game)
	if errors.Is(err, savefile.ErrGameFinished) {
		w.WriteHeader(http.StatusConflict)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to write save file", "error", err)
		return
	}

	sendJSONOrLog(w, h.logger, map[string]string{"name": name})
}

// LoadSaved turns a save record back into a live session for its owner.
func (h GameHandler) LoadSaved(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.PlayerClaims(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		sendJSONOrLog(w, h.logger, wrapError(errLoginRequired))
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(fmt.Errorf("missing save name")))
		return
	}

	game, err := h.saves.LoadGame(name, claims.Username, h.rnd)
	switch {
	case errors.Is(err, savefile.ErrSaveNotFound):
		w.WriteHeader(http.StatusNotFound)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	case errors.Is(err, savefile.ErrWrongOwner):
		w.WriteHeader(http.StatusForbidden)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	case err != nil:
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to load save file", "name", name, "error", err)
		return
	}

	playerID := claims.PlayerID
	h.createSession(w, r, &playerID, memory.NewMatch(game))
}

func (h GameHandler) ListSaves(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.PlayerClaims(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		sendJSONOrLog(w, h.logger, wrapError(errLoginRequired))
		return
	}

	saves, err := h.saves.ListSaves(claims.Username)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to list save files", "error", err)
		return
	}

	sendJSONOrLog(w, h.logger, saves)
}

func (h GameHandler) DeleteSave(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.PlayerClaims(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		sendJSONOrLog(w, h.logger, wrapError(errLoginRequired))
		return
	}

	name := r.PathValue("name")

	// listing is scoped to the owner, so deletion must be too
	saves, err := h.saves.ListSaves(claims.Username)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to list save files", "error", err)
		return
	}
	owned := false
	for _, info := range saves {
		if info.Name == name {
			owned = true
			break
		}
	}
	if !owned {
		w.WriteHeader(http.StatusNotFound)
		sendJSONOrLog(w, h.logger, wrapError(savefile.ErrSaveNotFound))
		return
	}

	if err := h.saves.DeleteSave(name); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to delete save file", "name", name, "error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
