package handlers

import (
	"net/http"

	"github.com/astralign/memory-server/internal/middleware"
	"github.com/astralign/memory-server/internal/repository"
)

// Stats reports the logged-in player's cumulative statistics file.
func (h GameHandler) Stats(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.PlayerClaims(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		sendJSONOrLog(w, h.logger, wrapError(errLoginRequired))
		return
	}

	stats, err := h.saves.LoadStatistics(claims.Username)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to load statistics", "error", err)
		return
	}

	sendJSONOrLog(w, h.logger, stats)
}

func (h GameHandler) Highscores(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseHighscoresDTO(r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	}

	highscores, err := h.repo.GetHighscores(r.Context(), repository.HighscoreFilter{
		Username: dto.Username,
		Category: dto.Category,
		Rows:     dto.Rows,
		Columns:  dto.Columns,
	})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to fetch highscores", "error", err)
		return
	}

	sendJSONOrLog(w, h.logger, highscores)
}
