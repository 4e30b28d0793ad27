package handlers

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"

	"github.com/astralign/memory-server/internal/middleware"
	"github.com/astralign/memory-server/internal/repository"
)

// ProfileDTO is the zodiac profile attached to a player; the engine
// treats the name as an opaque label for save and stat partitioning.
type ProfileDTO struct {
	Name            string  `json:"name"`
	ZodiacSignName  *string `json:"zodiacSignName"`
	ZodiacImagePath *string `json:"zodiacImagePath"`
}

func (a Auth) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.PlayerClaims(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	player, err := a.repo.FetchPlayer(r.Context(), claims.Username)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		a.logger.Error("unable to fetch player", "error", err)
		return
	}

	sendJSONOrLog(w, a.logger, &ProfileDTO{
		Name:            player.Username,
		ZodiacSignName:  player.ZodiacSign,
		ZodiacImagePath: player.ZodiacImagePath,
	})
}

func (a Auth) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.PlayerClaims(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	params := repository.UpdatePlayerProfileParams{}
	if sign := r.FormValue("zodiac_sign"); sign != "" {
		params.ZodiacSign = &sign
	}
	if path := r.FormValue("zodiac_image_path"); path != "" {
		params.ZodiacImagePath = &path
	}

	player, err := a.repo.UpdatePlayerProfile(r.Context(), claims.PlayerID, params)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		a.logger.Error("unable to update player profile", "error", err)
		return
	}

	sendJSONOrLog(w, a.logger, &ProfileDTO{
		Name:            player.Username,
		ZodiacSignName:  player.ZodiacSign,
		ZodiacImagePath: player.ZodiacImagePath,
	})
}
