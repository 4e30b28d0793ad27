package app

import (
	"hash/maphash"
	"math/rand/v2"

	"github.com/astralign/memory-server/internal/handlers"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (a *App) loadRoutes() {
	auth := handlers.NewAuth(a.logger, a.db, a.cookies, a.jwt)

	a.router.HandleFunc("GET /auth/status", auth.Status)
	a.router.HandleFunc("POST /auth/register", auth.Register)
	a.router.HandleFunc("POST /auth/login", auth.Login)
	a.router.HandleFunc("POST /auth/logout", auth.Logout)
	a.router.HandleFunc("GET /profile", auth.Profile)
	a.router.HandleFunc("PUT /profile", auth.UpdateProfile)

	game := handlers.NewGameHandler(a.logger, a.db, a.saves, a.ws, createRand())

	a.router.HandleFunc("GET /categories", game.Categories)
	a.router.HandleFunc("POST /game", game.NewGame)
	a.router.HandleFunc("GET /game/{id}", game.Fetch)
	a.router.HandleFunc("POST /game/{id}/flip", game.Flip)
	a.router.HandleFunc("POST /game/{id}/forfeit", game.Forfeit)
	a.router.HandleFunc("POST /game/{id}/save", game.Save)
	a.router.HandleFunc("/game/{id}/connect", game.ConnectWS)
	a.router.HandleFunc("POST /game/load", game.LoadSaved)
	a.router.HandleFunc("GET /saves", game.ListSaves)
	a.router.HandleFunc("DELETE /saves/{name}", game.DeleteSave)
	a.router.HandleFunc("GET /stats", game.Stats)
	a.router.HandleFunc("GET /highscores", game.Highscores)
}
