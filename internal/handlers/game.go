package handlers

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/astralign/memory-server/internal/config"
	"github.com/astralign/memory-server/internal/memory"
	"github.com/astralign/memory-server/internal/middleware"
	"github.com/astralign/memory-server/internal/repository"
	"github.com/astralign/memory-server/internal/savefile"
)

const anonymousPlayer = "anonymous"

type GameHandler struct {
	logger *slog.Logger
	repo   *repository.Queries
	saves  *savefile.Store
	ws     *config.WebSocket
	rnd    *rand.Rand
}

func NewGameHandler(
	logger *slog.Logger,
	db *pgxpool.Pool,
	saves *savefile.Store,
	ws *config.WebSocket,
	rnd *rand.Rand,
) *GameHandler {
	return &GameHandler{
		logger: logger,
		repo:   repository.New(db),
		saves:  saves,
		ws:     ws,
		rnd:    rnd,
	}
}

// Categories lists the board categories the setup surface offers.
func (h GameHandler) Categories(w http.ResponseWriter, r *http.Request) {
	sendJSONOrLog(w, h.logger, memory.Categories())
}

func (h GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseCreateNewGameDTO(r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	}

	player := anonymousPlayer
	var playerID *int64
	if claims, ok := middleware.PlayerClaims(r.Context()); ok {
		player = claims.Username
		playerID = &claims.PlayerID
	}

	game, err := memory.NewGame(
		player, dto.Category, dto.Rows, dto.Columns, dto.timeLimit(), h.rnd,
	)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	}

	h.createSession(w, r, playerID, memory.NewMatch(game))
}

func (h GameHandler) createSession(
	w http.ResponseWriter, r *http.Request, playerID *int64, m *memory.Match,
) {
	state, err := m.Bytes()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to encode game state", "error", err)
		return
	}

	session, err := h.repo.CreateGameSession(r.Context(), repository.CreateGameSessionParams{
		PlayerID:    playerID,
		Category:    m.Game.Category,
		Rows:        m.Game.Rows,
		Columns:     m.Game.Columns,
		TimeLimitMs: m.Game.TimeLimit.Milliseconds(),
		State:       state,
	})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to create game session", "error", err)
		return
	}

	sendJSONOrLog(w, h.logger, NewGameSessionDTO(session, m))
}

// fetchMatch loads a session row and decodes its turn controller.
// A nil session means the response was already written.
func (h GameHandler) fetchMatch(
	w http.ResponseWriter, r *http.Request,
) (*repository.GameSession, *memory.Match) {
	sessionID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return nil, nil
	}

	session, err := h.repo.FetchGameSession(r.Context(), sessionID)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusNotFound)
		return nil, nil
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to fetch session from db", "error", err)
		return nil, nil
	}

	m, err := memory.DecodeMatch(session.State)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("db returned invalid game_session.state", "error", err)
		return nil, nil
	}
	return session, m
}

// persistMatch writes the controller state back and, when the game just
// completed, stamps the end time and records the player's result. The
// session row is the source of truth for whether completion was already
// recorded, so concurrent writers cannot record a result twice.
func (h GameHandler) persistMatch(
	ctx context.Context,
	session *repository.GameSession,
	m *memory.Match,
) (*repository.GameSession, error) {
	state, err := m.Bytes()
	if err != nil {
		return nil, err
	}

	snap := m.Snapshot()
	params := repository.UpdateGameSessionParams{
		Moves:        &snap.Moves,
		MatchesFound: &snap.MatchesFound,
		Completed:    &snap.Completed,
		Won:          &snap.Won,
		State:        &state,
	}

	justCompleted := snap.Completed && !session.Completed
	if justCompleted {
		endedAt := time.Now().UTC()
		params.EndedAt = &endedAt
	}

	updated, err := h.repo.UpdateGameSession(ctx, session.GameSessionID, params)
	if err != nil {
		return nil, err
	}

	if justCompleted && m.Game.Player != anonymousPlayer {
		_, err := h.saves.UpdateStatistics(m.Game.Player, savefile.GameResult{
			Date:     time.Now(),
			Category: m.Game.Category,
			Rows:     m.Game.Rows,
			Columns:  m.Game.Columns,
			Moves:    snap.Moves,
			Duration: m.Game.Elapsed,
			IsWon:    snap.Won,
		})
		if err != nil {
			h.logger.Error(
				"unable to update player statistics",
				"player", m.Game.Player, "error", err,
			)
		}
	}
	return updated, nil
}

func (h GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	session, m := h.fetchMatch(w, r)
	if session == nil {
		return
	}

	wasCompleted := m.Game.Completed
	m.Tick()

	if m.Game.Completed != wasCompleted {
		updated, err := h.persistMatch(r.Context(), session, m)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			h.logger.Error("unable to update session in db", "error", err)
			return
		}
		session = updated
	}

	sendJSONOrLog(w, h.logger, NewGameSessionDTO(session, m))
}

func (h GameHandler) Flip(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseFlipCardDTO(r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	}

	session, m := h.fetchMatch(w, r)
	if session == nil {
		return
	}

	wasCompleted := m.Game.Completed
	m.Tick()
	res := m.Click(dto.Card)

	// The response snapshots a mismatched pair face up; the display
	// delay belongs to the client, so the server resolves at once.
	response := NewGameSessionDTO(session, m)
	response.Outcome = res.Outcome.String()
	if m.Game.Completed && !wasCompleted && !m.Game.Won {
		response.Outcome = "lost"
	}

	m.ResolveMismatch()

	updated, err := h.persistMatch(r.Context(), session, m)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to update session in db", "error", err)
		return
	}
	if endedAt := updated.EndedAt; endedAt != nil {
		e := endedAt.UnixMilli()
		response.EndedAt = &e
	}

	sendJSONOrLog(w, h.logger, response)
}

func (h GameHandler) Forfeit(w http.ResponseWriter, r *http.Request) {
	session, m := h.fetchMatch(w, r)
	if session == nil {
		return
	}

	m.Forfeit()

	updated, err := h.persistMatch(r.Context(), session, m)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to update session in db", "error", err)
		return
	}

	sendJSONOrLog(w, h.logger, NewGameSessionDTO(updated, m))
}
