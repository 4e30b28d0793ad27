package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/astralign/memory-server/internal/memory"
	"github.com/astralign/memory-server/internal/repository"
)

// wsGame serializes command and tick access to one live match. The
// engine is single-threaded by contract; this lock is the embedding
// layer's event loop.
type wsGame struct {
	mu      sync.Mutex
	h       GameHandler
	conn    *websocket.Conn
	session *repository.GameSession
	m       *memory.Match
}

// wsScheduler drives the engine's mismatch delay for one connection:
// callbacks defer to a timer and then run on the connection's event
// loop, pushing and persisting the resolved board.
type wsScheduler struct {
	ws *wsGame
}

func (s wsScheduler) After(d time.Duration, fn func()) func() {
	return memory.TimerScheduler{}.After(d, func() {
		s.ws.mu.Lock()
		defer s.ws.mu.Unlock()
		// the game may have ended while the timer was pending; a
		// finished board is not touched
		if s.ws.m.Game.Completed || !s.ws.m.Resolving() {
			return
		}
		fn()
		if err := s.ws.push(""); err != nil {
			return
		}
		if err := s.ws.persist(context.Background()); err != nil {
			s.ws.h.logger.Error("unable to persist resolved board", "error", err)
		}
	})
}

// ConnectWS upgrades to a live game connection: the client sends
// "flip N", "forfeit" or "state" commands, the server answers every
// command and every 1-second tick with the session DTO, and the time
// limit is enforced server-side. Mismatched pairs flip back after the
// display delay without a further command.
func (h GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	session, m := h.fetchMatch(w, r)
	if session == nil {
		return
	}

	conn, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("unable to upgrade", "error", err)
		return
	}
	defer conn.Close()

	ws := &wsGame{h: h, conn: conn, session: session, m: m}
	m.WithScheduling(memory.SystemClock{}, wsScheduler{ws: ws}, memory.DefaultMismatchDelay)

	defer func() {
		ws.mu.Lock()
		ws.m.Cancel()
		ws.mu.Unlock()
	}()

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error { return ws.readCommands(ctx) })
	g.Go(func() error { return ws.tick(ctx) })

	if err := g.Wait(); err != nil &&
		!websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		h.logger.Warn("abnormal ws break", "error", err)
	}
}

// push writes the current session DTO; callers hold mu.
func (ws *wsGame) push(outcome string) error {
	dto := NewGameSessionDTO(ws.session, ws.m)
	dto.Outcome = outcome
	return ws.conn.WriteJSON(dto)
}

// persist saves controller state; callers hold mu.
func (ws *wsGame) persist(ctx context.Context) error {
	updated, err := ws.h.persistMatch(ctx, ws.session, ws.m)
	if err != nil {
		return err
	}
	ws.session = updated
	return nil
}

func (ws *wsGame) readCommands(ctx context.Context) error {
	for {
		mt, message, err := ws.conn.ReadMessage()
		if err != nil {
			return err
		}
		if mt != websocket.TextMessage {
			return fmt.Errorf("unexpected message type %d", mt)
		}

		command := strings.TrimSpace(string(message))
		if err := ws.handleCommand(ctx, command); err != nil {
			return err
		}
	}
}

func (ws *wsGame) handleCommand(ctx context.Context, command string) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	wasCompleted := ws.m.Game.Completed
	ws.m.Tick()

	switch verb, arg, _ := strings.Cut(command, " "); verb {
	case "state":
		return ws.push("")

	case "forfeit":
		ws.m.Forfeit()
		if err := ws.persist(ctx); err != nil {
			return err
		}
		return ws.push("")

	case "flip":
		card, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("flip takes a card index")
		}
		res := ws.m.Click(card)

		outcome := res.Outcome.String()
		if ws.m.Game.Completed && !wasCompleted && !ws.m.Game.Won {
			outcome = "lost"
		}
		if err := ws.push(outcome); err != nil {
			return err
		}
		// a mismatched pair stays face up; the scheduler flips it
		// back after the display delay and pushes the result
		return ws.persist(ctx)

	default:
		return fmt.Errorf("unknown command %q", verb)
	}
}

func (ws *wsGame) tick(ctx context.Context) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		ws.mu.Lock()
		if ws.m.Game.Completed {
			ws.mu.Unlock()
			return nil
		}

		ws.m.Tick()

		outcome := ""
		if ws.m.Game.Completed {
			outcome = "lost"
		}
		err := ws.push(outcome)
		if err == nil && ws.m.Game.Completed {
			err = ws.persist(ctx)
		}
		completed := ws.m.Game.Completed
		ws.mu.Unlock()

		if err != nil {
			return err
		}
		if completed {
			// unblock the read loop; the game is over
			return ws.conn.Close()
		}
	}
}
