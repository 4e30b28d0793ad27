package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// GameSession is one server-side game. State holds the gob-encoded
// turn controller; the flat columns are denormalized for listing and
// leaderboard queries.
type GameSession struct {
	GameSessionID int64
	PlayerID      *int64
	Category      string
	Rows          int
	Columns       int
	TimeLimitMs   int64
	Moves         int
	MatchesFound  int
	Completed     bool
	Won           bool
	StartedAt     pgtype.Timestamptz
	EndedAt       *time.Time
	State         []byte
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
}

type CreateGameSessionParams struct {
	PlayerID    *int64
	Category    string
	Rows        int
	Columns     int
	TimeLimitMs int64
	State       []byte
}

func (q *Queries) CreateGameSession(
	ctx context.Context, params CreateGameSessionParams,
) (*GameSession, error) {
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO game_session (
			player_id, category, rows, columns, time_limit_ms, state
		)
		VALUES (
			@player_id, @category, @rows, @columns, @time_limit_ms, @state
		)
		RETURNING *`,
		pgx.NamedArgs{
			"player_id":     params.PlayerID,
			"category":      params.Category,
			"rows":          params.Rows,
			"columns":       params.Columns,
			"time_limit_ms": params.TimeLimitMs,
			"state":         params.State,
		},
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameSession])
}

func (q *Queries) FetchGameSession(
	ctx context.Context, gameSessionID int64,
) (*GameSession, error) {
	rows, _ := q.db.Query(
		ctx,
		"SELECT * FROM game_session WHERE game_session_id = $1",
		gameSessionID,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameSession])
}

type UpdateGameSessionParams struct {
	Moves        *int
	MatchesFound *int
	Completed    *bool
	Won          *bool
	EndedAt      *time.Time
	State        *[]byte
}

func (p UpdateGameSessionParams) SetClause() (string, map[string]any) {
	parts := make([]string, 0)
	args := make(map[string]any)

	if p.Moves != nil {
		parts = append(parts, "moves = @moves")
		args["moves"] = *p.Moves
	}
	if p.MatchesFound != nil {
		parts = append(parts, "matches_found = @matches_found")
		args["matches_found"] = *p.MatchesFound
	}
	if p.Completed != nil {
		parts = append(parts, "completed = @completed")
		args["completed"] = *p.Completed
	}
	if p.Won != nil {
		parts = append(parts, "won = @won")
		args["won"] = *p.Won
	}
	if p.EndedAt != nil {
		parts = append(parts, "ended_at = @ended_at")
		args["ended_at"] = *p.EndedAt
	}
	if p.State != nil {
		parts = append(parts, "state = @state")
		args["state"] = *p.State
	}
	parts = append(parts, "updated_at = now()")

	return strings.Join(parts, ", "), args
}

func (q *Queries) UpdateGameSession(
	ctx context.Context, gameSessionID int64, params UpdateGameSessionParams,
) (*GameSession, error) {
	setClause, args := params.SetClause()
	args["game_session_id"] = gameSessionID
	rows, _ := q.db.Query(
		ctx,
		"UPDATE game_session SET "+setClause+
			" WHERE game_session_id = @game_session_id RETURNING *",
		pgx.NamedArgs(args),
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameSession])
}
