package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Highscore is one won game on the leaderboard.
type Highscore struct {
	GameSessionID string  `json:"game_session_id"`
	Username      *string `json:"username"`
	Category      string  `json:"category"`
	Rows          int     `json:"rows"`
	Columns       int     `json:"columns"`
	Moves         int     `json:"moves"`
	PlaytimeMs    float64 `json:"playtime_ms"`
}

type HighscoreFilter struct {
	Username *string
	Category *string
	Rows     *int
	Columns  *int
}

func (f HighscoreFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Username != nil {
		clauses = append(clauses, "username = @username")
		args["username"] = *f.Username
	}
	if f.Category != nil {
		clauses = append(clauses, "category = @category")
		args["category"] = *f.Category
	}
	if f.Rows != nil {
		clauses = append(clauses, "rows = @rows")
		args["rows"] = *f.Rows
	}
	if f.Columns != nil {
		clauses = append(clauses, "columns = @columns")
		args["columns"] = *f.Columns
	}
	return strings.Join(clauses, " AND "), args
}

// GetHighscores lists won, finished games ordered by playtime, fastest
// first, moves breaking ties.
func (q *Queries) GetHighscores(
	ctx context.Context, filter HighscoreFilter,
) ([]Highscore, error) {
	query := `
	SELECT
		game_session_id::text,
		username,
		category,
		rows,
		columns,
		moves,
		(
			extract('epoch' from ended_at) -
			extract('epoch' from started_at)
		) * 1000 playtime_ms
	FROM game_session
		LEFT OUTER JOIN player using (player_id)
	WHERE
		won = true
		AND completed = true
		AND ended_at IS NOT NULL
	`

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " AND " + whereClause
	}

	query += " ORDER BY playtime_ms, moves;"

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Highscore])
}
