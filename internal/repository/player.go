package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type Player struct {
	PlayerID        int64
	Username        string
	PasswordHash    []byte
	ZodiacSign      *string
	ZodiacImagePath *string
	CreatedAt       pgtype.Timestamptz
	UpdatedAt       pgtype.Timestamptz
}

type CreatePlayerParams struct {
	Username     string
	PasswordHash []byte
}

func (q *Queries) CreatePlayer(ctx context.Context, params CreatePlayerParams) (*Player, error) {
	rows, _ := q.db.Query(
		ctx,
		"INSERT INTO player (username, password_hash) VALUES ($1, $2) RETURNING *",
		params.Username,
		params.PasswordHash,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Player])
}

func (q *Queries) FetchPlayer(ctx context.Context, username string) (*Player, error) {
	rows, _ := q.db.Query(
		ctx, "SELECT * FROM player WHERE username = $1", username,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Player])
}

type UpdatePlayerProfileParams struct {
	ZodiacSign      *string
	ZodiacImagePath *string
}

// UpdatePlayerProfile sets the zodiac profile fields; nil clears them.
func (q *Queries) UpdatePlayerProfile(
	ctx context.Context, playerID int64, params UpdatePlayerProfileParams,
) (*Player, error) {
	rows, _ := q.db.Query(
		ctx,
		`UPDATE player
		SET zodiac_sign = $2, zodiac_image_path = $3, updated_at = now()
		WHERE player_id = $1
		RETURNING *`,
		playerID,
		params.ZodiacSign,
		params.ZodiacImagePath,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Player])
}
