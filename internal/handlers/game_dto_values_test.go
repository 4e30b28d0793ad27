package handlers

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/astralign/memory-server/internal/memory"
	"github.com/astralign/memory-server/internal/repository"
)

// Face-down cards must not leak their pair value to clients.
func TestGameSessionDTOHidesFaceDownValues(t *testing.T) {
	t.Parallel()

	g, err := memory.NewGame(
		"ada", memory.CategoryZodiac, 2, 2, time.Minute,
		rand.New(rand.NewPCG(1, 2)),
	)
	require.NoError(t, err)
	m := memory.NewMatch(g)
	m.Click(0)
	g.Cards[1].SetMatched()

	session := &repository.GameSession{
		GameSessionID: 42,
		StartedAt:     pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}
	dto := NewGameSessionDTO(session, m)

	require.Len(t, dto.Cards, 4)
	require.NotNil(t, dto.Cards[0].Value, "flipped card shows its value")
	require.NotNil(t, dto.Cards[1].Value, "matched card shows its value")
	require.Nil(t, dto.Cards[2].Value, "face-down card hides its value")
	require.Nil(t, dto.Cards[3].Value, "face-down card hides its value")
	require.Equal(t, "42", dto.GameSessionID)
	require.Equal(t, "first_selected", dto.TurnState)
}
