package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gorilla/schema"

	"github.com/astralign/memory-server/internal/memory"
	"github.com/astralign/memory-server/internal/repository"
)

type CreateNewGameDTO struct {
	Category         string `schema:"category,required"`
	Rows             int    `schema:"rows,required"`
	Columns          int    `schema:"columns,required"`
	TimeLimitMinutes int    `schema:"time_limit"`
}

func ParseCreateNewGameDTO(src map[string][]string) (CreateNewGameDTO, error) {
	var dto CreateNewGameDTO
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	if err := dec.Decode(&dto, src); err != nil {
		return dto, err
	}
	if dto.TimeLimitMinutes == 0 {
		dto.TimeLimitMinutes = 1
	}
	return dto, dto.validate()
}

// validate applies the setup-screen rules: a known category, dimensions
// 2..6 with an even cell count, and the zodiac pool caps its board at
// 4x4.
func (dto CreateNewGameDTO) validate() error {
	if !memory.KnownCategory(dto.Category) {
		return fmt.Errorf("unknown category %q", dto.Category)
	}
	if dto.Rows < 2 || dto.Rows > 6 || dto.Columns < 2 || dto.Columns > 6 {
		return fmt.Errorf("rows and columns must be between 2 and 6")
	}
	if (dto.Rows*dto.Columns)%2 != 0 {
		return fmt.Errorf("the board must hold an even number of cards")
	}
	if dto.Category == memory.CategoryZodiac && (dto.Rows > 4 || dto.Columns > 4) {
		return fmt.Errorf("%s boards are capped at 4x4", memory.CategoryZodiac)
	}
	if dto.TimeLimitMinutes < 1 || dto.TimeLimitMinutes > 30 {
		return fmt.Errorf("time limit must be between 1 and 30 minutes")
	}
	return nil
}

func (dto CreateNewGameDTO) timeLimit() time.Duration {
	return time.Duration(dto.TimeLimitMinutes) * time.Minute
}

type FlipCardDTO struct {
	Card int `schema:"card,required"`
}

func ParseFlipCardDTO(src map[string][]string) (FlipCardDTO, error) {
	var dto FlipCardDTO
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	err := dec.Decode(&dto, src)
	return dto, err
}

type HighscoresDTO struct {
	Username *string `schema:"username"`
	Category *string `schema:"category"`
	Rows     *int    `schema:"rows"`
	Columns  *int    `schema:"columns"`
}

func ParseHighscoresDTO(src map[string][]string) (HighscoresDTO, error) {
	var dto HighscoresDTO
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	err := dec.Decode(&dto, src)
	return dto, err
}

// CardDTO hides the pair value of face-down cards so clients cannot
// peek at the board.
type CardDTO struct {
	ID      string  `json:"id"`
	Flipped bool    `json:"flipped"`
	Matched bool    `json:"matched"`
	Value   *string `json:"value,omitempty"`
}

type GameSessionDTO struct {
	GameSessionID string    `json:"game_session_id"`
	Category      string    `json:"category"`
	Rows          int       `json:"rows"`
	Columns       int       `json:"columns"`
	Moves         int       `json:"moves"`
	MatchesFound  int       `json:"matches_found"`
	TotalPairs    int       `json:"total_pairs"`
	ElapsedMs     int64     `json:"elapsed_ms"`
	RemainingMs   int64     `json:"remaining_ms"`
	TimeLimitMs   int64     `json:"time_limit_ms"`
	TurnState     string    `json:"turn_state"`
	Outcome       string    `json:"outcome,omitempty"`
	Completed     bool      `json:"completed"`
	Won           bool      `json:"won"`
	Lost          bool      `json:"lost"`
	StartedAt     int64     `json:"started_at"`
	EndedAt       *int64    `json:"ended_at,omitempty"`
	Cards         []CardDTO `json:"cards"`
}

func NewGameSessionDTO(session *repository.GameSession, m *memory.Match) *GameSessionDTO {
	g := m.Game

	cards := make([]CardDTO, 0, len(g.Cards))
	for _, c := range g.Cards {
		dto := CardDTO{ID: c.ID, Flipped: c.Flipped, Matched: c.Matched}
		if c.Flipped || c.Matched {
			value := c.Value
			dto.Value = &value
		}
		cards = append(cards, dto)
	}

	var endedAt *int64
	if session.EndedAt != nil {
		e := session.EndedAt.UnixMilli()
		endedAt = &e
	}

	snap := m.Snapshot()
	return &GameSessionDTO{
		GameSessionID: strconv.FormatInt(session.GameSessionID, 10),
		Category:      g.Category,
		Rows:          g.Rows,
		Columns:       g.Columns,
		Moves:         snap.Moves,
		MatchesFound:  snap.MatchesFound,
		TotalPairs:    snap.TotalPairs,
		ElapsedMs:     g.Elapsed.Milliseconds(),
		RemainingMs:   snap.RemainingTime.Milliseconds(),
		TimeLimitMs:   g.TimeLimit.Milliseconds(),
		TurnState:     m.TurnState().String(),
		Completed:     snap.Completed,
		Won:           snap.Won,
		Lost:          snap.Lost,
		StartedAt:     session.StartedAt.Time.UnixMilli(),
		EndedAt:       endedAt,
		Cards:         cards,
	}
}
