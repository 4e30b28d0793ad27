package memory

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"
)

var Log *slog.Logger = slog.Default()

// DefaultTimeLimit applies when a game is created without one.
const DefaultTimeLimit = time.Minute

// Game owns the card sequence and the progress counters of one match.
// It carries no turn state; see [Match] for turn resolution.
type Game struct {
	Player       string
	Category     string
	Rows         int
	Columns      int
	Cards        []*Card
	Moves        int
	MatchesFound int
	StartTime    time.Time
	Elapsed      time.Duration
	TimeLimit    time.Duration
	Completed    bool
	Won          bool
}

// NewGame generates a fresh shuffled board. Dimensions must be at least
// 2x2 with an even cell count; this is the validation boundary the play
// operations rely on.
func NewGame(
	player, category string,
	rows, columns int,
	timeLimit time.Duration,
	r *rand.Rand,
) (*Game, error) {
	if rows < 2 || columns < 2 {
		return nil, fmt.Errorf("board dimensions must be at least 2x2, got %dx%d", rows, columns)
	}
	if (rows*columns)%2 != 0 {
		return nil, fmt.Errorf("board must hold an even number of cards, got %dx%d", rows, columns)
	}
	if timeLimit <= 0 {
		timeLimit = DefaultTimeLimit
	}

	g := &Game{
		Player:    player,
		Category:  category,
		Rows:      rows,
		Columns:   columns,
		StartTime: time.Now(),
		TimeLimit: timeLimit,
	}
	g.Cards = newBoard(category, rows, columns, r)
	return g, nil
}

// RestoreGame adopts a previously saved card sequence verbatim,
// recounting resolved pairs from the matched flags. A missing or
// wrong-sized sequence falls back to a freshly generated board so a
// loaded game is always playable.
func RestoreGame(
	player, category string,
	rows, columns int,
	timeLimit time.Duration,
	saved []*Card,
	r *rand.Rand,
) (*Game, error) {
	g, err := NewGame(player, category, rows, columns, timeLimit, r)
	if err != nil {
		return nil, err
	}
	if len(saved) != rows*columns {
		Log.Warn(
			"saved card sequence unusable, generated a fresh board",
			slog.Int("saved", len(saved)),
			slog.Int("expected", rows*columns),
		)
		return g, nil
	}
	g.Cards = saved
	matched := 0
	for _, c := range saved {
		if c.Matched {
			matched++
		}
	}
	g.MatchesFound = matched / 2
	return g, nil
}

// newBoard builds the shuffled paired sequence for a category. The
// length postcondition cannot fail while pairLabels honours its
// contract, so a mismatch is logged rather than returned.
func newBoard(category string, rows, columns int, r *rand.Rand) []*Card {
	pairCount := (rows * columns) / 2
	cards := make([]*Card, 0, 2*pairCount)
	for _, label := range pairLabels(category, pairCount) {
		cards = append(cards, NewCard(label), NewCard(label))
	}
	shuffleCards(cards, r)
	if len(cards) != rows*columns {
		Log.Warn(
			"generated board has unexpected size",
			slog.String("category", category),
			slog.Int("cards", len(cards)),
			slog.Int("expected", rows*columns),
		)
	}
	return cards
}

// Fisher-Yates; every permutation equally likely.
func shuffleCards(cards []*Card, r *rand.Rand) {
	for n := len(cards) - 1; n > 0; n-- {
		k := r.IntN(n + 1)
		cards[n], cards[k] = cards[k], cards[n]
	}
}

// AdjustStartTime rebases StartTime so that elapsed time computed from
// the wall clock resumes continuously after a restore.
func (g *Game) AdjustStartTime(elapsed time.Duration) {
	g.StartTime = time.Now().Add(-elapsed)
	g.Elapsed = elapsed
}

func (g *Game) TotalPairs() int {
	return len(g.Cards) / 2
}

func (g *Game) RemainingTime() time.Duration {
	if remaining := g.TimeLimit - g.Elapsed; remaining > 0 {
		return remaining
	}
	return 0
}

func (g *Game) TimeExpired() bool {
	return g.Elapsed >= g.TimeLimit
}

// UpdateElapsed recomputes elapsed time from the given instant.
// Completed games keep their final elapsed time.
func (g *Game) UpdateElapsed(now time.Time) {
	if !g.Completed {
		g.Elapsed = now.Sub(g.StartTime)
	}
}

func DecodeGame(buf []byte) (*Game, error) {
	var g Game
	if err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(&g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (g *Game) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
