// Package savefile is the file-based persistence adapter: JSON save
// records for in-progress games and per-player statistics files.
package savefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/astralign/memory-server/internal/memory"
)

var (
	ErrWrongOwner   = errors.New("saved game belongs to another player")
	ErrSaveNotFound = errors.New("saved game not found")
	ErrGameFinished = errors.New("finished games cannot be saved")
)

// CardState mirrors one card in a save record.
type CardState struct {
	Value     string `json:"value"`
	ID        string `json:"id"`
	IsFlipped bool   `json:"isFlipped"`
	IsMatched bool   `json:"isMatched"`
}

// GameState is the save record layout. Durations serialize as
// nanoseconds, times as RFC 3339.
type GameState struct {
	PlayerName   string        `json:"playerName"`
	Category     string        `json:"category"`
	Rows         int           `json:"rows"`
	Columns      int           `json:"columns"`
	Moves        int           `json:"moves"`
	MatchesFound int           `json:"matchesFound"`
	StartTime    time.Time     `json:"startTime"`
	ElapsedTime  time.Duration `json:"elapsedTime"`
	TimeLimit    time.Duration `json:"timeLimit"`
	IsCompleted  bool          `json:"isCompleted"`
	CardStates   []CardState   `json:"cardStates"`
	SavedAt      time.Time     `json:"savedAt"`
}

// SaveInfo describes one save file without loading the full board.
type SaveInfo struct {
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Rows         int       `json:"rows"`
	Columns      int       `json:"columns"`
	Moves        int       `json:"moves"`
	MatchesFound int       `json:"matchesFound"`
	SavedAt      time.Time `json:"savedAt"`
}

// Store reads and writes save and statistics files under two
// directories it creates on construction. Statistics files are
// read-modify-write, so access to them is serialized; concurrent
// sessions of one player must not lose results.
type Store struct {
	savesDir string
	statsDir string
	statsMu  sync.Mutex
}

func NewStore(savesDir, statsDir string) (*Store, error) {
	for _, dir := range []string{savesDir, statsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("unable to create directory %s: %w", dir, err)
		}
	}
	return &Store{savesDir: savesDir, statsDir: statsDir}, nil
}

// save file names embed the owner so listing stays a prefix scan;
// players are opaque labels and get sanitized for the filesystem
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		default:
			return '-'
		}
	}, name)
}

// SaveGame writes a save record for the game and returns its name,
// usable with LoadGame and ListSaves. Only games still in progress may
// be saved.
func (s *Store) SaveGame(g *memory.Game) (string, error) {
	if g.Completed {
		return "", ErrGameFinished
	}

	states := make([]CardState, 0, len(g.Cards))
	for _, c := range g.Cards {
		states = append(states, CardState{
			Value:     c.Value,
			ID:        c.ID,
			IsFlipped: c.Flipped,
			IsMatched: c.Matched,
		})
	}

	record := GameState{
		PlayerName:   g.Player,
		Category:     g.Category,
		Rows:         g.Rows,
		Columns:      g.Columns,
		Moves:        g.Moves,
		MatchesFound: g.MatchesFound,
		StartTime:    g.StartTime,
		ElapsedTime:  g.Elapsed,
		TimeLimit:    g.TimeLimit,
		IsCompleted:  g.Completed,
		CardStates:   states,
		SavedAt:      time.Now(),
	}

	payload, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("unable to serialize save record: %w", err)
	}

	name := fmt.Sprintf("%s_%s.json", sanitize(g.Player), uuid.NewString())
	if err := os.WriteFile(filepath.Join(s.savesDir, name), payload, 0o644); err != nil {
		return "", fmt.Errorf("unable to write save file: %w", err)
	}
	return name, nil
}

// LoadGame reads a save record back into a playable game. The save must
// belong to player; cards are rebuilt preserving id and flip/match
// state, and the start time is rebased so elapsed time continues where
// the save left off.
func (s *Store) LoadGame(name, player string, r *rand.Rand) (*memory.Game, error) {
	payload, err := os.ReadFile(filepath.Join(s.savesDir, filepath.Base(name)))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrSaveNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read save file: %w", err)
	}

	var record GameState
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("corrupt save file %s: %w", name, err)
	}

	if record.PlayerName != player {
		return nil, ErrWrongOwner
	}

	cards := make([]*memory.Card, 0, len(record.CardStates))
	for _, cs := range record.CardStates {
		cards = append(cards, memory.RestoreCard(cs.Value, cs.ID, cs.IsFlipped, cs.IsMatched))
	}

	g, err := memory.RestoreGame(
		player, record.Category,
		record.Rows, record.Columns,
		record.TimeLimit, cards, r,
	)
	if err != nil {
		return nil, err
	}

	g.Moves = record.Moves
	g.MatchesFound = record.MatchesFound
	g.Completed = record.IsCompleted
	g.AdjustStartTime(record.ElapsedTime)
	return g, nil
}

// ListSaves returns the player's save records, newest first. Unreadable
// files are skipped rather than failing the listing.
func (s *Store) ListSaves(player string) ([]SaveInfo, error) {
	entries, err := os.ReadDir(s.savesDir)
	if err != nil {
		return nil, fmt.Errorf("unable to list saves: %w", err)
	}

	prefix := sanitize(player) + "_"
	saves := make([]SaveInfo, 0)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		payload, err := os.ReadFile(filepath.Join(s.savesDir, entry.Name()))
		if err != nil {
			continue
		}
		var record GameState
		if err := json.Unmarshal(payload, &record); err != nil {
			continue
		}
		if record.PlayerName != player {
			continue
		}
		saves = append(saves, SaveInfo{
			Name:         entry.Name(),
			Category:     record.Category,
			Rows:         record.Rows,
			Columns:      record.Columns,
			Moves:        record.Moves,
			MatchesFound: record.MatchesFound,
			SavedAt:      record.SavedAt,
		})
	}

	slices.SortFunc(saves, func(a, b SaveInfo) int {
		return b.SavedAt.Compare(a.SavedAt)
	})
	return saves, nil
}

// DeleteSave removes a save record, typically after it was loaded.
func (s *Store) DeleteSave(name string) error {
	err := os.Remove(filepath.Join(s.savesDir, filepath.Base(name)))
	if errors.Is(err, os.ErrNotExist) {
		return ErrSaveNotFound
	}
	return err
}
