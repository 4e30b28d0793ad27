package savefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// GameResult is one finished game in a player's history.
type GameResult struct {
	Date     time.Time     `json:"date"`
	Category string        `json:"category"`
	Rows     int           `json:"rows"`
	Columns  int           `json:"columns"`
	Moves    int           `json:"moves"`
	Duration time.Duration `json:"duration"`
	IsWon    bool          `json:"isWon"`
}

// UserStatistics accumulates per-player results. BestTimes and
// BestMoves are keyed "Category_RowsxColumns" and only ever improve.
type UserStatistics struct {
	Username    string                   `json:"username"`
	TotalGames  int                      `json:"totalGames"`
	GamesWon    int                      `json:"gamesWon"`
	GameResults []GameResult             `json:"gameResults"`
	BestTimes   map[string]time.Duration `json:"bestTimes"`
	BestMoves   map[string]int           `json:"bestMoves"`
}

func newUserStatistics(username string) *UserStatistics {
	return &UserStatistics{
		Username:    username,
		GameResults: []GameResult{},
		BestTimes:   map[string]time.Duration{},
		BestMoves:   map[string]int{},
	}
}

// ResultKey builds the bests-map key for a board configuration.
func ResultKey(category string, rows, columns int) string {
	return fmt.Sprintf("%s_%dx%d", category, rows, columns)
}

func (s *Store) statsPath(username string) string {
	return filepath.Join(s.statsDir, sanitize(username)+".json")
}

// LoadStatistics reads a player's statistics file. A missing file
// yields empty statistics so a new player is never an error.
func (s *Store) LoadStatistics(username string) (*UserStatistics, error) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.loadStatistics(username)
}

func (s *Store) loadStatistics(username string) (*UserStatistics, error) {
	payload, err := os.ReadFile(s.statsPath(username))
	if errors.Is(err, os.ErrNotExist) {
		return newUserStatistics(username), nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read statistics: %w", err)
	}

	var stats UserStatistics
	if err := json.Unmarshal(payload, &stats); err != nil {
		return nil, fmt.Errorf("corrupt statistics file for %s: %w", username, err)
	}
	if stats.BestTimes == nil {
		stats.BestTimes = map[string]time.Duration{}
	}
	if stats.BestMoves == nil {
		stats.BestMoves = map[string]int{}
	}
	return &stats, nil
}

// UpdateStatistics appends a result and writes the file back. Best
// time and best moves for the board configuration are replaced only by
// strictly better won results.
func (s *Store) UpdateStatistics(username string, result GameResult) (*UserStatistics, error) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	stats, err := s.loadStatistics(username)
	if err != nil {
		return nil, err
	}

	stats.GameResults = append(stats.GameResults, result)
	stats.TotalGames++

	if result.IsWon {
		stats.GamesWon++

		key := ResultKey(result.Category, result.Rows, result.Columns)
		if best, ok := stats.BestTimes[key]; !ok || result.Duration < best {
			stats.BestTimes[key] = result.Duration
		}
		if best, ok := stats.BestMoves[key]; !ok || result.Moves < best {
			stats.BestMoves[key] = result.Moves
		}
	}

	payload, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("unable to serialize statistics: %w", err)
	}
	if err := os.WriteFile(s.statsPath(username), payload, 0o644); err != nil {
		return nil, fmt.Errorf("unable to write statistics: %w", err)
	}
	return stats, nil
}
