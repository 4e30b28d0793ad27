package config

import "os"

// Storage locates the directories for the file-based persistence
// adapter (save records and per-player statistics).
type Storage struct {
	SavesDir string
	StatsDir string
}

func NewStorage() *Storage {
	savesDir, ok := os.LookupEnv("SAVED_GAMES_DIR")
	if !ok {
		savesDir = "saved-games"
	}
	statsDir, ok := os.LookupEnv("STATISTICS_DIR")
	if !ok {
		statsDir = "statistics"
	}
	return &Storage{SavesDir: savesDir, StatsDir: statsDir}
}
