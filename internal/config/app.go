package config

import "os"

func BasePath() string {
	return os.Getenv("APP_BASE_PATH")
}

// Addr returns the listen address, defaulting to :8080.
func Addr() string {
	if port, ok := os.LookupEnv("APP_PORT"); ok {
		return ":" + port
	}
	return ":8080"
}
