package config

import (
	"fmt"
	"os"
	"strings"
)

func requireEnv(name string) (string, error) {
	value, ok := os.LookupEnv(name)
	if !ok {
		return "", fmt.Errorf("no %s env variable set", name)
	}
	return value, nil
}

// requireEnvOrFile reads NAME, falling back to the contents of the file
// named by NAME_FILE, for secrets mounted as files.
func requireEnvOrFile(name string) (string, error) {
	if value, ok := os.LookupEnv(name); ok {
		return value, nil
	}
	path, ok := os.LookupEnv(name + "_FILE")
	if !ok {
		return "", fmt.Errorf("no %s or %s_FILE env variable set", name, name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("unable to read %s_FILE: %w", name, err)
	}
	return strings.TrimSpace(string(data)), nil
}
