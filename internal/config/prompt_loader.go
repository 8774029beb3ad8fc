package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// defaultPromptDir is the subdirectory within the user's home directory.
const defaultPromptDir = ".config/tubesort/prompts"

// LoadPromptContent returns the content of a prompt override file.
// An empty configuredPath means "no override" and returns "" with no error.
// Absolute paths are used as-is; relative paths are resolved against
// ~/.config/tubesort/prompts/.
func LoadPromptContent(configuredPath string) (string, error) {
	if configuredPath == "" {
		return "", nil
	}

	finalPath := configuredPath
	if !filepath.IsAbs(configuredPath) {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		finalPath = filepath.Join(homeDir, defaultPromptDir, configuredPath)
	}

	promptBytes, err := os.ReadFile(finalPath)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt file '%s': %w", finalPath, err)
	}
	return string(promptBytes), nil
}
