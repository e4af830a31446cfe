package discovery

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sethgrid/boris/internal/storage"
)

const (
	LogFile   = "boris.log"
	InboxDir  = "inbox"
	OutboxDir = "outbox"
)

// FindSettingsFile walks up from startDir looking for .boris/settings.toml.
func FindSettingsFile(startDir string) (string, bool, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}

	for {
		path := filepath.Join(dir, storage.DirName, storage.SettingsFile)
		if _, err := os.Stat(path); err == nil {
			return path, true, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return "", false, nil
}

func GlobalSettingsPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, storage.DirName, storage.SettingsFile)
}

// Resolve picks the settings file: an explicit path wins, then the nearest
// .boris directory above startDir, then the one in the home directory.
func Resolve(explicit, startDir string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	path, found, err := FindSettingsFile(startDir)
	if err != nil {
		return "", err
	}
	if found {
		return path, nil
	}
	return GlobalSettingsPath(), nil
}

// Sibling returns name in the same directory as the settings file.
func Sibling(settingsPath, name string) string {
	return filepath.Join(filepath.Dir(settingsPath), name)
}
