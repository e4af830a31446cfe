package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/sethgrid/boris/internal/behaviour"
	"github.com/sethgrid/boris/internal/mode"
)

const (
	DirName      = ".boris"
	SettingsFile = "settings.toml"

	DefaultX    = 60
	DefaultY    = 90
	DefaultSize = 32
)

// DefaultBackground is the dark green the face starts with.
var DefaultBackground = Color{R: 0x00, G: 0x55, B: 0x00}

var (
	// ErrCorrupt marks a settings file that could not be used as written.
	ErrCorrupt = errors.New("corrupt settings")
	ErrExists  = errors.New("settings already exist")
)

// Settings is everything persisted between runs.
type Settings struct {
	BackgroundColor Color               `toml:"background_color"`
	State           behaviour.Behaviour `toml:"state"`
	X               int                 `toml:"x"`
	Y               int                 `toml:"y"`
	Size            int                 `toml:"size"`
	Bedtime         string              `toml:"bedtime"`
	GetUpTime       string              `toml:"getup_time"`
}

func Defaults() Settings {
	return Settings{
		BackgroundColor: DefaultBackground,
		State:           behaviour.Standing,
		X:               DefaultX,
		Y:               DefaultY,
		Size:            DefaultSize,
		Bedtime:         mode.DefaultBedtime,
		GetUpTime:       mode.DefaultGetUp,
	}
}

func (s Settings) Schedule() mode.Schedule {
	return mode.Schedule{Bedtime: s.Bedtime, GetUp: s.GetUpTime}
}

// Load reads settings from path. A missing file yields the defaults with no
// error. A file that cannot be parsed yields the defaults and an error
// wrapping ErrCorrupt; callers are expected to log it and carry on.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return Defaults(), fmt.Errorf("failed to read settings file: %w", err)
	}

	s := Defaults()
	if err := toml.Unmarshal(data, &s); err != nil {
		return Defaults(), fmt.Errorf("failed to parse settings file %s: %w: %w", path, ErrCorrupt, err)
	}
	return s.sanitize()
}

// sanitize repairs individual fields so one bad value does not discard the
// rest of the file.
func (s Settings) sanitize() (Settings, error) {
	var errs []error
	if s.Size <= 0 {
		errs = append(errs, fmt.Errorf("size %d", s.Size))
		s.Size = DefaultSize
	}
	schedule, err := s.Schedule().Normalize()
	if err != nil {
		errs = append(errs, err)
		schedule = mode.DefaultSchedule()
	}
	s.Bedtime, s.GetUpTime = schedule.Bedtime, schedule.GetUp
	if len(errs) > 0 {
		return s, fmt.Errorf("%w: %w", ErrCorrupt, errors.Join(errs...))
	}
	return s, nil
}

func Save(path string, s Settings) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}

// Init writes default settings under baseDir/.boris and returns the path.
func Init(baseDir string) (string, error) {
	dir := filepath.Join(baseDir, DirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create settings directory: %w", err)
	}

	path := filepath.Join(dir, SettingsFile)
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("%s: %w", path, ErrExists)
	}

	if err := Save(path, Defaults()); err != nil {
		return "", err
	}
	return path, nil
}
