package battery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultRoot is where Linux exposes power supplies.
const DefaultRoot = "/sys/class/power_supply"

var ErrNoBattery = errors.New("no battery found")

// Sampler reports the charge level as a percentage.
type Sampler interface {
	Level() (int, error)
}

// Fixed always reports the same level.
type Fixed int

func (f Fixed) Level() (int, error) {
	return Clamp(int(f)), nil
}

// Sysfs reads the first power supply whose type is Battery.
type Sysfs struct {
	Root string
}

func (s Sysfs) Level() (int, error) {
	root := s.Root
	if root == "" {
		root = DefaultRoot
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return 0, fmt.Errorf("failed to list power supplies: %w", err)
	}

	for _, e := range entries {
		dir := filepath.Join(root, e.Name())
		kind, err := readTrimmed(filepath.Join(dir, "type"))
		if err != nil || kind != "Battery" {
			continue
		}
		raw, err := readTrimmed(filepath.Join(dir, "capacity"))
		if err != nil {
			return 0, fmt.Errorf("failed to read %s capacity: %w", e.Name(), err)
		}
		level, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("failed to parse %s capacity %q: %w", e.Name(), raw, err)
		}
		return Clamp(level), nil
	}
	return 0, ErrNoBattery
}

func readTrimmed(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Clamp to [0, 100].
func Clamp(level int) int {
	if level < 0 {
		return 0
	}
	if level > 100 {
		return 100
	}
	return level
}

// MeterWidth scales level to a bar of the given full width.
func MeterWidth(level, width int) int {
	return Clamp(level) * width / 100
}
