// Package inbox receives pushed updates (weather, background colour,
// schedule) as small TOML files dropped into a directory, and writes
// weather requests for whatever fetches them.
package inbox

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/sethgrid/boris/internal/mode"
	"github.com/sethgrid/boris/internal/storage"
	"github.com/sethgrid/boris/internal/weather"
)

// RequestFile is written to the outbox when a weather report is wanted.
const RequestFile = "request.toml"

var (
	ErrEmpty       = errors.New("message has no usable keys")
	ErrTemperature = errors.New("temperature is not a finite number")
)

// Message is one pushed update. Absent keys are nil. Temperature is in
// kelvin, as the weather provider reports it.
type Message struct {
	Temperature     *float64 `toml:"temperature"`
	Icon            *string  `toml:"icon"`
	BackgroundColor *string  `toml:"background_color"`
	Bedtime         *string  `toml:"bedtime"`
	GetUpTime       *string  `toml:"getup_time"`
}

// Parse decodes a message and rejects unknown keys and messages that would
// change nothing.
func Parse(data []byte) (Message, error) {
	var m Message
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return Message{}, fmt.Errorf("failed to parse message: %w", err)
	}
	if m.Temperature != nil && (math.IsNaN(*m.Temperature) || math.IsInf(*m.Temperature, 0)) {
		return Message{}, fmt.Errorf("%w: %v", ErrTemperature, *m.Temperature)
	}
	_, hasWeather := m.Weather()
	_, hasBackground, err := m.Background()
	if err != nil {
		return Message{}, err
	}
	_, hasSchedule, err := m.Schedule()
	if err != nil {
		return Message{}, err
	}
	if !hasWeather && !hasBackground && !hasSchedule {
		return Message{}, ErrEmpty
	}
	return m, nil
}

func ReadFile(path string) (Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Message{}, fmt.Errorf("failed to read message: %w", err)
	}
	return Parse(data)
}

// Weather needs both temperature and icon. An icon the face cannot draw
// still updates the temperature; the report then carries no icon.
func (m Message) Weather() (weather.Report, bool) {
	if m.Temperature == nil || m.Icon == nil {
		return weather.Report{}, false
	}
	r := weather.Report{TemperatureC: weather.KelvinToCelsius(*m.Temperature)}
	if weather.Valid(*m.Icon) {
		r.Icon = *m.Icon
	}
	return r, true
}

func (m Message) Background() (storage.Color, bool, error) {
	if m.BackgroundColor == nil {
		return storage.Color{}, false, nil
	}
	c, err := storage.ParseColor(*m.BackgroundColor)
	if err != nil {
		return storage.Color{}, false, err
	}
	return c, true, nil
}

// Schedule is only replaced when both times are present.
func (m Message) Schedule() (mode.Schedule, bool, error) {
	if m.Bedtime == nil || m.GetUpTime == nil {
		return mode.Schedule{}, false, nil
	}
	s, err := mode.Schedule{Bedtime: *m.Bedtime, GetUp: *m.GetUpTime}.Normalize()
	if err != nil {
		return mode.Schedule{}, false, err
	}
	return s, true, nil
}

type request struct {
	RequestedAt time.Time `toml:"requested_at"`
}

// RequestWeather writes the request file into dir, replacing any earlier one.
func RequestWeather(dir string, now time.Time) error {
	data, err := toml.Marshal(request{RequestedAt: now})
	if err != nil {
		return fmt.Errorf("failed to marshal weather request: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create outbox: %w", err)
	}
	tmp := filepath.Join(dir, "."+RequestFile)
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write weather request: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(dir, RequestFile)); err != nil {
		return fmt.Errorf("failed to publish weather request: %w", err)
	}
	return nil
}

// Write drops m into dir as a new message file and returns its path.
func Write(dir string, m Message) (string, error) {
	data, err := toml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}
	if _, err := Parse(data); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create inbox: %w", err)
	}
	name := fmt.Sprintf("msg-%d.toml", time.Now().UnixNano())
	tmp := filepath.Join(dir, "."+name)
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write message: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("failed to publish message: %w", err)
	}
	return path, nil
}
