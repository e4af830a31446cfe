// Package weather holds the latest weather report pushed to the watchface.
package weather

import (
	"fmt"
	"math"
	"slices"
	"time"
)

// Loading is shown until the first report arrives.
const Loading = "Loading..."

// RequestInterval is how often a fresh report is asked for.
const RequestInterval = 30 * time.Minute

// Icons are the OpenWeatherMap icon codes the face can draw.
var Icons = []string{
	"01d", "01n", "02d", "02n", "03d", "03n", "04d", "04n", "09d",
	"09n", "10d", "10n", "11d", "11n", "13d", "13n", "50d", "50n",
}

type Report struct {
	TemperatureC int
	Icon         string
}

func Valid(icon string) bool {
	return slices.Contains(Icons, icon)
}

func KelvinToCelsius(k float64) int {
	return int(math.Round(k - 273.15))
}

func (r Report) Label() string {
	return fmt.Sprintf("%dC", r.TemperatureC)
}

// Night reports whether the icon is a night variant.
func Night(icon string) bool {
	return len(icon) == 3 && icon[2] == 'n'
}

// Due reports whether now is a request minute.
func Due(now time.Time) bool {
	return now.Minute()%int(RequestInterval/time.Minute) == 0
}
