// Package display renders the 20x4 character panel text.
package display

import (
	"fmt"
	"math"
	"strings"

	"github.com/sweeney/humidistat/internal/logic"
)

// Panel geometry.
const (
	Columns = 20
	Rows    = 4
)

// Screen is what the panel shows.
type Screen struct {
	State  logic.DeviceState
	Error  string // last service error code, empty when healthy
	Server string // service address
}

// Render returns the four panel lines, each padded or cut to Columns.
func Render(s Screen) [Rows]string {
	lines := [Rows]string{
		s.State.Label(),
		fmt.Sprintf("T:%.1fC H:%d%%ICA:%d", s.State.Temperature, roundHalfUp(s.State.Humidity), s.State.ICA),
		s.Error,
		"IP: " + s.Server,
	}
	for i, l := range lines {
		lines[i] = fit(l)
	}
	return lines
}

// roundHalfUp rounds halves upward, so 62.5 shows as 63.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func fit(s string) string {
	r := []rune(s)
	if len(r) > Columns {
		return string(r[:Columns])
	}
	return s + strings.Repeat(" ", Columns-len(r))
}
