package logic

import (
	"fmt"
	"strings"
)

// TemperatureInRange reports whether the temperature lies within the
// inclusive bounds.
func TemperatureInRange(temp float64, b SafetyBounds) bool {
	return temp >= b.TempMin && temp <= b.TempMax
}

// HumidityInRange reports whether the humidity lies within the inclusive
// bounds.
func HumidityInRange(hum float64, b SafetyBounds) bool {
	return hum >= b.HumMin && hum <= b.HumMax
}

// IsSafe reports whether both readings are within bounds. Inverted bounds
// (min > max) are never safe.
func IsSafe(r Reading, b SafetyBounds) bool {
	return TemperatureInRange(r.Temperature, b) && HumidityInRange(r.Humidity, b)
}

// SafetyReport describes which bound a reading violated.
type SafetyReport struct {
	Reading       Reading
	Bounds        SafetyBounds
	TemperatureOK bool
	HumidityOK    bool
}

// Safe reports whether nothing was violated.
func (s SafetyReport) Safe() bool {
	return s.TemperatureOK && s.HumidityOK
}

// CheckSafety evaluates a reading against the bounds.
func CheckSafety(r Reading, b SafetyBounds) SafetyReport {
	return SafetyReport{
		Reading:       r,
		Bounds:        b,
		TemperatureOK: TemperatureInRange(r.Temperature, b),
		HumidityOK:    HumidityInRange(r.Humidity, b),
	}
}

func (s SafetyReport) String() string {
	if s.Safe() {
		return "environment within safety bounds"
	}
	var parts []string
	if !s.TemperatureOK {
		parts = append(parts, fmt.Sprintf("temperature %.1f outside safe range (%.1f-%.1f)",
			s.Reading.Temperature, s.Bounds.TempMin, s.Bounds.TempMax))
	}
	if !s.HumidityOK {
		parts = append(parts, fmt.Sprintf("humidity %.1f outside safe range (%.1f-%.1f)",
			s.Reading.Humidity, s.Bounds.HumMin, s.Bounds.HumMax))
	}
	return strings.Join(parts, "; ")
}

// ComfortIndex is the air comfort index (ICA) shown on the display:
// twice the deviation from 22°C plus half the deviation from 50% RH,
// truncated.
func ComfortIndex(temp, hum float64) int {
	return int(abs(temp-22)*2 + abs(hum-50)*0.5)
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
