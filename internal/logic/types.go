// Package logic contains the pure decision logic for the humidistat:
// routine parsing, schedule matching, safety checks and state reconciliation.
// This package has NO external dependencies (no GPIO, HTTP, MQTT, OS, or time.Sleep).
// Clock values are always injected by the caller.
package logic

import "time"

// Mode is the active actuation intent of the device.
type Mode string

const (
	ModeNone       Mode = "NONE"
	ModeDehumidify Mode = "DEHUMIDIFY"
	ModeHumidify   Mode = "HUMIDIFY"
)

// EventType represents a state transition reported by the Reconciler.
type EventType string

const (
	EventDeviceOn   EventType = "DEVICE_ON"
	EventDeviceOff  EventType = "DEVICE_OFF"
	EventModeChange EventType = "MODE_CHANGE"
	EventSafetyTrip EventType = "SAFETY_TRIP"
	EventManualOn   EventType = "MANUAL_ON"
	EventManualOff  EventType = "MANUAL_OFF"
)

// Event represents a transition to be logged and published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	On        bool
	Mode      Mode
	Reason    string
	Routine   string        // name of the matched routine, if any
	Safety    *SafetyReport // set for SAFETY_TRIP only
}

// Reading is one temperature/humidity sample.
type Reading struct {
	Temperature float64
	Humidity    float64
}

// SafetyBounds is the device-configured safe envelope. The zero value
// makes every reading unsafe until the first configuration arrives.
type SafetyBounds struct {
	TempMin float64
	TempMax float64
	HumMin  float64
	HumMax  float64

	// Comfort index limits reported by the service. Informational only.
	ICAMin int
	ICAMax int
}

// DeviceState is the reconciled state of the single actuator.
type DeviceState struct {
	Temperature   float64
	Humidity      float64
	ICA           int
	On            bool
	Mode          Mode
	ManualDesired bool
}

// Label returns the short status text shown on the display.
func (s DeviceState) Label() string {
	if !s.On {
		return "Device OFF"
	}
	if s.Mode == ModeHumidify {
		return "Humidify ON"
	}
	// An on device without an explicit mode reports as dehumidifying.
	return "Dehumidify ON"
}
