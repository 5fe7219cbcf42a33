// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/humidistat/internal/logic"
)

// Topics are the per-device MQTT topics.
type Topics struct {
	Events string // reconciler transitions
	System string // lifecycle events, retained
}

// NewTopics returns the topics for a device.
func NewTopics(deviceID string) Topics {
	base := "humidistat/" + deviceID
	return Topics{
		Events: base + "/events",
		System: base + "/system",
	}
}

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a device event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event logic.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// System event names.
const (
	EventStartup     = "STARTUP"
	EventShutdown    = "SHUTDOWN"
	EventHeartbeat   = "HEARTBEAT"
	EventReconnected = "RECONNECTED"
)

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Humidistat EventPayload `json:"humidistat"`
}

// EventPayload contains the device event details.
type EventPayload struct {
	ID        string         `json:"id"`
	Timestamp string         `json:"timestamp"`
	Event     string         `json:"event"`
	On        bool           `json:"on"`
	Mode      string         `json:"mode"`
	Reason    string         `json:"reason,omitempty"`
	Routine   string         `json:"routine,omitempty"`
	Safety    *SafetyPayload `json:"safety,omitempty"`
}

// SafetyPayload describes the reading and bounds behind a safety trip.
type SafetyPayload struct {
	Temperature   float64 `json:"temperature"`
	Humidity      float64 `json:"humidity"`
	TemperatureOK bool    `json:"temperature_ok"`
	HumidityOK    bool    `json:"humidity_ok"`
	TempMin       float64 `json:"temp_min"`
	TempMax       float64 `json:"temp_max"`
	HumMin        float64 `json:"hum_min"`
	HumMax        float64 `json:"hum_max"`
}

// FormatPayload creates the JSON payload for a device event.
func FormatPayload(event logic.Event, id string) ([]byte, error) {
	p := EventPayload{
		ID:        id,
		Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
		Event:     string(event.Type),
		On:        event.On,
		Mode:      string(event.Mode),
		Reason:    event.Reason,
		Routine:   event.Routine,
	}
	if s := event.Safety; s != nil {
		p.Safety = &SafetyPayload{
			Temperature:   s.Reading.Temperature,
			Humidity:      s.Reading.Humidity,
			TemperatureOK: s.TemperatureOK,
			HumidityOK:    s.HumidityOK,
			TempMin:       s.Bounds.TempMin,
			TempMax:       s.Bounds.TempMax,
			HumMin:        s.Bounds.HumMin,
			HumMax:        s.Bounds.HumMax,
		}
	}
	return json.Marshal(Payload{Humidistat: p})
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, RECONNECTED) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
