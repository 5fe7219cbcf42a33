package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string          `json:"event,omitempty"`
	Reason        string          `json:"reason,omitempty"`
	Device        DeviceJSON      `json:"device"`
	Environment   EnvironmentJSON `json:"environment"`
	Safety        SafetyJSON      `json:"safety"`
	Routines      RoutinesJSON    `json:"routines"`
	Decision      DecisionJSON    `json:"decision"`
	APIError      string          `json:"api_error,omitempty"`
	Display       []string        `json:"display"`
	UptimeSeconds int64           `json:"uptime_seconds"`
	StartTime     string          `json:"start_time"`
	Timestamp     string          `json:"timestamp"`
	MQTT          MQTTStatus      `json:"mqtt"`
	Counts        CountsJSON      `json:"event_counts"`
	Network       *NetworkJSON    `json:"network,omitempty"`
	Config        ConfigJSON      `json:"config"`
}

// DeviceJSON is the actuator state.
type DeviceJSON struct {
	On            bool   `json:"on"`
	Mode          string `json:"mode"`
	Label         string `json:"label"`
	ManualDesired bool   `json:"manual_desired"`
}

// EnvironmentJSON is the last sensor sample.
type EnvironmentJSON struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	ICA         int     `json:"ica"`
	LastReading string  `json:"last_reading,omitempty"`
}

// SafetyJSON is the configured envelope and whether the last reading is in it.
type SafetyJSON struct {
	Loaded  bool    `json:"loaded"`
	Safe    bool    `json:"safe"`
	TempMin float64 `json:"temp_min"`
	TempMax float64 `json:"temp_max"`
	HumMin  float64 `json:"hum_min"`
	HumMax  float64 `json:"hum_max"`
	ICAMin  int     `json:"ica_min"`
	ICAMax  int     `json:"ica_max"`
}

// RoutinesJSON summarises the routine schedule.
type RoutinesJSON struct {
	Count  int    `json:"count"`
	Active string `json:"active,omitempty"`
}

// DecisionJSON is the rule that decided the last tick.
type DecisionJSON struct {
	Rule   string `json:"rule,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	DeviceOn   int `json:"device_on"`
	DeviceOff  int `json:"device_off"`
	ModeChange int `json:"mode_change"`
	SafetyTrip int `json:"safety_trip"`
	ManualOn   int `json:"manual_on"`
	ManualOff  int `json:"manual_off"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	DeviceID    string `json:"device_id"`
	Server      string `json:"server"`
	SensorMs    int64  `json:"sensor_ms"`
	RemoteMs    int64  `json:"remote_ms"`
	ControlMs   int64  `json:"control_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPPort    string `json:"http_port"`
	Simulate    bool   `json:"simulate,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	mode := string(snap.State.Mode)
	if mode == "" {
		mode = "NONE"
	}

	inner := StatusInner{
		Device: DeviceJSON{
			On:            snap.State.On,
			Mode:          mode,
			Label:         snap.State.Label(),
			ManualDesired: snap.State.ManualDesired,
		},
		Environment: EnvironmentJSON{
			Temperature: snap.State.Temperature,
			Humidity:    snap.State.Humidity,
			ICA:         snap.State.ICA,
		},
		Safety: SafetyJSON{
			Loaded:  snap.BoundsLoaded,
			Safe:    snap.Safe(),
			TempMin: snap.Bounds.TempMin,
			TempMax: snap.Bounds.TempMax,
			HumMin:  snap.Bounds.HumMin,
			HumMax:  snap.Bounds.HumMax,
			ICAMin:  snap.Bounds.ICAMin,
			ICAMax:  snap.Bounds.ICAMax,
		},
		Routines:      RoutinesJSON{Count: snap.Routines, Active: snap.ActiveRoutine},
		Decision:      DecisionJSON{Rule: snap.Rule, Reason: snap.Reason},
		APIError:      snap.APIError,
		Display:       snap.Display[:],
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			DeviceOn:   snap.Counts.DeviceOn,
			DeviceOff:  snap.Counts.DeviceOff,
			ModeChange: snap.Counts.ModeChange,
			SafetyTrip: snap.Counts.SafetyTrip,
			ManualOn:   snap.Counts.ManualOn,
			ManualOff:  snap.Counts.ManualOff,
		},
		Config: ConfigJSON{
			DeviceID:    snap.Config.DeviceID,
			Server:      snap.Config.Server,
			SensorMs:    snap.Config.SensorMs,
			RemoteMs:    snap.Config.RemoteMs,
			ControlMs:   snap.Config.ControlMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPPort:    snap.Config.HTTPPort,
			Simulate:    snap.Config.Simulate,
		},
	}
	if !snap.LastReading.IsZero() {
		inner.Environment.LastReading = snap.LastReading.UTC().Format(time.RFC3339)
	}
	return inner
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
