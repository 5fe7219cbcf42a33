// Package status provides a thread-safe status tracker for the humidistat daemon.
// It is read by the HTTP handlers and by MQTT lifecycle events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/humidistat/internal/logic"
)

// NetworkInfo contains network state. This is a local copy to avoid
// importing internal/mqtt from status.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	DeviceID    string
	Server      string
	SensorMs    int64
	RemoteMs    int64
	ControlMs   int64
	HeartbeatMs int64
	Broker      string
	HTTPPort    string
	Simulate    bool
}

// Counts tallies reconciler events by type.
type Counts struct {
	DeviceOn   int
	DeviceOff  int
	ModeChange int
	SafetyTrip int
	ManualOn   int
	ManualOff  int
}

// Add counts one event.
func (c *Counts) Add(e logic.Event) {
	switch e.Type {
	case logic.EventDeviceOn:
		c.DeviceOn++
	case logic.EventDeviceOff:
		c.DeviceOff++
	case logic.EventModeChange:
		c.ModeChange++
	case logic.EventSafetyTrip:
		c.SafetyTrip++
	case logic.EventManualOn:
		c.ManualOn++
	case logic.EventManualOff:
		c.ManualOff++
	}
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	State         logic.DeviceState
	Bounds        logic.SafetyBounds
	BoundsLoaded  bool
	Routines      int
	ActiveRoutine string
	Rule          string
	Reason        string
	APIError      string
	Display       [4]string
	LastReading   time.Time
	Counts        Counts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Safe reports whether the last reading is inside the loaded bounds.
func (s Snapshot) Safe() bool {
	return s.BoundsLoaded && logic.IsSafe(logic.Reading{Temperature: s.State.Temperature, Humidity: s.State.Humidity}, s.Bounds)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
			State:     logic.DeviceState{Mode: logic.ModeNone},
		},
	}
}

// ApplyDecision records the outcome of a control tick.
func (t *Tracker) ApplyDecision(d logic.Decision) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.State = d.State
	t.snap.Rule = d.Rule
	t.snap.Reason = d.Reason
	t.snap.ActiveRoutine = ""
	if d.Match != nil {
		t.snap.ActiveRoutine = d.Match.Routine.Name
	}
	for _, e := range d.Events {
		t.snap.Counts.Add(e)
	}
}

// ApplyManual records the state change caused by a manual edge. The last
// sensor reading is kept; only the actuator fields are taken from state.
func (t *Tracker) ApplyManual(state logic.DeviceState, events []logic.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.State.On = state.On
	t.snap.State.Mode = state.Mode
	t.snap.State.ManualDesired = state.ManualDesired
	for _, e := range events {
		t.snap.Counts.Add(e)
	}
	if len(events) > 0 {
		t.snap.Rule = "manual"
		t.snap.Reason = events[len(events)-1].Reason
		t.snap.ActiveRoutine = ""
	}
}

// SetReading records a successful sensor sample.
func (t *Tracker) SetReading(r logic.Reading, at time.Time) {
	t.mu.Lock()
	t.snap.State.Temperature = r.Temperature
	t.snap.State.Humidity = r.Humidity
	t.snap.State.ICA = logic.ComfortIndex(r.Temperature, r.Humidity)
	t.snap.LastReading = at
	t.mu.Unlock()
}

// SetBounds records the safety bounds from the last device fetch.
func (t *Tracker) SetBounds(b logic.SafetyBounds) {
	t.mu.Lock()
	t.snap.Bounds = b
	t.snap.BoundsLoaded = true
	t.mu.Unlock()
}

// SetRoutines records the size of the active routine collection.
func (t *Tracker) SetRoutines(n int) {
	t.mu.Lock()
	t.snap.Routines = n
	t.mu.Unlock()
}

// SetAPIError sets the display error code; empty clears it.
func (t *Tracker) SetAPIError(code string) {
	t.mu.Lock()
	t.snap.APIError = code
	t.mu.Unlock()
}

// SetDisplay stores the rendered panel lines.
func (t *Tracker) SetDisplay(lines [4]string) {
	t.mu.Lock()
	t.snap.Display = lines
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// APIError returns the current display error code.
func (t *Tracker) APIError() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snap.APIError
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
