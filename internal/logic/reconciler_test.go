package logic

import (
	"testing"
	"time"
)

var (
	t0        = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC) // Monday
	monNoon   = Clock{Day: "MONDAY", Time: "12:00"}
	monNight  = Clock{Day: "MONDAY", Time: "21:00"}
	bounds    = SafetyBounds{TempMin: 10, TempMax: 30, HumMin: 20, HumMax: 90}
	humid     = Reading{Temperature: 22, Humidity: 75}
	tooHot    = Reading{Temperature: 35, Humidity: 75}
	dryAir    = Reading{Temperature: 22, Humidity: 30}
	dayDryRun = dryRoutine("day", "MONDAY")
)

func input(c Clock, r Reading, rs *Routines) Input {
	return Input{Clock: c, Reading: r, Bounds: bounds, Routines: rs}
}

func singleEvent(t *testing.T, events []Event, want EventType) Event {
	t.Helper()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d: %+v", len(events), events)
	}
	if events[0].Type != want {
		t.Fatalf("event type: got %s, want %s", events[0].Type, want)
	}
	return events[0]
}

func TestReconcilerStartsOff(t *testing.T) {
	r := NewReconciler()
	s := r.State()
	if s.On || s.Mode != ModeNone || s.ManualDesired {
		t.Errorf("unexpected initial state: %+v", s)
	}
}

func TestReconcileRoutineTurnsOn(t *testing.T) {
	r := NewReconciler()
	d := r.Reconcile(t0, input(monNoon, humid, routines(t, dayDryRun)))

	if !d.State.On || d.State.Mode != ModeDehumidify {
		t.Errorf("state: got %+v, want on/DEHUMIDIFY", d.State)
	}
	if d.Rule != "routine" {
		t.Errorf("Rule: got %q, want routine", d.Rule)
	}
	if d.Match == nil || d.Match.Routine.Name != "day" {
		t.Errorf("Match: got %+v", d.Match)
	}
	e := singleEvent(t, d.Events, EventDeviceOn)
	if e.Routine != "day" || e.Mode != ModeDehumidify || !e.On {
		t.Errorf("event: got %+v", e)
	}
	if !e.Timestamp.Equal(t0) {
		t.Errorf("Timestamp: got %v, want %v", e.Timestamp, t0)
	}
}

func TestReconcileRoutineEndedTurnsOff(t *testing.T) {
	r := NewReconciler()
	rs := routines(t, dayDryRun)
	r.Reconcile(t0, input(monNoon, humid, rs))

	d := r.Reconcile(t0.Add(9*time.Hour), input(monNight, humid, rs))
	if d.State.On {
		t.Error("expected device off after routine window")
	}
	if d.Rule != "routine-ended" {
		t.Errorf("Rule: got %q, want routine-ended", d.Rule)
	}
	singleEvent(t, d.Events, EventDeviceOff)
}

func TestReconcileNoRepeatedEvents(t *testing.T) {
	r := NewReconciler()
	rs := routines(t, dayDryRun)
	r.Reconcile(t0, input(monNoon, humid, rs))
	d := r.Reconcile(t0.Add(10*time.Second), input(monNoon, humid, rs))
	if len(d.Events) != 0 {
		t.Errorf("expected no events for a steady state, got %+v", d.Events)
	}
}

func TestReconcileModeChange(t *testing.T) {
	wet := Routine{Name: "wet", Condition: "40", Days: []string{"MONDAY"}, StartTime: "00:00", EndTime: "23:59", IsActive: true}
	rs := routines(t, dayDryRun, wet)
	r := NewReconciler()
	r.Reconcile(t0, input(monNoon, humid, rs))

	d := r.Reconcile(t0.Add(time.Minute), input(monNoon, dryAir, rs))
	if !d.State.On || d.State.Mode != ModeHumidify {
		t.Errorf("state: got %+v, want on/HUMIDIFY", d.State)
	}
	e := singleEvent(t, d.Events, EventModeChange)
	if e.Routine != "wet" {
		t.Errorf("Routine: got %q, want wet", e.Routine)
	}
}

func TestReconcileUnsafeOverridesRoutineAndManual(t *testing.T) {
	r := NewReconciler()
	rs := routines(t, dayDryRun)
	r.ObserveManual(true, t0)

	d := r.Reconcile(t0, input(monNoon, tooHot, rs))
	if d.State.On {
		t.Error("expected device off when unsafe")
	}
	if d.State.Mode != ModeNone {
		t.Errorf("Mode: got %s, want NONE", d.State.Mode)
	}
	if d.Rule != "safety" {
		t.Errorf("Rule: got %q, want safety", d.Rule)
	}
	if !d.State.ManualDesired {
		t.Error("manual intent should be kept while safety holds the device off")
	}
	e := singleEvent(t, d.Events, EventSafetyTrip)
	if e.Safety == nil || e.Safety.TemperatureOK || !e.Safety.HumidityOK {
		t.Errorf("Safety: got %+v", e.Safety)
	}
}

func TestReconcileUnsafeWhileOffHasNoEvent(t *testing.T) {
	r := NewReconciler()
	d := r.Reconcile(t0, input(monNoon, tooHot, nil))
	if d.State.On {
		t.Error("expected device off")
	}
	if len(d.Events) != 0 {
		t.Errorf("expected no events, got %+v", d.Events)
	}
	if d.Safety.Safe() {
		t.Error("decision should still carry the unsafe report")
	}
}

func TestReconcileManualOnWithoutRoutine(t *testing.T) {
	r := NewReconciler()
	r.ObserveManual(true, t0)

	d := r.Reconcile(t0, input(monNoon, dryAir, nil))
	if !d.State.On || d.State.Mode != ModeDehumidify {
		t.Errorf("state: got %+v, want on/DEHUMIDIFY", d.State)
	}
	if d.Rule != "manual" {
		t.Errorf("Rule: got %q, want manual", d.Rule)
	}
	if len(d.Events) != 0 {
		t.Errorf("expected no events, got %+v", d.Events)
	}
}

func TestReconcileManualResumesAfterSafetyClears(t *testing.T) {
	r := NewReconciler()
	r.ObserveManual(true, t0)
	r.Reconcile(t0, input(monNoon, tooHot, nil))

	d := r.Reconcile(t0.Add(time.Minute), input(monNoon, dryAir, nil))
	if !d.State.On || d.State.Mode != ModeDehumidify {
		t.Errorf("state: got %+v, want on/DEHUMIDIFY", d.State)
	}
	singleEvent(t, d.Events, EventDeviceOn)
}

func TestReconcileRoutineEndsIntoManual(t *testing.T) {
	wet := Routine{Name: "wet", Condition: "40", Days: []string{"MONDAY"}, StartTime: "08:00", EndTime: "20:00", IsActive: true}
	rs := routines(t, wet)
	r := NewReconciler()
	r.ObserveManual(true, t0)
	r.Reconcile(t0, input(monNoon, dryAir, rs))
	if r.State().Mode != ModeHumidify {
		t.Fatalf("routine should win over manual, got %+v", r.State())
	}

	d := r.Reconcile(t0.Add(9*time.Hour), input(monNight, dryAir, rs))
	if !d.State.On || d.State.Mode != ModeDehumidify {
		t.Errorf("state: got %+v, want on/DEHUMIDIFY", d.State)
	}
	if d.Rule != "manual" {
		t.Errorf("Rule: got %q, want manual", d.Rule)
	}
	singleEvent(t, d.Events, EventModeChange)
}

func TestObserveManualEdges(t *testing.T) {
	r := NewReconciler()

	e := singleEvent(t, r.ObserveManual(true, t0), EventManualOn)
	if !e.On || e.Mode != ModeDehumidify {
		t.Errorf("MANUAL_ON event: got %+v", e)
	}
	if s := r.State(); !s.On || s.Mode != ModeDehumidify || !s.ManualDesired {
		t.Errorf("state after on edge: got %+v", s)
	}

	if ev := r.ObserveManual(true, t0.Add(10*time.Second)); ev != nil {
		t.Errorf("expected no event without an edge, got %+v", ev)
	}

	e = singleEvent(t, r.ObserveManual(false, t0.Add(20*time.Second)), EventManualOff)
	if e.On || e.Mode != ModeNone {
		t.Errorf("MANUAL_OFF event: got %+v", e)
	}
	if s := r.State(); s.On || s.Mode != ModeNone || s.ManualDesired {
		t.Errorf("state after off edge: got %+v", s)
	}
}

func TestObserveManualInitialFalseIsNotAnEdge(t *testing.T) {
	r := NewReconciler()
	if ev := r.ObserveManual(false, t0); ev != nil {
		t.Errorf("expected no event, got %+v", ev)
	}
}

func TestManualOffThenRoutineTurnsBackOn(t *testing.T) {
	r := NewReconciler()
	rs := routines(t, dayDryRun)
	r.ObserveManual(true, t0)
	r.ObserveManual(false, t0.Add(time.Second))
	if r.State().On {
		t.Fatal("manual off edge should turn the device off at once")
	}

	d := r.Reconcile(t0.Add(2*time.Second), input(monNoon, humid, rs))
	if !d.State.On || d.Rule != "routine" {
		t.Errorf("routine should turn the device back on, got %+v rule=%s", d.State, d.Rule)
	}
}

func TestManualOffEdgeOverridesRunningRoutineUntilNextTick(t *testing.T) {
	r := NewReconciler()
	rs := routines(t, dayDryRun)
	r.Reconcile(t0, input(monNoon, humid, rs))
	r.ObserveManual(true, t0.Add(time.Second))

	ev := r.ObserveManual(false, t0.Add(2*time.Second))
	singleEvent(t, ev, EventManualOff)
	if r.State().On {
		t.Error("expected off right after the manual off edge")
	}
}

func TestReconcileUpdatesComfortIndex(t *testing.T) {
	r := NewReconciler()
	d := r.Reconcile(t0, input(monNoon, Reading{Temperature: 25, Humidity: 60}, nil))
	if d.State.ICA != 11 {
		t.Errorf("ICA: got %d, want 11", d.State.ICA)
	}
	if d.State.Temperature != 25 || d.State.Humidity != 60 {
		t.Errorf("reading not stored: %+v", d.State)
	}
}

type neverDecides struct{}

func (neverDecides) Name() string           { return "never" }
func (neverDecides) Evaluate(Facts) Verdict { return noVerdict }

func TestReconcilerFallsBackToOff(t *testing.T) {
	r := NewReconcilerWithRules([]Rule{neverDecides{}})
	r.ObserveManual(true, t0)

	d := r.Reconcile(t0, input(monNoon, dryAir, nil))
	if d.State.On {
		t.Error("expected off when no rule decides")
	}
	if d.Rule != "" || d.Reason != "no rule decided" {
		t.Errorf("got rule=%q reason=%q", d.Rule, d.Reason)
	}
	if r.LastRule() != "" {
		t.Errorf("LastRule: got %q", r.LastRule())
	}
}

func TestDeviceStateLabel(t *testing.T) {
	tests := []struct {
		s    DeviceState
		want string
	}{
		{DeviceState{}, "Device OFF"},
		{DeviceState{On: true, Mode: ModeHumidify}, "Humidify ON"},
		{DeviceState{On: true, Mode: ModeDehumidify}, "Dehumidify ON"},
		{DeviceState{On: true, Mode: ModeNone}, "Dehumidify ON"},
		{DeviceState{On: false, Mode: ModeHumidify}, "Device OFF"},
	}
	for _, tt := range tests {
		if got := tt.s.Label(); got != tt.want {
			t.Errorf("Label(%+v): got %q, want %q", tt.s, got, tt.want)
		}
	}
}
