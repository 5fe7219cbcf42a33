package logic

import "time"

// Decision is the outcome of one reconciliation tick.
type Decision struct {
	State  DeviceState
	Rule   string // name of the rule that decided
	Reason string
	Match  *Match // matched routine, if the routine rule decided
	Safety SafetyReport
	Events []Event
}

// Reconciler owns the device state and derives it on every tick from the
// safety bounds, the routine schedule and the remote manual intent.
type Reconciler struct {
	rules        []Rule
	state        DeviceState
	lastManual   bool
	lastDecision string
}

// NewReconciler creates a reconciler with the default precedence rules.
// The device starts off with no manual intent.
func NewReconciler() *Reconciler {
	return NewReconcilerWithRules(DefaultRules())
}

// NewReconcilerWithRules creates a reconciler with a custom rule list.
// The list should end with a rule that always decides; if none decides the
// device is turned off.
func NewReconcilerWithRules(rules []Rule) *Reconciler {
	return &Reconciler{
		rules: rules,
		state: DeviceState{Mode: ModeNone},
	}
}

// State returns a copy of the current device state.
func (r *Reconciler) State() DeviceState {
	return r.state
}

// UpdateReading stores the latest sensor sample and its comfort index.
func (r *Reconciler) UpdateReading(reading Reading) {
	r.state.Temperature = reading.Temperature
	r.state.Humidity = reading.Humidity
	r.state.ICA = ComfortIndex(reading.Temperature, reading.Humidity)
}

// ObserveManual records the remote manual intent. A change since the last
// observation takes effect at once: false→true turns the device on in
// dehumidify mode, true→false turns it off. Without a change nothing
// happens here; the next Reconcile applies the usual precedence.
func (r *Reconciler) ObserveManual(desired bool, at time.Time) []Event {
	r.state.ManualDesired = desired
	if desired == r.lastManual {
		return nil
	}
	r.lastManual = desired

	if desired {
		r.state.On = true
		r.state.Mode = ModeDehumidify
		return []Event{r.event(at, EventManualOn, "manual on requested", "")}
	}
	r.state.On = false
	r.state.Mode = ModeNone
	return []Event{r.event(at, EventManualOff, "manual off requested", "")}
}

// Reconcile runs the rule list top-down and applies the first verdict.
func (r *Reconciler) Reconcile(at time.Time, in Input) Decision {
	r.UpdateReading(in.Reading)
	prev := r.state

	facts := Facts{
		Input:    in,
		Previous: prev,
		Safety:   CheckSafety(in.Reading, in.Bounds),
	}

	verdict, ruleName := off("no rule decided"), ""
	for _, rule := range r.rules {
		if v := rule.Evaluate(facts); v.Decided {
			verdict, ruleName = v, rule.Name()
			break
		}
	}

	r.state.On = verdict.On
	r.state.Mode = verdict.Mode
	r.lastDecision = ruleName

	d := Decision{
		State:  r.state,
		Rule:   ruleName,
		Reason: verdict.Reason,
		Match:  verdict.Match,
		Safety: facts.Safety,
	}

	routine := ""
	if verdict.Match != nil {
		routine = verdict.Match.Routine.Name
	}

	switch {
	case prev.On && !r.state.On && !facts.Safety.Safe():
		e := r.event(at, EventSafetyTrip, verdict.Reason, "")
		report := facts.Safety
		e.Safety = &report
		d.Events = append(d.Events, e)
	case !prev.On && r.state.On:
		d.Events = append(d.Events, r.event(at, EventDeviceOn, verdict.Reason, routine))
	case prev.On && !r.state.On:
		d.Events = append(d.Events, r.event(at, EventDeviceOff, verdict.Reason, routine))
	case prev.On && r.state.On && prev.Mode != r.state.Mode:
		d.Events = append(d.Events, r.event(at, EventModeChange, verdict.Reason, routine))
	}
	return d
}

// LastRule returns the name of the rule that decided the last tick.
func (r *Reconciler) LastRule() string {
	return r.lastDecision
}

func (r *Reconciler) event(at time.Time, typ EventType, reason, routine string) Event {
	return Event{
		Timestamp: at,
		Type:      typ,
		On:        r.state.On,
		Mode:      r.state.Mode,
		Reason:    reason,
		Routine:   routine,
	}
}
