package logic

// Input is everything one reconciliation tick looks at.
type Input struct {
	Clock    Clock
	Reading  Reading
	Bounds   SafetyBounds
	Routines *Routines
}

// Facts is what a Rule sees: the tick input, the state carried over from
// the previous tick and the pre-computed safety report.
type Facts struct {
	Input
	Previous DeviceState
	Safety   SafetyReport
}

// Verdict is a rule's answer. A rule that has nothing to say returns a
// Verdict with Decided == false and the next rule is asked.
type Verdict struct {
	Decided bool
	On      bool
	Mode    Mode
	Reason  string
	Match   *Match
}

// Rule is one step of the precedence list.
type Rule interface {
	Name() string
	Evaluate(Facts) Verdict
}

var noVerdict = Verdict{}

func off(reason string) Verdict {
	return Verdict{Decided: true, On: false, Mode: ModeNone, Reason: reason}
}

func on(mode Mode, reason string) Verdict {
	return Verdict{Decided: true, On: true, Mode: mode, Reason: reason}
}

// DefaultRules returns the precedence list SAFETY > ROUTINE > MANUAL,
// ending with a rule that always decides.
func DefaultRules() []Rule {
	return []Rule{
		SafetyRule{},
		RoutineRule{},
		RoutineEndedRule{},
		ManualRule{},
		IdleRule{},
	}
}

// SafetyRule forces the device off whenever the environment is outside the
// configured bounds, regardless of routine or manual intent.
type SafetyRule struct{}

func (SafetyRule) Name() string { return "safety" }

func (SafetyRule) Evaluate(f Facts) Verdict {
	if f.Safety.Safe() {
		return noVerdict
	}
	return off(f.Safety.String())
}

// RoutineRule turns the device on in the mode of the first matching
// routine. A matching routine overrides a manual off.
type RoutineRule struct{}

func (RoutineRule) Name() string { return "routine" }

func (RoutineRule) Evaluate(f Facts) Verdict {
	m, ok := MatchRoutine(f.Clock, f.Reading, f.Bounds, f.Routines)
	if !ok {
		return noVerdict
	}
	v := on(m.Routine.Mode(), "routine "+quoteName(m.Routine.Name)+" active")
	v.Match = &m
	return v
}

// RoutineEndedRule turns off a device that was running without a manual
// hold once no routine matches any more.
type RoutineEndedRule struct{}

func (RoutineEndedRule) Name() string { return "routine-ended" }

func (RoutineEndedRule) Evaluate(f Facts) Verdict {
	if f.Previous.On && !f.Previous.ManualDesired {
		return off("no active routine")
	}
	return noVerdict
}

// ManualRule keeps the device on while the remote manual intent is set.
// Manual intent only ever selects dehumidify.
type ManualRule struct{}

func (ManualRule) Name() string { return "manual" }

func (ManualRule) Evaluate(f Facts) Verdict {
	if f.Previous.ManualDesired {
		return on(ModeDehumidify, "manual on")
	}
	return noVerdict
}

// IdleRule is the catch-all: nothing asks for the device, so it is off.
type IdleRule struct{}

func (IdleRule) Name() string { return "idle" }

func (IdleRule) Evaluate(Facts) Verdict {
	return off("idle")
}

func quoteName(s string) string {
	return "'" + s + "'"
}
