package gpio

import "sync"

// FakeActuator is a test double that records every Set call.
type FakeActuator struct {
	mu sync.Mutex

	// History contains every value passed to Set, in order.
	History []bool

	// On is the last value successfully set.
	On bool

	// Closed tracks if Close was called
	Closed bool

	// SetError, if set, will be returned by Set() and the state left unchanged.
	SetError error
}

// NewFakeActuator creates a FakeActuator in the off state.
func NewFakeActuator() *FakeActuator {
	return &FakeActuator{}
}

// Set records the call and updates On.
func (f *FakeActuator) Set(on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.History = append(f.History, on)
	if f.SetError != nil {
		return f.SetError
	}
	f.On = on
	return nil
}

// State returns the last value successfully set.
func (f *FakeActuator) State() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.On
}

// Close turns the output off and marks the actuator as closed.
func (f *FakeActuator) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.On = false
	f.Closed = true
	return nil
}
