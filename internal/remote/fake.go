package remote

import (
	"context"
	"sync"

	"github.com/sweeney/humidistat/internal/logic"
)

// Posted is one reading received by FakeClient.
type Posted struct {
	Reading logic.Reading
	ICA     int
}

// FakeClient is a test double with settable responses.
type FakeClient struct {
	mu sync.Mutex

	Device      DeviceConfig
	DeviceErr   error
	Routines    []string
	RoutinesErr error
	PostErr     error

	Posts        []Posted
	DeviceCalls  int
	RoutineCalls int
}

// FetchDevice returns Device or DeviceErr.
func (f *FakeClient) FetchDevice(ctx context.Context) (DeviceConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeviceCalls++
	if f.DeviceErr != nil {
		return DeviceConfig{}, f.DeviceErr
	}
	return f.Device, nil
}

// FetchRoutines returns a copy of Routines or RoutinesErr.
func (f *FakeClient) FetchRoutines(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RoutineCalls++
	if f.RoutinesErr != nil {
		return nil, f.RoutinesErr
	}
	return append([]string(nil), f.Routines...), nil
}

// PostReading records the reading and returns PostErr.
func (f *FakeClient) PostReading(ctx context.Context, r logic.Reading, ica int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Posts = append(f.Posts, Posted{Reading: r, ICA: ica})
	return f.PostErr
}

// Set updates the responses under the lock.
func (f *FakeClient) Set(fn func(f *FakeClient)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

// PostCount returns how many readings were posted.
func (f *FakeClient) PostCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Posts)
}
