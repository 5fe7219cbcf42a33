// Package remote talks to the configuration/telemetry service: device
// safety bounds and manual intent, routine records and sensor uploads.
package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/sweeney/humidistat/internal/logic"
)

// DeviceConfig is the device record held by the service.
type DeviceConfig struct {
	Bounds   logic.SafetyBounds
	ManualOn bool // the user's manual on/off switch
}

// Client is the service API used by the control loop.
type Client interface {
	FetchDevice(ctx context.Context) (DeviceConfig, error)
	FetchRoutines(ctx context.Context) ([]string, error)
	PostReading(ctx context.Context, r logic.Reading, ica int) error
}

// Operation names, used in errors and metrics.
const (
	OpFetchDevice   = "fetch-device"
	OpFetchRoutines = "fetch-routines"
	OpPostReading   = "post-reading"
)

// APIError is a non-success HTTP status from the service.
type APIError struct {
	Op     string
	Status int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
}

// ErrMalformed marks a response that arrived but could not be decoded.
// It does not change the display error.
var ErrMalformed = errors.New("malformed response")

// DisplayCode maps an error to the short text shown on the status display.
// Nil and malformed-response errors map to "".
func DisplayCode(err error) string {
	if err == nil || errors.Is(err, ErrMalformed) {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status == 404 && apiErr.Op == OpFetchDevice {
			return "ERROR: Device 404"
		}
		return fmt.Sprintf("ERROR: Server %d", apiErr.Status)
	}
	return "ERROR: No connection"
}
