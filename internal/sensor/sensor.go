// Package sensor reads temperature and relative humidity with hardware
// abstraction. The real implementation talks to an SHT2x over I2C.
package sensor

import (
	"errors"
	"fmt"
	"math"

	"github.com/sweeney/humidistat/internal/logic"
)

// Reader reads one temperature/humidity sample.
type Reader interface {
	// Read returns (temperature °C, relative humidity %, error).
	Read() (float64, float64, error)

	// Close releases sensor resources.
	Close() error
}

// ErrInvalidReading is returned by ReadSample when the sensor answered with NaN.
var ErrInvalidReading = errors.New("sensor returned NaN")

// ReadSample reads r once and rejects failed or NaN readings.
func ReadSample(r Reader) (logic.Reading, error) {
	temp, hum, err := r.Read()
	if err != nil {
		return logic.Reading{}, fmt.Errorf("read sensor: %w", err)
	}
	if math.IsNaN(temp) || math.IsNaN(hum) {
		return logic.Reading{}, ErrInvalidReading
	}
	return logic.Reading{Temperature: temp, Humidity: hum}, nil
}

// DefaultI2CBus is the I2C bus exposed on the Raspberry Pi header.
const DefaultI2CBus = 1
