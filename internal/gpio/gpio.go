// Package gpio drives the humidifier output line with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Actuator drives the single humidifier/dehumidifier output.
type Actuator interface {
	// Set drives the output line: true = device running.
	Set(on bool) error

	// Close releases GPIO resources, leaving the output off.
	Close() error
}

// Defaults for a Raspberry Pi header (BCM numbering).
const (
	DefaultChip = "gpiochip0"
	DefaultPin  = 17
)
