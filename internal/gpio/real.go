//go:build linux

package gpio

import (
	"errors"
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealActuator drives the output line through the Linux GPIO character device.
type RealActuator struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
	pin  int
}

// NewRealActuator requests pin on chip as an output, initially low.
func NewRealActuator(chipName string, pin int) (*RealActuator, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}

	line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0), gpiocdev.WithConsumer("humidistat"))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request output pin %d: %w", pin, err)
	}

	return &RealActuator{chip: chip, line: line, pin: pin}, nil
}

// Set drives the line high when on, low otherwise.
func (a *RealActuator) Set(on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := a.line.SetValue(v); err != nil {
		return fmt.Errorf("set pin %d: %w", a.pin, err)
	}
	return nil
}

// Close drives the line low and hands it back as an input with pull-down,
// matching the Pi boot default so the relay stays released across reboots.
func (a *RealActuator) Close() error {
	var errs []error

	if a.line != nil {
		if err := a.line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("release pin %d: %w", a.pin, err))
		}
		if err := a.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure pin %d: %w", a.pin, err))
		}
		if err := a.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin %d: %w", a.pin, err))
		}
	}
	if a.chip != nil {
		if err := a.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	return errors.Join(errs...)
}
