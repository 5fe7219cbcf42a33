//go:build linux

package sensor

import (
	"errors"
	"fmt"

	"gobot.io/x/gobot/v2/drivers/i2c"
	"gobot.io/x/gobot/v2/platforms/raspi"
)

// RealReader reads an SHT2x sensor through the Raspberry Pi I2C bus.
type RealReader struct {
	adaptor *raspi.Adaptor
	driver  *i2c.SHT2xDriver
}

// NewRealReader connects to the board and starts the SHT2x driver on bus.
func NewRealReader(bus int) (*RealReader, error) {
	r := raspi.NewAdaptor()
	if err := r.Connect(); err != nil {
		return nil, fmt.Errorf("connect raspi adaptor: %w", err)
	}

	d := i2c.NewSHT2xDriver(r, i2c.WithBus(bus))
	if err := d.Start(); err != nil {
		r.Finalize()
		return nil, fmt.Errorf("start sht2x on bus %d: %w", bus, err)
	}

	return &RealReader{adaptor: r, driver: d}, nil
}

// Read returns the temperature and humidity from the sensor.
func (r *RealReader) Read() (float64, float64, error) {
	temp, err := r.driver.Temperature()
	if err != nil {
		return 0, 0, fmt.Errorf("read temperature: %w", err)
	}
	hum, err := r.driver.Humidity()
	if err != nil {
		return 0, 0, fmt.Errorf("read humidity: %w", err)
	}
	return float64(temp), float64(hum), nil
}

// Close halts the driver and releases the adaptor.
func (r *RealReader) Close() error {
	var errs []error
	if err := r.driver.Halt(); err != nil {
		errs = append(errs, fmt.Errorf("halt sht2x: %w", err))
	}
	if err := r.adaptor.Finalize(); err != nil {
		errs = append(errs, fmt.Errorf("finalize adaptor: %w", err))
	}
	return errors.Join(errs...)
}
