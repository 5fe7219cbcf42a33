// Package config loads the daemon configuration through viper.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // boards without a zoneinfo database

	"github.com/spf13/viper"
)

// Keys
const (
	KeyDeviceID          = "device.id"
	KeyServerAddress     = "server.address"
	KeyServerPort        = "server.port"
	KeyServerAPIKey      = "server.apiKey"
	KeyServerTimeout     = "server.timeout"
	KeyIntervalSensor    = "interval.sensor"
	KeyIntervalRemote    = "interval.remote"
	KeyIntervalControl   = "interval.control"
	KeyIntervalHeartbeat = "interval.heartbeat"
	KeyTimezone          = "clock.timezone"
	KeyGPIOChip          = "gpio.chip"
	KeyGPIOActuatorPin   = "gpio.actuatorPin"
	KeySensorI2CBus      = "sensor.i2cBus"
	KeySimulate          = "simulate"
	KeyMQTTBroker        = "mqtt.broker"
	KeyHTTPAddr          = "http.addr"
	KeyRoutinesFile      = "routines.file"
	KeyDebug             = "debug"
)

// EnvPrefix is prepended to every environment override,
// e.g. HUMIDISTAT_SERVER_ADDRESS.
const EnvPrefix = "HUMIDISTAT"

var defaults = map[string]any{
	KeyDeviceID:          "",
	KeyServerAddress:     "",
	KeyServerPort:        5000,
	KeyServerAPIKey:      "",
	KeyServerTimeout:     5 * time.Second,
	KeyIntervalSensor:    5 * time.Second,
	KeyIntervalRemote:    10 * time.Second,
	KeyIntervalControl:   10 * time.Second,
	KeyIntervalHeartbeat: 15 * time.Minute,
	KeyTimezone:          "Etc/GMT+5",
	KeyGPIOChip:          "gpiochip0",
	KeyGPIOActuatorPin:   17,
	KeySensorI2CBus:      1,
	KeySimulate:          false,
	KeyMQTTBroker:        "",
	KeyHTTPAddr:          ":8080",
	KeyRoutinesFile:      "",
	KeyDebug:             false,
}

// Server is the remote configuration/telemetry service.
type Server struct {
	Address string
	Port    int
	APIKey  string
	Timeout time.Duration
}

// BaseURL returns http://address:port.
func (s Server) BaseURL() string {
	return "http://" + net.JoinHostPort(s.Address, strconv.Itoa(s.Port))
}

// Intervals are the periods of the control loop's tickers.
type Intervals struct {
	Sensor    time.Duration
	Remote    time.Duration
	Control   time.Duration
	Heartbeat time.Duration // 0 disables heartbeats
}

// Config is the resolved daemon configuration.
type Config struct {
	DeviceID     string
	Server       Server
	Interval     Intervals
	Location     *time.Location
	GPIOChip     string
	ActuatorPin  int
	I2CBus       int
	Simulate     bool
	MQTTBroker   string // empty disables MQTT
	HTTPAddr     string // empty disables the status server
	RoutinesFile string // optional YAML seed routines
	Debug        bool
}

// SetDefaults registers every default with v.
func SetDefaults(v *viper.Viper) {
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
}

// Init prepares v: defaults, environment overrides and the config file.
// With an empty filename the standard locations are searched and a missing
// file is not an error.
func Init(v *viper.Viper, filename string) error {
	SetDefaults(v)

	if filename != "" {
		v.SetConfigFile(filename)
	} else {
		v.AddConfigPath("/etc/humidistat/")
		v.AddConfigPath("$HOME/.humidistat")
		v.AddConfigPath(".")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if filename == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load resolves v into a Config. It does not validate.
func Load(v *viper.Viper) (Config, error) {
	loc, err := time.LoadLocation(v.GetString(KeyTimezone))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", KeyTimezone, err)
	}

	return Config{
		DeviceID: v.GetString(KeyDeviceID),
		Server: Server{
			Address: v.GetString(KeyServerAddress),
			Port:    v.GetInt(KeyServerPort),
			APIKey:  v.GetString(KeyServerAPIKey),
			Timeout: v.GetDuration(KeyServerTimeout),
		},
		Interval: Intervals{
			Sensor:    v.GetDuration(KeyIntervalSensor),
			Remote:    v.GetDuration(KeyIntervalRemote),
			Control:   v.GetDuration(KeyIntervalControl),
			Heartbeat: v.GetDuration(KeyIntervalHeartbeat),
		},
		Location:     loc,
		GPIOChip:     v.GetString(KeyGPIOChip),
		ActuatorPin:  v.GetInt(KeyGPIOActuatorPin),
		I2CBus:       v.GetInt(KeySensorI2CBus),
		Simulate:     v.GetBool(KeySimulate),
		MQTTBroker:   v.GetString(KeyMQTTBroker),
		HTTPAddr:     v.GetString(KeyHTTPAddr),
		RoutinesFile: v.GetString(KeyRoutinesFile),
		Debug:        v.GetBool(KeyDebug),
	}, nil
}

// Validate checks what the run command needs.
func (c Config) Validate() error {
	var errs []error
	if c.DeviceID == "" {
		errs = append(errs, fmt.Errorf("%s is required", KeyDeviceID))
	}
	if c.Server.Address == "" {
		errs = append(errs, fmt.Errorf("%s is required", KeyServerAddress))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("%s: invalid port %d", KeyServerPort, c.Server.Port))
	}
	for key, d := range map[string]time.Duration{
		KeyIntervalSensor:  c.Interval.Sensor,
		KeyIntervalRemote:  c.Interval.Remote,
		KeyIntervalControl: c.Interval.Control,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", key))
		}
	}
	if c.Interval.Heartbeat < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", KeyIntervalHeartbeat))
	}
	return errors.Join(errs...)
}
