package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sweeney/humidistat/internal/config"
	"github.com/sweeney/humidistat/internal/gpio"
	"github.com/sweeney/humidistat/internal/logic"
	"github.com/sweeney/humidistat/internal/sensor"
)

func newRootCmd() *cobra.Command {
	var configFilename string
	v := viper.New()

	root := &cobra.Command{
		Use:          "humidistat",
		Short:        "Humidifier/dehumidifier controller",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.Init(v, configFilename)
		},
	}
	root.PersistentFlags().StringVar(&configFilename, "config", "", "Configuration file")
	root.PersistentFlags().Bool("debug", false, "Log debug messages")
	root.PersistentFlags().Bool("simulate", false, "Use simulated sensor and actuator")
	_ = v.BindPFlag(config.KeyDebug, root.PersistentFlags().Lookup("debug"))
	_ = v.BindPFlag(config.KeySimulate, root.PersistentFlags().Lookup("simulate"))

	root.AddCommand(newRunCmd(v), newPrintStateCmd(v), newParseRoutineCmd())
	return root
}

func newRunCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the controller",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().String("http", ":8080", `HTTP status address ("" to disable)`)
	cmd.Flags().String("broker", "", `MQTT broker address ("" to disable)`)
	_ = v.BindPFlag(config.KeyHTTPAddr, cmd.Flags().Lookup("http"))
	_ = v.BindPFlag(config.KeyMQTTBroker, cmd.Flags().Lookup("broker"))
	return cmd
}

func newPrintStateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "print-state",
		Short: "Read the sensor once and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			r, err := newSensor(cfg)
			if err != nil {
				return err
			}
			defer r.Close()
			return printState(cmd.OutOrStdout(), r)
		},
	}
}

func newParseRoutineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse-routine <record>",
		Short: "Parse a routine record and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printRoutine(cmd.OutOrStdout(), args[0])
			return nil
		},
	}
}

func newSensor(cfg config.Config) (sensor.Reader, error) {
	if cfg.Simulate {
		return sensor.NewFakeReader(sensor.Sample{Temperature: 22, Humidity: 55}), nil
	}
	r, err := sensor.NewRealReader(cfg.I2CBus)
	if err != nil {
		return nil, fmt.Errorf("init sensor: %w", err)
	}
	return r, nil
}

func newActuator(cfg config.Config) (gpio.Actuator, error) {
	if cfg.Simulate {
		return gpio.NewFakeActuator(), nil
	}
	a, err := gpio.NewRealActuator(cfg.GPIOChip, cfg.ActuatorPin)
	if err != nil {
		return nil, fmt.Errorf("init gpio: %w", err)
	}
	return a, nil
}

func printState(w io.Writer, r sensor.Reader) error {
	reading, err := sensor.ReadSample(r)
	if err != nil {
		return err
	}
	ica := logic.ComfortIndex(reading.Temperature, reading.Humidity)
	fmt.Fprintf(w, "T: %.1fC, H: %.1f%%, ICA: %d\n", reading.Temperature, reading.Humidity, ica)
	return nil
}

func printRoutine(w io.Writer, record string) {
	r, issues := logic.ParseRoutine(record)
	fmt.Fprintf(w, "id:        %d\n", r.ID)
	fmt.Fprintf(w, "name:      %s\n", r.Name)
	fmt.Fprintf(w, "mode:      %s\n", r.Mode())
	fmt.Fprintf(w, "condition: %s (threshold %g)\n", r.Condition, r.Threshold())
	fmt.Fprintf(w, "days:      %s\n", strings.Join(r.Days, ","))
	fmt.Fprintf(w, "window:    %s-%s\n", r.StartTime, r.EndTime)
	fmt.Fprintf(w, "active:    %t\n", r.IsActive)
	for _, issue := range issues {
		fmt.Fprintf(w, "issue:     %s\n", issue)
	}
}
