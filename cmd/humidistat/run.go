package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/sweeney/humidistat/internal/config"
	"github.com/sweeney/humidistat/internal/logger"
	"github.com/sweeney/humidistat/internal/logic"
	"github.com/sweeney/humidistat/internal/metrics"
	"github.com/sweeney/humidistat/internal/mqtt"
	"github.com/sweeney/humidistat/internal/remote"
	"github.com/sweeney/humidistat/internal/routinefile"
	"github.com/sweeney/humidistat/internal/status"
	"github.com/sweeney/humidistat/internal/web"
)

func run(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.New(logger.Level(cfg.Debug))
	defer log.Sync()

	reader, err := newSensor(cfg)
	if err != nil {
		return err
	}
	defer reader.Close()

	actuator, err := newActuator(cfg)
	if err != nil {
		return err
	}
	defer actuator.Close()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	baseURL := cfg.Server.BaseURL()
	client := remote.NewHTTPClient(baseURL, cfg.DeviceID, cfg.Server.APIKey, &http.Client{
		Timeout:   cfg.Server.Timeout,
		Transport: m.InstrumentTransport(http.DefaultTransport),
	})

	var publisher interface {
		mqtt.Publisher
		mqtt.ConnectionStatus
	} = mqtt.NopPublisher{}
	if cfg.MQTTBroker != "" {
		publisher = mqtt.NewRealPublisher(cfg.MQTTBroker, cfg.DeviceID, log)
	}
	defer publisher.Close()

	tracker := status.NewTracker(time.Now(), status.Config{
		DeviceID:    cfg.DeviceID,
		Server:      baseURL,
		SensorMs:    cfg.Interval.Sensor.Milliseconds(),
		RemoteMs:    cfg.Interval.Remote.Milliseconds(),
		ControlMs:   cfg.Interval.Control.Milliseconds(),
		HeartbeatMs: cfg.Interval.Heartbeat.Milliseconds(),
		Broker:      cfg.MQTTBroker,
		HTTPPort:    cfg.HTTPAddr,
		Simulate:    cfg.Simulate,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	d := &daemon{
		sensor:     reader,
		actuator:   actuator,
		remote:     client,
		publisher:  publisher,
		mqttStatus: publisher,
		tracker:    tracker,
		metrics:    m,
		log:        log.Component("loop"),
		loc:        cfg.Location,
		server:     cfg.Server.Address,
		heartbeat:  cfg.Interval.Heartbeat,
		now:        time.Now,
		reconciler: logic.NewReconciler(),
	}

	if cfg.RoutinesFile != "" {
		rs, report, err := routinefile.Load(cfg.RoutinesFile)
		if err != nil {
			return err
		}
		d.setRoutines(rs, report)
		log.Infow("loaded seed routines", "file", cfg.RoutinesFile, "routines", rs.Len())
	}

	log.Infow("connecting", "server", baseURL, "device", cfg.DeviceID, "timezone", cfg.Location.String(), "simulate", cfg.Simulate)
	d.drive(false)
	d.startup()

	sensorTick := time.NewTicker(cfg.Interval.Sensor)
	defer sensorTick.Stop()
	remoteTick := time.NewTicker(cfg.Interval.Remote)
	defer remoteTick.Stop()
	controlTick := time.NewTicker(cfg.Interval.Control)
	defer controlTick.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	g, gctx := errgroup.WithContext(ctx)

	var srv *web.Server
	if cfg.HTTPAddr != "" {
		srv = web.New(cfg.HTTPAddr, tracker, reg)
		g.Go(func() error {
			log.Infow("http status server listening", "addr", cfg.HTTPAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		err := runLoop(gctx, d, ticks{
			sensor:  sensorTick.C,
			remote:  remoteTick.C,
			control: controlTick.C,
		}, sigCh)
		if srv != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}
		return err
	})

	return g.Wait()
}
