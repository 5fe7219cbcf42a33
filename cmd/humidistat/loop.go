package main

import (
	"context"
	"errors"
	"os"
	"syscall"
	"time"

	"github.com/sweeney/humidistat/internal/display"
	"github.com/sweeney/humidistat/internal/gpio"
	"github.com/sweeney/humidistat/internal/logger"
	"github.com/sweeney/humidistat/internal/logic"
	"github.com/sweeney/humidistat/internal/metrics"
	"github.com/sweeney/humidistat/internal/mqtt"
	"github.com/sweeney/humidistat/internal/remote"
	"github.com/sweeney/humidistat/internal/sensor"
	"github.com/sweeney/humidistat/internal/status"
)

// ticks are the loop's three schedules.
type ticks struct {
	sensor  <-chan time.Time
	remote  <-chan time.Time
	control <-chan time.Time
}

// daemon is the state owned by the control loop goroutine.
type daemon struct {
	sensor     sensor.Reader
	actuator   gpio.Actuator
	remote     remote.Client
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker
	metrics    *metrics.Metrics
	log        *logger.Logger
	loc        *time.Location
	server     string // shown on the display
	heartbeat  time.Duration
	now        func() time.Time

	reconciler    *logic.Reconciler
	routines      *logic.Routines
	bounds        logic.SafetyBounds
	reading       logic.Reading
	haveReading   bool
	driven        bool // actuator has been set at least once
	drivenOn      bool
	lastHeartbeat time.Time
}

func runLoop(ctx context.Context, d *daemon, t ticks, sig <-chan os.Signal) error {
	d.lastHeartbeat = d.now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case s := <-sig:
			d.log.Infow("shutting down", "signal", s)
			d.shutdown(signalName(s))
			return nil

		case <-t.sensor:
			d.sample(ctx)

		case <-t.remote:
			d.refresh(ctx)

		case <-t.control:
			d.control()
		}
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}

// sample reads the sensor and uploads the reading. A failed read keeps the
// previous reading.
func (d *daemon) sample(ctx context.Context) {
	at := d.now()
	r, err := sensor.ReadSample(d.sensor)
	if err != nil {
		d.metrics.SensorErrors.Inc()
		d.log.Warnw("sensor read failed", "error", err)
		return
	}
	d.reading = r
	d.haveReading = true
	d.reconciler.UpdateReading(r)
	d.tracker.SetReading(r, at)

	ica := logic.ComfortIndex(r.Temperature, r.Humidity)
	d.metrics.ObserveReading(r, ica)
	d.log.Debugw("reading", "temperature", r.Temperature, "humidity", r.Humidity, "ica", ica)

	d.remoteResult(remote.OpPostReading, d.remote.PostReading(ctx, r, ica), true)
}

// refresh pulls the device record and the routine schedule.
func (d *daemon) refresh(ctx context.Context) {
	dev, err := d.remote.FetchDevice(ctx)
	d.remoteResult(remote.OpFetchDevice, err, true)
	if err == nil {
		d.bounds = dev.Bounds
		d.tracker.SetBounds(dev.Bounds)
		if events := d.reconciler.ObserveManual(dev.ManualOn, d.now()); len(events) > 0 {
			state := d.reconciler.State()
			d.drive(state.On)
			d.tracker.ApplyManual(state, events)
			d.metrics.ObserveState(state)
			d.emit(events)
		}
	}

	records, err := d.remote.FetchRoutines(ctx)
	if err != nil {
		d.remoteResult(remote.OpFetchRoutines, err, false)
		return
	}
	d.setRoutines(logic.BuildRoutines(records))
}

func (d *daemon) setRoutines(rs *logic.Routines, report logic.BuildReport) {
	for _, ri := range report.Issues {
		for _, issue := range ri.Issues {
			d.log.Warnw("routine record issue", "record", ri.Index, "issue", issue.String())
		}
		d.metrics.ParseIssues.Add(float64(len(ri.Issues)))
	}
	if report.Dropped > 0 {
		d.log.Warnw("routine records dropped", "dropped", report.Dropped, "max", logic.MaxRoutines)
	}
	if d.routines.Len() != rs.Len() {
		d.log.Infow("routines updated", "routines", rs.Len(), "skipped", report.Skipped)
	}
	d.routines = rs
	d.tracker.SetRoutines(rs.Len())
	d.metrics.Routines.Set(float64(rs.Len()))
}

// control runs one reconcile pass and redraws the display.
func (d *daemon) control() {
	at := d.now()
	if !d.haveReading {
		d.log.Debugw("waiting for first reading")
	} else {
		dec := d.reconciler.Reconcile(at, logic.Input{
			Clock:    logic.NewClock(at.In(d.loc)),
			Reading:  d.reading,
			Bounds:   d.bounds,
			Routines: d.routines,
		})
		d.drive(dec.State.On)
		d.tracker.ApplyDecision(dec)
		d.metrics.ObserveState(dec.State)
		if !dec.Safety.Safe() && d.bounds != (logic.SafetyBounds{}) {
			d.log.Debugw("unsafe environment", "report", dec.Safety.String())
		}
		d.emit(dec.Events)
	}

	lines := display.Render(display.Screen{
		State:  d.reconciler.State(),
		Error:  d.tracker.APIError(),
		Server: d.server,
	})
	d.tracker.SetDisplay(lines)
	d.log.Debugw("display", "lines", lines)

	d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
	if d.heartbeat > 0 && at.Sub(d.lastHeartbeat) >= d.heartbeat {
		d.lastHeartbeat = at
		d.publishSystem(mqtt.EventHeartbeat, "", false)
	}
}

// drive sets the actuator line when it differs from what was last driven.
func (d *daemon) drive(on bool) {
	if d.driven && d.drivenOn == on {
		return
	}
	if err := d.actuator.Set(on); err != nil {
		d.log.Errorw("actuator set failed", "on", on, "error", err)
		return
	}
	d.driven, d.drivenOn = true, on
}

func (d *daemon) emit(events []logic.Event) {
	if len(events) == 0 {
		return
	}
	d.metrics.ObserveEvents(events)
	for _, e := range events {
		if e.Type == logic.EventSafetyTrip && e.Safety != nil {
			d.log.Warnw("event", "type", e.Type, "mode", e.Mode, "reason", e.Reason, "safety", e.Safety.String())
		} else {
			d.log.Infow("event", "type", e.Type, "on", e.On, "mode", e.Mode, "routine", e.Routine, "reason", e.Reason)
		}
		if err := d.publisher.Publish(e); err != nil {
			// Don't stop the loop on publish failure
			d.log.Warnw("publish failed", "type", e.Type, "error", err)
		}
	}
}

// remoteResult records the outcome of a service call. Malformed responses
// leave the display error as it was.
func (d *daemon) remoteResult(op string, err error, clearOnSuccess bool) {
	if err == nil {
		if clearOnSuccess {
			d.tracker.SetAPIError("")
		}
		return
	}
	d.metrics.RemoteErrors.WithLabelValues(op).Inc()
	d.log.Warnw("remote call failed", "op", op, "error", err)
	if errors.Is(err, remote.ErrMalformed) {
		return
	}
	d.tracker.SetAPIError(remote.DisplayCode(err))
}

func (d *daemon) startup() {
	d.publishSystem(mqtt.EventStartup, "", true)
}

func (d *daemon) shutdown(reason string) {
	d.drive(false)
	d.publishSystem(mqtt.EventShutdown, reason, true)
}

// publishSystem sends a lifecycle event carrying a full status snapshot.
func (d *daemon) publishSystem(event, reason string, retained bool) {
	d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
	if event == mqtt.EventHeartbeat {
		// Refresh network info for heartbeat
		if net := readNetworkInfo(); net != nil {
			d.tracker.SetNetwork(net)
		}
	}
	snap := d.tracker.Snapshot()
	err := d.publisher.PublishSystem(mqtt.SystemEvent{
		Timestamp:  d.now(),
		Event:      event,
		Reason:     reason,
		Retained:   retained,
		RawPayload: status.FormatStatusEvent(snap, event, reason),
	})
	if err != nil {
		d.log.Warnw("failed to publish system event", "event", event, "error", err)
		return
	}
	d.log.Infow("published system event", "event", event)
}
