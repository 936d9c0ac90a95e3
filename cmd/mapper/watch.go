// cmd/mapper/watch.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tamzrod/modbus-mapper/internal/observability"
	"github.com/tamzrod/modbus-mapper/internal/poller"
	"github.com/tamzrod/modbus-mapper/internal/status"
	"github.com/tamzrod/modbus-mapper/internal/writer"
)

// runWatch polls the record forever and maintains the device status block.
func runWatch(args []string) error {
	a, err := load(args[0])
	if err != nil {
		return err
	}
	name := a.schema.Record()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- metrics (optional) ----
	if listen := a.cfg.Metrics.Listen; listen != "" {
		go func() {
			if err := observability.Serve(listen); err != nil {
				log.Error().Err(err).Msg("metrics endpoint failed")
			}
		}()
	}

	// ---- poller ----
	p, closePoller, err := poller.Build(a.cfg, a.codec)
	if err != nil {
		return err
	}
	defer closePoller()

	// ---- status writer (optional) ----
	plan := writer.BuildPlan(a.cfg)

	var statusWriter writer.StatusWriter
	if sp := plan.Status; sp != nil {
		cli, closeStatus, err := writer.BuildEndpointClient(sp.Transport, sp.Endpoint, a.cfg.Device.Timeout())
		if err != nil {
			return err
		}
		defer closeStatus()

		sw, _, err := writer.NewDeviceStatusWriter(plan, cli)
		if err != nil {
			return err
		}
		statusWriter = sw
	}
	statusEnabled := statusWriter != nil

	// ---- channel between poller and orchestrator ----
	out := make(chan poller.PollResult)
	go p.Run(ctx, out)

	log.Info().
		Str("record", name).
		Str("endpoint", a.cfg.Device.Endpoint).
		Dur("interval", a.cfg.Poll.Interval()).
		Bool("status", statusEnabled).
		Msg("watching")

	// Orchestrator (runner-owned state + 1Hz seconds ticker)
	tracker := status.NewTracker()

	secTicker := time.NewTicker(time.Second)
	defer secTicker.Stop()

	writeStatus := func(reason string) {
		if !statusEnabled {
			return
		}
		snap := tracker.Snapshot()
		if err := statusWriter.WriteStatus(snap); err != nil {
			log.Warn().Err(err).Str("record", name).Str("reason", reason).Msg("status write failed")
		}
	}

	// Full block write on start (identity re-assert) if enabled.
	writeStatus("start")

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("record", name).Msg("stopping")
			return nil

		case res := <-out:
			if res.Err != nil {
				log.Warn().Err(res.Err).Str("record", name).Msg("poll failed")
			} else if e := log.Debug(); e.Enabled() {
				logValues(e, res)
			}

			// --- status update (device-level truth) ---
			if tracker.Observe(res.Err) {
				writeStatus("poll")
			}
			observability.RecordSecondsInError(name, tracker.Snapshot().SecondsInError)

		case <-secTicker.C:
			// Tick 1 Hz while not OK.
			if tracker.Tick() {
				writeStatus("tick")
				observability.RecordSecondsInError(name, tracker.Snapshot().SecondsInError)
			}
		}
	}
}

func logValues(e *zerolog.Event, res poller.PollResult) {
	for _, n := range res.Values.Names() {
		v, _ := res.Values.Value(n)
		e = e.Stringer(n, v)
	}
	e.Str("record", res.Name).Time("at", res.At).Msg("poll")
}
