// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relabs-tech/rolling_die/internal/config"
	"github.com/relabs-tech/rolling_die/internal/event"
	"github.com/relabs-tech/rolling_die/internal/history"
	"github.com/relabs-tech/rolling_die/internal/random"
	"github.com/relabs-tech/rolling_die/internal/roll"
)

// resultStore is the part of the history store the roller needs.
type resultStore interface {
	Append(ctx context.Context, rec history.Record) (int64, error)
}

// roller owns the die. Every method runs on the tick goroutine.
type roller struct {
	cfg   *config.Config
	anim  *roll.Animator
	pub   publisher
	store resultStore // may be nil
	sink  io.Writer   // may be nil

	seq     uint64
	ticks   int
	started roll.Session
	now     time.Time
}

func newRoller(cfg *config.Config, ctrl *roll.Controller, pub publisher, store resultStore, sink io.Writer) *roller {
	r := &roller{cfg: cfg, pub: pub, store: store, sink: sink}
	r.anim = roll.NewAnimator(ctrl, r.onResult)
	return r
}

// handle applies one request from MQTT.
func (r *roller) handle(req event.RollRequest, now time.Time) {
	r.now = now
	if req.Cancel {
		if !r.anim.Cancel() {
			return
		}
		log.Printf("roller: roll #%d cancelled by %s", r.seq, req.Source)
		r.publishState("cancelled by " + req.Source)
		return
	}

	s, ok := r.anim.Roll()
	if !ok {
		log.Printf("roller: roll request from %s ignored, roll #%d still in flight", req.Source, r.seq)
		return
	}
	r.seq++
	r.ticks = 0
	r.started = s
	log.Printf("roller: roll #%d from %s axis=(%.3f, %.3f, %.3f) target=%.3f rad",
		r.seq, req.Source, s.Axis.X, s.Axis.Y, s.Axis.Z, s.TargetAngle)
	r.publishState("")
}

// tick advances the die by one frame and publishes the new pose.
func (r *roller) tick(now time.Time) {
	if !r.anim.Rolling() {
		return
	}
	r.now = now
	r.ticks++
	progress := 1.0
	if _, done := r.anim.Step(r.cfg.StepRadians); !done {
		progress = r.anim.Session().Progress()
	}

	frame := event.Pose{Seq: r.seq, Pose: r.anim.Pose(), Progress: progress, Time: now}
	if err := r.pub.Publish(r.cfg.TopicPose, false, frame); err != nil {
		log.Printf("roller: %v", err)
	}
}

func (r *roller) onResult(res roll.Result) {
	ev := event.Result{
		Seq:      r.seq,
		Face:     res.Face,
		Pose:     res.Pose,
		Ticks:    r.ticks,
		RolledAt: r.now,
	}
	log.Printf("roller: roll #%d resolved to face %v after %d ticks", r.seq, res.Face, r.ticks)

	if err := r.pub.Publish(r.cfg.TopicResult, true, ev); err != nil {
		log.Printf("roller: %v", err)
	}
	r.publishState("")

	if r.store != nil {
		_, err := r.store.Append(context.Background(), history.Record{
			Face:        res.Face,
			Pose:        res.Pose,
			Axis:        r.started.Axis,
			TargetAngle: r.started.TargetAngle,
			Ticks:       r.ticks,
			RolledAt:    r.now,
		})
		if err != nil {
			log.Printf("roller: history append error: %v", err)
		}
	}
	if r.sink != nil {
		if err := writeFace(r.sink, ev); err != nil {
			log.Printf("roller: serial write error: %v", err)
		}
	}
}

func (r *roller) publishState(reason string) {
	s := r.anim.Session()
	st := event.State{Seq: r.seq, State: s.State, Session: s, Reason: reason, Time: r.now}
	if err := r.pub.Publish(r.cfg.TopicState, true, st); err != nil {
		log.Printf("roller: %v", err)
	}
}

// RunRoller is the roll producer: it listens for roll requests on MQTT,
// animates the die at TICK_INTERVAL and publishes poses and results.
func RunRoller() error {
	log.Println("starting dice roller")

	cfg := config.Get()

	seed, err := random.Resolve(cfg.Seed)
	if err != nil {
		return err
	}
	log.Printf("roller: seed %d", seed)

	var store resultStore
	if cfg.HistoryDBPath != "" {
		s, err := history.Open(cfg.HistoryDBPath)
		if err != nil {
			return fmt.Errorf("history: %w", err)
		}
		defer s.Close()
		store = s
		log.Printf("roller: recording history in %s", cfg.HistoryDBPath)
	}

	var sink io.Writer
	if cfg.SerialPort != "" {
		port, err := OpenSerialSink(cfg.SerialPort, cfg.SerialBaudRate)
		if err != nil {
			return err
		}
		defer port.Close()
		sink = port
	}

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDRoller)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	log.Printf("roller: connected to MQTT broker at %s", cfg.MQTTBroker)

	r := newRoller(cfg, roll.NewSeededController(seed), mqttPublisher{client: client}, store, sink)

	// MQTT callbacks run on paho's goroutines; the die is only touched here.
	requests := make(chan event.RollRequest, 8)
	err = subscribeJSON(client, "roller", cfg.TopicRollRequest, func(req event.RollRequest) {
		select {
		case requests <- req:
		default:
			log.Printf("roller: request queue full, dropping request from %s", req.Source)
		}
	})
	if err != nil {
		return err
	}

	r.publishState("")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(time.Duration(cfg.TickInterval) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case req := <-requests:
			r.handle(req, time.Now())
		case t := <-ticker.C:
			r.tick(t)
		case <-sigCh:
			log.Println("roller: shutting down")
			return nil
		}
	}
}
