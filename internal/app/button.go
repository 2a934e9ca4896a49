// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/rolling_die/internal/config"
	"github.com/relabs-tech/rolling_die/internal/event"
)

// debouncer accepts one press per window.
type debouncer struct {
	window time.Duration
	last   time.Time
	seen   bool
}

func (d *debouncer) accept(now time.Time) bool {
	if d.seen && now.Sub(d.last) < d.window {
		return false
	}
	d.last, d.seen = now, true
	return true
}

// buttonPresses turns accepted edges into roll requests.
func buttonPresses(edges <-chan time.Time, window time.Duration, pub publisher, topic string) {
	d := &debouncer{window: window}
	for t := range edges {
		if !d.accept(t) {
			continue
		}
		log.Println("button: pressed")
		if err := pub.Publish(topic, false, event.RollRequest{Source: "button", Time: t}); err != nil {
			log.Printf("button: %v", err)
		}
	}
}

// RunButton publishes a roll request for every press of the GPIO button.
// The pin is pulled up and the button shorts it to ground.
func RunButton() error {
	cfg := config.Get()

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	pin := gpioreg.ByName(cfg.ButtonGPIOPin)
	if pin == nil {
		return fmt.Errorf("unknown GPIO pin %q", cfg.ButtonGPIOPin)
	}
	if err := pin.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		return fmt.Errorf("configure %s: %w", pin, err)
	}
	log.Printf("button: waiting for presses on %s", pin)

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDButton)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	log.Printf("button: connected to MQTT broker at %s", cfg.MQTTBroker)

	edges := make(chan time.Time, 4)
	go func() {
		for {
			if pin.WaitForEdge(-1) {
				select {
				case edges <- time.Now():
				default:
				}
			}
		}
	}()
	go buttonPresses(edges, time.Duration(cfg.ButtonDebounce)*time.Millisecond, mqttPublisher{client: client}, cfg.TopicRollRequest)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("button: shutting down")
	return pin.Halt()
}
