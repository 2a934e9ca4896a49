// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/relabs-tech/rolling_die/internal/app"
	"github.com/relabs-tech/rolling_die/internal/config"
)

func main() {
	configPath := flag.String("config", "./dice_config.txt", "path to configuration file")
	rolls := flag.Int("n", 1, "number of rolls")
	flag.Parse()

	log.Println("starting rolling-die (local console)")

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	interval := time.Duration(cfg.TickInterval) * time.Millisecond
	if err := app.RunMockConsole(*rolls, cfg.Seed, cfg.StepRadians, interval, os.Stdout); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
