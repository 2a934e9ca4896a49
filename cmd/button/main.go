// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/rolling_die/internal/app"
	"github.com/relabs-tech/rolling_die/internal/config"
)

func main() {
	configPath := flag.String("config", "./dice_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting rolling-die button (GPIO → MQTT roll requests)")

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunButton(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
