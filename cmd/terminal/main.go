package main

import (
	"flag"
	"log"
	"time"

	"github.com/relabs-tech/rolling_die/internal/app"
	"github.com/relabs-tech/rolling_die/internal/config"
)

func main() {
	configPath := flag.String("config", "./dice_config.txt", "path to configuration file")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	interval := time.Duration(cfg.TickInterval) * time.Millisecond
	if err := app.RunTerminal(cfg.Seed, cfg.StepRadians, interval); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
