package main

import (
	"log"

	"github.com/relabs-tech/rolling_die/internal/app"
	"github.com/relabs-tech/rolling_die/internal/config"
)

func main() {
	log.Println("starting rolling-die OLED display (MQTT subscriber)")

	// Load configuration
	if err := config.InitGlobal("dice_config.txt"); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunDisplay(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
