package main

import (
	"log"

	"meetup_bot/internal/app"
	"meetup_bot/internal/config"
	"meetup_bot/pkg/configwatcher"
	"meetup_bot/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	go configwatcher.WatchConfig("configs/config.yaml", application.ApplyConfig)

	application.Run()
}
