package main

import (
	"os"

	"github.com/DRSN-tech/go-cart/internal/app"
	config "github.com/DRSN-tech/go-cart/internal/cfg"
	"github.com/DRSN-tech/go-cart/pkg/logger"
)

func main() {
	log := logger.NewSlogLogger()

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	// уровень берётся из конфига, чтобы LOG_LEVEL из .env тоже учитывался
	log = logger.NewSlogLogger(logger.WithLevel(cfg.LogLevel))

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		os.Exit(1)
	}
}
