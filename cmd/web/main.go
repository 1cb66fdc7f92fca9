// Command web serves the credit risk dashboard API.
package main

import (
	"flag"
	"log/slog"
	"os"

	"creditrisk/internal/app"
	"creditrisk/internal/config"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults to $CREDIT_CONFIG or a common location)")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	application, err := app.NewApplication(cfg)
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
