package main

import (
	"log"

	"github.com/joho/godotenv"

	corecmd "github.com/sporttich/sportbot/core/cmd"
	"github.com/sporttich/sportbot/internal/app"
)

func main() {
	// Local development convenience, absent files are fine.
	_ = godotenv.Load()

	err := corecmd.Run(corecmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return app.LoadConfig(path)
		},
		Bootstrap: func(cfg corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			return app.New(cfg.(*app.Config))
		},
	})
	if err != nil {
		log.Fatal(err)
	}
}
