package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/moosahu/chemistry-bot-sub002/internal/app"
	"github.com/moosahu/chemistry-bot-sub002/internal/infra/logger"
)

func main() {
	// .env не обязателен, переменные могут прийти из окружения напрямую
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/values_examples.yaml"
	}

	log := logger.New(os.Stdout, slog.LevelDebug)

	application, err := app.NewApp(configPath, log)
	if err != nil {
		log.Error("failed to initialize application", "err", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.ListenAndServeTelegram(); err != nil {
		log.Error("bot stopped with error", "err", err)
		os.Exit(1)
	}
}
