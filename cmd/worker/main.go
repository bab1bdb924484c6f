package main

import (
	"jjc-attendance/internal/app"
	"jjc-attendance/internal/config"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := app.RunWorker(config.Load()); err != nil {
		logger.Fatal("worker failed", zap.Error(err))
	}
}
