package main

import (
	"spice-hr/internal/app"

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

	if err := app.RunNotifier(); err != nil {
		logger.Fatal("run notifier failed", zap.Error(err))
	}
}
