package app

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"spice-hr/internal/leaverequest"
	"spice-hr/internal/notify"
	"spice-hr/internal/shared/connection"

	"go.uber.org/zap"
)

// RunNotifier watches for leave request decisions and fans alerts out over
// Redis pub/sub until signalled.
func RunNotifier() error {
	logger := zap.L().Named("app.notifier")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	interval := notify.DefaultPollInterval
	if raw := os.Getenv("NOTIFY_POLL_INTERVAL_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			interval = time.Duration(secs) * time.Second
		}
	}

	source := notify.NewRepositorySource(leaverequest.NewRepository(gormDB))
	alerter := notify.NewRedisAlerter(redisClient)
	watcher := notify.NewWatcher(source, alerter, interval, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go watcher.Run(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("notifier shutting down")
	cancel()

	return nil
}
