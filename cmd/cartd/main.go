package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/vladislavdragonenkov/markethub/internal/app"
	"github.com/vladislavdragonenkov/markethub/internal/version"
)

// setupLogger настраивает формат и уровень логирования для сервиса.
func setupLogger(level string) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(parseLevel(level))
}

// parseLevel разбирает уровень логирования; неизвестное значение даёт info.
func parseLevel(level string) log.Level {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return log.InfoLevel
	}
	return parsed
}

// readConfig разбирает флаги и переменные MARKETHUB_* поверх значений по умолчанию.
func readConfig(args []string) (app.Config, error) {
	fs := pflag.NewFlagSet("cartd", pflag.ContinueOnError)
	app.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return app.Config{}, err
	}
	return app.LoadConfig(fs)
}

func main() {
	cfg, err := readConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.WithError(err).Fatal("не удалось загрузить конфигурацию")
	}
	setupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"http_addr":      cfg.HTTPAddr,
		"metrics_addr":   cfg.MetricsAddr,
		"probe_addr":     cfg.ProbeAddr,
		"storage_driver": cfg.Storage.Driver,
		"remote_api":     cfg.APIBaseURL != "",
		"version":        version.GetVersion(),
	}).Info("запускаем cartd")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("cartd остановлен")
}
