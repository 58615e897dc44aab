package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/GoArmGo/CohortApp/internal/di"
)

func main() {
	mode := flag.String("mode", "server", "Режим запуска приложения: server, worker или seed")
	flag.Parse()

	// bootstrap-логгер нужен до того, как контейнер соберет основной
	bootstrapLogger := slog.New(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)
	bootstrapLogger.Info("starting application", "mode", *mode)

	ctx := context.Background()

	app, err := di.BuildApp(ctx)
	if err != nil {
		bootstrapLogger.Error("failed to build app", "error", err)
		os.Exit(1)
	}

	log := app.LoggerIns()
	if err := app.Run(ctx, *mode); err != nil {
		log.Error("application run failed", "error", err)
		os.Exit(1)
	}
}
