package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/CohortApp/internal/config"
	"github.com/GoArmGo/CohortApp/internal/core/ports"
	"github.com/GoArmGo/CohortApp/internal/usecase"
)

// Режимы запуска.
const (
	ModeServer = "server"
	ModeWorker = "worker"
	ModeSeed   = "seed"
)

// Deps содержит собранные контейнером зависимости приложения.
// Consumer равен nil, если RabbitMQ не настроен.
type Deps struct {
	Users    usecase.UserUseCase
	Cohorts  usecase.CohortUseCase
	Posts    usecase.PostUseCase
	Health   ports.HealthChecker
	Consumer ports.UserEventConsumer
	// Closers закрываются в обратном порядке при завершении
	Closers []io.Closer
}

type App struct {
	cfg    *config.Config
	logger *slog.Logger
	deps   Deps
}

func NewApp(cfg *config.Config, logger *slog.Logger, deps Deps) *App {
	return &App{cfg: cfg, logger: logger, deps: deps}
}

// LoggerIns возвращает основной логгер приложения
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run запускает приложение в выбранном режиме и блокируется до SIGINT/SIGTERM
// (режим seed завершается сам).
func (a *App) Run(ctx context.Context, mode string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting", "mode", mode)

	var err error
	switch mode {
	case ModeServer:
		err = runServer(ctx, a.cfg, a.deps, a.logger)
	case ModeWorker:
		err = runWorker(ctx, a.deps.Consumer, a.logger)
	case ModeSeed:
		_, err = runSeed(ctx, a.deps, a.logger)
	default:
		err = fmt.Errorf("unknown mode %q (use %q, %q or %q)", mode, ModeServer, ModeWorker, ModeSeed)
	}

	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("shutdown failed", "error", closeErr)
	}
	if err != nil {
		return err
	}

	a.logger.Info("stopped gracefully", "mode", mode)
	return nil
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() error {
	var errs []error
	for i := len(a.deps.Closers) - 1; i >= 0; i-- {
		if err := a.deps.Closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.deps.Closers = nil
	return errors.Join(errs...)
}
