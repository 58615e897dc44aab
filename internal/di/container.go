package di

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/GoArmGo/CohortApp/internal/adapter/storage/minio"
	"github.com/GoArmGo/CohortApp/internal/app"
	"github.com/GoArmGo/CohortApp/internal/config"
	"github.com/GoArmGo/CohortApp/internal/core/ports"
	"github.com/GoArmGo/CohortApp/internal/database/client"
	"github.com/GoArmGo/CohortApp/internal/database/memory"
	"github.com/GoArmGo/CohortApp/internal/database/postgres"
	"github.com/GoArmGo/CohortApp/internal/logger"
	"github.com/GoArmGo/CohortApp/internal/rabbitmq"
	"github.com/GoArmGo/CohortApp/internal/usecase"
)

// storages объединяет хранилища, за которыми стоит один и тот же backend.
type storages struct {
	users    ports.UserStorage
	cohorts  ports.CohortStorage
	posts    ports.PostStorage
	comments ports.CommentStorage
	health   ports.HealthChecker
	closer   io.Closer
}

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
func BuildApp(ctx context.Context) (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	var closers []io.Closer
	fail := func(err error) (*app.App, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i].Close()
		}
		return nil, err
	}

	// 2. Хранилища
	st, err := buildStorages(cfg, slogger)
	if err != nil {
		return nil, err
	}
	if st.closer != nil {
		closers = append(closers, st.closer)
	}

	// 3. Файловое хранилище для аватаров (опционально).
	// Интерфейс остается nil, а не typed-nil, если MinIO не настроен.
	var fileStorage ports.FileStorage
	if cfg.MinioEnabled() {
		minioClient, err := minio.NewMinioClient(ctx, cfg, slogger)
		if err != nil {
			return fail(err)
		}
		fileStorage = minioClient
	} else {
		slogger.Warn("MinIO is not configured, avatar upload disabled")
	}

	// 4. RabbitMQ (опционально)
	var (
		publisher ports.UserEventPublisher
		consumer  ports.UserEventConsumer
	)
	if cfg.RabbitMQEnabled() {
		rabbitMQClient, err := rabbitmq.NewClient(cfg, slogger)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, rabbitMQClient)
		publisher = rabbitMQClient
		consumer = rabbitMQClient
	} else {
		slogger.Warn("RabbitMQ is not configured, user events are not published")
	}

	// 5. Бизнес-логика
	deps := app.Deps{
		Users:    usecase.NewUserUseCase(st.users, fileStorage, publisher, slogger),
		Cohorts:  usecase.NewCohortUseCase(st.cohorts, slogger),
		Posts:    usecase.NewPostUseCase(st.posts, st.comments, slogger),
		Health:   st.health,
		Consumer: consumer,
		Closers:  closers,
	}

	slogger.Info("all dependencies initialized", "storage", cfg.StorageDriver)
	return app.NewApp(cfg, slogger, deps), nil
}

func buildStorages(cfg *config.Config, logger *slog.Logger) (*storages, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		store := memory.New()
		return &storages{
			users:    store,
			cohorts:  store,
			posts:    store,
			comments: store,
			health:   store,
		}, nil

	case config.StoragePostgres:
		dbClient, err := client.NewClient(cfg, logger)
		if err != nil {
			return nil, err
		}
		posts := postgres.NewGormPostStorage(dbClient.Gorm, logger)
		return &storages{
			users:    postgres.NewGormUserStorage(dbClient.Gorm, logger),
			cohorts:  postgres.NewGormCohortStorage(dbClient.Gorm, logger),
			posts:    posts,
			comments: posts,
			health:   dbClient,
			closer:   dbClient,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
