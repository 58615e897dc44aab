package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/CohortApp/internal/config"
	"github.com/GoArmGo/CohortApp/internal/database/postgres"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Client держит пул соединений с PostgreSQL.
// sqlx.DB используется для миграций и health-check, GORM работает поверх того же пула.
type Client struct {
	DB     *sqlx.DB
	Gorm   *gorm.DB
	logger *slog.Logger
}

// NewClient инициализирует новое подключение к PostgreSQL и применяет миграции
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	start := time.Now()

	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open PostgreSQL connection", "error", err)
		return nil, fmt.Errorf("open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := postgres.ApplyMigrations(db.DB, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	gormDB, err := OpenGorm(db, gormlogger.Default.LogMode(gormlogger.Warn))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("PostgreSQL connection established successfully",
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Client{DB: db, Gorm: gormDB, logger: logger}, nil
}

// OpenGorm открывает GORM поверх существующего пула.
// TranslateError нужен, чтобы получать gorm.ErrDuplicatedKey на нарушении уникальности.
func OpenGorm(db *sqlx.DB, log gormlogger.Interface) (*gorm.DB, error) {
	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{
		Logger:         log,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	return gormDB, nil
}

// Ping проверяет доступность бд, используется в /healthz
func (c *Client) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *Client) Close() error {
	start := time.Now()
	err := c.DB.Close()
	if err != nil {
		c.logger.Error("failed to close database connection", "error", err)
		return err
	}
	c.logger.Info("database connection closed", "duration_ms", time.Since(start).Milliseconds())
	return nil
}
