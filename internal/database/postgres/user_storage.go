package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GoArmGo/CohortApp/internal/core/ports"
	"github.com/GoArmGo/CohortApp/internal/domain"
	"github.com/GoArmGo/CohortApp/internal/model"
	"gorm.io/gorm"
)

// GormUserStorage реализует интерфейс ports.UserStorage с использованием GORM
type GormUserStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewGormUserStorage создает новый экземпляр GormUserStorage
func NewGormUserStorage(db *gorm.DB, logger *slog.Logger) *GormUserStorage {
	return &GormUserStorage{db: db, logger: logger}
}

// CreateUser сохраняет пользователя и его профиль одной операцией
func (s *GormUserStorage) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	start := time.Now()

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.logger.Warn("user already exists", "email", user.Email)
			return nil, fmt.Errorf("create user %s: %w", user.Email, ports.ErrDuplicate)
		}
		s.logger.Error("failed to create user", "email", user.Email, "error", err)
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user created",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return user, nil
}

// FindUser ищет пользователя по id или email
func (s *GormUserStorage) FindUser(ctx context.Context, where model.UserWhere) (*model.User, error) {
	q := s.db.WithContext(ctx).Preload("Profile")

	switch {
	case where.ID != 0:
		q = q.Where("id = ?", where.ID)
	case where.Email != "":
		q = q.Where("email = ?", where.Email)
	default:
		return nil, errors.New("find user: empty lookup key")
	}

	var user model.User
	if err := q.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("failed to find user", "id", where.ID, "error", err)
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// FindUsers возвращает пользователей, при заданном фильтре
// тех, у кого имя содержит подстроку без учета регистра
func (s *GormUserStorage) FindUsers(ctx context.Context, filter model.UserFilter) ([]model.User, error) {
	start := time.Now()

	q := s.db.WithContext(ctx).Preload("Profile").Order("id ASC")
	if filter.FirstNameContains != "" {
		names := s.db.Model(&model.Profile{}).
			Select("user_id").
			Where("first_name ILIKE ?", "%"+escapeLike(filter.FirstNameContains)+"%")
		q = q.Where("id IN (?)", names)
	}

	var users []model.User
	if err := q.Find(&users).Error; err != nil {
		s.logger.Error("failed to list users", "first_name", filter.FirstNameContains, "error", err)
		return nil, fmt.Errorf("find users: %w", err)
	}

	s.logger.Debug("users listed",
		"first_name", filter.FirstNameContains,
		"count", len(users),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return users, nil
}

// UpdateUser применяет патч к users и profiles в одной транзакции.
// Возвращает (nil, nil), если пользователя нет.
func (s *GormUserStorage) UpdateUser(ctx context.Context, id int64, patch domain.UserPatch) (*model.User, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.User
		if err := tx.Select("id").First(&existing, id).Error; err != nil {
			return err
		}

		if cols := patch.UserColumns(); len(cols) > 0 {
			if err := tx.Model(&model.User{ID: id}).Updates(cols).Error; err != nil {
				return err
			}
		}

		cols := patch.ProfileColumns()
		if len(cols) == 0 {
			return nil
		}
		res := tx.Model(&model.Profile{}).Where("user_id = ?", id).Updates(cols)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			cols["user_id"] = id
			return tx.Model(&model.Profile{}).Create(cols).Error
		}
		return nil
	})

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return nil, fmt.Errorf("update user %d: %w", id, ports.ErrDuplicate)
	case err != nil:
		s.logger.Error("failed to update user", "user_id", id, "error", err)
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}

	s.logger.Info("user updated", "user_id", id)
	return s.FindUser(ctx, model.UserWhere{ID: id})
}

// escapeLike экранирует спецсимволы LIKE во вводе пользователя
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
