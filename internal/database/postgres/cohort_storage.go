package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/CohortApp/internal/domain"
	"github.com/GoArmGo/CohortApp/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCohortStorage реализует ports.CohortStorage с использованием GORM
type GormCohortStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewGormCohortStorage(db *gorm.DB, logger *slog.Logger) *GormCohortStorage {
	return &GormCohortStorage{db: db, logger: logger}
}

// withMembers подгружает участников потока вместе с профилями
func withMembers(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Users", func(db *gorm.DB) *gorm.DB { return db.Order("users.id ASC") }).
		Preload("Users.Profile")
}

func (s *GormCohortStorage) CreateCohort(ctx context.Context, cohort *model.Cohort) (*model.Cohort, error) {
	start := time.Now()

	if err := s.db.WithContext(ctx).Omit("Users").Create(cohort).Error; err != nil {
		s.logger.Error("failed to create cohort", "name", cohort.Name, "error", err)
		return nil, fmt.Errorf("create cohort: %w", err)
	}

	s.logger.Info("cohort created",
		"cohort_id", cohort.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return cohort, nil
}

func (s *GormCohortStorage) FindCohort(ctx context.Context, id int64) (*model.Cohort, error) {
	var cohort model.Cohort
	if err := withMembers(s.db.WithContext(ctx)).First(&cohort, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("failed to find cohort", "cohort_id", id, "error", err)
		return nil, fmt.Errorf("find cohort %d: %w", id, err)
	}
	return &cohort, nil
}

func (s *GormCohortStorage) FindCohorts(ctx context.Context) ([]model.Cohort, error) {
	var cohorts []model.Cohort
	if err := withMembers(s.db.WithContext(ctx)).Order("id ASC").Find(&cohorts).Error; err != nil {
		s.logger.Error("failed to list cohorts", "error", err)
		return nil, fmt.Errorf("find cohorts: %w", err)
	}
	return cohorts, nil
}

// UpdateCohort применяет заданные поля. Возвращает (nil, nil), если потока нет.
func (s *GormCohortStorage) UpdateCohort(ctx context.Context, id int64, patch domain.CohortPatch) (*model.Cohort, error) {
	res := s.db.WithContext(ctx).Model(&model.Cohort{ID: id}).Updates(patch.Columns())
	if res.Error != nil {
		s.logger.Error("failed to update cohort", "cohort_id", id, "error", res.Error)
		return nil, fmt.Errorf("update cohort %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	s.logger.Info("cohort updated", "cohort_id", id)
	return s.FindCohort(ctx, id)
}

// DeleteCohort удаляет поток и отвязывает от него пользователей.
// Возвращает удаленную запись или (nil, nil), если потока нет.
func (s *GormCohortStorage) DeleteCohort(ctx context.Context, id int64) (*model.Cohort, error) {
	cohort, err := s.FindCohort(ctx, id)
	if err != nil || cohort == nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cohort_id = ?", id).Delete(&model.CohortUser{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.User{}).Where("cohort_id = ?", id).Update("cohort_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Cohort{}, id).Error
	})
	if err != nil {
		s.logger.Error("failed to delete cohort", "cohort_id", id, "error", err)
		return nil, fmt.Errorf("delete cohort %d: %w", id, err)
	}

	s.logger.Info("cohort deleted", "cohort_id", id)
	return cohort, nil
}

// AddUserToCohort добавляет пользователя в поток и выставляет ему cohort_id
func (s *GormCohortStorage) AddUserToCohort(ctx context.Context, cohortID, userID int64) (*model.Cohort, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&model.Cohort{}, cohortID).Error; err != nil {
			return err
		}
		if err := tx.Select("id").First(&model.User{}, userID).Error; err != nil {
			return err
		}

		link := model.CohortUser{CohortID: cohortID, UserID: userID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{ID: userID}).Update("cohort_id", cohortID).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("add user %d to cohort %d: %w", userID, cohortID, domain.ErrNotFound)
	}
	if err != nil {
		s.logger.Error("failed to add user to cohort", "cohort_id", cohortID, "user_id", userID, "error", err)
		return nil, fmt.Errorf("add user %d to cohort %d: %w", userID, cohortID, err)
	}

	s.logger.Info("user added to cohort", "cohort_id", cohortID, "user_id", userID)
	return s.FindCohort(ctx, cohortID)
}
