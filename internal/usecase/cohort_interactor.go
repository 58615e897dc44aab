package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/CohortApp/internal/core/ports"
	"github.com/GoArmGo/CohortApp/internal/domain"
)

// cohortUseCase implements CohortUseCase
type cohortUseCase struct {
	cohortStorage ports.CohortStorage
	logger        *slog.Logger
}

func NewCohortUseCase(cohortStorage ports.CohortStorage, logger *slog.Logger) CohortUseCase {
	return &cohortUseCase{cohortStorage: cohortStorage, logger: logger}
}

func (uc *cohortUseCase) Create(ctx context.Context, in domain.CohortInput) (*domain.Cohort, error) {
	rec, err := in.Record()
	if err != nil {
		return nil, err
	}

	created, err := uc.cohortStorage.CreateCohort(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("usecase: create cohort %q: %w", in.Name, err)
	}

	uc.logger.Info("cohort created", "cohort_id", created.ID, "name", created.Name)
	return domain.CohortFromRecord(created), nil
}

func (uc *cohortUseCase) FindByID(ctx context.Context, id int64) (*domain.Cohort, error) {
	rec, err := uc.cohortStorage.FindCohort(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("usecase: find cohort %d: %w", id, err)
	}
	return domain.CohortFromRecord(rec), nil
}

func (uc *cohortUseCase) FindAll(ctx context.Context) ([]*domain.Cohort, error) {
	recs, err := uc.cohortStorage.FindCohorts(ctx)
	if err != nil {
		return nil, fmt.Errorf("usecase: find cohorts: %w", err)
	}

	cohorts := make([]*domain.Cohort, 0, len(recs))
	for i := range recs {
		cohorts = append(cohorts, domain.CohortFromRecord(&recs[i]))
	}
	return cohorts, nil
}

func (uc *cohortUseCase) Update(ctx context.Context, id int64, in domain.CohortInput) (*domain.Cohort, error) {
	patch, err := in.Patch()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rec, err := uc.cohortStorage.UpdateCohort(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("usecase: update cohort %d: %w", id, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("usecase: update cohort %d: %w", id, domain.ErrNotFound)
	}

	uc.logger.Info("cohort updated",
		"cohort_id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return domain.CohortFromRecord(rec), nil
}

func (uc *cohortUseCase) Delete(ctx context.Context, id int64) (*domain.Cohort, error) {
	rec, err := uc.cohortStorage.DeleteCohort(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("usecase: delete cohort %d: %w", id, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("usecase: delete cohort %d: %w", id, domain.ErrNotFound)
	}

	uc.logger.Info("cohort deleted", "cohort_id", id)
	return domain.CohortFromRecord(rec), nil
}

func (uc *cohortUseCase) AddUser(ctx context.Context, cohortID, userID int64) (*domain.Cohort, error) {
	rec, err := uc.cohortStorage.AddUserToCohort(ctx, cohortID, userID)
	if err != nil {
		return nil, fmt.Errorf("usecase: add user %d to cohort %d: %w", userID, cohortID, err)
	}

	uc.logger.Info("user added to cohort", "cohort_id", cohortID, "user_id", userID)
	return domain.CohortFromRecord(rec), nil
}
