package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/CohortApp/internal/domain"
)

const seedPassword = "Testpassword1!"

// seedResult хранит идентификаторы созданных при заполнении записей.
type seedResult struct {
	CohortID  int64
	StudentID int64
	TeacherID int64
	PostIDs   []int64
	CommentID int64
	Skipped   bool
}

// runSeed заполняет пустую бд демонстрационными данными через use case'ы.
// Повторный запуск ничего не делает, если преподаватель уже существует.
func runSeed(ctx context.Context, deps Deps, logger *slog.Logger) (*seedResult, error) {
	existing, err := deps.Users.FindByEmail(ctx, "teacher@test.com")
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	if existing != nil {
		logger.Info("seed data already present, skipping", "teacher_id", existing.ID)
		return &seedResult{Skipped: true}, nil
	}

	cohort, err := deps.Cohorts.Create(ctx, domain.CohortInput{
		Name:      "Web Development",
		StartDate: "2014-06-01",
		EndDate:   "2014-12-01",
	})
	if err != nil {
		return nil, fmt.Errorf("seed cohort: %w", err)
	}
	logger.Info("cohort created", "cohort_id", cohort.ID, "name", cohort.Name)

	student, err := deps.Users.Register(ctx, domain.UserInput{
		FirstName: "Joe",
		LastName:  "Bloggs",
		Email:     "student@test.com",
		Bio:       "Hello, world!",
		GithubURL: "student1",
		Password:  seedPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("seed student: %w", err)
	}
	logger.Info("student created", "user_id", student.ID)

	teacher, err := deps.Users.Register(ctx, domain.UserInput{
		FirstName: "Rick",
		LastName:  "Sanchez",
		Email:     "teacher@test.com",
		Bio:       "Hello there!",
		GithubURL: "teacher1",
		Password:  seedPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("seed teacher: %w", err)
	}
	if teacher, err = deps.Users.UpdateRoleByID(ctx, teacher.ID, domain.RoleTeacher); err != nil {
		return nil, fmt.Errorf("seed teacher role: %w", err)
	}
	logger.Info("teacher created", "user_id", teacher.ID)

	first, err := deps.Posts.CreatePost(ctx, student.ID, "My first post!")
	if err != nil {
		return nil, fmt.Errorf("seed post: %w", err)
	}
	second, err := deps.Posts.CreatePost(ctx, teacher.ID, "Hello, students")
	if err != nil {
		return nil, fmt.Errorf("seed post: %w", err)
	}

	comment, err := deps.Posts.CreateComment(ctx, student.ID, first.ID, "Great post!")
	if err != nil {
		return nil, fmt.Errorf("seed comment: %w", err)
	}

	if _, err := deps.Cohorts.AddUser(ctx, cohort.ID, student.ID); err != nil {
		return nil, fmt.Errorf("seed cohort member: %w", err)
	}
	logger.Info("seed completed", "cohort_id", cohort.ID, "posts", 2, "comments", 1)

	return &seedResult{
		CohortID:  cohort.ID,
		StudentID: student.ID,
		TeacherID: teacher.ID,
		PostIDs:   []int64{first.ID, second.ID},
		CommentID: comment.ID,
	}, nil
}
