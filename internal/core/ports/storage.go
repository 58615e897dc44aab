package ports

import (
	"context"
	"errors"
	"io"

	"github.com/GoArmGo/CohortApp/internal/domain"
	"github.com/GoArmGo/CohortApp/internal/model"
)

// ErrDuplicate возвращается хранилищем при нарушении уникальности.
var ErrDuplicate = errors.New("duplicate record")

// UserStorage определяет методы для взаимодействия с хранилищем пользователей.
// Поиск одной записи возвращает (nil, nil), если ее нет.
type UserStorage interface {
	// CreateUser сохраняет пользователя вместе с профилем и возвращает запись из бд
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	FindUser(ctx context.Context, where model.UserWhere) (*model.User, error)
	FindUsers(ctx context.Context, filter model.UserFilter) ([]model.User, error)
	// UpdateUser применяет только заданные поля патча
	UpdateUser(ctx context.Context, id int64, patch domain.UserPatch) (*model.User, error)
}

// CohortStorage определяет методы для работы с потоками.
// Записи возвращаются вместе с участниками и их профилями.
type CohortStorage interface {
	CreateCohort(ctx context.Context, cohort *model.Cohort) (*model.Cohort, error)
	FindCohort(ctx context.Context, id int64) (*model.Cohort, error)
	FindCohorts(ctx context.Context) ([]model.Cohort, error)
	UpdateCohort(ctx context.Context, id int64, patch domain.CohortPatch) (*model.Cohort, error)
	DeleteCohort(ctx context.Context, id int64) (*model.Cohort, error)
	// AddUserToCohort связывает пользователя с потоком и делает его текущим потоком пользователя
	AddUserToCohort(ctx context.Context, cohortID, userID int64) (*model.Cohort, error)
}

// PostStorage определяет методы для работы с постами. Посты возвращаются с автором.
type PostStorage interface {
	CreatePost(ctx context.Context, post *model.Post) (*model.Post, error)
	FindPost(ctx context.Context, id int64) (*model.Post, error)
	FindPosts(ctx context.Context, filter model.PostFilter) ([]model.Post, error)
}

// CommentStorage определяет методы для работы с комментариями.
type CommentStorage interface {
	CreateComment(ctx context.Context, comment *model.Comment) (*model.Comment, error)
	// FindCommentsByPost возвращает комментарии по возрастанию даты создания
	FindCommentsByPost(ctx context.Context, postID int64) ([]model.Comment, error)
}

// FileStorage определяет интерфейс для работы с файловым хранилищем (S3, MinIO).
type FileStorage interface {
	// UploadFile загружает файл и возвращает его публичный URL
	UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
	DeleteFile(ctx context.Context, key string) error
}

// HealthChecker проверяет доступность бд.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
