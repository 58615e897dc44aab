package usecase

import (
	"context"
	"io"

	"github.com/GoArmGo/CohortApp/internal/domain"
)

// UserUseCase определяет бизнес-логику работы с пользователями.
// Поиск одной записи возвращает (nil, nil), если ее нет; изменения возвращают domain.ErrNotFound.
type UserUseCase interface {
	// Register проверяет входные данные, хеширует пароль и сохраняет нового студента
	Register(ctx context.Context, in domain.UserInput) (*domain.User, error)

	// Save сохраняет пользователя вместе с профилем и возвращает его в том виде, в каком его вернула бд
	Save(ctx context.Context, user *domain.User) (*domain.User, error)

	// Login сверяет email и пароль
	Login(ctx context.Context, email, password string) (*domain.User, error)

	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)

	// FindManyByFirstName ищет по подстроке имени без учета регистра
	FindManyByFirstName(ctx context.Context, firstName string) ([]*domain.User, error)

	// UpdateRoleByID меняет роль. Права проверяет вызывающий код
	UpdateRoleByID(ctx context.Context, id int64, role domain.Role) (*domain.User, error)

	// UpdateProfile меняет профиль с проверкой прав:
	// сначала валидация, затем права, затем существование цели
	UpdateProfile(ctx context.Context, requester domain.Requester, targetID int64, changes domain.ProfileChanges) (*domain.User, error)

	// UploadAvatar загружает картинку в файловое хранилище и сохраняет ее URL в профиле
	UploadAvatar(ctx context.Context, requester domain.Requester, targetID int64, file io.Reader, contentType string) (*domain.User, error)
}

// CohortUseCase определяет бизнес-логику работы с учебными потоками.
type CohortUseCase interface {
	Create(ctx context.Context, in domain.CohortInput) (*domain.Cohort, error)
	FindByID(ctx context.Context, id int64) (*domain.Cohort, error)
	FindAll(ctx context.Context) ([]*domain.Cohort, error)
	// Update применяет только непустые поля
	Update(ctx context.Context, id int64, in domain.CohortInput) (*domain.Cohort, error)
	// Delete возвращает удаленный поток
	Delete(ctx context.Context, id int64) (*domain.Cohort, error)
	// AddUser добавляет пользователя в поток и делает поток текущим для пользователя
	AddUser(ctx context.Context, cohortID, userID int64) (*domain.Cohort, error)
}

// PostUseCase определяет бизнес-логику ленты: посты и комментарии к ним.
type PostUseCase interface {
	CreatePost(ctx context.Context, authorID int64, content string) (*domain.Post, error)
	FindPostByID(ctx context.Context, id int64) (*domain.Post, error)
	// FindPosts возвращает посты от новых к старым; authorID == 0 означает всех авторов
	FindPosts(ctx context.Context, authorID int64) ([]*domain.Post, error)

	CreateComment(ctx context.Context, authorID, postID int64, content string) (*domain.Comment, error)
	// FindComments возвращает комментарии поста от старых к новым
	FindComments(ctx context.Context, postID int64) ([]*domain.Comment, error)
}
