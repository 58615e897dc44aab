package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/GoArmGo/CohortApp/internal/core/ports"
	"github.com/GoArmGo/CohortApp/internal/domain"
	"github.com/GoArmGo/CohortApp/internal/messaging/payloads"
	"github.com/GoArmGo/CohortApp/internal/model"
	"github.com/google/uuid"
)

// userUseCase implements UserUseCase
type userUseCase struct {
	userStorage ports.UserStorage
	fileStorage ports.FileStorage
	events      eventPublisher
	logger      *slog.Logger
}

// NewUserUseCase создает новый экземпляр UserUseCase.
// fileStorage и publisher могут быть nil: тогда загрузка аватаров отключена, а события не публикуются.
func NewUserUseCase(
	userStorage ports.UserStorage,
	fileStorage ports.FileStorage,
	publisher ports.UserEventPublisher,
	logger *slog.Logger,
) UserUseCase {
	return &userUseCase{
		userStorage: userStorage,
		fileStorage: fileStorage,
		events:      eventPublisher{publisher: publisher, logger: logger},
		logger:      logger,
	}
}

// Register проверяет данные, проверяет занятость email и сохраняет пользователя
func (uc *userUseCase) Register(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	existing, err := uc.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("usecase: register %s: %w", in.Email, domain.ErrEmailTaken)
	}

	user, err := domain.NewUserFromInput(in)
	if err != nil {
		return nil, fmt.Errorf("usecase: register %s: %w", in.Email, err)
	}

	created, err := uc.Save(ctx, user)
	if err != nil {
		return nil, err
	}

	uc.events.publish(ctx, payloads.UserRegistered, created.ID, created.Role.String())
	return created, nil
}

// Save отправляет запись в хранилище и маппит ответ обратно
func (uc *userUseCase) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	start := time.Now()

	rec, err := uc.userStorage.CreateUser(ctx, user.Record())
	if err != nil {
		if errors.Is(err, ports.ErrDuplicate) {
			return nil, fmt.Errorf("usecase: save user %s: %w", user.Email, domain.ErrEmailTaken)
		}
		return nil, fmt.Errorf("usecase: save user %s: %w", user.Email, err)
	}

	saved := domain.FromRecord(rec)
	uc.logger.Info("user saved",
		"user_id", saved.ID,
		"role", saved.Role.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return saved, nil
}

func (uc *userUseCase) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := uc.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.CheckPassword(password) {
		uc.logger.Warn("login failed", "email", email)
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (uc *userUseCase) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	rec, err := uc.userStorage.FindUser(ctx, model.UserWhere{Email: email})
	if err != nil {
		return nil, fmt.Errorf("usecase: find user by email: %w", err)
	}
	return domain.FromRecord(rec), nil
}

func (uc *userUseCase) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	rec, err := uc.userStorage.FindUser(ctx, model.UserWhere{ID: id})
	if err != nil {
		return nil, fmt.Errorf("usecase: find user %d: %w", id, err)
	}
	return domain.FromRecord(rec), nil
}

func (uc *userUseCase) FindAll(ctx context.Context) ([]*domain.User, error) {
	return uc.findUsers(ctx, model.UserFilter{})
}

func (uc *userUseCase) FindManyByFirstName(ctx context.Context, firstName string) ([]*domain.User, error) {
	return uc.findUsers(ctx, model.UserFilter{FirstNameContains: firstName})
}

func (uc *userUseCase) findUsers(ctx context.Context, filter model.UserFilter) ([]*domain.User, error) {
	recs, err := uc.userStorage.FindUsers(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("usecase: find users: %w", err)
	}

	users := make([]*domain.User, 0, len(recs))
	for i := range recs {
		users = append(users, domain.FromRecord(&recs[i]))
	}
	return users, nil
}

func (uc *userUseCase) UpdateRoleByID(ctx context.Context, id int64, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, domain.NewValidationError("role", "unknown role")
	}

	user, err := uc.update(ctx, id, domain.UserPatch{Role: domain.Some(role)})
	if err != nil {
		return nil, err
	}

	uc.events.publish(ctx, payloads.UserRoleChanged, id, role.String())
	return user, nil
}

// UpdateProfile: валидация до проверки прав, чтобы по ответу нельзя было
// узнать, существует ли чужая запись
func (uc *userUseCase) UpdateProfile(
	ctx context.Context,
	requester domain.Requester,
	targetID int64,
	changes domain.ProfileChanges,
) (*domain.User, error) {
	if err := changes.Validate(); err != nil {
		return nil, err
	}
	if err := domain.AuthorizeUserUpdate(requester, targetID); err != nil {
		uc.logger.Warn("profile update refused",
			"requester_id", requester.ID,
			"target_id", targetID,
		)
		return nil, err
	}

	existing, err := uc.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("usecase: update profile of user %d: %w", targetID, domain.ErrNotFound)
	}

	patch := changes.Patch()
	if changes.Password != "" {
		hash, err := domain.HashPassword(changes.Password)
		if err != nil {
			return nil, fmt.Errorf("usecase: update profile of user %d: %w", targetID, err)
		}
		patch.PasswordHash = domain.Some(hash)
	}
	if patch.IsEmpty() {
		return existing, nil
	}

	user, err := uc.update(ctx, targetID, patch)
	if err != nil {
		return nil, err
	}

	uc.events.publish(ctx, payloads.UserProfileUpdated, targetID, "")
	return user, nil
}

func (uc *userUseCase) UploadAvatar(
	ctx context.Context,
	requester domain.Requester,
	targetID int64,
	file io.Reader,
	contentType string,
) (*domain.User, error) {
	if uc.fileStorage == nil {
		return nil, domain.ErrFileStorageDisabled
	}
	if err := domain.AuthorizeUserUpdate(requester, targetID); err != nil {
		return nil, err
	}

	existing, err := uc.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("usecase: upload avatar of user %d: %w", targetID, domain.ErrNotFound)
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := fmt.Sprintf("avatars/%d/%s", targetID, uuid.NewString())

	url, err := uc.fileStorage.UploadFile(ctx, key, file, contentType)
	if err != nil {
		return nil, fmt.Errorf("usecase: upload avatar of user %d: %w", targetID, err)
	}

	user, err := uc.update(ctx, targetID, domain.UserPatch{ProfilePicture: domain.Some(url)})
	if err != nil {
		// файл без ссылки на него никому не нужен
		if delErr := uc.fileStorage.DeleteFile(ctx, key); delErr != nil {
			uc.logger.Warn("failed to remove orphaned avatar", "key", key, "error", delErr)
		}
		return nil, err
	}

	uc.events.publish(ctx, payloads.UserAvatarChanged, targetID, url)
	return user, nil
}

func (uc *userUseCase) update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	start := time.Now()

	rec, err := uc.userStorage.UpdateUser(ctx, id, patch)
	if err != nil {
		if errors.Is(err, ports.ErrDuplicate) {
			return nil, fmt.Errorf("usecase: update user %d: %w", id, domain.ErrEmailTaken)
		}
		return nil, fmt.Errorf("usecase: update user %d: %w", id, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("usecase: update user %d: %w", id, domain.ErrNotFound)
	}

	uc.logger.Info("user updated",
		"user_id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return domain.FromRecord(rec), nil
}
