// internal/domain/user.go
package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/GoArmGo/CohortApp/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// DefaultSpecialism проставляется, если специализация не указана.
const DefaultSpecialism = "Software Developer"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// User описывает пользователя платформы (студента или преподавателя).
// ID равен 0, пока пользователь не сохранен.
type User struct {
	ID             int64
	CohortID       *int64
	FirstName      string
	LastName       string
	Email          string
	Bio            string
	Username       string
	GithubUsername string
	ProfilePicture string
	Mobile         string
	PasswordHash   string
	Role           Role
	Specialism     string
}

// UserInput содержит данные регистрации, пришедшие от клиента.
type UserInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Bio       string `json:"bio"`
	GithubURL string `json:"githubUrl"`
	Username  string `json:"username"`
	Mobile    string `json:"mobile"`
	Password  string `json:"password"`
}

// Validate проверяет обязательные поля регистрации.
func (in UserInput) Validate() error {
	if err := ValidateEmail(in.Email); err != nil {
		return err
	}
	return ValidatePassword(in.Password)
}

// ValidateEmail проверяет формат адреса.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return NewValidationError("email", "Email is required")
	}
	if !emailPattern.MatchString(email) {
		return NewValidationError("email", "Email is not valid")
	}
	return nil
}

// NewUserFromInput создает пользователя из клиентских данных, хешируя пароль.
func NewUserFromInput(in UserInput) (*User, error) {
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	return &User{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		Bio:            in.Bio,
		Username:       in.Username,
		GithubUsername: in.GithubURL,
		Mobile:         in.Mobile,
		PasswordHash:   hash,
		Role:           RoleStudent,
		Specialism:     DefaultSpecialism,
	}, nil
}

// FromRecord маппит запись из бд. Хеш пароля переносится как есть.
func FromRecord(rec *model.User) *User {
	if rec == nil {
		return nil
	}

	// в бд стоит CHECK на роль, неизвестное значение сводим к студенту
	role, err := ParseRole(rec.Role)
	if err != nil {
		role = RoleStudent
	}

	u := &User{
		ID:           rec.ID,
		Email:        rec.Email,
		PasswordHash: rec.Password,
		Role:         role,
		Specialism:   rec.Specialism,
	}
	if rec.CohortID != nil {
		id := *rec.CohortID
		u.CohortID = &id
	}
	if p := rec.Profile; p != nil {
		u.FirstName = p.FirstName
		u.LastName = p.LastName
		u.Bio = p.Bio
		u.Username = p.Username
		u.GithubUsername = p.GithubUsername
		u.ProfilePicture = p.ProfilePicture
		u.Mobile = p.Mobile
	}
	return u
}

// Record собирает запись для создания пользователя.
// Профиль создается всегда, связь с когортой только если она задана.
func (u *User) Record() *model.User {
	specialism := u.Specialism
	if specialism == "" {
		specialism = DefaultSpecialism
	}

	rec := &model.User{
		Email:      u.Email,
		Password:   u.PasswordHash,
		Role:       u.Role.String(),
		Specialism: specialism,
		Profile: &model.Profile{
			FirstName:      u.FirstName,
			LastName:       u.LastName,
			Bio:            u.Bio,
			GithubUsername: u.GithubUsername,
			Username:       u.Username,
			ProfilePicture: u.ProfilePicture,
			Mobile:         u.Mobile,
		},
	}
	if u.CohortID != nil {
		id := *u.CohortID
		rec.CohortID = &id
	}
	return rec
}

// CheckPassword сравнивает пароль с сохраненным хешем.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// UserView содержит публичные поля пользователя. Хеша пароля здесь нет и быть не должно.
type UserView struct {
	ID              *int64 `json:"id"`
	CohortID        *int64 `json:"cohort_id"`
	Role            Role   `json:"role"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Bio             string `json:"bio"`
	GithubURL       string `json:"githubUrl"`
	Username        string `json:"username"`
	Mobile          string `json:"mobile"`
	ProfileImageURL string `json:"profileImageUrl"`
	Specialism      string `json:"specialism"`
}

// PublicUser оборачивает ответ клиенту в {"user": {...}}.
type PublicUser struct {
	User UserView `json:"user"`
}

// View возвращает публичные поля без обертки.
func (u *User) View() UserView {
	v := UserView{
		CohortID:        u.CohortID,
		Role:            u.Role,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Email:           u.Email,
		Bio:             u.Bio,
		GithubURL:       u.GithubUsername,
		Username:        u.Username,
		Mobile:          u.Mobile,
		ProfileImageURL: u.ProfilePicture,
		Specialism:      u.Specialism,
	}
	if u.ID != 0 {
		id := u.ID
		v.ID = &id
	}
	return v
}

// PublicView возвращает представление для сериализации в HTTP-ответ.
func (u *User) PublicView() PublicUser {
	return PublicUser{User: u.View()}
}

func (u *User) String() string {
	return fmt.Sprintf("User(%d, %s, %s)", u.ID, u.Email, u.Role)
}
