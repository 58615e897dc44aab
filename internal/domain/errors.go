package domain

import "errors"

var (
	// ErrValidation: входные данные не прошли проверку.
	ErrValidation = errors.New("validation failed")
	// ErrForbidden: у инициатора запроса нет прав на изменение.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound: изменяемая запись не существует.
	// Поиск (FindByID, FindByEmail) возвращает nil без ошибки.
	ErrNotFound = errors.New("not found")

	ErrEmailTaken          = errors.New("email already in use")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrFileStorageDisabled = errors.New("file storage is not configured")
)

// ValidationError описывает ошибку конкретного поля.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
