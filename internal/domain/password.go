package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	// PasswordHashCost: фиксированная стоимость bcrypt.
	PasswordHashCost = 8

	minPasswordLength = 8
	passwordSymbols   = `!@#$%^&*(),.?":{}|<>`
	passwordRules     = "The password should be at least 8 characters long, contain at least one uppercase letter, one number, and one special character."
)

// ValidatePassword проверяет сложность пароля.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength ||
		!strings.ContainsFunc(password, isASCIIUpper) ||
		!strings.ContainsFunc(password, isASCIIDigit) ||
		!strings.ContainsAny(password, passwordSymbols) {
		return NewValidationError("password", passwordRules)
	}
	return nil
}

// HashPassword возвращает bcrypt-хеш пароля.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func isASCIIUpper(r rune) bool { return r >= 'A' && r <= 'Z' }

func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }
