package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/GoArmGo/CohortApp/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims: стандартные утверждения плюс id и роль пользователя
type Claims struct {
	jwt.RegisteredClaims
	UserID int64       `json:"userId"`
	Role   domain.Role `json:"role"`
}

// GenerateToken подписывает токен HS256 со сроком жизни ttl
func GenerateToken(userID int64, role domain.Role, secretKey []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
		Role:   role,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenString, nil
}

// ParseToken проверяет подпись и срок действия и возвращает утверждения
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Requester превращает утверждения в доменного инициатора запроса
func (c *Claims) Requester() domain.Requester {
	return domain.Requester{ID: c.UserID, Role: c.Role}
}
