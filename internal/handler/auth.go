package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/CohortApp/internal/auth"
	"github.com/GoArmGo/CohortApp/internal/domain"
	"github.com/GoArmGo/CohortApp/internal/usecase"
)

// AuthHandler выдает токены по email и паролю
type AuthHandler struct {
	users  usecase.UserUseCase
	secret []byte
	ttl    time.Duration
	logger *slog.Logger
}

func NewAuthHandler(users usecase.UserUseCase, secret []byte, ttl time.Duration, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{users: users, secret: secret, ttl: ttl, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string          `json:"token"`
	User  domain.UserView `json:"user"`
}

// Login обрабатывает POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithData(w, http.StatusBadRequest, map[string]string{"body": "Invalid JSON body"}, h.logger)
		return
	}

	user, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(w, err, "User not found", h.logger)
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Role, h.secret, h.ttl)
	if err != nil {
		respondWithError(w, err, "", h.logger)
		return
	}

	h.logger.Info("user logged in", "user_id", user.ID)
	respondWithData(w, http.StatusOK, loginResponse{Token: token, User: user.View()}, h.logger)
}
