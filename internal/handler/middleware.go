package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/GoArmGo/CohortApp/internal/auth"
	"github.com/GoArmGo/CohortApp/internal/domain"
	"github.com/GoArmGo/CohortApp/internal/usecase"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger логирует HTTP-запросы и проставляет X-Request-ID.
func RequestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, requestID)

			// Оборачиваем ResponseWriter, чтобы знать статус
			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			logger.Info("http request",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.statusCode,
				"duration_ms", duration.Milliseconds(),
			)
		})
	}
}

// responseWriter нужен, чтобы перехватывать код ответа
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Authenticate проверяет bearer-токен и кладет инициатора запроса в контекст.
// Роль берется из бд, а не из токена: она могла измениться после выдачи.
func Authenticate(secret []byte, users usecase.UserUseCase, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				respondWithData(w, http.StatusUnauthorized,
					map[string]string{"authorization": "Missing Authorization header"}, logger)
				return
			}

			claims, err := auth.ParseToken(token, secret)
			if err != nil {
				logger.Warn("rejected token", "error", err)
				respondWithData(w, http.StatusUnauthorized,
					map[string]string{"authentication": "Invalid or expired token"}, logger)
				return
			}

			user, err := users.FindByID(r.Context(), claims.UserID)
			if err != nil {
				respondWithError(w, err, "", logger)
				return
			}
			if user == nil {
				respondWithData(w, http.StatusUnauthorized,
					map[string]string{"authentication": "User no longer exists"}, logger)
				return
			}

			requester := domain.Requester{ID: user.ID, Role: user.Role}
			next.ServeHTTP(w, r.WithContext(domain.WithRequester(r.Context(), requester)))
		})
	}
}

// RequireTeacher пропускает только преподавателей. Ставится после Authenticate.
func RequireTeacher(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requester, ok := domain.RequesterFromContext(r.Context())
			if !ok || !requester.IsTeacher() {
				respondWithData(w, http.StatusForbidden,
					map[string]string{"authorization": "You are not authorized to perform this action"}, logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requesterFrom достает инициатора, положенного Authenticate
func requesterFrom(r *http.Request) domain.Requester {
	requester, _ := domain.RequesterFromContext(r.Context())
	return requester
}
