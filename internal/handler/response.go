package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/CohortApp/internal/domain"
)

const (
	statusSuccess = "success"
	statusFail    = "fail"
	statusError   = "error"
)

// envelope: {"status": ..., "data": ...} или {"status": ..., "message": ...}
type envelope struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func statusFor(code int) string {
	switch {
	case code >= 500:
		return statusError
	case code >= 400:
		return statusFail
	default:
		return statusSuccess
	}
}

// respondWithJSON отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithData отвечает {"status": ..., "data": data}
func respondWithData(w http.ResponseWriter, code int, data any, logger *slog.Logger) {
	respondWithJSON(w, code, envelope{Status: statusFor(code), Data: data}, logger)
}

// respondWithMessage отвечает {"status": ..., "message": message}
func respondWithMessage(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, envelope{Status: statusFor(code), Message: message}, logger)
}

// respondWithError переводит ошибку use case в HTTP-ответ.
// notFound используется как текст для domain.ErrNotFound. Детали внутренних ошибок уходят только в лог.
func respondWithError(w http.ResponseWriter, err error, notFound string, logger *slog.Logger) {
	var verr *domain.ValidationError

	switch {
	case errors.As(err, &verr):
		respondWithData(w, http.StatusBadRequest, map[string]string{verr.Field: verr.Message}, logger)
	case errors.Is(err, domain.ErrEmailTaken):
		respondWithData(w, http.StatusBadRequest, map[string]string{"email": "Email already in use"}, logger)
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondWithData(w, http.StatusUnauthorized, map[string]string{"email": "Invalid email and/or password provided"}, logger)
	case errors.Is(err, domain.ErrForbidden):
		respondWithData(w, http.StatusForbidden, map[string]string{"authorization": "You are not authorized to perform this action"}, logger)
	case errors.Is(err, domain.ErrNotFound):
		respondWithMessage(w, http.StatusNotFound, notFound, logger)
	case errors.Is(err, domain.ErrFileStorageDisabled):
		respondWithMessage(w, http.StatusServiceUnavailable, "File uploads are not available", logger)
	default:
		logger.Error("request failed", "error", err)
		respondWithMessage(w, http.StatusInternalServerError, "Internal server error", logger)
	}
}

// NotFound отвечает на неизвестные маршруты
func NotFound(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithData(w, http.StatusNotFound, map[string]string{"resource": "Not found"}, logger)
	}
}
