package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/CohortApp/internal/domain"
	"github.com/GoArmGo/CohortApp/internal/usecase"
)

// CohortHandler обрабатывает HTTP-запросы для учебных потоков.
type CohortHandler struct {
	cohorts usecase.CohortUseCase
	users   usecase.UserUseCase
	logger  *slog.Logger
}

func NewCohortHandler(cohorts usecase.CohortUseCase, users usecase.UserUseCase, logger *slog.Logger) *CohortHandler {
	return &CohortHandler{cohorts: cohorts, users: users, logger: logger}
}

// Create обрабатывает POST /cohorts
func (h *CohortHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.CohortInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithMessage(w, http.StatusBadRequest, "Missing required information", h.logger)
		return
	}

	cohort, err := h.cohorts.Create(r.Context(), in)
	if err != nil {
		respondWithError(w, err, "", h.logger)
		return
	}

	respondWithData(w, http.StatusCreated, map[string]any{"cohort": cohort}, h.logger)
}

// GetByID обрабатывает GET /cohorts/{cohortId}
func (h *CohortHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "cohortId")
	if err != nil {
		respondWithMessage(w, http.StatusBadRequest, "Missing cohortId as parameter", h.logger)
		return
	}

	cohort, err := h.cohorts.FindByID(r.Context(), id)
	if err != nil {
		respondWithError(w, err, "", h.logger)
		return
	}
	if cohort == nil {
		respondWithMessage(w, http.StatusNotFound, "Cohort not found", h.logger)
		return
	}

	respondWithData(w, http.StatusOK, map[string]any{"cohort": cohort}, h.logger)
}

// GetAll обрабатывает GET /cohorts
func (h *CohortHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	cohorts, err := h.cohorts.FindAll(r.Context())
	if err != nil {
		respondWithError(w, err, "", h.logger)
		return
	}
	respondWithData(w, http.StatusOK, map[string]any{"cohorts": cohorts}, h.logger)
}

type addUserRequest struct {
	CohortID flexibleID `json:"cohortId"`
	UserID   flexibleID `json:"userId"`
}

// AddUser обрабатывает POST /cohorts/addUser
func (h *CohortHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	var req addUserRequest
	if err := decodeJSON(w, r, &req); err != nil || req.CohortID <= 0 || req.UserID <= 0 {
		respondWithMessage(w, http.StatusBadRequest, "Missing cohortId or userId in request body.", h.logger)
		return
	}
	cohortID, userID := int64(req.CohortID), int64(req.UserID)

	existing, err := h.cohorts.FindByID(r.Context(), cohortID)
	if err != nil {
		respondWithError(w, err, "", h.logger)
		return
	}
	if existing == nil {
		respondWithMessage(w, http.StatusNotFound, "Cohort not found", h.logger)
		return
	}

	user, err := h.users.FindByID(r.Context(), userID)
	if err != nil {
		respondWithError(w, err, "", h.logger)
		return
	}
	if user == nil {
		respondWithMessage(w, http.StatusNotFound, "User not found", h.logger)
		return
	}

	cohort, err := h.cohorts.AddUser(r.Context(), cohortID, userID)
	if err != nil {
		respondWithError(w, err, "Cohort or user not found", h.logger)
		return
	}

	respondWithData(w, http.StatusCreated, map[string]any{"cohort": cohort}, h.logger)
}

// Update обрабатывает PUT /cohorts/{cohortId}
func (h *CohortHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "cohortId")
	if err != nil {
		respondWithMessage(w, http.StatusBadRequest, "Missing cohortId as parameter", h.logger)
		return
	}

	var in domain.CohortInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithMessage(w, http.StatusBadRequest, "Missing required information in request body.", h.logger)
		return
	}

	cohort, err := h.cohorts.Update(r.Context(), id, in)
	if err != nil {
		respondWithError(w, err, "Cohort not found", h.logger)
		return
	}

	respondWithData(w, http.StatusOK, map[string]any{"cohort": cohort}, h.logger)
}

// Delete обрабатывает DELETE /cohorts/{cohortId}
func (h *CohortHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "cohortId")
	if err != nil {
		respondWithMessage(w, http.StatusBadRequest, "Missing cohortId as parameter", h.logger)
		return
	}

	cohort, err := h.cohorts.Delete(r.Context(), id)
	if err != nil {
		respondWithError(w, err, "Cohort not found", h.logger)
		return
	}

	respondWithData(w, http.StatusOK, map[string]any{"cohort": cohort}, h.logger)
}
