package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/CohortApp/internal/domain"
	"github.com/GoArmGo/CohortApp/internal/usecase"
)

const maxAvatarBytes = 5 << 20

// UserHandler обрабатывает HTTP-запросы для работы с пользователями.
type UserHandler struct {
	users   usecase.UserUseCase
	cohorts usecase.CohortUseCase
	posts   usecase.PostUseCase
	logger  *slog.Logger
}

// NewUserHandler создаёт новый экземпляр UserHandler.
func NewUserHandler(
	users usecase.UserUseCase,
	cohorts usecase.CohortUseCase,
	posts usecase.PostUseCase,
	logger *slog.Logger,
) *UserHandler {
	return &UserHandler{users: users, cohorts: cohorts, posts: posts, logger: logger}
}

// Create обрабатывает POST /users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.UserInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithData(w, http.StatusBadRequest, map[string]string{"body": "Invalid JSON body"}, h.logger)
		return
	}

	user, err := h.users.Register(r.Context(), in)
	if err != nil {
		respondWithError(w, err, "", h.logger)
		return
	}

	respondWithData(w, http.StatusCreated, user.PublicView(), h.logger)
}

// GetByID обрабатывает GET /users/{id}
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondWithData(w, http.StatusBadRequest, map[string]string{"id": "Invalid user id"}, h.logger)
		return
	}

	user, err := h.users.FindByID(r.Context(), id)
	if err != nil {
		respondWithError(w, err, "", h.logger)
		return
	}
	if user == nil {
		respondWithData(w, http.StatusNotFound, map[string]string{"id": "User not found"}, h.logger)
		return
	}

	respondWithData(w, http.StatusOK, user.PublicView(), h.logger)
}

// GetAll обрабатывает GET /users?first_name=
func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	firstName := r.URL.Query().Get("first_name")

	var (
		users []*domain.User
		err   error
	)
	if firstName != "" {
		users, err = h.users.FindManyByFirstName(r.Context(), firstName)
	} else {
		users, err = h.users.FindAll(r.Context())
	}
	if err != nil {
		respondWithError(w, err, "", h.logger)
		return
	}

	views := make([]domain.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, u.View())
	}
	respondWithData(w, http.StatusOK, map[string]any{"users": views}, h.logger)
}

// UpdateProfile обрабатывает PUT /users/{id}/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondWithData(w, http.StatusBadRequest, map[string]string{"id": "Invalid user id"}, h.logger)
		return
	}
	h.updateProfile(w, r, id)
}

// UpdateMe обрабатывает PUT /users/me
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	h.updateProfile(w, r, requesterFrom(r).ID)
}

func (h *UserHandler) updateProfile(w http.ResponseWriter, r *http.Request, targetID int64) {
	var changes domain.ProfileChanges
	if err := decodeJSON(w, r, &changes); err != nil {
		respondWithData(w, http.StatusBadRequest, map[string]string{"body": "Invalid JSON body"}, h.logger)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), requesterFrom(r), targetID, changes)
	if err != nil {
		respondWithError(w, err, "User not found", h.logger)
		return
	}

	respondWithData(w, http.StatusOK, user.PublicView(), h.logger)
}

// UploadAvatar обрабатывает PUT /users/{id}/avatar, multipart-поле "file"
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondWithData(w, http.StatusBadRequest, map[string]string{"id": "Invalid user id"}, h.logger)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithData(w, http.StatusBadRequest, map[string]string{"file": "An image file is required"}, h.logger)
		return
	}
	defer file.Close()

	user, err := h.users.UploadAvatar(r.Context(), requesterFrom(r), id, file, header.Header.Get("Content-Type"))
	if err != nil {
		respondWithError(w, err, "User not found", h.logger)
		return
	}

	h.logger.Info("avatar uploaded", "user_id", id, "size", header.Size)
	respondWithData(w, http.StatusOK, user.PublicView(), h.logger)
}

type cohortAssignment struct {
	CohortID flexibleID `json:"cohort_id"`
}

// UpdateCohort обрабатывает PATCH /users/{id}, только для преподавателей
func (h *UserHandler) UpdateCohort(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondWithData(w, http.StatusBadRequest, map[string]string{"id": "Invalid user id"}, h.logger)
		return
	}

	var req cohortAssignment
	if err := decodeJSON(w, r, &req); err != nil || req.CohortID <= 0 {
		respondWithData(w, http.StatusBadRequest, map[string]string{"cohort_id": "Cohort ID is required"}, h.logger)
		return
	}

	if _, err := h.cohorts.AddUser(r.Context(), int64(req.CohortID), id); err != nil {
		respondWithError(w, err, "Cohort or user not found", h.logger)
		return
	}

	user, err := h.users.FindByID(r.Context(), id)
	if err != nil {
		respondWithError(w, err, "", h.logger)
		return
	}
	if user == nil {
		respondWithData(w, http.StatusNotFound, map[string]string{"id": "User not found"}, h.logger)
		return
	}

	respondWithData(w, http.StatusCreated, user.PublicView(), h.logger)
}

type roleRequest struct {
	Role string `json:"role"`
}

// UpdateRole обрабатывает PATCH /users/{id}/role, только для преподавателей
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondWithData(w, http.StatusBadRequest, map[string]string{"id": "Invalid user id"}, h.logger)
		return
	}

	var req roleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithData(w, http.StatusBadRequest, map[string]string{"body": "Invalid JSON body"}, h.logger)
		return
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		respondWithError(w, err, "", h.logger)
		return
	}

	user, err := h.users.UpdateRoleByID(r.Context(), id, role)
	if err != nil {
		respondWithError(w, err, "User not found", h.logger)
		return
	}

	respondWithData(w, http.StatusOK, user.PublicView(), h.logger)
}

// GetPosts обрабатывает GET /users/{id}/posts
func (h *UserHandler) GetPosts(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondWithData(w, http.StatusBadRequest, map[string]string{"id": "Invalid user id"}, h.logger)
		return
	}

	posts, err := h.posts.FindPosts(r.Context(), id)
	if err != nil {
		respondWithError(w, err, "", h.logger)
		return
	}

	respondWithData(w, http.StatusOK, map[string]any{"posts": postViews(posts)}, h.logger)
}
