package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/CohortApp/internal/domain"
	"github.com/GoArmGo/CohortApp/internal/usecase"
)

// PostHandler обслуживает ленту: посты и комментарии.
type PostHandler struct {
	posts  usecase.PostUseCase
	logger *slog.Logger
}

func NewPostHandler(posts usecase.PostUseCase, logger *slog.Logger) *PostHandler {
	return &PostHandler{posts: posts, logger: logger}
}

type postRequest struct {
	Content string `json:"content"`
}

// CreatePost обрабатывает POST /posts, автором становится текущий пользователь
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithData(w, http.StatusBadRequest, map[string]string{"content": "Must provide content"}, h.logger)
		return
	}

	post, err := h.posts.CreatePost(r.Context(), requesterFrom(r).ID, req.Content)
	if err != nil {
		respondWithError(w, err, "User not found", h.logger)
		return
	}

	respondWithData(w, http.StatusCreated, map[string]any{"post": post.View()}, h.logger)
}

// GetPosts обрабатывает GET /posts
func (h *PostHandler) GetPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.FindPosts(r.Context(), 0)
	if err != nil {
		respondWithError(w, err, "", h.logger)
		return
	}
	respondWithData(w, http.StatusOK, map[string]any{"posts": postViews(posts)}, h.logger)
}

// GetPost обрабатывает GET /posts/{id}
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondWithData(w, http.StatusBadRequest, map[string]string{"id": "Invalid post id"}, h.logger)
		return
	}

	post, err := h.posts.FindPostByID(r.Context(), id)
	if err != nil {
		respondWithError(w, err, "", h.logger)
		return
	}
	if post == nil {
		respondWithData(w, http.StatusNotFound, map[string]string{"id": "Post not found"}, h.logger)
		return
	}

	respondWithData(w, http.StatusOK, map[string]any{"post": post.View()}, h.logger)
}

type commentRequest struct {
	PostID  flexibleID `json:"postId"`
	Content string     `json:"content"`
}

// CreateComment обрабатывает POST /comments
func (h *PostHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithData(w, http.StatusBadRequest, map[string]string{"message": "Post ID and content are required"}, h.logger)
		return
	}

	comment, err := h.posts.CreateComment(r.Context(), requesterFrom(r).ID, int64(req.PostID), req.Content)
	if err != nil {
		respondWithError(w, err, "Post not found", h.logger)
		return
	}

	respondWithData(w, http.StatusCreated, map[string]any{"comment": comment.View()}, h.logger)
}

// GetComments обрабатывает GET /comments/post/{postId}
func (h *PostHandler) GetComments(w http.ResponseWriter, r *http.Request) {
	postID, err := idParam(r, "postId")
	if err != nil {
		respondWithData(w, http.StatusBadRequest, map[string]string{"postId": "Invalid post id"}, h.logger)
		return
	}

	comments, err := h.posts.FindComments(r.Context(), postID)
	if err != nil {
		respondWithError(w, err, "Post not found", h.logger)
		return
	}

	views := make([]domain.CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, c.View())
	}
	respondWithData(w, http.StatusOK, map[string]any{"comments": views}, h.logger)
}

func postViews(posts []*domain.Post) []domain.PostView {
	views := make([]domain.PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, p.View())
	}
	return views
}
