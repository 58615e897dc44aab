package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/CohortApp/internal/core/ports"
	"github.com/GoArmGo/CohortApp/internal/domain"
	"github.com/GoArmGo/CohortApp/internal/model"
)

// postUseCase implements PostUseCase
type postUseCase struct {
	postStorage    ports.PostStorage
	commentStorage ports.CommentStorage
	logger         *slog.Logger
}

func NewPostUseCase(
	postStorage ports.PostStorage,
	commentStorage ports.CommentStorage,
	logger *slog.Logger,
) PostUseCase {
	return &postUseCase{
		postStorage:    postStorage,
		commentStorage: commentStorage,
		logger:         logger,
	}
}

func (uc *postUseCase) CreatePost(ctx context.Context, authorID int64, content string) (*domain.Post, error) {
	if err := domain.ValidateContent(content); err != nil {
		return nil, err
	}

	rec, err := uc.postStorage.CreatePost(ctx, &model.Post{UserID: authorID, Content: content})
	if err != nil {
		return nil, fmt.Errorf("usecase: create post by user %d: %w", authorID, err)
	}

	uc.logger.Info("post created", "post_id", rec.ID, "user_id", authorID)
	return domain.PostFromRecord(rec), nil
}

func (uc *postUseCase) FindPostByID(ctx context.Context, id int64) (*domain.Post, error) {
	rec, err := uc.postStorage.FindPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("usecase: find post %d: %w", id, err)
	}
	return domain.PostFromRecord(rec), nil
}

func (uc *postUseCase) FindPosts(ctx context.Context, authorID int64) ([]*domain.Post, error) {
	recs, err := uc.postStorage.FindPosts(ctx, model.PostFilter{UserID: authorID})
	if err != nil {
		return nil, fmt.Errorf("usecase: find posts: %w", err)
	}

	posts := make([]*domain.Post, 0, len(recs))
	for i := range recs {
		posts = append(posts, domain.PostFromRecord(&recs[i]))
	}
	return posts, nil
}

func (uc *postUseCase) CreateComment(ctx context.Context, authorID, postID int64, content string) (*domain.Comment, error) {
	if postID <= 0 || domain.ValidateContent(content) != nil {
		return nil, domain.NewValidationError("message", "Post ID and content are required")
	}

	rec, err := uc.commentStorage.CreateComment(ctx, &model.Comment{
		PostID:  postID,
		UserID:  authorID,
		Content: content,
	})
	if err != nil {
		return nil, fmt.Errorf("usecase: comment on post %d: %w", postID, err)
	}

	uc.logger.Info("comment created", "comment_id", rec.ID, "post_id", postID, "user_id", authorID)
	return domain.CommentFromRecord(rec), nil
}

func (uc *postUseCase) FindComments(ctx context.Context, postID int64) ([]*domain.Comment, error) {
	post, err := uc.postStorage.FindPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("usecase: find comments of post %d: %w", postID, err)
	}
	if post == nil {
		return nil, fmt.Errorf("usecase: find comments of post %d: %w", postID, domain.ErrNotFound)
	}

	recs, err := uc.commentStorage.FindCommentsByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("usecase: find comments of post %d: %w", postID, err)
	}

	comments := make([]*domain.Comment, 0, len(recs))
	for i := range recs {
		comments = append(comments, domain.CommentFromRecord(&recs[i]))
	}
	return comments, nil
}
