package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/CohortApp/internal/domain"
	"github.com/GoArmGo/CohortApp/internal/model"
	"gorm.io/gorm"
)

// GormPostStorage реализует ports.PostStorage и ports.CommentStorage
type GormPostStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewGormPostStorage(db *gorm.DB, logger *slog.Logger) *GormPostStorage {
	return &GormPostStorage{db: db, logger: logger}
}

func withAuthor(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("User.Profile")
}

func (s *GormPostStorage) CreatePost(ctx context.Context, post *model.Post) (*model.Post, error) {
	start := time.Now()

	if err := s.db.WithContext(ctx).Omit("User").Create(post).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, fmt.Errorf("create post: author %d: %w", post.UserID, domain.ErrNotFound)
		}
		s.logger.Error("failed to create post", "user_id", post.UserID, "error", err)
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.logger.Info("post created",
		"post_id", post.ID,
		"user_id", post.UserID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return s.FindPost(ctx, post.ID)
}

func (s *GormPostStorage) FindPost(ctx context.Context, id int64) (*model.Post, error) {
	var post model.Post
	if err := withAuthor(s.db.WithContext(ctx)).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("failed to find post", "post_id", id, "error", err)
		return nil, fmt.Errorf("find post %d: %w", id, err)
	}
	return &post, nil
}

// FindPosts возвращает посты от новых к старым
func (s *GormPostStorage) FindPosts(ctx context.Context, filter model.PostFilter) ([]model.Post, error) {
	q := withAuthor(s.db.WithContext(ctx)).Order("created_at DESC").Order("id DESC")
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}

	var posts []model.Post
	if err := q.Find(&posts).Error; err != nil {
		s.logger.Error("failed to list posts", "user_id", filter.UserID, "error", err)
		return nil, fmt.Errorf("find posts: %w", err)
	}
	return posts, nil
}

func (s *GormPostStorage) CreateComment(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	if err := s.db.WithContext(ctx).Omit("User", "Post").Create(comment).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, fmt.Errorf("create comment on post %d: %w", comment.PostID, domain.ErrNotFound)
		}
		s.logger.Error("failed to create comment", "post_id", comment.PostID, "error", err)
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.logger.Info("comment created", "comment_id", comment.ID, "post_id", comment.PostID)

	var created model.Comment
	if err := withAuthor(s.db.WithContext(ctx)).First(&created, comment.ID).Error; err != nil {
		return nil, fmt.Errorf("reload comment %d: %w", comment.ID, err)
	}
	return &created, nil
}

// FindCommentsByPost возвращает комментарии по возрастанию даты создания
func (s *GormPostStorage) FindCommentsByPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	var comments []model.Comment
	err := withAuthor(s.db.WithContext(ctx)).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		s.logger.Error("failed to list comments", "post_id", postID, "error", err)
		return nil, fmt.Errorf("find comments for post %d: %w", postID, err)
	}
	return comments, nil
}
