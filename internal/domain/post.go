package domain

import (
	"strings"
	"time"

	"github.com/GoArmGo/CohortApp/internal/model"
)

// Post описывает запись в ленте, у каждой ровно один автор.
type Post struct {
	ID        int64
	UserID    int64
	Content   string
	Author    *User
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Comment описывает комментарий пользователя к посту.
type Comment struct {
	ID        int64
	PostID    int64
	UserID    int64
	Content   string
	Author    *User
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AuthorView содержит публичные поля автора поста или комментария.
type AuthorView struct {
	ID              int64  `json:"id"`
	CohortID        *int64 `json:"cohortId"`
	Role            Role   `json:"role"`
	Email           string `json:"email"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Bio             string `json:"bio"`
	GithubURL       string `json:"githubUrl"`
	ProfileImageURL string `json:"profileImageUrl"`
}

type PostView struct {
	ID        int64       `json:"id"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
	Author    *AuthorView `json:"author"`
}

type CommentView struct {
	ID        int64       `json:"id"`
	PostID    int64       `json:"postId"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
	Author    *AuthorView `json:"author"`
}

// ValidateContent проверяет текст поста или комментария.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return NewValidationError("content", "Must provide content")
	}
	return nil
}

func PostFromRecord(rec *model.Post) *Post {
	if rec == nil {
		return nil
	}
	return &Post{
		ID:        rec.ID,
		UserID:    rec.UserID,
		Content:   rec.Content,
		Author:    FromRecord(rec.User),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

func CommentFromRecord(rec *model.Comment) *Comment {
	if rec == nil {
		return nil
	}
	return &Comment{
		ID:        rec.ID,
		PostID:    rec.PostID,
		UserID:    rec.UserID,
		Content:   rec.Content,
		Author:    FromRecord(rec.User),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

func (p *Post) View() PostView {
	return PostView{
		ID:        p.ID,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Author:    authorView(p.Author),
	}
}

func (c *Comment) View() CommentView {
	return CommentView{
		ID:        c.ID,
		PostID:    c.PostID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Author:    authorView(c.Author),
	}
}

func authorView(u *User) *AuthorView {
	if u == nil {
		return nil
	}
	return &AuthorView{
		ID:              u.ID,
		CohortID:        u.CohortID,
		Role:            u.Role,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Bio:             u.Bio,
		GithubURL:       u.GithubUsername,
		ProfileImageURL: u.ProfilePicture,
	}
}
