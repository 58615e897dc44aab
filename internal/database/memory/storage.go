// Package memory хранит записи в памяти процесса.
// Реализует те же порты, что и postgres; используется при STORAGE_DRIVER=memory и в тестах.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/GoArmGo/CohortApp/internal/core/ports"
	"github.com/GoArmGo/CohortApp/internal/domain"
	"github.com/GoArmGo/CohortApp/internal/model"
)

// Storage хранит записи в map под одним мьютексом.
// Наружу всегда отдаются копии.
type Storage struct {
	mu  sync.RWMutex
	now func() time.Time

	users    map[int64]*model.User
	cohorts  map[int64]*model.Cohort
	members  map[int64]map[int64]struct{}
	posts    map[int64]*model.Post
	comments map[int64]*model.Comment

	lastUserID    int64
	lastProfileID int64
	lastCohortID  int64
	lastPostID    int64
	lastCommentID int64
}

func New() *Storage {
	return &Storage{
		now:      time.Now,
		users:    map[int64]*model.User{},
		cohorts:  map[int64]*model.Cohort{},
		members:  map[int64]map[int64]struct{}{},
		posts:    map[int64]*model.Post{},
		comments: map[int64]*model.Comment{},
	}
}

func (s *Storage) Ping(context.Context) error {
	return nil
}

// --- users ---

func (s *Storage) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTaken(user.Email, 0) {
		return nil, fmt.Errorf("create user %s: %w", user.Email, ports.ErrDuplicate)
	}

	s.lastUserID++
	now := s.now()
	user.ID = s.lastUserID
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Role == "" {
		user.Role = domain.RoleStudent.String()
	}
	if user.Specialism == "" {
		user.Specialism = domain.DefaultSpecialism
	}
	if user.Profile != nil {
		s.lastProfileID++
		user.Profile.ID = s.lastProfileID
		user.Profile.UserID = user.ID
	}

	s.users[user.ID] = copyUser(user)
	return copyUser(user), nil
}

func (s *Storage) FindUser(_ context.Context, where model.UserWhere) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch {
	case where.ID != 0:
		if u, ok := s.users[where.ID]; ok {
			return copyUser(u), nil
		}
	case where.Email != "":
		for _, u := range s.users {
			if u.Email == where.Email {
				return copyUser(u), nil
			}
		}
	default:
		return nil, fmt.Errorf("find user: empty lookup key")
	}
	return nil, nil
}

func (s *Storage) FindUsers(_ context.Context, filter model.UserFilter) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(filter.FirstNameContains)
	users := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		if needle != "" {
			if u.Profile == nil || !strings.Contains(strings.ToLower(u.Profile.FirstName), needle) {
				continue
			}
		}
		users = append(users, *copyUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *Storage) UpdateUser(_ context.Context, id int64, patch domain.UserPatch) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	if email, set := patch.Email.Get(); set && s.emailTaken(email, id) {
		return nil, fmt.Errorf("update user %d: %w", id, ports.ErrDuplicate)
	}

	updated := copyUser(stored)
	hadProfile := updated.Profile != nil
	patch.ApplyTo(updated)
	if !hadProfile && updated.Profile != nil {
		s.lastProfileID++
		updated.Profile.ID = s.lastProfileID
	}
	updated.UpdatedAt = s.now()

	s.users[id] = updated
	return copyUser(updated), nil
}

func (s *Storage) emailTaken(email string, exceptID int64) bool {
	for _, u := range s.users {
		if u.Email == email && u.ID != exceptID {
			return true
		}
	}
	return false
}

// --- cohorts ---

func (s *Storage) CreateCohort(_ context.Context, cohort *model.Cohort) (*model.Cohort, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastCohortID++
	now := s.now()
	cohort.ID = s.lastCohortID
	cohort.CreatedAt = now
	cohort.UpdatedAt = now

	stored := *cohort
	stored.Users = nil
	s.cohorts[cohort.ID] = &stored
	s.members[cohort.ID] = map[int64]struct{}{}
	return s.cohortWithMembers(cohort.ID), nil
}

func (s *Storage) FindCohort(_ context.Context, id int64) (*model.Cohort, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.cohorts[id]; !ok {
		return nil, nil
	}
	return s.cohortWithMembers(id), nil
}

func (s *Storage) FindCohorts(context.Context) ([]model.Cohort, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cohorts := make([]model.Cohort, 0, len(s.cohorts))
	for id := range s.cohorts {
		cohorts = append(cohorts, *s.cohortWithMembers(id))
	}
	sort.Slice(cohorts, func(i, j int) bool { return cohorts[i].ID < cohorts[j].ID })
	return cohorts, nil
}

func (s *Storage) UpdateCohort(_ context.Context, id int64, patch domain.CohortPatch) (*model.Cohort, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.cohorts[id]
	if !ok {
		return nil, nil
	}
	patch.ApplyTo(stored)
	stored.UpdatedAt = s.now()
	return s.cohortWithMembers(id), nil
}

func (s *Storage) DeleteCohort(_ context.Context, id int64) (*model.Cohort, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cohorts[id]; !ok {
		return nil, nil
	}
	deleted := s.cohortWithMembers(id)

	for _, u := range s.users {
		if u.CohortID != nil && *u.CohortID == id {
			u.CohortID = nil
		}
	}
	delete(s.members, id)
	delete(s.cohorts, id)
	return deleted, nil
}

func (s *Storage) AddUserToCohort(_ context.Context, cohortID, userID int64) (*model.Cohort, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cohorts[cohortID]; !ok {
		return nil, fmt.Errorf("add user %d to cohort %d: %w", userID, cohortID, domain.ErrNotFound)
	}
	user, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("add user %d to cohort %d: %w", userID, cohortID, domain.ErrNotFound)
	}

	s.members[cohortID][userID] = struct{}{}
	id := cohortID
	user.CohortID = &id
	user.UpdatedAt = s.now()
	return s.cohortWithMembers(cohortID), nil
}

func (s *Storage) cohortWithMembers(id int64) *model.Cohort {
	c := *s.cohorts[id]
	c.Users = make([]model.User, 0, len(s.members[id]))
	for userID := range s.members[id] {
		if u, ok := s.users[userID]; ok {
			c.Users = append(c.Users, *copyUser(u))
		}
	}
	sort.Slice(c.Users, func(i, j int) bool { return c.Users[i].ID < c.Users[j].ID })
	return &c
}

// --- posts & comments ---

func (s *Storage) CreatePost(_ context.Context, post *model.Post) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[post.UserID]; !ok {
		return nil, fmt.Errorf("create post: author %d: %w", post.UserID, domain.ErrNotFound)
	}

	s.lastPostID++
	now := s.now()
	post.ID = s.lastPostID
	post.CreatedAt = now
	post.UpdatedAt = now

	stored := *post
	stored.User = nil
	s.posts[post.ID] = &stored
	return s.postWithAuthor(&stored), nil
}

func (s *Storage) FindPost(_ context.Context, id int64) (*model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, nil
	}
	return s.postWithAuthor(p), nil
}

func (s *Storage) FindPosts(_ context.Context, filter model.PostFilter) ([]model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]model.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if filter.UserID != 0 && p.UserID != filter.UserID {
			continue
		}
		posts = append(posts, *s.postWithAuthor(p))
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
	return posts, nil
}

func (s *Storage) CreateComment(_ context.Context, comment *model.Comment) (*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[comment.PostID]; !ok {
		return nil, fmt.Errorf("create comment on post %d: %w", comment.PostID, domain.ErrNotFound)
	}
	if _, ok := s.users[comment.UserID]; !ok {
		return nil, fmt.Errorf("create comment: author %d: %w", comment.UserID, domain.ErrNotFound)
	}

	s.lastCommentID++
	now := s.now()
	comment.ID = s.lastCommentID
	comment.CreatedAt = now
	comment.UpdatedAt = now

	stored := *comment
	stored.User = nil
	stored.Post = nil
	s.comments[comment.ID] = &stored
	return s.commentWithAuthor(&stored), nil
}

func (s *Storage) FindCommentsByPost(_ context.Context, postID int64) ([]model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments := make([]model.Comment, 0)
	for _, c := range s.comments {
		if c.PostID == postID {
			comments = append(comments, *s.commentWithAuthor(c))
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.Before(comments[j].CreatedAt)
		}
		return comments[i].ID < comments[j].ID
	})
	return comments, nil
}

func (s *Storage) postWithAuthor(p *model.Post) *model.Post {
	out := *p
	if u, ok := s.users[p.UserID]; ok {
		out.User = copyUser(u)
	}
	return &out
}

func (s *Storage) commentWithAuthor(c *model.Comment) *model.Comment {
	out := *c
	if u, ok := s.users[c.UserID]; ok {
		out.User = copyUser(u)
	}
	return &out
}

func copyUser(u *model.User) *model.User {
	out := *u
	out.Cohorts = nil
	if u.CohortID != nil {
		id := *u.CohortID
		out.CohortID = &id
	}
	if u.Profile != nil {
		p := *u.Profile
		out.Profile = &p
	}
	return &out
}

var (
	_ ports.UserStorage    = (*Storage)(nil)
	_ ports.CohortStorage  = (*Storage)(nil)
	_ ports.PostStorage    = (*Storage)(nil)
	_ ports.CommentStorage = (*Storage)(nil)
	_ ports.HealthChecker  = (*Storage)(nil)
)
