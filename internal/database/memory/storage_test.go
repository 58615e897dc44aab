package memory

import (
	"context"
	"testing"
	"time"

	"github.com/GoArmGo/CohortApp/internal/core/ports"
	"github.com/GoArmGo/CohortApp/internal/domain"
	"github.com/GoArmGo/CohortApp/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createUser(t *testing.T, s *Storage, email, firstName string) *model.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), &model.User{
		Email:    email,
		Password: "hash",
		Profile:  &model.Profile{FirstName: firstName},
	})
	require.NoError(t, err)
	return u
}

func TestCreateUser_DefaultsAndDuplicate(t *testing.T) {
	s := New()

	u := createUser(t, s, "jane@test.com", "Jane")
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "STUDENT", u.Role)
	assert.Equal(t, domain.DefaultSpecialism, u.Specialism)
	require.NotNil(t, u.Profile)
	assert.Equal(t, u.ID, u.Profile.UserID)

	_, err := s.CreateUser(context.Background(), &model.User{Email: "jane@test.com"})
	assert.ErrorIs(t, err, ports.ErrDuplicate)
}

func TestFindUser(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := createUser(t, s, "jane@test.com", "Jane")

	byID, err := s.FindUser(ctx, model.UserWhere{ID: u.ID})
	require.NoError(t, err)
	assert.Equal(t, "jane@test.com", byID.Email)

	byEmail, err := s.FindUser(ctx, model.UserWhere{Email: "jane@test.com"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	missing, err := s.FindUser(ctx, model.UserWhere{ID: 99})
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = s.FindUser(ctx, model.UserWhere{})
	assert.Error(t, err)
}

func TestFindUser_ReturnsCopy(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := createUser(t, s, "jane@test.com", "Jane")

	got, err := s.FindUser(ctx, model.UserWhere{ID: u.ID})
	require.NoError(t, err)
	got.Profile.FirstName = "Mallory"

	again, err := s.FindUser(ctx, model.UserWhere{ID: u.ID})
	require.NoError(t, err)
	assert.Equal(t, "Jane", again.Profile.FirstName)
}

func TestFindUsers_FirstNameFilter(t *testing.T) {
	s := New()
	createUser(t, s, "a@test.com", "Jane")
	createUser(t, s, "b@test.com", "Bob")
	createUser(t, s, "c@test.com", "JANET")

	users, err := s.FindUsers(context.Background(), model.UserFilter{FirstNameContains: "jan"})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "a@test.com", users[0].Email)
	assert.Equal(t, "c@test.com", users[1].Email)

	all, err := s.FindUsers(context.Background(), model.UserFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdateUser(t *testing.T) {
	s := New()
	ctx := context.Background()
	jane := createUser(t, s, "jane@test.com", "Jane")
	createUser(t, s, "bob@test.com", "Bob")

	updated, err := s.UpdateUser(ctx, jane.ID, domain.UserPatch{
		Bio:  domain.Some("hello"),
		Role: domain.Some(domain.RoleTeacher),
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", updated.Profile.Bio)
	assert.Equal(t, "Jane", updated.Profile.FirstName)
	assert.Equal(t, "TEACHER", updated.Role)

	_, err = s.UpdateUser(ctx, jane.ID, domain.UserPatch{Email: domain.Some("bob@test.com")})
	assert.ErrorIs(t, err, ports.ErrDuplicate)

	missing, err := s.UpdateUser(ctx, 99, domain.UserPatch{Bio: domain.Some("x")})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUpdateUser_CreatesMissingProfile(t *testing.T) {
	s := New()
	ctx := context.Background()
	u, err := s.CreateUser(ctx, &model.User{Email: "np@test.com"})
	require.NoError(t, err)
	require.Nil(t, u.Profile)

	updated, err := s.UpdateUser(ctx, u.ID, domain.UserPatch{FirstName: domain.Some("Nina")})
	require.NoError(t, err)
	require.NotNil(t, updated.Profile)
	assert.Equal(t, "Nina", updated.Profile.FirstName)
	assert.Equal(t, u.ID, updated.Profile.UserID)
}

func TestCohorts(t *testing.T) {
	s := New()
	ctx := context.Background()
	jane := createUser(t, s, "jane@test.com", "Jane")

	start := time.Date(2014, 6, 1, 0, 0, 0, 0, time.UTC)
	c, err := s.CreateCohort(ctx, &model.Cohort{Name: "Web", StartDate: start, EndDate: start.AddDate(0, 6, 0)})
	require.NoError(t, err)
	assert.Empty(t, c.Users)

	_, err = s.AddUserToCohort(ctx, 99, jane.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.AddUserToCohort(ctx, c.ID, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	withMember, err := s.AddUserToCohort(ctx, c.ID, jane.ID)
	require.NoError(t, err)
	require.Len(t, withMember.Users, 1)
	assert.Equal(t, jane.ID, withMember.Users[0].ID)

	u, err := s.FindUser(ctx, model.UserWhere{ID: jane.ID})
	require.NoError(t, err)
	require.NotNil(t, u.CohortID)
	assert.Equal(t, c.ID, *u.CohortID)

	renamed, err := s.UpdateCohort(ctx, c.ID, domain.CohortPatch{Name: domain.Some("Data")})
	require.NoError(t, err)
	assert.Equal(t, "Data", renamed.Name)
	assert.Equal(t, start, renamed.StartDate)

	missing, err := s.UpdateCohort(ctx, 99, domain.CohortPatch{Name: domain.Some("x")})
	require.NoError(t, err)
	assert.Nil(t, missing)

	deleted, err := s.DeleteCohort(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Data", deleted.Name)

	u, err = s.FindUser(ctx, model.UserWhere{ID: jane.ID})
	require.NoError(t, err)
	assert.Nil(t, u.CohortID)

	gone, err := s.FindCohort(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestPostsAndComments(t *testing.T) {
	s := New()
	ctx := context.Background()

	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	jane := createUser(t, s, "jane@test.com", "Jane")
	bob := createUser(t, s, "bob@test.com", "Bob")

	_, err := s.CreatePost(ctx, &model.Post{UserID: 99, Content: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	first, err := s.CreatePost(ctx, &model.Post{UserID: jane.ID, Content: "first"})
	require.NoError(t, err)
	require.NotNil(t, first.User)
	assert.Equal(t, "Jane", first.User.Profile.FirstName)

	second, err := s.CreatePost(ctx, &model.Post{UserID: bob.ID, Content: "second"})
	require.NoError(t, err)

	posts, err := s.FindPosts(ctx, model.PostFilter{})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)

	mine, err := s.FindPosts(ctx, model.PostFilter{UserID: jane.ID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)

	_, err = s.CreateComment(ctx, &model.Comment{PostID: 99, UserID: bob.ID, Content: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	c1, err := s.CreateComment(ctx, &model.Comment{PostID: first.ID, UserID: bob.ID, Content: "nice"})
	require.NoError(t, err)
	c2, err := s.CreateComment(ctx, &model.Comment{PostID: first.ID, UserID: jane.ID, Content: "thanks"})
	require.NoError(t, err)

	comments, err := s.FindCommentsByPost(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, c1.ID, comments[0].ID)
	assert.Equal(t, c2.ID, comments[1].ID)
	assert.Equal(t, "Bob", comments[0].User.Profile.FirstName)

	none, err := s.FindCommentsByPost(ctx, second.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}
