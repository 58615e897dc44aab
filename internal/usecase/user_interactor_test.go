package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/GoArmGo/CohortApp/internal/database/memory"
	"github.com/GoArmGo/CohortApp/internal/domain"
	"github.com/GoArmGo/CohortApp/internal/logger"
	"github.com/GoArmGo/CohortApp/internal/messaging/payloads"
	"github.com/GoArmGo/CohortApp/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "Password1!"

type userFixture struct {
	store     *memory.Storage
	files     *fakeFileStorage
	publisher *fakePublisher
	uc        UserUseCase
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	f := &userFixture{
		store:     memory.New(),
		files:     newFakeFileStorage(),
		publisher: &fakePublisher{},
	}
	f.uc = NewUserUseCase(f.store, f.files, f.publisher, logger.NewNop())
	return f
}

func (f *userFixture) register(t *testing.T, firstName, email string) *domain.User {
	t.Helper()
	u, err := f.uc.Register(context.Background(), domain.UserInput{
		FirstName: firstName,
		LastName:  "Doe",
		Email:     email,
		Password:  testPassword,
	})
	require.NoError(t, err)
	return u
}

func TestRegister_StoresHashNotPlaintext(t *testing.T) {
	f := newUserFixture(t)

	u := f.register(t, "Jane", "jane@test.com")

	rec, err := f.store.FindUser(context.Background(), model.UserWhere{ID: u.ID})
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.NotEqual(t, testPassword, rec.Password)
	assert.True(t, strings.HasPrefix(rec.Password, "$2a$"))
	assert.True(t, u.CheckPassword(testPassword))

	assert.Equal(t, domain.RoleStudent, u.Role)
	assert.Equal(t, domain.DefaultSpecialism, u.Specialism)
	require.NotNil(t, rec.Profile, "profile is always created")
	assert.Equal(t, "Jane", rec.Profile.FirstName)
	assert.Nil(t, rec.CohortID)
}

func TestRegister_Validation(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	_, err := f.uc.Register(ctx, domain.UserInput{Email: "not-an-email", Password: testPassword})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.uc.Register(ctx, domain.UserInput{Email: "a@b.com", Password: "weak"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "password", verr.Field)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newUserFixture(t)
	f.register(t, "Jane", "jane@test.com")

	_, err := f.uc.Register(context.Background(), domain.UserInput{Email: "jane@test.com", Password: testPassword})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestSave_DuplicateFromStore(t *testing.T) {
	f := newUserFixture(t)
	f.register(t, "Jane", "jane@test.com")

	_, err := f.uc.Save(context.Background(), &domain.User{Email: "jane@test.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestFindByID_RoundTrip(t *testing.T) {
	f := newUserFixture(t)
	created := f.register(t, "Jane", "jane@test.com")

	found, err := f.uc.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.PublicView(), found.PublicView())
	assert.Equal(t, created.PasswordHash, found.PasswordHash)
}

func TestFind_Absent(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	u, err := f.uc.FindByID(ctx, 404)
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = f.uc.FindByEmail(ctx, "nobody@test.com")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestFindManyByFirstName_CaseInsensitive(t *testing.T) {
	f := newUserFixture(t)
	jane := f.register(t, "Jane", "jane@test.com")
	f.register(t, "John", "john@test.com")
	ctx := context.Background()

	for _, q := range []string{"jane", "JANE", "an"} {
		users, err := f.uc.FindManyByFirstName(ctx, q)
		require.NoError(t, err)
		require.Len(t, users, 1, q)
		assert.Equal(t, jane.ID, users[0].ID)
	}

	all, err := f.uc.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdateProfile_RoleGate(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	for i := 1; i <= 6; i++ {
		f.register(t, fmt.Sprintf("User%d", i), fmt.Sprintf("user%d@test.com", i))
	}

	student := domain.Requester{ID: 5, Role: domain.RoleStudent}
	changes := domain.ProfileChanges{FirstName: "Changed", Password: testPassword}

	_, err := f.uc.UpdateProfile(ctx, student, 6, changes)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.NotErrorIs(t, err, domain.ErrValidation)

	updated, err := f.uc.UpdateProfile(ctx, student, 5, changes)
	require.NoError(t, err)
	assert.Equal(t, "Changed", updated.FirstName)

	teacher := domain.Requester{ID: 1, Role: domain.RoleTeacher}
	updated, err = f.uc.UpdateProfile(ctx, teacher, 6, domain.ProfileChanges{Bio: "Teaches Go"})
	require.NoError(t, err)
	assert.Equal(t, "Teaches Go", updated.Bio)
}

func TestUpdateProfile_ValidationBeforeAuthorization(t *testing.T) {
	f := newUserFixture(t)
	f.register(t, "Jane", "jane@test.com")
	stranger := domain.Requester{ID: 99, Role: domain.RoleStudent}

	for _, pw := range []string{"short1!", "password1!", "Password!"} {
		_, err := f.uc.UpdateProfile(context.Background(), stranger, 1, domain.ProfileChanges{Password: pw})
		assert.ErrorIs(t, err, domain.ErrValidation, pw)
		assert.NotErrorIs(t, err, domain.ErrForbidden, pw)
	}
}

func TestUpdateProfile_NotFound(t *testing.T) {
	f := newUserFixture(t)
	teacher := domain.Requester{ID: 1, Role: domain.RoleTeacher}

	_, err := f.uc.UpdateProfile(context.Background(), teacher, 42, domain.ProfileChanges{Bio: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateProfile_EmptyStringRetains(t *testing.T) {
	f := newUserFixture(t)
	u := f.register(t, "Jane", "jane@test.com")
	self := domain.Requester{ID: u.ID, Role: domain.RoleStudent}

	updated, err := f.uc.UpdateProfile(context.Background(), self, u.ID, domain.ProfileChanges{
		FirstName: "",
		LastName:  "Smith",
		Email:     "",
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane", updated.FirstName)
	assert.Equal(t, "Smith", updated.LastName)
	assert.Equal(t, "jane@test.com", updated.Email)
}

func TestUpdateProfile_NoChangesSkipsWrite(t *testing.T) {
	f := newUserFixture(t)
	u := f.register(t, "Jane", "jane@test.com")
	self := domain.Requester{ID: u.ID, Role: domain.RoleStudent}

	got, err := f.uc.UpdateProfile(context.Background(), self, u.ID, domain.ProfileChanges{})
	require.NoError(t, err)
	assert.Equal(t, u.PublicView(), got.PublicView())
	assert.Equal(t, []string{payloads.UserRegistered}, f.publisher.types())
}

func TestUpdateProfile_PasswordIsHashed(t *testing.T) {
	f := newUserFixture(t)
	u := f.register(t, "Jane", "jane@test.com")
	self := domain.Requester{ID: u.ID, Role: domain.RoleStudent}
	ctx := context.Background()

	_, err := f.uc.UpdateProfile(ctx, self, u.ID, domain.ProfileChanges{Password: "Newpassword2@"})
	require.NoError(t, err)

	rec, err := f.store.FindUser(ctx, model.UserWhere{ID: u.ID})
	require.NoError(t, err)
	assert.NotEqual(t, "Newpassword2@", rec.Password)

	_, err = f.uc.Login(ctx, "jane@test.com", "Newpassword2@")
	require.NoError(t, err)
	_, err = f.uc.Login(ctx, "jane@test.com", testPassword)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUpdateProfile_EmailTaken(t *testing.T) {
	f := newUserFixture(t)
	u := f.register(t, "Jane", "jane@test.com")
	f.register(t, "John", "john@test.com")
	self := domain.Requester{ID: u.ID, Role: domain.RoleStudent}

	_, err := f.uc.UpdateProfile(context.Background(), self, u.ID, domain.ProfileChanges{Email: "john@test.com"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	f := newUserFixture(t)
	u := f.register(t, "Jane", "jane@test.com")
	ctx := context.Background()

	got, err := f.uc.Login(ctx, "jane@test.com", testPassword)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = f.uc.Login(ctx, "jane@test.com", "Wrongpass1!")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.uc.Login(ctx, "nobody@test.com", testPassword)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.uc.Login(ctx, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUpdateRoleByID(t *testing.T) {
	f := newUserFixture(t)
	u := f.register(t, "Jane", "jane@test.com")
	ctx := domain.WithRequester(context.Background(), domain.Requester{ID: 77, Role: domain.RoleTeacher})

	updated, err := f.uc.UpdateRoleByID(ctx, u.ID, domain.RoleTeacher)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTeacher, updated.Role)

	_, err = f.uc.UpdateRoleByID(ctx, 404, domain.RoleTeacher)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.UpdateRoleByID(ctx, u.ID, domain.Role(9))
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.Len(t, f.publisher.events, 2)
	last := f.publisher.events[1]
	assert.Equal(t, payloads.UserRoleChanged, last.Type)
	assert.Equal(t, u.ID, last.UserID)
	assert.Equal(t, int64(77), last.ActorID)
	assert.Equal(t, "TEACHER", last.Detail)
}

func TestUploadAvatar(t *testing.T) {
	f := newUserFixture(t)
	u := f.register(t, "Jane", "jane@test.com")
	self := domain.Requester{ID: u.ID, Role: domain.RoleStudent}
	ctx := context.Background()

	updated, err := f.uc.UploadAvatar(ctx, self, u.ID, strings.NewReader("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(updated.ProfilePicture, "http://minio.local/avatars/avatars/"))
	require.Len(t, f.files.files, 1)
	for key, body := range f.files.files {
		assert.True(t, strings.HasPrefix(key, fmt.Sprintf("avatars/%d/", u.ID)))
		assert.Equal(t, "png-bytes", body)
	}
	assert.Contains(t, f.publisher.types(), payloads.UserAvatarChanged)

	other := domain.Requester{ID: u.ID + 1, Role: domain.RoleStudent}
	_, err = f.uc.UploadAvatar(ctx, other, u.ID, strings.NewReader("x"), "image/png")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	teacher := domain.Requester{ID: 1000, Role: domain.RoleTeacher}
	_, err = f.uc.UploadAvatar(ctx, teacher, 404, strings.NewReader("x"), "image/png")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUploadAvatar_Disabled(t *testing.T) {
	uc := NewUserUseCase(memory.New(), nil, nil, logger.NewNop())

	_, err := uc.UploadAvatar(context.Background(), domain.Requester{ID: 1}, 1, strings.NewReader("x"), "")
	assert.ErrorIs(t, err, domain.ErrFileStorageDisabled)
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	store := memory.New()
	uc := NewUserUseCase(store, nil, &fakePublisher{failWith: errors.New("broker down")}, logger.NewNop())

	u, err := uc.Register(context.Background(), domain.UserInput{Email: "jane@test.com", Password: testPassword})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
}
