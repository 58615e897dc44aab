package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/GoArmGo/CohortApp/internal/core/ports"
	"github.com/GoArmGo/CohortApp/internal/domain"
	"github.com/GoArmGo/CohortApp/internal/logger"
	"github.com/GoArmGo/CohortApp/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestGormUserStorage_FindUser_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewGormUserStorage(db, logger.NewNop())

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}))

	user, err := s.FindUser(context.Background(), model.UserWhere{Email: "nobody@test.com"})
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserStorage_FindUser_WithProfile(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewGormUserStorage(db, logger.NewNop())

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "role", "specialism"}).
			AddRow(7, "jane@test.com", "hash", "TEACHER", "Software Developer"))
	mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE "profiles"."user_id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "first_name", "last_name"}).
			AddRow(1, 7, "Jane", "Doe"))

	user, err := s.FindUser(context.Background(), model.UserWhere{ID: 7})
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "TEACHER", user.Role)
	require.NotNil(t, user.Profile)
	assert.Equal(t, "Jane", user.Profile.FirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserStorage_FindUser_EmptyKey(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewGormUserStorage(db, logger.NewNop())

	_, err := s.FindUser(context.Background(), model.UserWhere{})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserStorage_FindUsers_FirstNameFilter(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewGormUserStorage(db, logger.NewNop())

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id IN \(SELECT .*first_name ILIKE \$1.*\) ORDER BY id ASC`).
		WithArgs("%jane%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).AddRow(3, "jane@test.com"))
	mock.ExpectQuery(`SELECT \* FROM "profiles"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "first_name"}).AddRow(1, 3, "Jane"))

	users, err := s.FindUsers(context.Background(), model.UserFilter{FirstNameContains: "jane"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Jane", users[0].Profile.FirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserStorage_CreateUser_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewGormUserStorage(db, logger.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value"})
	mock.ExpectRollback()

	_, err := s.CreateUser(context.Background(), &model.User{
		Email:      "jane@test.com",
		Password:   "hash",
		Role:       "STUDENT",
		Specialism: domain.DefaultSpecialism,
	})
	assert.ErrorIs(t, err, ports.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserStorage_UpdateUser_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewGormUserStorage(db, logger.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	user, err := s.UpdateUser(context.Background(), 42, domain.UserPatch{FirstName: domain.Some("Jane")})
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCohortStorage_UpdateCohort_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewGormCohortStorage(db, logger.NewNop())

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "cohorts" SET .*"name"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	cohort, err := s.UpdateCohort(context.Background(), 9, domain.CohortPatch{Name: domain.Some("Data")})
	require.NoError(t, err)
	assert.Nil(t, cohort)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCohortStorage_FindCohort_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewGormCohortStorage(db, logger.NewNop())

	mock.ExpectQuery(`SELECT \* FROM "cohorts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	cohort, err := s.FindCohort(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, cohort)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPostStorage_CreatePost_UnknownAuthor(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewGormPostStorage(db, logger.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "posts"`).
		WillReturnError(&pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"})
	mock.ExpectRollback()

	_, err := s.CreatePost(context.Background(), &model.Post{UserID: 99, Content: "hi"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPostStorage_FindCommentsByPost_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewGormPostStorage(db, logger.NewNop())

	mock.ExpectQuery(`SELECT \* FROM "comments" WHERE post_id = \$1 ORDER BY created_at ASC,id ASC`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "user_id", "content"}))

	comments, err := s.FindCommentsByPost(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, comments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%`, escapeLike("50%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c\\d`, escapeLike(`c\d`))
}
