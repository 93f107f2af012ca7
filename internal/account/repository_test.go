package account

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	return NewRepository(db), mock
}

var ann = UserInput{FullName: "Ann", Email: "a@x.com", Password: "p1"}

func TestRepository_Create(t *testing.T) {
	t.Run("commits and returns generated id", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("Ann", "a@x.com", "p1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
		mock.ExpectCommit()

		id, err := repo.Create(context.Background(), ann)
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)
	})

	t.Run("rolls back on insert failure", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO users`).WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		_, err := repo.Create(context.Background(), ann)
		assert.EqualError(t, err, "insert user: connection reset")
	})

	t.Run("begin failure", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

		_, err := repo.Create(context.Background(), ann)
		assert.EqualError(t, err, "begin create user tx: pool exhausted")
	})
}

func TestRepository_GetByEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(`SELECT id, full_name, email, password\s+FROM users\s+WHERE email = \$1\s+ORDER BY id ASC`).
			WithArgs("a@x.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "email", "password"}).
				AddRow(int64(3), "Ann", "a@x.com", "p1"))

		user, err := repo.GetByEmail(context.Background(), "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, User{ID: 3, FullName: "Ann", Email: "a@x.com", Password: "p1"}, user)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(`FROM users`).
			WithArgs("b@x.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "email", "password"}))

		_, err := repo.GetByEmail(context.Background(), "b@x.com")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("query failure", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(`FROM users`).WillReturnError(errors.New("timeout"))

		_, err := repo.GetByEmail(context.Background(), "a@x.com")
		assert.EqualError(t, err, "query user by email: timeout")
		assert.NotErrorIs(t, err, ErrUserNotFound)
	})
}

func TestRepository_Update(t *testing.T) {
	t.Run("one row", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE users`).
			WithArgs("Ann", "a@x.com", "p1", int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		affected, err := repo.Update(context.Background(), 1, ann)
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)
	})

	t.Run("no rows", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE users`).
			WithArgs("Ann", "a@x.com", "p1", int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		affected, err := repo.Update(context.Background(), 42, ann)
		require.NoError(t, err)
		assert.Zero(t, affected)
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE users`).WillReturnError(errors.New("deadlock detected"))
		mock.ExpectRollback()

		_, err := repo.Update(context.Background(), 1, ann)
		assert.EqualError(t, err, "update user: deadlock detected")
	})

	t.Run("commit failure", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE users`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

		_, err := repo.Update(context.Background(), 1, ann)
		assert.EqualError(t, err, "commit update user tx: serialization failure")
	})
}
