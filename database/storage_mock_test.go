package database

import (
	"context"
	"testing"

	"github.com/vocabnest/vocabnest/database/model"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newMockStorage runs the storage against the postgres dialect over a mocked
// connection, so the generated SQL and the error mapping can be checked
// without a server.
func newMockStorage(t *testing.T) (*GormStorage, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	conn, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	return NewStorage(conn), mock
}

func newMockMySQLStorage(t *testing.T) (*GormStorage, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	conn, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	return NewStorage(conn), mock
}

func TestMockGetUserDriverError(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnError(errors.New("connection reset by peer"))

	_, err := s.GetUser(context.Background(), "u1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "get user")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMockGetUserNoRows(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password"}))

	_, err := s.GetUserByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMockCreateUserUniqueViolation(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectExec(`INSERT INTO "users"`).
		WithArgs(sqlmock.AnyArg(), "alice", "hash").
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	_, err := s.CreateUser(context.Background(), "alice", "hash")
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMockDeleteEntryIsOwnerScoped(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectExec(`DELETE FROM "vocabulary_entries" WHERE .*id = \$1 AND user_id = \$2`).
		WithArgs("e1", "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := s.DeleteEntry(context.Background(), "e1", "intruder")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMockUpdateEntryRollsBackWhenNotOwned(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "vocabulary_entries" SET .* WHERE .*id = \$\d+ AND user_id = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := s.UpdateEntry(context.Background(), "e1", "intruder", model.EntryFields{
		Term:       "t",
		Definition: "d",
		Example:    "e",
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMockMySQLDuplicateUsername(t *testing.T) {
	s, mock := newMockMySQLStorage(t)

	mock.ExpectExec("INSERT INTO `users`").
		WithArgs(sqlmock.AnyArg(), "alice", "hash").
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry 'alice' for key 'username'"})

	_, err := s.CreateUser(context.Background(), "alice", "hash")
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMockMySQLDeleteEntryIsOwnerScoped(t *testing.T) {
	s, mock := newMockMySQLStorage(t)

	mock.ExpectExec("DELETE FROM `vocabulary_entries` WHERE .*id = \\? AND user_id = \\?").
		WithArgs("e1", "owner").
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := s.DeleteEntry(context.Background(), "e1", "owner")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
