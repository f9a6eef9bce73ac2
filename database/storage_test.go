package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/vocabnest/vocabnest/config"
	"github.com/vocabnest/vocabnest/database/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStorage(t *testing.T) *GormStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, InitDB(config.NewSQLiteConfig(dbPath)))
	t.Cleanup(func() { _ = CloseDB() })
	return NewStorage(GetDB())
}

func ephemeral() model.EntryFields {
	return model.EntryFields{
		Term:       "ephemeral",
		Definition: "short-lived",
		Example:    "an ephemeral session",
	}
}

func TestCreateAndGetUser(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "alice", "hash")
	require.NoError(t, err)
	assert.NotEmpty(t, user.Id)

	got, err := s.GetUser(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "hash", got.Password)

	got, err = s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.Id, got.Id)

	_, err = s.GetUserByUsername(ctx, "Alice")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, IsNotFound(err))
}

func TestCreateUserDuplicate(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, "alice", "hash")
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, "alice", "other")
	assert.ErrorIs(t, err, ErrDuplicate)

	// usernames are case-sensitive
	_, err = s.CreateUser(ctx, "ALICE", "hash")
	assert.NoError(t, err)
}

func TestEntryRoundTrip(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	alice, err := s.CreateUser(ctx, "alice", "hash")
	require.NoError(t, err)

	created, err := s.CreateEntry(ctx, alice.Id, ephemeral())
	require.NoError(t, err)
	assert.NotEmpty(t, created.Id)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	entries, err := s.ListEntriesForUser(ctx, alice.Id)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, created.Id, entries[0].Id)
	assert.Equal(t, alice.Id, entries[0].UserId)
	assert.Equal(t, "ephemeral", entries[0].Term)
	assert.Equal(t, "short-lived", entries[0].Definition)
	assert.Equal(t, "an ephemeral session", entries[0].Example)
	assert.False(t, entries[0].UpdatedAt.Before(entries[0].CreatedAt))

	got, err := s.GetEntry(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, "ephemeral", got.Term)
}

func TestListEntriesNewestFirst(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	alice, err := s.CreateUser(ctx, "alice", "hash")
	require.NoError(t, err)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, term := range []string{"first", "second", "third"} {
		at := base.Add(time.Duration(i) * time.Minute)
		s.now = func() time.Time { return at }
		_, err := s.CreateEntry(ctx, alice.Id, model.EntryFields{Term: term, Definition: "d", Example: "e"})
		require.NoError(t, err)
	}

	entries, err := s.ListEntriesForUser(ctx, alice.Id)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "third", entries[0].Term)
	assert.Equal(t, "second", entries[1].Term)
	assert.Equal(t, "first", entries[2].Term)
}

func TestListEntriesEmpty(t *testing.T) {
	s := setupStorage(t)

	entries, err := s.ListEntriesForUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestUpdateEntry(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	alice, err := s.CreateUser(ctx, "alice", "hash")
	require.NoError(t, err)
	created, err := s.CreateEntry(ctx, alice.Id, ephemeral())
	require.NoError(t, err)

	fields := model.EntryFields{Term: "transient", Definition: "passing", Example: "a transient fault"}

	first, err := s.UpdateEntry(ctx, created.Id, alice.Id, fields)
	require.NoError(t, err)
	assert.Equal(t, "transient", first.Term)
	assert.Equal(t, "passing", first.Definition)
	assert.Equal(t, "a transient fault", first.Example)
	assert.False(t, first.UpdatedAt.Before(created.UpdatedAt))

	second, err := s.UpdateEntry(ctx, created.Id, alice.Id, fields)
	require.NoError(t, err)
	assert.Equal(t, first.Term, second.Term)
	assert.Equal(t, first.Definition, second.Definition)
	assert.Equal(t, first.Example, second.Example)
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))
	assert.Equal(t, created.CreatedAt.Unix(), second.CreatedAt.Unix())
}

func TestMutationsAreOwnerScoped(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	alice, err := s.CreateUser(ctx, "alice", "hash")
	require.NoError(t, err)
	bob, err := s.CreateUser(ctx, "bob", "hash")
	require.NoError(t, err)

	bobs, err := s.CreateEntry(ctx, bob.Id, ephemeral())
	require.NoError(t, err)

	changed := model.EntryFields{Term: "x", Definition: "y", Example: "z"}

	// someone else's entry and a missing entry are indistinguishable
	_, errForeign := s.UpdateEntry(ctx, bobs.Id, alice.Id, changed)
	_, errMissing := s.UpdateEntry(ctx, "does-not-exist", alice.Id, changed)
	assert.ErrorIs(t, errForeign, ErrNotFound)
	assert.ErrorIs(t, errMissing, ErrNotFound)

	deleted, err := s.DeleteEntry(ctx, bobs.Id, alice.Id)
	require.NoError(t, err)
	assert.False(t, deleted)
	deleted, err = s.DeleteEntry(ctx, "does-not-exist", alice.Id)
	require.NoError(t, err)
	assert.False(t, deleted)

	got, err := s.GetEntry(ctx, bobs.Id)
	require.NoError(t, err)
	assert.Equal(t, "ephemeral", got.Term)

	entries, err := s.ListEntriesForUser(ctx, alice.Id)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeleteEntry(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	alice, err := s.CreateUser(ctx, "alice", "hash")
	require.NoError(t, err)
	created, err := s.CreateEntry(ctx, alice.Id, ephemeral())
	require.NoError(t, err)

	deleted, err := s.DeleteEntry(ctx, created.Id, alice.Id)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.DeleteEntry(ctx, created.Id, alice.Id)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = s.GetEntry(ctx, created.Id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletingUserCascadesToEntries(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	alice, err := s.CreateUser(ctx, "alice", "hash")
	require.NoError(t, err)
	created, err := s.CreateEntry(ctx, alice.Id, ephemeral())
	require.NoError(t, err)

	require.NoError(t, GetDB().Delete(&model.User{}, "id = ?", alice.Id).Error)

	_, err = s.GetEntry(ctx, created.Id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEntryRequiresExistingOwner(t *testing.T) {
	s := setupStorage(t)

	_, err := s.CreateEntry(context.Background(), "ghost", ephemeral())
	assert.Error(t, err)
}

func TestMigrateIsIdempotent(t *testing.T) {
	setupStorage(t)
	assert.NoError(t, Migrate())
	assert.NoError(t, Checkpoint())
}

func TestGooseDialect(t *testing.T) {
	c := config.GetDefaultDatabaseConfig()
	for typ, want := range map[config.DatabaseType][2]string{
		config.DatabaseTypeSQLite:     {"sqlite3", "migrations/sqlite"},
		config.DatabaseTypePostgreSQL: {"postgres", "migrations/postgres"},
		config.DatabaseTypeMySQL:      {"mysql", "migrations/mysql"},
	} {
		c.Type = typ
		dialect, dir := gooseDialect(c)
		assert.Equal(t, want[0], dialect)
		assert.Equal(t, want[1], dir)

		_, err := migrationsFS.ReadDir(dir)
		assert.NoError(t, err, dir)
	}
}
