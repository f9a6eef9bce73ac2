package database

import (
	"context"
	"time"

	"github.com/vocabnest/vocabnest/database/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no row matches the lookup. For entry
	// mutations this also covers rows owned by another user.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// Storage is the typed access layer over users and vocabulary entries.
// Entry mutations always filter on both the entry id and the owner id.
type Storage interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	CreateUser(ctx context.Context, username, passwordHash string) (*model.User, error)

	ListEntriesForUser(ctx context.Context, userID string) ([]model.VocabularyEntry, error)
	GetEntry(ctx context.Context, id string) (*model.VocabularyEntry, error)
	CreateEntry(ctx context.Context, userID string, fields model.EntryFields) (*model.VocabularyEntry, error)
	UpdateEntry(ctx context.Context, id, userID string, fields model.EntryFields) (*model.VocabularyEntry, error)
	DeleteEntry(ctx context.Context, id, userID string) (bool, error)
}

// GormStorage implements Storage on top of a gorm connection.
type GormStorage struct {
	db  *gorm.DB
	now func() time.Time
}

// NewStorage returns a Storage backed by the given connection.
func NewStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *GormStorage) GetUser(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	err := s.db.WithContext(ctx).Where("id = ?", id).First(user).Error
	if err != nil {
		return nil, translate(err, "get user")
	}
	return user, nil
}

func (s *GormStorage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	user := &model.User{}
	err := s.db.WithContext(ctx).Where("username = ?", username).First(user).Error
	if err != nil {
		return nil, translate(err, "get user by username")
	}
	return user, nil
}

func (s *GormStorage) CreateUser(ctx context.Context, username, passwordHash string) (*model.User, error) {
	user := &model.User{
		Id:       uuid.NewString(),
		Username: username,
		Password: passwordHash,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, translate(err, "create user")
	}
	return user, nil
}

func (s *GormStorage) ListEntriesForUser(ctx context.Context, userID string) ([]model.VocabularyEntry, error) {
	entries := make([]model.VocabularyEntry, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "list entries")
	}
	return entries, nil
}

func (s *GormStorage) GetEntry(ctx context.Context, id string) (*model.VocabularyEntry, error) {
	entry := &model.VocabularyEntry{}
	err := s.db.WithContext(ctx).Where("id = ?", id).First(entry).Error
	if err != nil {
		return nil, translate(err, "get entry")
	}
	return entry, nil
}

func (s *GormStorage) CreateEntry(ctx context.Context, userID string, fields model.EntryFields) (*model.VocabularyEntry, error) {
	now := s.now()
	entry := &model.VocabularyEntry{
		Id:         uuid.NewString(),
		UserId:     userID,
		Term:       fields.Term,
		Definition: fields.Definition,
		Example:    fields.Example,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, translate(err, "create entry")
	}
	return entry, nil
}

func (s *GormStorage) UpdateEntry(ctx context.Context, id, userID string, fields model.EntryFields) (*model.VocabularyEntry, error) {
	entry := &model.VocabularyEntry{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.VocabularyEntry{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(map[string]any{
				"term":       fields.Term,
				"definition": fields.Definition,
				"example":    fields.Example,
				"updated_at": s.now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("id = ? AND user_id = ?", id, userID).First(entry).Error
	})
	if err != nil {
		return nil, translate(err, "update entry")
	}
	return entry, nil
}

func (s *GormStorage) DeleteEntry(ctx context.Context, id, userID string) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.VocabularyEntry{})
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "delete entry")
	}
	return res.RowsAffected > 0, nil
}

// translate maps driver errors onto the storage sentinels and wraps the rest.
func translate(err error, op string) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return errors.Wrap(err, op)
}
