package service

import (
	"context"
	"sync"

	"github.com/vocabnest/vocabnest/database"
	"github.com/vocabnest/vocabnest/database/model"
	"github.com/vocabnest/vocabnest/logger"
	"github.com/vocabnest/vocabnest/util/crypto"

	"github.com/pkg/errors"
)

// UserService registers and authenticates accounts.
type UserService struct {
	store database.Storage

	dummyOnce sync.Once
	dummyHash string
}

func NewUserService(store database.Storage) *UserService {
	return &UserService{store: store}
}

// Register creates an account with a hashed password. The caller validates
// the username and password shape.
func (s *UserService) Register(ctx context.Context, username, password string) (*model.User, error) {
	_, err := s.store.GetUserByUsername(ctx, username)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !database.IsNotFound(err) {
		return nil, errors.Wrap(err, "lookup username")
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	user, err := s.store.CreateUser(ctx, username, hash)
	if errors.Is(err, database.ErrDuplicate) {
		// lost a race with a concurrent registration
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, err
	}
	logger.Info("user registered:", user.Id)
	return user, nil
}

// Authenticate returns the user whose credentials match. Any mismatch is
// ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if database.IsNotFound(err) {
		// spend a hash comparison anyway so timing does not reveal the username
		crypto.CheckPasswordHash(s.dummy(), password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "lookup username")
	}

	if !crypto.CheckPasswordHash(user.Password, password) {
		logger.Notice("failed login for user:", user.Id)
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser loads the account a session refers to.
func (s *UserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if database.IsNotFound(err) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) dummy() string {
	s.dummyOnce.Do(func() {
		hash, err := crypto.HashPassword("vocabnest-dummy-password")
		if err != nil {
			logger.Warning("dummy hash:", err)
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
