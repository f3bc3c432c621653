// Package auth handles account registration, login and the signed session
// cookie.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nhle/todolist/internal/form"
	"github.com/nhle/todolist/internal/model"
	"github.com/nhle/todolist/internal/store"
)

var (
	// ErrDuplicateAccount means the email or username is already taken.
	ErrDuplicateAccount = errors.New("account already exists")
	// ErrUnknownAccount means no user has the given email.
	ErrUnknownAccount = errors.New("unknown account")
	// ErrInvalidCredentials means the password did not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidSession means the session cookie is absent or not trusted.
	ErrInvalidSession = errors.New("invalid session")
)

// Service registers and authenticates users.
type Service struct {
	users  store.UserStore
	hasher *PasswordHasher
	log    logrus.FieldLogger
}

// NewService creates a Service.
func NewService(users store.UserStore, hasher *PasswordHasher, log logrus.FieldLogger) *Service {
	return &Service{users: users, hasher: hasher, log: log}
}

// Register creates a user with a freshly salted password hash. A taken
// email or username yields ErrDuplicateAccount and nothing is stored.
func (s *Service) Register(ctx context.Context, reg form.Registration) (*model.User, error) {
	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		Email:        reg.Email,
		Username:     reg.Username,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDuplicateAccount
		}
		return nil, fmt.Errorf("registering user: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("user registered")
	return u, nil
}

// Login returns the user whose email and password match cred.
func (s *Service) Login(ctx context.Context, cred form.Credentials) (*model.User, error) {
	u, err := s.users.GetUserByEmail(ctx, cred.Email)
	if errors.Is(err, store.ErrNotFound) {
		s.hasher.burn(cred.Password)
		s.log.Debug("login for unknown account")
		return nil, ErrUnknownAccount
	}
	if err != nil {
		return nil, fmt.Errorf("looking up account: %w", err)
	}

	ok, err := s.hasher.Verify(u.PasswordHash, cred.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.log.WithField("user_id", u.ID).Info("login rejected")
		return nil, ErrInvalidCredentials
	}

	s.log.WithField("user_id", u.ID).Info("user logged in")
	return u, nil
}

// User loads the account behind a resolved session. A session whose user
// no longer exists yields ErrInvalidSession.
func (s *Service) User(ctx context.Context, userID int64) (*model.User, error) {
	u, err := s.users.GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, fmt.Errorf("loading session user: %w", err)
	}
	return u, nil
}
