package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/todolist/internal/model"
)

const userColumns = "id, email, username, password_hash, completed, created_at"

// CreateUser inserts a new user and assigns its ID.
func (s *queries) CreateUser(ctx context.Context, u *model.User) error {
	if strings.TrimSpace(u.Email) == "" || strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("user email and username must not be empty")
	}
	if u.PasswordHash == "" {
		return fmt.Errorf("user password hash must not be empty")
	}
	u.CreatedAt = time.Now().UTC()

	err := sqlx.GetContext(ctx, s.q, &u.ID, s.q.Rebind(`
		INSERT INTO users (email, username, password_hash, completed, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`),
		u.Email, u.Username, u.PasswordHash, u.Completed, u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("creating user %s: %w", u.Email, ErrDuplicate)
		}
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a single user by ID.
func (s *queries) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := sqlx.GetContext(ctx, s.q, &u,
		s.q.Rebind("SELECT "+userColumns+" FROM users WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting user %d: %w", id, err)
	}
	return &u, nil
}

// GetUserByEmail retrieves a single user by exact email match.
func (s *queries) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := sqlx.GetContext(ctx, s.q, &u,
		s.q.Rebind("SELECT "+userColumns+" FROM users WHERE email = ?"), email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting user %s: %w", email, err)
	}
	return &u, nil
}

// GetUsers retrieves all users ordered by ID.
func (s *queries) GetUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := sqlx.SelectContext(ctx, s.q, &users,
		"SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	return users, nil
}

// IncrementCompleted adds one to the user's completed-task counter.
func (s *queries) IncrementCompleted(ctx context.Context, userID int64) error {
	result, err := s.q.ExecContext(ctx,
		s.q.Rebind("UPDATE users SET completed = completed + 1 WHERE id = ?"), userID)
	if err != nil {
		return fmt.Errorf("incrementing completed for user %d: %w", userID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return nil
}
