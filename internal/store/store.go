package store

import (
	"context"
	"errors"

	"github.com/nhle/todolist/internal/model"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// UserStore persists user identities.
type UserStore interface {
	// CreateUser inserts u and sets u.ID. Returns ErrDuplicate when the
	// email or username is already taken.
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUsers(ctx context.Context) ([]model.User, error)
	IncrementCompleted(ctx context.Context, userID int64) error
}

// TaskStore persists task records.
type TaskStore interface {
	// CreateTask inserts t and sets t.ID, t.CreatedAt and t.UpdatedAt.
	CreateTask(ctx context.Context, t *model.Task) error
	GetTaskByID(ctx context.Context, id int64) (*model.Task, error)
	// GetTasksByUser returns the user's tasks ordered by start time, then id.
	GetTasksByUser(ctx context.Context, userID int64) ([]model.Task, error)
	UpdateTask(ctx context.Context, t *model.Task) error
	DeleteTask(ctx context.Context, id int64) error
}

// Tx is the set of operations available inside a transaction.
type Tx interface {
	UserStore
	TaskStore
}

// Store defines the persistence interface for users and their tasks.
type Store interface {
	UserStore
	TaskStore

	// WithTx runs fn inside a single transaction. The transaction commits
	// when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Ping(ctx context.Context) error
	Close() error
}
