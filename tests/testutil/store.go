package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/nhle/todolist/internal/model"
	"github.com/nhle/todolist/internal/store"
)

// NewTestStore creates an in-memory SQLStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// CreateUser inserts a user with a placeholder hash and returns it.
func CreateUser(t *testing.T, s store.UserStore, username string) *model.User {
	t.Helper()

	u := &model.User{
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "hash-" + username,
	}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("creating user %s: %v", username, err)
	}
	return u
}

// CreateTask inserts a task owned by userID and returns it.
func CreateTask(t *testing.T, s store.TaskStore, userID int64, name string) *model.Task {
	t.Helper()

	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	task := &model.Task{
		UserID:      userID,
		Name:        name,
		Description: "<p>" + name + "</p>",
		StartAt:     start,
		EndAt:       start.Add(8 * time.Hour),
	}
	if err := s.CreateTask(context.Background(), task); err != nil {
		t.Fatalf("creating task %s: %v", name, err)
	}
	return task
}
