package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todolist/internal/model"
	"github.com/nhle/todolist/internal/store"
	"github.com/nhle/todolist/tests/testutil"
)

func TestCreateUser(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	u := &model.User{Email: "alice@example.com", Username: "alice", PasswordHash: "h"}
	require.NoError(t, s.CreateUser(ctx, u))
	assert.Equal(t, int64(1), u.ID)

	got, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, 0, got.Completed)
}

func TestCreateUser_Duplicates(t *testing.T) {
	tests := []struct {
		name   string
		second model.User
	}{
		{
			name:   "same email",
			second: model.User{Email: "alice@example.com", Username: "other", PasswordHash: "h"},
		},
		{
			name:   "same username",
			second: model.User{Email: "other@example.com", Username: "alice", PasswordHash: "h"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testutil.NewTestStore(t)
			ctx := context.Background()
			testutil.CreateUser(t, s, "alice")

			err := s.CreateUser(ctx, &tt.second)
			require.Error(t, err)
			assert.True(t, errors.Is(err, store.ErrDuplicate))

			users, err := s.GetUsers(ctx)
			require.NoError(t, err)
			assert.Len(t, users, 1)
		})
	}
}

func TestGetUser_NotFound(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	_, err := s.GetUserByID(ctx, 42)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestIncrementCompleted(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, s, "alice")

	require.NoError(t, s.IncrementCompleted(ctx, u.ID))
	require.NoError(t, s.IncrementCompleted(ctx, u.ID))

	got, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Completed)

	assert.ErrorIs(t, s.IncrementCompleted(ctx, 999), store.ErrNotFound)
}

func TestTaskRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, s, "alice")

	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	task := &model.Task{
		UserID:      u.ID,
		Name:        "Ship report",
		Description: "<p>quarterly</p>",
		StartAt:     start,
		EndAt:       start.Add(8 * time.Hour),
	}
	require.NoError(t, s.CreateTask(ctx, task))
	require.NotZero(t, task.ID)

	got, err := s.GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.UserID)
	assert.Equal(t, "Ship report", got.Name)
	assert.Equal(t, "<p>quarterly</p>", got.Description)
	assert.True(t, start.Equal(got.StartAt), "start_at: %v", got.StartAt)
	assert.True(t, start.Add(8*time.Hour).Equal(got.EndAt), "end_at: %v", got.EndAt)
}

func TestCreateTask_UnknownOwner(t *testing.T) {
	s := testutil.NewTestStore(t)

	task := &model.Task{
		UserID:      77,
		Name:        "orphan",
		Description: "x",
		StartAt:     time.Now(),
		EndAt:       time.Now(),
	}
	assert.Error(t, s.CreateTask(context.Background(), task))
}

func TestGetTasksByUser_OrderAndIsolation(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, s, "alice")
	bob := testutil.CreateUser(t, s, "bob")

	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	for i, name := range []string{"late", "early", "middle"} {
		offset := map[string]time.Duration{"late": 3 * time.Hour, "early": 0, "middle": time.Hour}[name]
		task := &model.Task{
			UserID:      alice.ID,
			Name:        name,
			Description: "d",
			StartAt:     base.Add(offset),
			EndAt:       base.Add(offset + time.Duration(i+1)*time.Minute),
		}
		require.NoError(t, s.CreateTask(ctx, task))
	}
	testutil.CreateTask(t, s, bob.ID, "bob's")

	tasks, err := s.GetTasksByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "early", tasks[0].Name)
	assert.Equal(t, "middle", tasks[1].Name)
	assert.Equal(t, "late", tasks[2].Name)

	tasks, err = s.GetTasksByUser(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "bob's", tasks[0].Name)
}

func TestUpdateTask(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, s, "alice")
	task := testutil.CreateTask(t, s, u.ID, "draft")

	task.Name = "final"
	task.Description = "done right"
	require.NoError(t, s.UpdateTask(ctx, task))

	got, err := s.GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Name)
	assert.Equal(t, "done right", got.Description)
	assert.Equal(t, u.ID, got.UserID)

	missing := *task
	missing.ID = 999
	assert.ErrorIs(t, s.UpdateTask(ctx, &missing), store.ErrNotFound)
}

func TestDeleteTask(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, s, "alice")
	task := testutil.CreateTask(t, s, u.ID, "gone")

	require.NoError(t, s.DeleteTask(ctx, task.ID))
	_, err := s.GetTaskByID(ctx, task.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteTask(ctx, task.ID), store.ErrNotFound)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, s, "alice")
	task := testutil.CreateTask(t, s, u.ID, "keep me")

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.DeleteTask(ctx, task.ID); err != nil {
			return err
		}
		if err := tx.IncrementCompleted(ctx, u.ID); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.GetTaskByID(ctx, task.ID)
	assert.NoError(t, err)
	got, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Completed)
}

func TestWithTx_Commits(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, s, "alice")
	task := testutil.CreateTask(t, s, u.ID, "finish me")

	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.DeleteTask(ctx, task.ID); err != nil {
			return err
		}
		return tx.IncrementCompleted(ctx, u.ID)
	})
	require.NoError(t, err)

	_, err = s.GetTaskByID(ctx, task.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	got, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Completed)
}

func TestSchemaVersion(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))
	version, err := s.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
	assert.Equal(t, "sqlite", s.Backend())
}
