// Package todo implements the per-user task lifecycle: list, create, edit,
// complete and delete, with ownership enforced on every task access.
package todo

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
	// ErrNotFound means the task does not exist.
	ErrNotFound = errors.New("task not found")
	// ErrForbidden means the task belongs to another user.
	ErrForbidden = errors.New("task belongs to another user")
)

// Service manages tasks on behalf of an authenticated user.
type Service struct {
	store store.Store
	log   logrus.FieldLogger
}

// NewService creates a Service backed by st.
func NewService(st store.Store, log logrus.FieldLogger) *Service {
	return &Service{store: st, log: log}
}

// ListForUser returns the user's tasks ordered by start time.
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]model.Task, error) {
	tasks, err := s.store.GetTasksByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

// Create stores a new task owned by userID.
func (s *Service) Create(ctx context.Context, userID int64, in form.TaskInput) (*model.Task, error) {
	t := &model.Task{
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		StartAt:     in.Start,
		EndAt:       in.End,
	}
	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		return tx.CreateTask(ctx, t)
	})
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "task_id": t.ID}).Info("task created")
	return t, nil
}

// Get loads a task for editing.
func (s *Service) Get(ctx context.Context, userID, taskID int64) (*model.Task, error) {
	return owned(ctx, s.store, userID, taskID)
}

// Edit overwrites the name, description and time window of a task.
func (s *Service) Edit(ctx context.Context, userID, taskID int64, in form.TaskInput) (*model.Task, error) {
	var t *model.Task
	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		t, err = owned(ctx, tx, userID, taskID)
		if err != nil {
			return err
		}
		t.Name = in.Name
		t.Description = in.Description
		t.StartAt = in.Start
		t.EndAt = in.End
		return tx.UpdateTask(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "task_id": taskID}).Info("task edited")
	return t, nil
}

// Complete removes the task and adds one to the owner's completed counter.
// Both changes commit together or not at all.
func (s *Service) Complete(ctx context.Context, userID, taskID int64) error {
	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := owned(ctx, tx, userID, taskID); err != nil {
			return err
		}
		if err := tx.DeleteTask(ctx, taskID); err != nil {
			return err
		}
		return tx.IncrementCompleted(ctx, userID)
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "task_id": taskID}).Info("task completed")
	return nil
}

// Delete removes the task without touching the completed counter.
func (s *Service) Delete(ctx context.Context, userID, taskID int64) error {
	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := owned(ctx, tx, userID, taskID); err != nil {
			return err
		}
		return tx.DeleteTask(ctx, taskID)
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "task_id": taskID}).Info("task deleted")
	return nil
}

// owned loads taskID and checks that userID owns it.
func owned(ctx context.Context, tasks store.TaskStore, userID, taskID int64) (*model.Task, error) {
	t, err := tasks.GetTaskByID(ctx, taskID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading task %d: %w", taskID, err)
	}
	if !t.OwnedBy(userID) {
		return nil, ErrForbidden
	}
	return t, nil
}
