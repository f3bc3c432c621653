package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nhle/todolist/internal/auth"
	"github.com/nhle/todolist/internal/form"
	"github.com/nhle/todolist/internal/model"
	"github.com/nhle/todolist/internal/todo"
)

// currentUser returns the session user; requireUser guarantees one.
func currentUser(c echo.Context) *model.User {
	u, _ := auth.UserFromContext(c.Request().Context())
	return u
}

func idParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound)
	}
	return id, nil
}

// homeOwner checks that the :user_id in the path is the session user.
func homeOwner(c echo.Context) (*model.User, error) {
	id, err := idParam(c, "user_id")
	if err != nil {
		return nil, err
	}
	u := currentUser(c)
	if u.ID != id {
		return nil, todo.ErrForbidden
	}
	return u, nil
}

func homeURL(u *model.User) string {
	return fmt.Sprintf("/home/%d", u.ID)
}

func (s *Server) homePage(c echo.Context, u *model.User) (*page, error) {
	tasks, err := s.tasks.ListForUser(c.Request().Context(), u.ID)
	if err != nil {
		return nil, err
	}
	p := newPage(c, "My To-Dos")
	p.Tasks = tasks
	p.Action = homeURL(u)
	return p, nil
}

func (s *Server) home(c echo.Context) error {
	u, err := homeOwner(c)
	if err != nil {
		return err
	}
	p, err := s.homePage(c, u)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "home", p)
}

func (s *Server) createTask(c echo.Context) error {
	u, err := homeOwner(c)
	if err != nil {
		return err
	}
	values, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form")
	}

	in, err := form.ParseTask(values)
	if ve, ok := form.AsValidationError(err); ok {
		p, err := s.homePage(c, u)
		if err != nil {
			return err
		}
		p.Form = values
		p.Errors = ve
		return c.Render(http.StatusUnprocessableEntity, "home", p)
	}

	if _, err := s.tasks.Create(c.Request().Context(), u.ID, in); err != nil {
		return err
	}
	tasksTotal.WithLabelValues("create").Inc()
	return c.Redirect(http.StatusFound, homeURL(u))
}

func (s *Server) completeTask(c echo.Context) error {
	id, err := idParam(c, "task_id")
	if err != nil {
		return err
	}
	u := currentUser(c)
	if err := s.tasks.Complete(c.Request().Context(), u.ID, id); err != nil {
		return err
	}
	tasksTotal.WithLabelValues("complete").Inc()
	return c.Redirect(http.StatusFound, homeURL(u))
}

func (s *Server) editPage(c echo.Context, u *model.User, taskID int64) (*page, error) {
	ctx := c.Request().Context()
	task, err := s.tasks.Get(ctx, u.ID, taskID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListForUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	p := newPage(c, "Edit To-Do")
	p.Task = task
	p.Tasks = tasks
	p.Action = fmt.Sprintf("/edit/%d", task.ID)
	p.Form = form.TaskInput{
		Name:        task.Name,
		Description: task.Description,
		Start:       task.StartAt,
		End:         task.EndAt,
	}.Values()
	return p, nil
}

func (s *Server) editForm(c echo.Context) error {
	id, err := idParam(c, "task_id")
	if err != nil {
		return err
	}
	p, err := s.editPage(c, currentUser(c), id)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "edit", p)
}

func (s *Server) editTask(c echo.Context) error {
	id, err := idParam(c, "task_id")
	if err != nil {
		return err
	}
	u := currentUser(c)
	values, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form")
	}

	in, err := form.ParseTask(values)
	if ve, ok := form.AsValidationError(err); ok {
		p, err := s.editPage(c, u, id)
		if err != nil {
			return err
		}
		p.Form = values
		p.Errors = ve
		return c.Render(http.StatusUnprocessableEntity, "edit", p)
	}

	if _, err := s.tasks.Edit(c.Request().Context(), u.ID, id, in); err != nil {
		return err
	}
	tasksTotal.WithLabelValues("edit").Inc()
	return c.Redirect(http.StatusFound, homeURL(u))
}

func (s *Server) deleteTask(c echo.Context) error {
	id, err := idParam(c, "task_id")
	if err != nil {
		return err
	}
	u := currentUser(c)
	if err := s.tasks.Delete(c.Request().Context(), u.ID, id); err != nil {
		return err
	}
	tasksTotal.WithLabelValues("delete").Inc()
	return c.Redirect(http.StatusFound, homeURL(u))
}
