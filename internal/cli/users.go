package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/nhle/todolist/internal/model"
	"github.com/nhle/todolist/internal/theme"
)

func newUsersCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List accounts with their completed-task counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			users, err := st.GetUsers(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderUsers(users))
			return nil
		},
	}
}

func renderUsers(users []model.User) string {
	header := theme.HeaderStyle.Render("Users")
	if len(users) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, theme.HelpStyle.Render("no accounts yet"))
	}

	rows := make([]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, fmt.Sprintf("%4d  %-20s %-32s %s",
			u.ID, u.Username, u.Email,
			theme.CompletedStyle(u.Completed).Render(fmt.Sprintf("%d done", u.Completed))))
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, theme.PanelStyle.Render(strings.Join(rows, "\n")))
}
