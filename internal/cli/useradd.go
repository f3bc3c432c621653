package cli

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/todolist/internal/auth"
	"github.com/nhle/todolist/internal/form"
	"github.com/nhle/todolist/internal/theme"
)

func newUseraddCommand(a *app) *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "useradd",
		Short: "Create an account",
		Long: `Create an account. Any of --username, --email or --password that is
not given is asked for interactively.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || email == "" || password == "" {
				if err := promptUser(&username, &email, &password); err != nil {
					return err
				}
			}

			reg, err := form.ParseRegistration(url.Values{
				form.FieldUsername: {username},
				form.FieldEmail:    {email},
				form.FieldPassword: {password},
			})
			if err != nil {
				return err
			}

			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			hasher, err := auth.NewPasswordHasher(a.cfg.Auth.BcryptCost)
			if err != nil {
				return err
			}
			u, err := auth.NewService(st, hasher, a.log).Register(cmd.Context(), reg)
			if errors.Is(err, auth.ErrDuplicateAccount) {
				return fmt.Errorf("%s or %s is already taken", reg.Email, reg.Username)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s created %s (id %d)\n",
				theme.SuccessStyle.Render("✓"), u.Username, u.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "account username")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func promptUser(username, email, password *string) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(username).
				Validate(validateRequired("Username")),
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(email).
				Validate(validateRequired("Email")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(password).
				Validate(validateRequired("Password")),
		),
	).Run()
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
