package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/todolist/internal/credential"
	"github.com/nhle/todolist/internal/theme"
)

func newKeygenCommand(a *app) *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a session signing secret",
		Long: `Generate a random session signing secret and store it in the system
keyring. Existing sessions stop working. With --print the secret is written
to stdout instead, for use as SECRET_KEY.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if printOnly {
				secret, err := credential.GenerateSecret()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, secret)
				return nil
			}

			creds, err := credential.Open()
			if err != nil {
				return err
			}
			if _, err := creds.RotateSessionSecret(); err != nil {
				return err
			}
			a.log.Info("session secret rotated")
			fmt.Fprintf(out, "%s session secret stored in keyring\n", theme.SuccessStyle.Render("✓"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&printOnly, "print", false, "print the secret instead of storing it")
	return cmd
}
