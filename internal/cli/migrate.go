package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/todolist/internal/theme"
)

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			version, err := st.SchemaVersion(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s schema at version %d\n",
				theme.SuccessStyle.Render("✓"), st.Backend(), version)
			return nil
		},
	}
}
