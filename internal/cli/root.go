// Package cli implements the todolist command line.
package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nhle/todolist/internal/logger"
	"github.com/nhle/todolist/internal/model"
	"github.com/nhle/todolist/internal/store"
)

// app carries state shared by every subcommand once flags are parsed.
type app struct {
	configPath string
	cfg        *model.AppConfig
	log        *logrus.Entry
}

// NewRootCommand builds the todolist command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "todolist",
		Short: "A multi-user to-do list web application",
		Long: `todolist serves a small multi-user to-do list over HTTP.

Users register, log in and keep a personal list of tasks with a start and
end time. Completing a task removes it and bumps the user's counter.

CONFIGURATION:
  Settings are read from a YAML file (see --config) and can be overridden
  with TODOLIST_<SECTION>_<KEY> environment variables, for example
  TODOLIST_SERVER_ADDR=:9000. DATABASE_URL and SECRET_KEY are honoured too.

EXAMPLES:
  todolist init                      # write a default config file
  todolist keygen                    # store a session secret in the keyring
  todolist serve                     # start the web server
  todolist useradd                   # create an account interactively
  todolist users                     # list accounts`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", model.DefaultConfigPath(), "path to the config file")

	root.AddCommand(
		newServeCommand(a),
		newMigrateCommand(a),
		newKeygenCommand(a),
		newUseraddCommand(a),
		newUsersCommand(a),
		newInitCommand(a),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := model.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	return nil
}

func (a *app) openStore() (*store.SQLStore, error) {
	st, err := store.Open(a.cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return st, nil
}
