package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nhle/todolist/internal/credential"
	"github.com/nhle/todolist/internal/web"
)

func newServeCommand(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			if err := a.resolveSecret(); err != nil {
				return err
			}

			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			srv, err := web.NewServer(a.cfg, st, a.log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

// resolveSecret fills the session secret from the keyring when neither the
// config file nor the environment provides one.
func (a *app) resolveSecret() error {
	if a.cfg.Session.Secret != "" {
		return nil
	}
	creds, err := credential.Open()
	if err != nil {
		return err
	}
	secret, err := creds.SessionSecret()
	if err != nil {
		return err
	}
	if secret == "" {
		return errors.New("no session secret: set SECRET_KEY or run `todolist keygen`")
	}
	a.cfg.Session.Secret = secret
	return nil
}
