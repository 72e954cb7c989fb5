// Package cli implements the sweetshop command line client. Every command
// declares the access it needs and the route guard runs before it.
package cli

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sweetshop/sweet-shop/internal/client"
	"github.com/sweetshop/sweet-shop/internal/pkg/config"
	"github.com/sweetshop/sweet-shop/pkg/logger"
)

var (
	ErrLoginRequired = errors.New(`login required: run "sweetshop login"`)
	ErrAdminRequired = errors.New("admin role required")
)

const accessAnnotation = "sweetshop/access"

// app is the state shared by all commands once PersistentPreRunE has run.
type app struct {
	cfg    config.ClientConfig
	client *client.Client
	guard  *client.Guard
	log    zerolog.Logger
	out    io.Writer
}

// NewRootCommand assembles the sweetshop command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	var configFile string

	root := &cobra.Command{
		Use:           "sweetshop",
		Short:         "Sweet Shop command line client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setup(cmd, configFile); err != nil {
				return err
			}
			return a.authorize(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (default ~/.sweetshop/config.yaml)")
	pf.String(config.KeyServer, "", "API base URL (default "+config.DefaultServer+")")
	pf.String(config.KeySessionFile, "", "session file (default ~/.sweetshop/session.json)")
	pf.String(config.KeyLogLevel, "", "log level: trace, debug, info, warn, error")

	root.AddCommand(
		newRegisterCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newListCmd(a),
		newSearchCmd(a),
		newPurchaseCmd(a),
		newAddCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newRestockCmd(a),
		newHistoryCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, configFile string) error {
	v, err := config.New(cmd.Root().PersistentFlags(), configFile)
	if err != nil {
		return err
	}
	a.cfg = config.Resolve(v)
	a.out = cmd.OutOrStdout()
	a.log = logger.New(logger.Options{
		Level:    a.cfg.LogLevel,
		Pretty:   true,
		Output:   cmd.ErrOrStderr(),
		NoCaller: true,
	})

	store := client.NewFileStore(a.cfg.SessionFile)
	a.client = client.New(a.cfg.Server, store,
		client.WithHTTPClient(&http.Client{Timeout: time.Duration(a.cfg.TimeoutSec) * time.Second}),
		client.WithLogger(a.log),
	)
	a.guard = client.NewGuard(store, client.WithVerifier(a.client), client.WithGuardLogger(a.log))
	return nil
}

func (a *app) authorize(cmd *cobra.Command) error {
	access := accessOf(cmd)
	decision, err := a.guard.Check(cmd.Context(), access)
	if err != nil {
		return err
	}

	a.log.Debug().Str("command", cmd.Name()).Stringer("access", access).Stringer("decision", decision).Msg("guard")
	switch decision {
	case client.RedirectLogin:
		return ErrLoginRequired
	case client.RedirectHome:
		return ErrAdminRequired
	default:
		return nil
	}
}

func withAccess(cmd *cobra.Command, access client.Access) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[accessAnnotation] = access.String()
	return cmd
}

func accessOf(cmd *cobra.Command) client.Access {
	switch cmd.Annotations[accessAnnotation] {
	case client.RequiresAuth.String():
		return client.RequiresAuth
	case client.RequiresAdmin.String():
		return client.RequiresAdmin
	default:
		return client.Public
	}
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context, cmd *cobra.Command) int {
	if err := cmd.ExecuteContext(ctx); err != nil {
		cmd.PrintErrln("error:", err)
		return 1
	}
	return 0
}
