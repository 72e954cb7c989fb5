package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sweetshop/sweet-shop/internal/client"
)

func newRegisterCmd(a *app) *cobra.Command {
	var email, password, adminKey string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := a.client.Register(cmd.Context(), email, password, adminKey)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "registered %s (%s)\n", u.Email, u.Role)
			return err
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&adminKey, "admin-key", "", "admin registration key")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return withAccess(cmd, client.Public)
}

func newLoginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "logged in as %s (%s)\n", email, s.Role)
			return err
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return withAccess(cmd, client.Public)
}

func newLogoutCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.client.Logout(cmd.Context()); err != nil {
				return err
			}
			_, err := fmt.Fprintln(a.out, "logged out")
			return err
		},
	}
	return withAccess(cmd, client.Public)
}

func newWhoamiCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the account behind the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			claims, err := a.client.Me(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "%s (%s)\n", claims.Email, claims.Role)
			return err
		},
	}
	return withAccess(cmd, client.RequiresAuth)
}
