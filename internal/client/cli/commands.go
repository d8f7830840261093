package cli

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/buildinfo"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
	"github.com/dmitrijs2005/gophauth/internal/validation"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the gophauth command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(NewApp)
}

func newRootCommand(newApp appFactory) *cobra.Command {
	root := &cobra.Command{
		Use:   "gophauth",
		Short: "Sign up, log in and inspect the session against a gophauth server",
		Long: `gophauth talks to the gophauth auth server. The session token is kept in a
local SQLite file shared by every gophauth process of the user, so logging in
or out in one terminal is seen by the others.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := config.RegisterFlags(root.PersistentFlags())

	// withApp loads config, opens the session and restores it before fn runs.
	withApp := func(fn func(ctx context.Context, a *App, cmd *cobra.Command) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.Load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			app, err := newApp(ctx, cfg, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer app.Close()

			app.Boot(ctx)
			return fn(ctx, app, cmd)
		}
	}

	var signup validation.SignupInput
	signupCmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *App, _ *cobra.Command) error {
			return a.Signup(ctx, signup)
		}),
	}
	signupCmd.Flags().StringVarP(&signup.Username, "username", "u", "", "username (prompted if empty)")
	signupCmd.Flags().StringVarP(&signup.Email, "email", "e", "", "email (prompted if empty)")

	var login validation.LoginInput
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *App, _ *cobra.Command) error {
			return a.Login(ctx, login)
		}),
	}
	loginCmd.Flags().StringVarP(&login.Email, "email", "e", "", "email (prompted if empty)")

	root.AddCommand(
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				buildinfo.PrintBuildData(cmd.OutOrStdout())
			},
		},
		signupCmd,
		loginCmd,
		&cobra.Command{
			Use:   "logout",
			Short: "Forget the stored session",
			Args:  cobra.NoArgs,
			RunE: withApp(func(ctx context.Context, a *App, _ *cobra.Command) error {
				return a.Logout(ctx)
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the current session",
			Args:  cobra.NoArgs,
			RunE: withApp(func(ctx context.Context, a *App, _ *cobra.Command) error {
				return a.Status(ctx)
			}),
		},
		&cobra.Command{
			Use:     "dashboard",
			Aliases: []string{"admin"},
			Short:   "Call the protected admin dashboard",
			Args:    cobra.NoArgs,
			RunE: withApp(func(ctx context.Context, a *App, _ *cobra.Command) error {
				return a.Dashboard(ctx)
			}),
		},
		&cobra.Command{
			Use:   "watch",
			Short: "Print session changes made by other gophauth processes until interrupted",
			Args:  cobra.NoArgs,
			RunE: withApp(func(ctx context.Context, a *App, _ *cobra.Command) error {
				a.printf("%s\n", a.status())
				a.session.OnChange(a.printView)
				if err := a.StartBackground(ctx); err != nil {
					return err
				}
				<-ctx.Done()
				return nil
			}),
		},
		&cobra.Command{
			Use:   "shell",
			Short: "Interactive prompt",
			Args:  cobra.NoArgs,
			RunE: withApp(func(ctx context.Context, a *App, _ *cobra.Command) error {
				a.printf("Welcome to gophauth (type 'help' for commands)\n")
				a.session.OnChange(a.printView)
				if err := a.StartBackground(ctx); err != nil {
					return err
				}
				runREPL(ctx, a, a.shortStatus, a.reader, a.out)
				return nil
			}),
		},
	)
	return root
}
