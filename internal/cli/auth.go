package cli

import (
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/internal/infrastructure/monitor"
)

func newLoginCommand(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			identity, err := a.sessions.Login(cmd.Context(), a.ask("Email", email), a.ask("Password", password))
			if err != nil {
				return err
			}
			return a.emit(identity.User, func(io.Writer) {
				a.say("Logged in as %s", displayName(identity.User))
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sessions.Logout(cmd.Context()); err != nil {
				return err
			}
			a.say("Logged out.")
			return nil
		},
	}
}

func newRegisterCommand(a *app) *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.sessions.Register(cmd.Context(),
				a.ask("Name", name),
				a.ask("Email", email),
				a.ask("Password", password))
			if err != nil {
				return err
			}
			a.say("Account created. Run `taskflow login` to sign in.")
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")
	return cmd
}

type statusView struct {
	State  string         `json:"state" yaml:"state"`
	User   *domain.User   `json:"user,omitempty" yaml:"user,omitempty"`
	API    string         `json:"api" yaml:"api"`
	Health monitor.Status `json:"health" yaml:"health"`
}

func newStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the session and remote store reachability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view := statusView{
				State:  a.sessions.State().String(),
				API:    a.cfg.API.BaseURL,
				Health: a.monitor.Check(cmd.Context()),
			}
			if identity, ok := a.sessions.Identity(); ok {
				view.User = &identity.User
			}
			return a.emit(view, func(io.Writer) {
				a.say("Session: %s", view.State)
				if view.User != nil {
					a.say("User:    %s", displayName(*view.User))
				}
				if view.Health.Remote {
					a.say("Remote:  %s (reachable, %s)", view.API, view.Health.RemoteLatency.Round(time.Millisecond))
				} else {
					a.say("Remote:  %s (unreachable: %s)", view.API, view.Health.RemoteError)
				}
			})
		},
	}
}

func displayName(u domain.User) string {
	switch {
	case u.Name != "" && u.Email != "":
		return u.Name + " <" + u.Email + ">"
	case u.Name != "":
		return u.Name
	case u.Email != "":
		return u.Email
	}
	return "user " + u.ID.String()
}
