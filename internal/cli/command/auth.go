package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/hwdesk-go/internal/cli/auth"
	"github.com/yndnr/hwdesk-go/internal/cli/connection"
	"github.com/yndnr/hwdesk-go/internal/cli/output"
	"github.com/yndnr/hwdesk-go/internal/core/domain"
)

// LoginCommand returns the login command.
func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in to the homework server",
		Description: `Prompts for missing credentials. When the account already has the
maximum number of active sessions, pick one to end, or pass --evict.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "username",
				Aliases: []string{"u"},
				Usage:   "Account username",
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Account password (prompted when omitted)",
				EnvVars: []string{"HWDESK_PASSWORD"},
			},
			&cli.StringFlag{
				Name:  "evict",
				Usage: "Session ID to end if the device limit is reached",
			},
		},
		Action: loginAction,
	}
}

// LogoutCommand returns the logout command.
func LogoutCommand() *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "End the current session",
		Action: logoutAction,
	}
}

// WhoamiCommand returns the whoami command.
func WhoamiCommand() *cli.Command {
	return &cli.Command{
		Name:   "whoami",
		Usage:  "Show the logged-in user",
		Action: whoamiAction,
	}
}

func loginAction(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	if rt.Auth.IsAuthenticated() {
		return auth.ErrAlreadyAuthenticated
	}

	p := printer(c)
	in := newPrompter(c)

	username := c.String("username")
	if username == "" {
		if username, err = in.Line("Username: "); err != nil {
			return fmt.Errorf("read username: %w", err)
		}
	}
	password := c.String("password")
	if password == "" {
		if password, err = in.Secret("Password: "); err != nil {
			return fmt.Errorf("read password: %w", err)
		}
	}

	user, err := rt.Auth.Login(c.Context, username, password)
	if connection.IsKind(err, connection.KindSessionConflict) {
		user, err = resolveConflict(c, rt, in, err)
	}
	if err != nil {
		if apiErr, ok := connection.AsAPIError(err); ok && apiErr.Kind == connection.KindAuthRequired {
			msg := apiErr.Message
			if msg == "" {
				msg = "invalid username or password"
			}
			return errors.New("login failed: " + msg)
		}
		return err
	}

	p.Noticef("Logged in as %s (%s).", user.DisplayName(), user.Role)
	if s := rt.Auth.Session(); s != nil && s.TerminatedSessions > 0 {
		p.Noticef("Ended %d other session(s).", s.TerminatedSessions)
	}
	return nil
}

// abandonConflict drops the pending conflict. A failure leaves no state
// to repair, so it is only logged.
func abandonConflict(rt *Runtime) {
	if err := rt.Auth.CancelConflict(); err != nil {
		rt.Log.Debug("cancel pending conflict", "error", err)
	}
}

// resolveConflict ends one of the account's sessions and retries the
// login. It keeps asking while the server still reports a conflict.
// Cancelling returns conflictErr.
func resolveConflict(c *cli.Context, rt *Runtime, in *prompter, conflictErr error) (*domain.User, error) {
	evict := c.String("evict")
	for {
		key := connection.SessionKey(evict)
		if key == "" {
			var err error
			key, err = chooseSession(in, rt.Auth.Conflict())
			if err != nil || key == "" {
				abandonConflict(rt)
				if err == nil {
					err = conflictErr
				}
				return nil, err
			}
		}

		user, err := rt.Auth.ResolveConflict(c.Context, key)
		if err == nil {
			return user, nil
		}
		if evict != "" || !connection.IsKind(err, connection.KindSessionConflict) {
			abandonConflict(rt)
			return nil, err
		}
		conflictErr = err
	}
}

// chooseSession lists the active sessions and reads a choice, either a
// row number or a session ID. An empty answer or EOF cancels.
func chooseSession(in *prompter, info *connection.ConflictInfo) (connection.SessionKey, error) {
	if info == nil || len(info.ActiveSessions) == 0 {
		return "", nil
	}

	fmt.Fprintf(in.out, "%s (%s devices in use)\n\n", strings.TrimSuffix(conflictHeadline(info), "."), info.Summary())
	t := output.NewTable("#", "SESSION", "DEVICE", "IP", "LAST ACTIVITY")
	for i, s := range info.ActiveSessions {
		t.AddRow(strconv.Itoa(i+1), s.SessionID.String(), s.DeviceName, s.IPAddress, s.LastActivity.String())
	}
	if err := t.Render(in.out); err != nil {
		return "", err
	}
	fmt.Fprintln(in.out)

	for {
		answer, err := in.Line(fmt.Sprintf("Session to end [1-%d], empty to cancel: ", len(info.ActiveSessions)))
		if err != nil || strings.TrimSpace(answer) == "" {
			return "", nil
		}
		answer = strings.TrimSpace(answer)
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(info.ActiveSessions) {
			return info.ActiveSessions[n-1].SessionID, nil
		}
		if _, ok := info.Session(connection.SessionKey(answer)); ok {
			return connection.SessionKey(answer), nil
		}
		fmt.Fprintf(in.out, "No session %q.\n", answer)
	}
}

func conflictHeadline(info *connection.ConflictInfo) string {
	if info.Message != "" {
		return info.Message
	}
	return "Too many active sessions for this account"
}

func logoutAction(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	p := printer(c)

	if rt.Auth.State() == auth.StateUnauthenticated {
		p.Noticef("Not logged in.")
		return nil
	}
	if err := rt.Auth.Logout(c.Context); err != nil {
		return err
	}
	p.Noticef("Logged out.")
	return nil
}

type whoamiView struct {
	ID        int64            `json:"id"`
	Username  string           `json:"username"`
	Fullname  string           `json:"fullname"`
	Role      domain.Role      `json:"role"`
	GroupID   *int64           `json:"group_id,omitempty"`
	Server    string           `json:"server"`
	ExpiresAt domain.Timestamp `json:"expires_at,omitempty"`
	ExpiresIn string           `json:"expires_in,omitempty"`
}

func whoamiAction(c *cli.Context) error {
	rt, err := authenticated(c)
	if err != nil {
		return err
	}

	user := rt.Auth.User()
	view := whoamiView{
		ID:       user.ID,
		Username: user.Username,
		Fullname: user.Fullname,
		Role:     user.Role,
		GroupID:  user.GroupID,
		Server:   rt.Conn.BaseURL(),
	}
	if claims, err := rt.Auth.TokenClaims(); err == nil && !claims.ExpiresAt.IsZero() {
		view.ExpiresAt = domain.Timestamp{Time: claims.ExpiresAt}
		view.ExpiresIn = claims.Remaining(rt.Now()).Round(time.Minute).String()
	}
	return printer(c).Print(view)
}
