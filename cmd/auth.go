package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/services"
	"github.com/desertthunder/reelx/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin signs in and persists the token and user.
//
// Missing credentials are prompted for interactively.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	req := models.SignInRequest{Username: cmd.String("username"), Password: cmd.String("password")}
	if req.Username == "" || req.Password == "" {
		if err := r.prompt(ctx, &req); err != nil {
			return fmt.Errorf("failed to read credentials: %w", err)
		}
	}

	r.logger.Info("signing in", "username", req.Username, "api", r.client.BaseURL())
	r.session.SetLoading(true)

	resp, err := r.client.SignIn(ctx, req)
	if err != nil {
		r.session.SetLoading(false)
		if errors.Is(err, shared.ErrInvalidInput) {
			return err
		}
		return fmt.Errorf("%w: %s: %w", shared.ErrAuthFailed, services.AsAPIError(err).Message, err)
	}

	if err := r.session.Login(*resp); err != nil {
		r.session.SetLoading(false)
		return fmt.Errorf("failed to store session: %w", err)
	}
	r.cache.Reset()

	return r.writePlain("✓ Signed in as %s\n", resp.User.DisplayName())
}

// AuthLogout clears the stored session. The in-memory session is reset even when storage fails.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	wasSignedIn := r.requireAuth() == nil
	r.cache.Reset()

	if err := r.session.Logout(); err != nil {
		return fmt.Errorf("failed to clear stored session: %w", err)
	}

	if !wasSignedIn {
		return r.writePlain("Not signed in\n")
	}
	return r.writePlain("✓ Signed out\n")
}

// AuthStatus reports the restored session.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	state := r.session.Snapshot()

	if cmd.Bool("json") {
		return r.writeJSON(struct {
			Status        string       `json:"status"`
			Authenticated bool         `json:"authenticated"`
			User          *models.User `json:"user,omitempty"`
			API           string       `json:"api"`
		}{r.session.Status().String(), state.IsAuthenticated, state.User, r.client.BaseURL()}, true)
	}

	r.writePlain("API: %s\n", r.client.BaseURL())
	if !state.IsAuthenticated {
		return r.writePlain("Authentication: ✗ Not signed in\n")
	}
	r.writePlain("Authentication: ✓ Signed in\n")
	return r.writePlain("User: %s (%s)\n", state.User.DisplayName(), state.User.Username)
}

// promptCredentials asks for the fields of req that are still empty.
func promptCredentials(ctx context.Context, req *models.SignInRequest) error {
	var fields []huh.Field
	if req.Username == "" {
		fields = append(fields, huh.NewInput().Title("Username").Value(&req.Username))
	}
	if req.Password == "" {
		fields = append(fields, huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&req.Password))
	}
	return huh.NewForm(huh.NewGroup(fields...)).RunWithContext(ctx)
}
