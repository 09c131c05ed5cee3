package services

import (
	"context"
	"net/http"

	"github.com/desertthunder/reelx/internal/models"
)

// SignIn posts credentials to /api/auth/signin.
//
// Credentials are validated locally first; a validation failure is returned unwrapped and
// nothing is sent.
func (c *Client) SignIn(ctx context.Context, req models.SignInRequest) (*models.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/signin", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
