package models

import (
	"fmt"
	"strings"

	"github.com/desertthunder/reelx/internal/shared"
)

const (
	minUsernameLength = 3
	minPasswordLength = 6
)

// User is the signed-in user as returned by the API and mirrored to durable storage.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Validate checks that the record carries the fields a persisted session needs.
func (u *User) Validate() error {
	if u == nil {
		return fmt.Errorf("%w: user is nil", shared.ErrInvalidInput)
	}
	if strings.TrimSpace(u.ID) == "" {
		return fmt.Errorf("%w: user id is required", shared.ErrInvalidInput)
	}
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("%w: username is required", shared.ErrInvalidInput)
	}
	return nil
}

// Clone returns a copy of u, or nil.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// DisplayName prefers the full name and falls back to the username.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if strings.TrimSpace(u.Name) != "" {
		return u.Name
	}
	return u.Username
}

// SignInRequest is the body of POST /api/auth/signin.
type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate applies the sign-in form rules: username at least 3 characters, password at least 6.
func (r SignInRequest) Validate() error {
	username := strings.TrimSpace(r.Username)
	switch {
	case username == "":
		return fmt.Errorf("%w: username is required", shared.ErrInvalidInput)
	case len([]rune(username)) < minUsernameLength:
		return fmt.Errorf("%w: username must have at least %d characters", shared.ErrInvalidInput, minUsernameLength)
	case r.Password == "":
		return fmt.Errorf("%w: password is required", shared.ErrInvalidInput)
	case len([]rune(r.Password)) < minPasswordLength:
		return fmt.Errorf("%w: password must have at least %d characters", shared.ErrInvalidInput, minPasswordLength)
	}
	return nil
}

// AuthResponse is the body returned by a successful sign-in.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	User        *User  `json:"user"`
}

// Validate reports whether the response can establish a session.
func (r AuthResponse) Validate() error {
	if strings.TrimSpace(r.AccessToken) == "" {
		return fmt.Errorf("%w: missing access token", shared.ErrInvalidAuthResponse)
	}
	if err := r.User.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidAuthResponse, err)
	}
	return nil
}
