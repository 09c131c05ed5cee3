package storage

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/shared"
)

// Tokens reads and writes the persisted access token.
type Tokens struct {
	kv KV
}

func NewTokens(kv KV) *Tokens {
	return &Tokens{kv: kv}
}

// Get returns the token, or "" when none is stored.
func (t *Tokens) Get() (string, error) {
	token, ok, err := t.kv.GetString(TokenKey)
	if err != nil || !ok {
		return "", err
	}
	return token, nil
}

func (t *Tokens) Set(token string) error {
	return t.kv.Set(TokenKey, token)
}

func (t *Tokens) Remove() error {
	return t.kv.Delete(TokenKey)
}

func (t *Tokens) Has() (bool, error) {
	return t.kv.Contains(TokenKey)
}

// Users reads and writes the persisted [models.User] as JSON.
type Users struct {
	kv KV
}

func NewUsers(kv KV) *Users {
	return &Users{kv: kv}
}

// Get decodes the stored user.
//
// A record that is not valid JSON or does not match the user shape is treated as absent:
// Get returns (nil, nil). Only read failures from the underlying store are errors.
func (u *Users) Get() (*models.User, error) {
	raw, ok, err := u.kv.GetString(UserKey)
	if err != nil {
		return nil, err
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, nil
	}
	if err := user.Validate(); err != nil {
		return nil, nil
	}
	return &user, nil
}

func (u *Users) Set(user *models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	data, err := shared.MarshalJSON(user, false)
	if err != nil {
		return fmt.Errorf("%w: failed to encode user: %v", shared.ErrStorage, err)
	}
	return u.kv.Set(UserKey, string(data))
}

func (u *Users) Remove() error {
	return u.kv.Delete(UserKey)
}
