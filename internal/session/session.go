// package session holds the client's authentication state and mirrors it to durable storage.
//
// A [Store] starts in the Unknown status (loading, not authenticated) and leaves it on the
// first [Store.Initialize], [Store.Login] or [Store.Logout]. The in-memory state always
// satisfies: authenticated if and only if both a user and a token are present.
package session

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/shared"
	"github.com/desertthunder/reelx/internal/storage"
)

// Status summarizes [State] into the three session phases.
type Status int

const (
	StatusUnknown Status = iota
	StatusAuthenticated
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// State is a snapshot of the session. An empty Token means no token.
type State struct {
	IsAuthenticated bool
	User            *models.User
	Token           string
	IsLoading       bool
}

// Store is the single source of truth for the session within a process.
type Store struct {
	mu     sync.RWMutex
	state  State
	kv     storage.KV
	tokens *storage.Tokens
	users  *storage.Users
	logger *log.Logger

	// initialized is set once the session has been restored, signed in or signed out.
	initialized bool
}

// New creates a [Store] over kv in the Unknown status.
func New(kv storage.KV, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NopLogger()
	}
	return &Store{
		state:  State{IsLoading: true},
		kv:     kv,
		tokens: storage.NewTokens(kv),
		users:  storage.NewUsers(kv),
		logger: logger,
	}
}

// Login persists the token, then the user, then marks the session authenticated.
//
// The response is validated first; an invalid response returns [shared.ErrInvalidAuthResponse]
// and touches neither storage nor state. A storage failure is returned with state unchanged,
// though a token written before the failing user write stays persisted.
func (s *Store) Login(resp models.AuthResponse) error {
	if err := resp.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.tokens.Set(resp.AccessToken); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	if err := s.users.Set(resp.User); err != nil {
		return fmt.Errorf("failed to persist user: %w", err)
	}

	s.state = State{
		IsAuthenticated: true,
		User:            resp.User.Clone(),
		Token:           resp.AccessToken,
		IsLoading:       false,
	}
	s.initialized = true
	s.logger.Info("signed in", "user", resp.User.Username)
	return nil
}

// Logout clears the entire storage namespace and resets the state.
//
// The state is reset even when clearing fails; the clear error is returned.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := storage.Clear(s.kv)
	s.state = State{}
	s.initialized = true
	if err != nil {
		s.logger.Error("failed to clear storage on logout", "error", err)
		return fmt.Errorf("failed to clear session storage: %w", err)
	}

	s.logger.Info("signed out")
	return nil
}

// Initialize restores the session from storage.
//
// Both a token and a valid user must be present to become authenticated; anything else,
// including a read failure, yields the unauthenticated state. Initialize never fails.
func (s *Store) Initialize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = true

	token, err := s.tokens.Get()
	if err != nil {
		s.logger.Warn("failed to read token", "error", err)
		s.state = State{}
		return
	}

	user, err := s.users.Get()
	if err != nil {
		s.logger.Warn("failed to read user", "error", err)
		s.state = State{}
		return
	}

	if token == "" || user == nil {
		s.logger.Debug("no stored session")
		s.state = State{}
		return
	}

	s.state = State{IsAuthenticated: true, User: user, Token: token}
	s.logger.Debug("restored session", "user", user.Username)
}

// SetLoading sets the loading flag without touching the rest of the state. It does not
// affect [Store.Status].
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsLoading = loading
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.User = st.User.Clone()
	return st
}

// Status reports the current session phase.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.state.IsAuthenticated:
		return StatusAuthenticated
	case !s.initialized:
		return StatusUnknown
	default:
		return StatusUnauthenticated
	}
}

// Token returns the in-memory token, or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}
