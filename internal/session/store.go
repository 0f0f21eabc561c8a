// Package session holds the authenticated user for each browser session.
// Users live in process memory only; access tokens are mirrored to a durable
// file so they survive a restart. Rebuilding the user record from a bare
// token is the backend's concern, not ours — a restored token without its
// user is treated as unauthenticated until the next login.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/HoneyChauhan001/attendance-management-system-frontend/internal/amsapi"
	"github.com/HoneyChauhan001/attendance-management-system-frontend/pkg/logger"
	"github.com/google/uuid"
)

// Authenticator exchanges credentials for a user and an access token.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*amsapi.User, string, error)
}

// Session is a point-in-time snapshot; mutating it does not touch the store.
type Session struct {
	ID    string
	User  *amsapi.User
	Token string
}

type Store struct {
	mu        sync.Mutex
	auth      Authenticator
	tokenFile string
	users     map[string]*amsapi.User
	tokens    map[string]string
}

// NewStore loads any durable tokens left by a previous run. A missing token
// file is fine; a corrupt one is not.
func NewStore(auth Authenticator, tokenFile string) (*Store, error) {
	s := &Store{
		auth:      auth,
		tokenFile: tokenFile,
		users:     map[string]*amsapi.User{},
		tokens:    map[string]string{},
	}

	data, err := os.ReadFile(tokenFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read token file: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.tokens); err != nil {
		return nil, fmt.Errorf("parse token file %s: %w", tokenFile, err)
	}
	return s, nil
}

// Login authenticates against the backend and opens a session. The returned
// session id is what goes into the browser cookie.
func (s *Store) Login(ctx context.Context, username, password string) (*amsapi.User, string, error) {
	user, token, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return nil, "", err
	}

	sessionID := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[sessionID] = user
	s.tokens[sessionID] = token
	if err := s.persistLocked(); err != nil {
		logger.From(ctx).Error("persist session token", "error", err)
	}
	return user, sessionID, nil
}

// Get returns the session for an id, or nil when the id is unknown. A
// session whose token survived a restart but whose user did not comes back
// with a nil User.
func (s *Store) Get(sessionID string) *Session {
	if sessionID == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.tokens[sessionID]
	if !ok {
		return nil
	}
	return &Session{ID: sessionID, User: s.users[sessionID], Token: token}
}

// Logout drops the in-memory user and the durable token. Calling it for an
// unknown or already-closed session is a no-op.
func (s *Store) Logout(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, hadToken := s.tokens[sessionID]
	delete(s.users, sessionID)
	delete(s.tokens, sessionID)
	if hadToken {
		if err := s.persistLocked(); err != nil {
			logger.LoggerWrapper().Error("persist session tokens after logout", "error", err)
		}
	}
}

func (s *Store) persistLocked() error {
	data, err := json.Marshal(s.tokens)
	if err != nil {
		return fmt.Errorf("encode session tokens: %w", err)
	}
	if err := os.WriteFile(s.tokenFile, data, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}
