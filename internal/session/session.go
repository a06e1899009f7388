// Package session persists the access token and user profile between runs and hands the token to
// authenticated requests.
package session

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/shared"
)

// Fixed storage keys.
const (
	TokenKey = "accessToken"
	UserKey  = "user"
)

// Storage is the key/value backend of a [Store].
type Storage interface {
	Get(key string) (string, bool, error)
	SetMany(values map[string]string) error
	Delete(keys ...string) error
	UpdatedAt(key string) (time.Time, bool, error)
}

// Store reads and writes the session. A single instance is shared by every screen and command.
//
// Store implements [oauth2.TokenSource]; the token is an opaque bearer string and is never
// inspected for structure or expiry.
type Store struct {
	storage Storage
}

// NewStore creates a [Store] backed by storage.
func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// Save persists the token and raw user profile of a successful registration in one write, so a
// failure leaves the previous session untouched.
func (s *Store) Save(res models.AuthResult) error {
	if strings.TrimSpace(res.AccessToken) == "" {
		return fmt.Errorf("%w: empty access token", shared.ErrSessionStorage)
	}

	user := res.User
	if len(user) == 0 {
		user = json.RawMessage("null")
	}

	if err := s.storage.SetMany(map[string]string{TokenKey: res.AccessToken, UserKey: string(user)}); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSessionStorage, err)
	}
	return nil
}

// AccessToken returns the stored token, or "" when there is none.
func (s *Store) AccessToken() (string, error) {
	token, ok, err := s.storage.Get(TokenKey)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrSessionStorage, err)
	}
	if !ok {
		return "", nil
	}
	return token, nil
}

// Authenticated reports whether a token is stored.
func (s *Store) Authenticated() bool {
	token, err := s.AccessToken()
	return err == nil && token != ""
}

// SignedInAt returns when the stored token was written.
func (s *Store) SignedInAt() (time.Time, bool, error) {
	ts, ok, err := s.storage.UpdatedAt(TokenKey)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: %v", shared.ErrSessionStorage, err)
	}
	return ts, ok, nil
}

// User returns the raw stored profile and whether one exists.
func (s *Store) User() (json.RawMessage, bool, error) {
	raw, ok, err := s.storage.Get(UserKey)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", shared.ErrSessionStorage, err)
	}
	if !ok || raw == "" || raw == "null" {
		return nil, false, nil
	}
	return json.RawMessage(raw), true, nil
}

// Profile decodes the stored profile into a [models.User].
func (s *Store) Profile() (*models.User, error) {
	raw, ok, err := s.User()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("%w: stored user profile is not valid JSON: %v", shared.ErrSessionStorage, err)
	}
	return &u, nil
}

// Clear removes both session entries.
func (s *Store) Clear() error {
	if err := s.storage.Delete(TokenKey, UserKey); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSessionStorage, err)
	}
	return nil
}

// Token implements [oauth2.TokenSource].
func (s *Store) Token() (*oauth2.Token, error) {
	token, err := s.AccessToken()
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, shared.ErrNotAuthenticated
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}

// Guard returns [shared.ErrNotAuthenticated] unless a token is stored.
func (s *Store) Guard() error {
	if _, err := s.Token(); err != nil {
		return err
	}
	return nil
}
