// Package session stores the bearer credential every gateway call requires.
//
// The credential is kept as an oauth2.Token in JSON so the REST backend (a
// plain bearer string) and the Google backend (a refreshable token) share one
// file format.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2"
)

// ErrAuthRequired indicates there is no usable session. Callers redirect to
// login instead of showing it as an operation error.
var ErrAuthRequired = errors.New("not logged in")

// Store reads and writes the session file.
type Store struct {
	path string
}

// NewStore returns a Store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the session file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored token, or ErrAuthRequired if there is none or it
// carries no credential.
func (s *Store) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrAuthRequired
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("%w: invalid session file: %v", ErrAuthRequired, err)
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, ErrAuthRequired
	}
	return &tok, nil
}

// Active reports whether a usable session is stored.
func (s *Store) Active() bool {
	_, err := s.Load()
	return err == nil
}

// Token implements oauth2.TokenSource by reading the file on every call, so
// a login or logout in another process takes effect without a restart.
func (s *Store) Token() (*oauth2.Token, error) {
	return s.Load()
}

// Exists reports whether a session file is present, usable or not.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Save writes tok with mode 0600.
func (s *Store) Save(tok *oauth2.Token) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Remove deletes the session file. A missing file is not an error.
func (s *Store) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Bearer wraps a raw bearer credential as a token.
func Bearer(raw string) *oauth2.Token {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "Bearer ")
	return &oauth2.Token{AccessToken: strings.TrimSpace(raw), TokenType: "Bearer"}
}
