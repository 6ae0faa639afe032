// Package session persists the login token for the TUI client.
//
// The token lives in a small JSON file under the user's config directory
// and is re-read on every request, so an external login or logout takes
// effect without restarting the client.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const fileName = "session.json"

// tokenKey is the JSON field holding the bearer token.
const tokenKey = "jwt"

// Store reads and writes the session file at a fixed path.
type Store struct {
	path string
}

// NewStore returns a session store rooted at dir. When dir is empty the
// user config directory is used (~/.config/slabwatch on Linux).
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		dir = filepath.Join(base, "slabwatch")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &Store{path: filepath.Join(dir, fileName)}, nil
}

// Path returns the session file location.
func (s *Store) Path() string {
	return s.path
}

// Token returns the stored bearer token, or "" when no session exists.
func (s *Store) Token() (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read session: %w", err)
	}

	var fields map[string]string
	if err := json.Unmarshal(data, &fields); err != nil {
		return "", fmt.Errorf("decode session: %w", err)
	}
	return fields[tokenKey], nil
}

// SetToken writes the bearer token, replacing any previous session.
func (s *Store) SetToken(token string) error {
	data, err := json.Marshal(map[string]string{tokenKey: token})
	if err != nil {
		return err
	}

	// Write-then-rename keeps a concurrent reader from seeing a torn file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear removes the session file. Clearing an absent session is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
