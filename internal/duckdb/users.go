package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/slabwatch/slabwatch/internal/model"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("duckdb: not found")

// queryCtx returns a context with the store's configured query timeout.
func (s *Store) queryCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.QueryTimeout)
}

// CreateUser inserts a new account and returns its id.
// The username must be unique; a duplicate insert surfaces the driver error.
func (s *Store) CreateUser(username, passwordHash string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	var id int64
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO users (username, password_hash) VALUES (?, ?) RETURNING id",
		username, passwordHash,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("duckdb: create user: %w", err)
	}
	return id, nil
}

// UserByUsername returns the account with the given username.
func (s *Store) UserByUsername(username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	var u model.User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash FROM users WHERE username = ?",
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("duckdb: user by username: %w", err)
	}
	return &u, nil
}

// UserCount returns the total number of registered accounts.
func (s *Store) UserCount() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		return 0, fmt.Errorf("duckdb: user count: %w", err)
	}
	return n, nil
}
