package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateUser inserts u. A taken username is ErrConflict.
func (s *Store) CreateUser(ctx context.Context, u User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO users (username, password_hash, role, email, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (username) DO NOTHING`),
		u.Username, u.PasswordHash, u.Role, u.Email, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user %q: %w", u.Username, ErrConflict)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, username string) (*User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT username, password_hash, role, email, created_at
		FROM users WHERE username = ?`), username).
		Scan(&u.Username, &u.PasswordHash, &u.Role, &u.Email, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	rs, err := s.db.QueryContext(ctx, `SELECT username, role, email, created_at FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rs.Close()

	users := []User{}
	for rs.Next() {
		var u User
		if err := rs.Scan(&u.Username, &u.Role, &u.Email, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rs.Err()
}

func (s *Store) UpdatePassword(ctx context.Context, username, hash string) error {
	return s.updateUser(ctx, `UPDATE users SET password_hash = ? WHERE username = ?`, hash, username)
}

func (s *Store) SetRole(ctx context.Context, username, role string) error {
	return s.updateUser(ctx, `UPDATE users SET role = ? WHERE username = ?`, role, username)
}

func (s *Store) updateUser(ctx context.Context, query, value, username string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(query), value, username)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	return nil
}
