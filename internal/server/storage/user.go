// FILE: internal/server/storage/user.go
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	ErrUserExists   = errors.New("username or email already exists")
	ErrUserNotFound = errors.New("user not found")
)

const userColumns = `user_id, username, email, password_hash, created_at, last_login_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*UserRecord, error) {
	var u UserRecord
	var email sql.NullString
	err := row.Scan(&u.UserID, &u.Username, &email, &u.PasswordHash, &u.CreatedAt, &u.LastLoginAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Email = email.String
	return &u, nil
}

// CreateUser inserts a user, checking uniqueness in the same transaction
func (s *Store) CreateUser(record UserRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT COUNT(*) FROM users WHERE username = ? COLLATE NOCASE`
	args := []any{record.Username}
	if record.Email != "" {
		query += ` OR email = ? COLLATE NOCASE`
		args = append(args, record.Email)
	}
	var count int
	if err := tx.QueryRow(query, args...).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return ErrUserExists
	}

	_, err = tx.Exec(`INSERT INTO users (user_id, username, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		record.UserID, record.Username, record.Email, record.PasswordHash, record.CreatedAt)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) GetUserByID(userID string) (*UserRecord, error) {
	return scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE user_id = ?`, userID))
}

// GetUserByUsername matches case-insensitively
func (s *Store) GetUserByUsername(username string) (*UserRecord, error) {
	return scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = ? COLLATE NOCASE`, username))
}

// GetUserByEmail matches case-insensitively
func (s *Store) GetUserByEmail(email string) (*UserRecord, error) {
	return scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = ? COLLATE NOCASE`, email))
}

// GetAllUsers lists users, newest first
func (s *Store) GetAllUsers() ([]UserRecord, error) {
	rows, err := s.db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []UserRecord
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (s *Store) UpdateUserPassword(userID, passwordHash string) error {
	return s.updateUser(`UPDATE users SET password_hash = ? WHERE user_id = ?`, passwordHash, userID)
}

func (s *Store) UpdateUserLastLogin(userID string, at time.Time) error {
	return s.updateUser(`UPDATE users SET last_login_at = ? WHERE user_id = ?`, at, userID)
}

// DeleteUserByID removes a user; sessions cascade
func (s *Store) DeleteUserByID(userID string) error {
	return s.updateUser(`DELETE FROM users WHERE user_id = ?`, userID)
}

func (s *Store) updateUser(query string, args ...any) error {
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}
