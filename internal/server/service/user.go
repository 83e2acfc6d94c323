// FILE: internal/server/service/user.go
package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lixenwraith/auth"

	"chessrules/internal/server/storage"
)

var (
	ErrStorageDisabled    = errors.New("storage disabled")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired or logged out")
)

// User represents a registered user account
type User struct {
	UserID    string
	Username  string
	Email     string
	CreatedAt time.Time
}

func userFromRecord(r *storage.UserRecord) *User {
	return &User{
		UserID:    r.UserID,
		Username:  r.Username,
		Email:     r.Email,
		CreatedAt: r.CreatedAt,
	}
}

// CreateUser hashes the password and stores a new account
func (s *Service) CreateUser(username, email, password string) (*User, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	record := storage.UserRecord{
		UserID:       uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateUser(record); err != nil {
		return nil, err
	}
	return userFromRecord(&record), nil
}

// AuthenticateUser verifies credentials. identifier is a username or an email.
func (s *Service) AuthenticateUser(identifier, password string) (*User, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}

	var record *storage.UserRecord
	var err error
	if strings.Contains(identifier, "@") {
		record, err = s.store.GetUserByEmail(identifier)
	} else {
		record, err = s.store.GetUserByUsername(identifier)
	}
	if err != nil {
		// hash anyway so unknown users take as long as wrong passwords
		auth.HashPassword(password)
		return nil, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(password, record.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.store.UpdateUserLastLogin(record.UserID, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to update last login for user %s: %w", record.UserID, err)
	}
	return userFromRecord(record), nil
}

// GetUserByID retrieves user information by user ID
func (s *Service) GetUserByID(userID string) (*User, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}
	record, err := s.store.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	return userFromRecord(record), nil
}

// GenerateUserToken opens a new session for the user and signs a token
// carrying its id. Any earlier session of the user ends.
func (s *Service) GenerateUserToken(userID string) (string, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	session := storage.SessionRecord{
		SessionID: uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(SessionTTL),
	}
	if err := s.store.CreateSession(session); err != nil {
		return "", err
	}

	claims := map[string]any{
		"username": user.Username,
		"email":    user.Email,
		"sid":      session.SessionID,
	}
	return auth.GenerateHS256Token(s.jwtSecret, userID, claims, SessionTTL)
}

// ValidateToken verifies the signature and that the session is still open
func (s *Service) ValidateToken(token string) (string, map[string]any, error) {
	userID, claims, err := auth.ValidateHS256Token(s.jwtSecret, token)
	if err != nil {
		return "", nil, err
	}
	if s.store == nil {
		return userID, claims, nil
	}

	sid, _ := claims["sid"].(string)
	ok, err := s.store.IsSessionValid(sid)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, ErrSessionExpired
	}
	return userID, claims, nil
}

// Logout ends the user's session; tokens issued for it stop validating
func (s *Service) Logout(userID string) error {
	if s.store == nil {
		return ErrStorageDisabled
	}
	return s.store.DeleteSessionByUserID(userID)
}
