package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/pixelpet/internal/auth"
	"github.com/erazemk/pixelpet/internal/model"
	"github.com/erazemk/pixelpet/internal/store"
)

// Account errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrInvalidUsername    = errors.New("username must not be empty or contain spaces")
)

// Authenticate checks a username and password and returns the account.
func Authenticate(ctx context.Context, db *sql.DB, username, password string) (*model.User, error) {
	user, err := store.GetUserByUsername(ctx, db, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// CreateAccount validates and stores a new account.
func CreateAccount(ctx context.Context, db *sql.DB, username, password, role string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.ContainsAny(username, " \t\n") {
		return nil, ErrInvalidUsername
	}
	if !model.ValidRole(role) {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	if err := model.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	return store.CreateUser(ctx, db, username, string(hash), role)
}

// ChangePassword replaces a user's password after checking the current one.
func ChangePassword(ctx context.Context, db *sql.DB, userID int64, current, next string) error {
	user, err := store.GetUser(ctx, db, userID)
	if err != nil {
		return err
	}
	if user == nil || user.DeletedAt != nil {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrWrongPassword
	}
	if err := model.ValidatePassword(next); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	return store.UpdateUserPassword(ctx, db, userID, string(hash))
}

// GeneratePassword creates a random password of the given length.
func GeneratePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", fmt.Errorf("generating password: %w", err)
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}

// Logout revokes the session token and discards the player's trigger.
func (s *Service) Logout(ctx context.Context, claims *auth.Claims) error {
	s.EndSession(claims.UserID)

	expires := time.Now().Add(auth.DefaultTTL)
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	if err := store.RevokeToken(ctx, s.DB, claims.ID, expires); err != nil {
		return err
	}
	slog.Info("user logged out", "user", claims.Username)
	return nil
}
