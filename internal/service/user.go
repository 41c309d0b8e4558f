package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/carnotes-app/carnotes/internal/domain"
	"github.com/carnotes-app/carnotes/internal/store"
	"github.com/carnotes-app/carnotes/pkg/cryptox"
	"github.com/carnotes-app/carnotes/pkg/idx"
)

var (
	ErrValidation = errors.New("validation_failed")
	ErrEmailTaken = errors.New("email_taken")
)

// MinPasswordLength is the minimum accepted password length at registration.
const MinPasswordLength = 12

// UserService owns registration and user lookups.
type UserService struct {
	Store store.Store
}

// RegisterParams are the raw registration inputs as submitted.
type RegisterParams struct {
	Email           string
	Username        string
	Password        string
	ConfirmPassword string
}

// Register validates the submitted details, hashes the password and creates
// the user with the default role.
func (s *UserService) Register(ctx context.Context, p RegisterParams) (domain.User, error) {
	email := strings.TrimSpace(p.Email)
	username := strings.TrimSpace(p.Username)

	if err := validateRegistration(email, username, p.Password, p.ConfirmPassword); err != nil {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		return domain.User{}, err
	}

	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Roles:        []string{domain.RoleUser},
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	return u, nil
}

// GetUser returns a user by id.
func (s *UserService) GetUser(ctx context.Context, id string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, id)
}

func validateRegistration(email, username, password, confirm string) error {
	if email == "" || username == "" || password == "" {
		return fmt.Errorf("%w: email, username and password are required", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	if password != confirm {
		return fmt.Errorf("%w: passwords do not match", ErrValidation)
	}
	if err := validatePasswordStrength(password); err != nil {
		return err
	}
	return nil
}

// validatePasswordStrength requires length plus one character from each of
// the lower/upper/digit/special classes.
func validatePasswordStrength(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	}

	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	if !lower || !upper || !digit || !special {
		return fmt.Errorf(
			"%w: password must contain lowercase, uppercase, digit and special characters",
			ErrValidation,
		)
	}
	return nil
}
