// Package auth authenticates users by email and password.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/dvloznov/finsmart/internal/domain"
)

// MinPasswordLength is the shortest password accepted at sign-up.
const MinPasswordLength = 6

var (
	// ErrInvalidCredentials means the email/password pair was rejected.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailExists means sign-up used an email that is already registered.
	ErrEmailExists = errors.New("email already registered")
	// ErrWeakPassword means the password is too short.
	ErrWeakPassword = errors.New("password must be at least 6 characters")
)

// Provider signs users in and out.
type Provider interface {
	// SignIn verifies credentials and returns the user's identity.
	SignIn(ctx context.Context, email, password string) (domain.User, error)

	// SignUp creates an account with a display name.
	SignUp(ctx context.Context, name, email, password string) (domain.User, error)

	// SignOut ends the user's provider session.
	SignOut(ctx context.Context, user domain.User) error
}

// DisplayName picks the name shown for a user: the provider's display name,
// else the local part of the email, else "User".
func DisplayName(displayName, email string) string {
	if displayName != "" {
		return displayName
	}
	if local, _, _ := strings.Cut(email, "@"); local != "" {
		return local
	}
	return "User"
}
