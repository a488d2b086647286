package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dvloznov/finsmart/internal/domain"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// IdentityToolkit authenticates against the Identity Toolkit REST API used by
// Firebase Authentication.
type IdentityToolkit struct {
	svc *identitytoolkit.Service
}

// NewIdentityToolkit creates a provider for the project owning apiKey.
// Extra options (for example option.WithEndpoint) are passed to the client.
func NewIdentityToolkit(ctx context.Context, apiKey string, opts ...option.ClientOption) (*IdentityToolkit, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := identitytoolkit.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewIdentityToolkit: %w", err)
	}
	return &IdentityToolkit{svc: svc}, nil
}

// SignIn implements Provider.
func (p *IdentityToolkit) SignIn(ctx context.Context, email, password string) (domain.User, error) {
	resp, err := p.svc.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return domain.User{}, fmt.Errorf("SignIn: %w", mapError(err))
	}

	return domain.User{
		ID:    resp.LocalId,
		Email: resp.Email,
		Name:  DisplayName(resp.DisplayName, resp.Email),
	}, nil
}

// SignUp implements Provider.
func (p *IdentityToolkit) SignUp(ctx context.Context, name, email, password string) (domain.User, error) {
	if len(password) < MinPasswordLength {
		return domain.User{}, fmt.Errorf("SignUp: %w", ErrWeakPassword)
	}

	resp, err := p.svc.Relyingparty.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:       email,
		Password:    password,
		DisplayName: name,
	}).Context(ctx).Do()
	if err != nil {
		return domain.User{}, fmt.Errorf("SignUp: %w", mapError(err))
	}

	displayName := resp.DisplayName
	if displayName == "" {
		displayName = name
	}
	return domain.User{
		ID:    resp.LocalId,
		Email: resp.Email,
		Name:  DisplayName(displayName, resp.Email),
	}, nil
}

// SignOut implements Provider. Identity Toolkit tokens are not revoked
// server-side, so dropping the session locally is all that is needed.
func (p *IdentityToolkit) SignOut(ctx context.Context, user domain.User) error {
	return nil
}

// mapError turns Identity Toolkit error codes into package errors.
func mapError(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Code != http.StatusBadRequest {
		return err
	}

	switch msg := gerr.Message; {
	case strings.HasPrefix(msg, "EMAIL_EXISTS"):
		return ErrEmailExists
	case strings.HasPrefix(msg, "WEAK_PASSWORD"):
		return ErrWeakPassword
	case strings.HasPrefix(msg, "EMAIL_NOT_FOUND"),
		strings.HasPrefix(msg, "INVALID_PASSWORD"),
		strings.HasPrefix(msg, "INVALID_LOGIN_CREDENTIALS"),
		strings.HasPrefix(msg, "INVALID_EMAIL"),
		strings.HasPrefix(msg, "USER_DISABLED"):
		return ErrInvalidCredentials
	}
	return err
}

var _ Provider = (*IdentityToolkit)(nil)
