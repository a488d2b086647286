package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dvloznov/finsmart/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Static is an in-process Provider for local development. Accounts live
// only as long as the process; passwords are kept as bcrypt hashes.
type Static struct {
	mu    sync.RWMutex
	users map[string]staticUser
	cost  int
}

type staticUser struct {
	user domain.User
	hash []byte
}

// NewStatic creates an empty Static provider.
func NewStatic() *Static {
	return &Static{users: make(map[string]staticUser), cost: bcrypt.DefaultCost}
}

// UserID derives a stable id from the email address.
func UserID(email string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+normalizeEmail(email))).String()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignIn implements Provider.
func (s *Static) SignIn(ctx context.Context, email, password string) (domain.User, error) {
	s.mu.RLock()
	u, ok := s.users[normalizeEmail(email)]
	s.mu.RUnlock()

	if !ok {
		return domain.User{}, fmt.Errorf("SignIn: %w", ErrInvalidCredentials)
	}
	err := bcrypt.CompareHashAndPassword(u.hash, []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return domain.User{}, fmt.Errorf("SignIn: %w", ErrInvalidCredentials)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("SignIn: compare password: %w", err)
	}
	return u.user, nil
}

// SignUp implements Provider.
func (s *Static) SignUp(ctx context.Context, name, email, password string) (domain.User, error) {
	if len(password) < MinPasswordLength {
		return domain.User{}, fmt.Errorf("SignUp: %w", ErrWeakPassword)
	}

	key := normalizeEmail(email)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[key]; exists {
		return domain.User{}, fmt.Errorf("SignUp: %w", ErrEmailExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return domain.User{}, fmt.Errorf("SignUp: hash password: %w", err)
	}

	u := domain.User{ID: UserID(key), Email: key, Name: DisplayName(name, key)}
	s.users[key] = staticUser{user: u, hash: hash}
	return u, nil
}

// SignOut implements Provider.
func (s *Static) SignOut(ctx context.Context, user domain.User) error {
	return nil
}

var _ Provider = (*Static)(nil)
