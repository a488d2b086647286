package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dvloznov/finsmart/internal/auth"
	"github.com/dvloznov/finsmart/internal/domain"
	"github.com/dvloznov/finsmart/internal/persistence"
	"github.com/rs/zerolog"
)

// ErrNoSession is returned when no user is signed in.
var ErrNoSession = errors.New("no active session")

// GuestStore remembers the guest identity between runs.
type GuestStore interface {
	LoadGuest() (domain.User, bool, error)
	SaveGuest(u domain.User) error
	ClearGuest() error
}

// Manager starts and ends sessions. At most one session is active at a time.
type Manager struct {
	mu      sync.RWMutex
	current *Container

	auth   auth.Provider
	store  persistence.Store
	mirror Mirror
	guests GuestStore
	log    zerolog.Logger
}

// NewManager wires a Manager.
func NewManager(provider auth.Provider, store persistence.Store, mirror Mirror, guests GuestStore, log zerolog.Logger) *Manager {
	return &Manager{
		auth:   provider,
		store:  store,
		mirror: mirror,
		guests: guests,
		log:    log,
	}
}

// Current returns the active session's container.
func (m *Manager) Current() (*Container, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return nil, ErrNoSession
	}
	return m.current, nil
}

// SignIn authenticates and starts an authenticated session.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*Container, error) {
	user, err := m.auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return m.Open(ctx, user)
}

// Register creates an account and starts an authenticated session for it.
func (m *Manager) Register(ctx context.Context, name, email, password string) (*Container, error) {
	user, err := m.auth.SignUp(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	return m.Open(ctx, user)
}

// Open starts an authenticated session for an already verified user.
// A user with nothing stored gets the default snapshot, saved once before
// the session starts.
func (m *Manager) Open(ctx context.Context, user domain.User) (*Container, error) {
	snap, err := m.loadOrSeed(ctx, user)
	if err != nil {
		return nil, err
	}

	c := NewContainer(NewAuthenticated(user, m.mirror), snap, m.log)
	m.install(c)

	m.log.Info().
		Str("user_id", user.ID).
		Int("accounts", len(snap.Accounts)).
		Int("transactions", len(snap.Transactions)).
		Msg("Session started")
	return c, nil
}

func (m *Manager) loadOrSeed(ctx context.Context, user domain.User) (domain.Snapshot, error) {
	snap, ok, err := m.store.Load(ctx, user.ID)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load snapshot for %s: %w", user.ID, err)
	}
	if ok {
		snap.User = user
		return snap, nil
	}

	snap = domain.Seed(user)
	if err := m.store.Save(ctx, user.ID, snap); err != nil {
		m.log.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("Failed to save seeded snapshot")
	}
	return snap, nil
}

// StartGuest starts a local demo session with the fixed demo identity.
func (m *Manager) StartGuest(ctx context.Context) (*Container, error) {
	if err := m.guests.SaveGuest(domain.DemoUser); err != nil {
		return nil, fmt.Errorf("start guest session: %w", err)
	}
	return m.openGuest(domain.DemoUser), nil
}

// Resume restores a guest session left over from a previous run.
// ok is false when there was none.
func (m *Manager) Resume(ctx context.Context) (c *Container, ok bool, err error) {
	user, found, err := m.guests.LoadGuest()
	if err != nil {
		return nil, false, fmt.Errorf("resume guest session: %w", err)
	}
	if !found {
		return nil, false, nil
	}
	return m.openGuest(user), true, nil
}

func (m *Manager) openGuest(user domain.User) *Container {
	c := NewContainer(NewGuest(user), domain.Seed(user), m.log)
	m.install(c)

	m.log.Info().Str("user_id", user.ID).Msg("Guest session started")
	return c
}

// SignOut ends the active session and forgets the guest identity.
// Signing out with no session is a no-op.
func (m *Manager) SignOut(ctx context.Context) error {
	m.mu.Lock()
	c := m.current
	m.current = nil
	m.mu.Unlock()

	var errs []error
	if c != nil {
		if k, ok := c.Kind().(Authenticated); ok {
			if err := m.auth.SignOut(ctx, k.User()); err != nil {
				errs = append(errs, fmt.Errorf("provider sign-out: %w", err))
			}
		}
		m.log.Info().Str("user_id", c.User().ID).Msg("Session ended")
	}

	if err := m.guests.ClearGuest(); err != nil {
		errs = append(errs, fmt.Errorf("clear guest: %w", err))
	}
	return errors.Join(errs...)
}

func (m *Manager) install(c *Container) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = c
}
