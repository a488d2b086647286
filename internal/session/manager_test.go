package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dvloznov/finsmart/internal/auth"
	"github.com/dvloznov/finsmart/internal/domain"
	"github.com/dvloznov/finsmart/internal/persistence/local"
	"github.com/dvloznov/finsmart/internal/persistence/memory"
	"github.com/rs/zerolog"
)

// MockStore is a mock implementation of persistence.Store for testing.
type MockStore struct {
	LoadFunc func(ctx context.Context, userID string) (domain.Snapshot, bool, error)
	SaveFunc func(ctx context.Context, userID string, snap domain.Snapshot) error
}

func (m *MockStore) Load(ctx context.Context, userID string) (domain.Snapshot, bool, error) {
	return m.LoadFunc(ctx, userID)
}

func (m *MockStore) Save(ctx context.Context, userID string, snap domain.Snapshot) error {
	return m.SaveFunc(ctx, userID, snap)
}

type fixture struct {
	manager  *Manager
	provider *auth.Static
	store    *memory.Store
	mirror   *recordingMirror
	guests   *local.GuestFile
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		provider: auth.NewStatic(),
		store:    memory.NewStore(),
		mirror:   &recordingMirror{},
		guests:   local.NewGuestFile(filepath.Join(t.TempDir(), "guest.json")),
	}
	f.manager = NewManager(f.provider, f.store, f.mirror, f.guests, zerolog.Nop())
	return f
}

func TestManager_NoSession(t *testing.T) {
	f := newFixture(t)
	if _, err := f.manager.Current(); !errors.Is(err, ErrNoSession) {
		t.Errorf("Current() error = %v, want ErrNoSession", err)
	}
	if err := f.manager.SignOut(context.Background()); err != nil {
		t.Errorf("SignOut without session: %v", err)
	}
}

func TestManager_RegisterSeedsAndPersistsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.manager.Register(ctx, "Erin", "erin@example.com", "secret1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	snap := c.Snapshot()
	if len(snap.Categories) != 8 || len(snap.Accounts) != 2 || len(snap.Transactions) != 4 {
		t.Errorf("not seeded: %d categories, %d accounts, %d transactions",
			len(snap.Categories), len(snap.Accounts), len(snap.Transactions))
	}
	if snap.User.Name != "Erin" {
		t.Errorf("user name = %q", snap.User.Name)
	}
	if f.store.Saves() != 1 {
		t.Errorf("store saves = %d, want 1", f.store.Saves())
	}
	if _, ok := c.Kind().(Authenticated); !ok {
		t.Errorf("Kind() = %T, want Authenticated", c.Kind())
	}

	current, err := f.manager.Current()
	if err != nil || current != c {
		t.Errorf("Current() = %v, %v", current, err)
	}
}

func TestManager_SignInLoadsStoredSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.provider.SignUp(ctx, "Finn", "finn@example.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	stored := domain.Snapshot{Accounts: []domain.Account{{ID: "only", Balance: dec("3")}}}
	if err := f.store.Save(ctx, user.ID, stored); err != nil {
		t.Fatal(err)
	}

	c, err := f.manager.SignIn(ctx, "finn@example.com", "secret1")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	snap := c.Snapshot()
	if len(snap.Accounts) != 1 || snap.Accounts[0].ID != "only" {
		t.Errorf("loaded accounts = %+v", snap.Accounts)
	}
	if snap.User.ID != user.ID {
		t.Errorf("snapshot user = %+v", snap.User)
	}
	if f.store.Saves() != 1 {
		t.Errorf("existing snapshot should not be re-saved, saves = %d", f.store.Saves())
	}

	c.AddTransaction(ctx, income("n", "only", "1"))
	if f.mirror.count() != 1 {
		t.Errorf("mirror calls = %d, want 1", f.mirror.count())
	}
}

func TestManager_SignInBadCredentials(t *testing.T) {
	f := newFixture(t)
	_, err := f.manager.SignIn(context.Background(), "ghost@example.com", "secret1")
	if !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("SignIn() error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := f.manager.Current(); !errors.Is(err, ErrNoSession) {
		t.Error("failed sign-in must not start a session")
	}
}

func TestManager_LoadFailure(t *testing.T) {
	boom := errors.New("backend down")
	store := &MockStore{
		LoadFunc: func(ctx context.Context, userID string) (domain.Snapshot, bool, error) {
			return domain.Snapshot{}, false, boom
		},
	}
	m := NewManager(auth.NewStatic(), store, &recordingMirror{}, local.NewGuestFile(filepath.Join(t.TempDir(), "g.json")), zerolog.Nop())

	_, err := m.Register(context.Background(), "G", "g@example.com", "secret1")
	if !errors.Is(err, boom) {
		t.Errorf("Register() error = %v, want wrapped load error", err)
	}
}

func TestManager_SeedSaveFailureStillStartsSession(t *testing.T) {
	store := &MockStore{
		LoadFunc: func(ctx context.Context, userID string) (domain.Snapshot, bool, error) {
			return domain.Snapshot{}, false, nil
		},
		SaveFunc: func(ctx context.Context, userID string, snap domain.Snapshot) error {
			return errors.New("quota exceeded")
		},
	}
	m := NewManager(auth.NewStatic(), store, &recordingMirror{}, local.NewGuestFile(filepath.Join(t.TempDir(), "g.json")), zerolog.Nop())

	c, err := m.Register(context.Background(), "H", "h@example.com", "secret1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if len(c.Snapshot().Accounts) != 2 {
		t.Error("expected seeded snapshot")
	}
}

func TestManager_GuestLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.manager.StartGuest(ctx)
	if err != nil {
		t.Fatalf("StartGuest: %v", err)
	}
	if c.User() != domain.DemoUser {
		t.Errorf("guest user = %+v", c.User())
	}

	c.AddTransaction(ctx, income("g", "acc1", "1"))
	if f.mirror.count() != 0 || f.store.Saves() != 0 {
		t.Error("guest session reached remote storage")
	}

	// A new manager over the same guest file resumes the guest.
	restarted := NewManager(f.provider, f.store, f.mirror, f.guests, zerolog.Nop())
	resumed, ok, err := restarted.Resume(ctx)
	if err != nil || !ok {
		t.Fatalf("Resume: ok=%v err=%v", ok, err)
	}
	if _, isGuest := resumed.Kind().(Guest); !isGuest {
		t.Errorf("resumed kind = %T", resumed.Kind())
	}

	if err := restarted.SignOut(ctx); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if _, found, _ := f.guests.LoadGuest(); found {
		t.Error("guest identity should be cleared on sign-out")
	}
	if _, ok, _ := NewManager(f.provider, f.store, f.mirror, f.guests, zerolog.Nop()).Resume(ctx); ok {
		t.Error("nothing to resume after sign-out")
	}
}

func TestManager_SignOutEndsAuthenticatedSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.manager.Register(ctx, "I", "i@example.com", "secret1"); err != nil {
		t.Fatal(err)
	}
	if err := f.manager.SignOut(ctx); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if _, err := f.manager.Current(); !errors.Is(err, ErrNoSession) {
		t.Error("session still active after sign-out")
	}
}
