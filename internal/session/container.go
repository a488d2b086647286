package session

import (
	"context"
	"sync"

	"github.com/dvloznov/finsmart/internal/domain"
	"github.com/dvloznov/finsmart/internal/ledger"
	"github.com/rs/zerolog"
)

// Container holds the current snapshot of one session. Each entry point
// computes the next snapshot from the current one and replaces it wholesale.
// It is safe for concurrent use; callers are serialized.
type Container struct {
	mu   sync.Mutex
	kind Kind
	snap domain.Snapshot
	log  zerolog.Logger
}

// NewContainer starts a container for kind with an initial snapshot.
// The snapshot's user is set from kind.
func NewContainer(kind Kind, initial domain.Snapshot, log zerolog.Logger) *Container {
	initial.User = kind.User()
	return &Container{
		kind: kind,
		snap: initial,
		log:  log.With().Str("user_id", kind.User().ID).Str("session", KindName(kind)).Logger(),
	}
}

// Kind returns the session kind.
func (c *Container) Kind() Kind {
	return c.kind
}

// User returns the session's user.
func (c *Container) User() domain.User {
	return c.kind.User()
}

// Snapshot returns a copy of the current snapshot.
func (c *Container) Snapshot() domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap.Clone()
}

// AddAccount appends a new account with its initial balance.
func (c *Container) AddAccount(ctx context.Context, a domain.Account) domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.commit(ctx, AddAccount(c.snap, a))
}

// UpdateAccount replaces an account record verbatim, balance included.
// Unknown ids change nothing and nothing is mirrored.
func (c *Container) UpdateAccount(ctx context.Context, a domain.Account) domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := ledger.FindAccount(c.snap.Accounts, a.ID); !ok {
		c.log.Warn().Str("account_id", a.ID).Msg("Update for unknown account ignored")
		return c.snap.Clone()
	}
	return c.commit(ctx, UpdateAccount(c.snap, a))
}

// DeleteAccount removes an account together with its transactions.
func (c *Container) DeleteAccount(ctx context.Context, accountID string) domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.commit(ctx, DeleteAccount(c.snap, accountID))
}

// AddTransaction records t and applies it to its account.
func (c *Container) AddTransaction(ctx context.Context, t domain.Transaction) domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := ledger.FindAccount(c.snap.Accounts, t.AccountID); !ok {
		c.log.Warn().
			Str("transaction_id", t.ID).
			Str("account_id", t.AccountID).
			Msg("Transaction references unknown account; no balance changed")
	}
	return c.commit(ctx, AddTransaction(c.snap, t))
}

// DeleteTransaction reverses and removes a transaction. Unknown ids change nothing
// and nothing is mirrored.
func (c *Container) DeleteTransaction(ctx context.Context, id string) domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := ledger.FindTransaction(c.snap.Transactions, id)
	if !ok {
		return c.snap.Clone()
	}
	if _, ok := ledger.FindAccount(c.snap.Accounts, t.AccountID); !ok {
		c.log.Warn().
			Str("transaction_id", id).
			Str("account_id", t.AccountID).
			Msg("Deleted transaction references unknown account; no balance changed")
	}
	return c.commit(ctx, DeleteTransaction(c.snap, id))
}

// commit installs next and hands it to the mirror of an authenticated session.
// Must be called with c.mu held.
func (c *Container) commit(ctx context.Context, next domain.Snapshot) domain.Snapshot {
	c.snap = next

	switch k := c.kind.(type) {
	case Authenticated:
		if k.mirror != nil {
			k.mirror.Mirror(ctx, k.user.ID, next)
		}
	case Guest:
	}

	return next.Clone()
}
