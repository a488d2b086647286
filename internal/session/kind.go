package session

import "github.com/dvloznov/finsmart/internal/domain"

// Kind says what sort of session a Container belongs to. The only
// implementations are Authenticated and Guest.
type Kind interface {
	User() domain.User
	isKind()
}

// Authenticated is a signed-in session. Its changes are mirrored remotely.
type Authenticated struct {
	user   domain.User
	mirror Mirror
}

// NewAuthenticated returns the kind for a signed-in user.
func NewAuthenticated(u domain.User, m Mirror) Authenticated {
	return Authenticated{user: u, mirror: m}
}

// User implements Kind.
func (a Authenticated) User() domain.User { return a.user }

func (Authenticated) isKind() {}

// Guest is a local demo session. It has no route to remote storage.
type Guest struct {
	user domain.User
}

// NewGuest returns the kind for a guest user.
func NewGuest(u domain.User) Guest {
	return Guest{user: u}
}

// User implements Kind.
func (g Guest) User() domain.User { return g.user }

func (Guest) isKind() {}

// KindName is "authenticated" or "guest".
func KindName(k Kind) string {
	switch k.(type) {
	case Authenticated:
		return "authenticated"
	case Guest:
		return "guest"
	}
	return "unknown"
}
