// Package local keeps the guest identity on the local filesystem.
// Nothing stored here is ever sent to a remote store.
package local

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dvloznov/finsmart/internal/domain"
)

// GuestFile stores the active guest identity as a small JSON file.
type GuestFile struct {
	path string
}

// NewGuestFile returns a store backed by the file at path.
func NewGuestFile(path string) *GuestFile {
	return &GuestFile{path: path}
}

// Path returns the backing file location.
func (g *GuestFile) Path() string {
	return g.path
}

// LoadGuest reads the stored guest identity. ok is false when no guest
// session has been started.
func (g *GuestFile) LoadGuest() (domain.User, bool, error) {
	data, err := os.ReadFile(g.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, fmt.Errorf("LoadGuest: read: %w", err)
	}

	var u domain.User
	if err := json.Unmarshal(data, &u); err != nil {
		return domain.User{}, false, fmt.Errorf("LoadGuest: decode: %w", err)
	}
	return u, true, nil
}

// SaveGuest writes the identity atomically: a temp file is written and then
// renamed over the target.
func (g *GuestFile) SaveGuest(u domain.User) error {
	if dir := filepath.Dir(g.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("SaveGuest: create dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(u, "", "  ")
	if err != nil {
		return fmt.Errorf("SaveGuest: encode: %w", err)
	}

	tmp := g.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("SaveGuest: write: %w", err)
	}
	if err := os.Rename(tmp, g.path); err != nil {
		return fmt.Errorf("SaveGuest: rename: %w", err)
	}
	return nil
}

// ClearGuest removes the stored identity. A missing file is not an error.
func (g *GuestFile) ClearGuest() error {
	if err := os.Remove(g.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("ClearGuest: %w", err)
	}
	return nil
}
