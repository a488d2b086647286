package local

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dvloznov/finsmart/internal/domain"
)

func TestGuestFile_RoundTrip(t *testing.T) {
	g := NewGuestFile(filepath.Join(t.TempDir(), "nested", "guest.json"))

	if _, ok, err := g.LoadGuest(); err != nil || ok {
		t.Fatalf("LoadGuest on empty dir: ok=%v err=%v", ok, err)
	}

	if err := g.SaveGuest(domain.DemoUser); err != nil {
		t.Fatalf("SaveGuest: %v", err)
	}

	got, ok, err := g.LoadGuest()
	if err != nil || !ok {
		t.Fatalf("LoadGuest: ok=%v err=%v", ok, err)
	}
	if got != domain.DemoUser {
		t.Errorf("LoadGuest() = %+v, want %+v", got, domain.DemoUser)
	}

	if _, err := os.Stat(g.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}

func TestGuestFile_Clear(t *testing.T) {
	g := NewGuestFile(filepath.Join(t.TempDir(), "guest.json"))

	if err := g.ClearGuest(); err != nil {
		t.Fatalf("ClearGuest on missing file: %v", err)
	}
	if err := g.SaveGuest(domain.DemoUser); err != nil {
		t.Fatal(err)
	}
	if err := g.ClearGuest(); err != nil {
		t.Fatalf("ClearGuest: %v", err)
	}
	if _, ok, _ := g.LoadGuest(); ok {
		t.Error("guest still present after ClearGuest")
	}
}

func TestGuestFile_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guest.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := NewGuestFile(path).LoadGuest(); err == nil {
		t.Error("expected decode error")
	}
}
