package bigquery

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestReadMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_second.sql":       {Data: []byte("CREATE TABLE `{{PROJECT_ID}}.{{DATASET_ID}}.b` (id INT64);")},
		"0001_first.sql":        {Data: []byte("CREATE TABLE `{{PROJECT_ID}}.{{DATASET_ID}}.a` (id INT64);")},
		"001_invalid.sql":       {Data: []byte("x")},
		"0003_missing_ext":      {Data: []byte("x")},
		"invalid_0004_test.sql": {Data: []byte("x")},
		"README.md":             {Data: []byte("x")},
	}

	got, err := ReadMigrations(fsys, "proj", "ds")
	if err != nil {
		t.Fatalf("ReadMigrations: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d migrations, want 2: %+v", len(got), got)
	}
	if got[0].Version != 1 || got[0].Name != "first" || got[1].Version != 2 {
		t.Errorf("unexpected order: %+v", got)
	}
	if !strings.Contains(got[0].SQL, "`proj.ds.a`") {
		t.Errorf("placeholders not replaced: %s", got[0].SQL)
	}
}

func TestReadMigrations_ChecksumIgnoresTarget(t *testing.T) {
	fsys := fstest.MapFS{
		"0001_first.sql": {Data: []byte("CREATE TABLE `{{PROJECT_ID}}.{{DATASET_ID}}.a` (id INT64);")},
	}

	a, err := ReadMigrations(fsys, "p1", "d1")
	if err != nil {
		t.Fatal(err)
	}
	b, err := ReadMigrations(fsys, "p2", "d2")
	if err != nil {
		t.Fatal(err)
	}

	if a[0].Checksum != b[0].Checksum {
		t.Error("checksum should not depend on project or dataset")
	}
	if a[0].SQL == b[0].SQL {
		t.Error("rendered SQL should differ per dataset")
	}
}

func TestReadMigrations_DuplicateVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"0001_a.sql": {Data: []byte("x")},
		"0001_b.sql": {Data: []byte("y")},
	}
	if _, err := ReadMigrations(fsys, "p", "d"); err == nil {
		t.Error("expected duplicate version error")
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	got, err := Migrations("proj", "ds")
	if err != nil {
		t.Fatalf("Migrations: %v", err)
	}
	if len(got) < 2 {
		t.Fatalf("expected embedded migrations, got %d", len(got))
	}

	all := ""
	for _, m := range got {
		all += m.SQL
		if strings.Contains(m.SQL, "{{") {
			t.Errorf("migration %s has unreplaced placeholders", m.Filename)
		}
	}
	for _, table := range []string{"users", "accounts", "transactions", "categories"} {
		if !strings.Contains(all, "`proj.ds."+table+"`") {
			t.Errorf("no migration creates %s", table)
		}
	}
}

func TestPendingMigrations(t *testing.T) {
	all := []Migration{
		{Version: 1, Name: "a", Checksum: "c1"},
		{Version: 2, Name: "b", Checksum: "c2"},
		{Version: 3, Name: "c", Checksum: "c3"},
	}

	pending, err := PendingMigrations(all, []AppliedMigration{{Version: 1, Checksum: "c1"}, {Version: 2}})
	if err != nil {
		t.Fatalf("PendingMigrations: %v", err)
	}
	if len(pending) != 1 || pending[0].Version != 3 {
		t.Errorf("pending = %+v, want only version 3", pending)
	}

	if _, err := PendingMigrations(all, []AppliedMigration{{Version: 1, Checksum: "changed"}}); err == nil {
		t.Error("expected error for modified migration")
	}
}
