package storage

import (
	"io"
	"testing"
)

func TestBackupKey(t *testing.T) {
	if got := BackupKey("u1", "my-novel-backup.json"); got != "backups/u1/my-novel-backup.json" {
		t.Fatalf("got %q", got)
	}
	// path components in the filename are stripped
	if got := BackupKey("u1", "../other/file.json"); got != "backups/u1/file.json" {
		t.Fatalf("got %q", got)
	}
}

func TestFSStoreRoundTrip(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	key := BackupKey("u1", "draft-backup.json")
	if _, err := PutBytes(s, key, []byte(`{"version":"1.0"}`)); err != nil {
		t.Fatal(err)
	}

	rc, err := s.Get(key)
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"version":"1.0"}` {
		t.Fatalf("got %q", data)
	}

	keys, err := s.List("backups/u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 1 || keys[0] != key {
		t.Fatalf("got %v", keys)
	}
}

func TestFSStoreListMissingPrefix(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	keys, err := s.List("backups/nobody")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 0 {
		t.Fatalf("got %v", keys)
	}
}

func TestFSStorePutEmptyKey(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := PutBytes(s, "", []byte("x")); err == nil {
		t.Fatal("empty key must be rejected")
	}
}
