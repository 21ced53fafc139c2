// Package storage keeps server-side copies of exported project envelopes so a
// user can recover a backup without the downloaded file.
package storage

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
)

// BlobStore is the archive boundary. Keys are slash-separated paths scoped
// under backups/<userID>/.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	List(prefix string) ([]string, error)
}

// BackupKey is the canonical archive location for a user's backup file.
func BackupKey(userID, filename string) string {
	return filepath.ToSlash(filepath.Join("backups", userID, filepath.Base(filename)))
}

// FSStore is the filesystem archive used in offline mode and dev.
type FSStore struct{ base string }

func NewFSStore(base string) (*FSStore, error) {
	if base == "" {
		base = "./data"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &FSStore{base: base}, nil
}

func (s *FSStore) Put(key string, r io.Reader) (string, error) {
	if key == "" {
		return "", errors.New("empty key")
	}
	dst := filepath.Join(s.base, filepath.Clean(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return key, nil
}

func (s *FSStore) Get(key string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.base, filepath.Clean(key)))
}

// List returns the keys under a prefix, e.g. every backup a user owns.
func (s *FSStore) List(prefix string) ([]string, error) {
	root := filepath.Join(s.base, filepath.Clean(prefix))
	var keys []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.base, path)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return keys, nil
}

// PutBytes is a convenience for small JSON payloads.
func PutBytes(s BlobStore, key string, b []byte) (string, error) {
	return s.Put(key, bytes.NewReader(b))
}
