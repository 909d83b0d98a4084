// Package chatdb is the read-only query surface over the Messages database.
// The schema belongs to the OS; column names are a fixed external contract.
package chatdb

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/slightknack/aeromessage/internal/domain"
)

// DefaultPath returns the standard location of the Messages database.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home directory: %w", err)
	}
	return filepath.Join(home, "Library", "Messages", "chat.db"), nil
}

// Open opens the Messages database read-only. A missing file yields
// domain.ErrStoreNotFound and an access-control failure yields
// domain.ErrPermissionDenied, so callers can distinguish the two.
func Open(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrStoreNotFound, path)
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %s", domain.ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("stat message store: %w", err)
	}

	// The driver reports a bare "unable to open" on sandbox denial, so probe
	// readability up front to classify it.
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %s", domain.ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("open message store: %w", err)
	}
	f.Close()

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}
