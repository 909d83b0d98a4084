package contacts

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedAddressBook creates a sources directory with one contacts database
// holding two records: a phone contact and an email contact.
func seedAddressBook(t *testing.T) string {
	t.Helper()

	sources := t.TempDir()
	sourceDir := filepath.Join(sources, "ABCD1234")
	require.NoError(t, os.Mkdir(sourceDir, 0o755))

	db, err := sql.Open("sqlite", filepath.Join(sourceDir, addressBookFile))
	require.NoError(t, err)
	defer db.Close()

	stmts := []string{
		`CREATE TABLE ZABCDRECORD (Z_PK INTEGER PRIMARY KEY, ZFIRSTNAME TEXT, ZLASTNAME TEXT);`,
		`CREATE TABLE ZABCDPHONENUMBER (Z_PK INTEGER PRIMARY KEY, ZOWNER INTEGER, ZFULLNUMBER TEXT);`,
		`CREATE TABLE ZABCDEMAILADDRESS (Z_PK INTEGER PRIMARY KEY, ZOWNER INTEGER, ZADDRESSNORMALIZED TEXT);`,
		`INSERT INTO ZABCDRECORD (Z_PK, ZFIRSTNAME, ZLASTNAME) VALUES (1, 'Jane', 'Doe'), (2, 'Bob', NULL), (3, NULL, NULL);`,
		`INSERT INTO ZABCDPHONENUMBER (ZOWNER, ZFULLNUMBER) VALUES (1, '+1 (555) 123-4567'), (3, '+15550000000');`,
		`INSERT INTO ZABCDEMAILADDRESS (ZOWNER, ZADDRESSNORMALIZED) VALUES (2, 'Bob@Example.com');`,
	}
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	// A non-directory entry and a source without a database are skipped.
	require.NoError(t, os.WriteFile(filepath.Join(sources, "stray.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(sources, "EMPTY"), 0o755))

	return sources
}

func TestLoadAddressBook(t *testing.T) {
	r := NewResolver()
	n, err := r.LoadAddressBook(context.Background(), seedAddressBook(t))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Phone contact resolvable through raw and normalized forms.
	name, ok := r.Resolve("+1 (555) 123-4567")
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", name)

	name, ok = r.Resolve("+15551234567")
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", name)

	// Email contact resolvable through raw and lowercased forms.
	name, ok = r.Resolve("Bob@Example.com")
	require.True(t, ok)
	assert.Equal(t, "Bob", name)

	name, ok = r.Resolve("bob@example.com")
	require.True(t, ok)
	assert.Equal(t, "Bob", name)

	// The record with no name parts is not loaded.
	_, ok = r.Resolve("+15550000000")
	assert.False(t, ok)
}

func TestLoadAddressBookMissingDir(t *testing.T) {
	r := NewResolver()
	_, err := r.LoadAddressBook(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
	assert.Zero(t, r.Len())
}
