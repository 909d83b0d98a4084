package contacts

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// addressBookFile is the per-source contacts database inside each
// AddressBook sources directory.
const addressBookFile = "AddressBook-v22.abcddb"

// DefaultSourcesDir returns the macOS AddressBook sources directory.
func DefaultSourcesDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home directory: %w", err)
	}
	return filepath.Join(home, "Library", "Application Support", "AddressBook", "Sources"), nil
}

// LoadAddressBook populates the resolver from every contacts database under
// sourcesDir. Phone numbers are stored under both their raw and normalized
// forms, emails under their raw and lowercased forms. Returns the number of
// contact records loaded.
func (r *Resolver) LoadAddressBook(ctx context.Context, sourcesDir string) (int, error) {
	entries, err := os.ReadDir(sourcesDir)
	if err != nil {
		return 0, fmt.Errorf("read sources dir: %w", err)
	}

	total := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dbPath := filepath.Join(sourcesDir, entry.Name(), addressBookFile)
		if _, err := os.Stat(dbPath); err != nil {
			continue
		}
		n, err := r.loadSource(ctx, dbPath)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (r *Resolver) loadSource(ctx context.Context, dbPath string) (int, error) {
	db, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return 0, fmt.Errorf("open addressbook: %w", err)
	}
	defer db.Close()

	count := 0

	rows, err := db.QueryContext(ctx, `
		SELECT
			COALESCE(r.ZFIRSTNAME, '') || ' ' || COALESCE(r.ZLASTNAME, '') AS name,
			p.ZFULLNUMBER
		FROM ZABCDRECORD r
		JOIN ZABCDPHONENUMBER p ON r.Z_PK = p.ZOWNER
		WHERE (r.ZFIRSTNAME IS NOT NULL OR r.ZLASTNAME IS NOT NULL)
		  AND p.ZFULLNUMBER IS NOT NULL
	`)
	if err != nil {
		return 0, fmt.Errorf("query phone numbers: %w", err)
	}
	for rows.Next() {
		var name, phone string
		if err := rows.Scan(&name, &phone); err != nil {
			rows.Close()
			return count, fmt.Errorf("scan phone row: %w", err)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		r.Add(phone, name)
		if normalized := NormalizePhone(phone); normalized != phone {
			r.Add(normalized, name)
		}
		count++
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return count, fmt.Errorf("iterate phone rows: %w", err)
	}
	rows.Close()

	rows, err = db.QueryContext(ctx, `
		SELECT
			COALESCE(r.ZFIRSTNAME, '') || ' ' || COALESCE(r.ZLASTNAME, '') AS name,
			e.ZADDRESSNORMALIZED
		FROM ZABCDRECORD r
		JOIN ZABCDEMAILADDRESS e ON r.Z_PK = e.ZOWNER
		WHERE (r.ZFIRSTNAME IS NOT NULL OR r.ZLASTNAME IS NOT NULL)
		  AND e.ZADDRESSNORMALIZED IS NOT NULL
	`)
	if err != nil {
		return count, fmt.Errorf("query emails: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name, email string
		if err := rows.Scan(&name, &email); err != nil {
			return count, fmt.Errorf("scan email row: %w", err)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		r.Add(email, name)
		if lower := strings.ToLower(email); lower != email {
			r.Add(lower, name)
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return count, fmt.Errorf("iterate email rows: %w", err)
	}

	return count, nil
}
