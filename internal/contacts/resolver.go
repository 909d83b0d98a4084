// Package contacts resolves raw chat identifiers (phone numbers and email
// addresses) to display names.
package contacts

import (
	"strings"
	"sync"
)

// Resolver is a process-lifetime cache mapping identifiers to display names.
// It grows monotonically; entries are never evicted. Safe for concurrent use.
type Resolver struct {
	mu    sync.RWMutex
	cache map[string]string
}

func NewResolver() *Resolver {
	return &Resolver{cache: make(map[string]string)}
}

// Resolve returns the display name for an identifier. Lookup order, first hit
// wins: the raw identifier, its normalized form, and the normalized form with
// a leading "+1" stripped.
func (r *Resolver) Resolve(identifier string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name, ok := r.cache[identifier]; ok {
		return name, true
	}

	normalized := NormalizePhone(identifier)
	if name, ok := r.cache[normalized]; ok {
		return name, true
	}

	if strings.HasPrefix(normalized, "+1") {
		if name, ok := r.cache[normalized[2:]]; ok {
			return name, true
		}
	}

	return "", false
}

// Add maps an identifier to a name, overwriting any prior mapping. Empty
// identifiers and empty names are never stored.
func (r *Resolver) Add(identifier, name string) {
	if identifier == "" || name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[identifier] = name
}

// Len returns the number of cached mappings.
func (r *Resolver) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

// NormalizePhone strips a phone number down to ASCII digits and '+',
// preserving order. Spaces, punctuation, and letters are discarded.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, c := range phone {
		if (c >= '0' && c <= '9') || c == '+' {
			b.WriteRune(c)
		}
	}
	return b.String()
}
