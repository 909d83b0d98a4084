package domain

import "errors"

// Sentinel errors for the application.
var (
	ErrStoreNotFound    = errors.New("message store not found")
	ErrPermissionDenied = errors.New("permission denied opening message store")
)
