// Package services provides repository interfaces and their storage
// backends. This layer sits between the raw stores and the HTTP API.
package services

import "errors"

// Sentinel errors returned by repositories.
var (
	ErrNotFound    = errors.New("not found")
	ErrStoreClosed = errors.New("store is closed")
)
