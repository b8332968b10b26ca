package service

import "errors"

var (
	// ErrNotConfigured rejects operations from users that have not finished
	// the /start setup flow. No remote call is made in that case.
	ErrNotConfigured = errors.New("user session not configured")

	// ErrNotFound means resolution or the file query matched nothing. It may
	// also mask a remote fault on the fail-soft read paths.
	ErrNotFound = errors.New("document not found")

	// ErrTransient means the document was located but downloading or
	// delivering it failed. Safe for the caller to suggest a retry.
	ErrTransient = errors.New("transient fetch failure")
)
