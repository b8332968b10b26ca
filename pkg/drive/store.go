// Package drive abstracts the remote file hosting backend. The core only
// needs four read operations; the Google Drive client below is the one
// production implementation, and tests substitute fakes.
package drive

import "context"

// RemoteFile is one file listed under a remote folder.
type RemoteFile struct {
	ID   string
	Name string
}

// RemoteStore is the read-only surface of the hosting backend. All calls
// are bounded by the client's configured timeout; errors are generic and
// the callers decide between fail-soft and transient handling.
type RemoteStore interface {
	// FindChildFolder returns the id of the folder child with exactly the
	// given name, or "" when there is none.
	FindChildFolder(ctx context.Context, parentID, name string) (string, error)
	ListChildFolders(ctx context.Context, parentID string) ([]string, error)
	ListFiles(ctx context.Context, parentID string) ([]RemoteFile, error)
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}
