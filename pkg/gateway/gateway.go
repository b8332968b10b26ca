// Package gateway abstracts the chat transport used to deliver documents.
// The core services depend only on the Gateway interface; the Telegram
// implementation also carries the conversational helpers the bot layer uses.
package gateway

import (
	"context"
	"errors"
)

// ErrStaleHandle reports that a previously cached delivery handle was
// rejected by the transport. Callers recover by re-resolving the document.
var ErrStaleHandle = errors.New("gateway: stale delivery handle")

// Gateway is the document delivery surface consumed by the locator.
type Gateway interface {
	// DeliverDocument uploads fresh bytes and returns the transport's
	// handle for the delivered file, reusable for later redeliveries.
	DeliverDocument(ctx context.Context, chatID int64, fileName string, data []byte) (string, error)
	// RedeliverByHandle resends a previously delivered file. Returns
	// ErrStaleHandle when the transport no longer accepts the handle.
	RedeliverByHandle(ctx context.Context, chatID int64, handle string) error
}
