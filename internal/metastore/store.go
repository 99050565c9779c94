// Package metastore uploads token images and metadata documents to a
// content-addressed pinning service and resolves the resulting locators.
package metastore

import "context"

// Store pins content and returns a permanent locator for it.
type Store interface {
	// PinBlob pins raw bytes under the given filename and returns its
	// locator.
	PinBlob(ctx context.Context, name string, data []byte) (string, error)

	// PinJSON pins the JSON encoding of v and returns its locator.
	PinJSON(ctx context.Context, v interface{}) (string, error)
}
