package metastore

import (
	"context"
	"fmt"

	"solana-token-forge/internal/domain"
)

// UploadCoordinator sequences the two-step metadata upload: the image pin
// must complete before the document pin, because the document embeds the
// image locator. Any failure aborts the whole upload; nothing is submitted
// on-chain with a half-uploaded document.
type UploadCoordinator struct {
	store Store
}

// NewUploadCoordinator creates a coordinator over the given store.
func NewUploadCoordinator(store Store) *UploadCoordinator {
	return &UploadCoordinator{store: store}
}

// Upload pins the image (when present) and then the token document, and
// returns the document locator to put on-chain. A nil image produces a
// document with an empty image field.
func (c *UploadCoordinator) Upload(ctx context.Context, name, symbol, description, imageName string, image []byte) (string, error) {
	doc := domain.TokenDocument{
		Name:        name,
		Symbol:      symbol,
		Description: description,
	}

	if len(image) > 0 {
		imageLocator, err := c.store.PinBlob(ctx, imageName, image)
		if err != nil {
			return "", fmt.Errorf("pin image: %w", err)
		}
		doc.Image = imageLocator
	}

	locator, err := c.store.PinJSON(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("pin document: %w", err)
	}
	return locator, nil
}

// Reupload pins a fully assembled document without touching its image:
// metadata updates that keep the current image carry the existing locator
// forward instead of re-pinning the blob.
func (c *UploadCoordinator) Reupload(ctx context.Context, doc domain.TokenDocument) (string, error) {
	locator, err := c.store.PinJSON(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("pin document: %w", err)
	}
	return locator, nil
}
