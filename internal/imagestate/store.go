// Package imagestate keeps the pending image lists of product variants while a
// product form is open. Lists are keyed by form id and variant index.
package imagestate

import (
	"context"
	"errors"

	"github.com/01moynul/taptosell-admin/internal/models"
)

// ErrReleased is returned by a Session used after Release.
var ErrReleased = errors.New("image state session released")

// Store is the shared image-state store.
type Store interface {
	// Append adds img to the list of the variant at index.
	Append(ctx context.Context, formID string, index int, img models.Image) error
	// Replace overwrites the list of the variant at index.
	Replace(ctx context.Context, formID string, index int, imgs []models.Image) error
	// List returns the list of the variant at index (empty when unset).
	List(ctx context.Context, formID string, index int) ([]models.Image, error)
	// Snapshot returns every list recorded for the form.
	Snapshot(ctx context.Context, formID string) (map[int][]models.Image, error)
	// Clear drops every list recorded for the form.
	Clear(ctx context.Context, formID string) error
}
