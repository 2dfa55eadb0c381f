// Package store persists session carts.
package store

import (
	"context"

	"aseara/internal/cart/models"
)

// Store is the persistence port for session carts. Lookups for a session
// with no cart return an empty cart, never an error; carts expire with
// their session.
type Store interface {
	Get(ctx context.Context, sessionID string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, sessionID string) error
}
