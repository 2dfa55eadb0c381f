// Package store persists user accounts.
package store

import (
	"context"

	"aseara/internal/identity/models"
	id "aseara/pkg/domain"
)

// Store is the persistence port for user accounts.
type Store interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindEmail resolves just the email for a user id. The supplier queue
	// search depends on this lookup when running against in-memory stores.
	FindEmail(ctx context.Context, userID id.UserID) (string, error)
}
