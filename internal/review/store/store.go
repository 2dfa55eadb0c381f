// Package store persists Admin records.
package store

import (
	"context"

	"aseara/internal/review/models"
	id "aseara/pkg/domain"
)

// Store is the persistence port for administrative users.
type Store interface {
	Create(ctx context.Context, admin *models.Admin) error
	FindByID(ctx context.Context, adminID id.AdminID) (*models.Admin, error)
	FindByUserID(ctx context.Context, userID id.UserID) (*models.Admin, error)
}
