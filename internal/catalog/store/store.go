// Package store persists product listings.
package store

import (
	"context"

	"aseara/internal/catalog/models"
	id "aseara/pkg/domain"
)

// ListQuery filters the public catalog listing.
type ListQuery struct {
	// Search matches case-insensitively as a substring of the product
	// name. Empty means no restriction.
	Search string
	// PublishedOnly restricts to live listings. The public catalog always
	// sets this; supplier dashboards do not.
	PublishedOnly bool
	// SupplierID restricts to one supplier's listings when set.
	SupplierID id.SupplierID
}

// Store is the persistence port for product listings.
type Store interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, productID id.ProductID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	List(ctx context.Context, query ListQuery) ([]*models.Product, error)

	// UnpublishBySupplier takes every live listing of a supplier off the
	// catalog, used when a supplier is suspended.
	UnpublishBySupplier(ctx context.Context, supplierID id.SupplierID) (int, error)
}
