// Package models defines the product listing.
package models

import (
	"strings"
	"time"

	id "aseara/pkg/domain"
	dErrors "aseara/pkg/domain-errors"
)

// Product is one catalog listing owned by a supplier. Listings start
// unpublished; publishing requires the owning supplier to hold approved
// verification status, checked by the service at publish time.
type Product struct {
	ID          id.ProductID  `json:"id"`
	SupplierID  id.SupplierID `json:"supplier_id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	// PriceCents avoids floating-point money. Currency follows the
	// supplier's country.
	PriceCents int64     `json:"price_cents"`
	Published  bool      `json:"published"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewProduct validates and builds an unpublished Product.
func NewProduct(productID id.ProductID, supplierID id.SupplierID, name, description string, priceCents int64, now time.Time) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "product name is required")
	}
	if priceCents <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "price must be positive")
	}
	if supplierID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "product must belong to a supplier")
	}
	return &Product{
		ID:          productID,
		SupplierID:  supplierID,
		Name:        name,
		Description: strings.TrimSpace(description),
		PriceCents:  priceCents,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
