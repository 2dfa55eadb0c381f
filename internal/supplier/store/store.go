// Package store persists Supplier aggregates and their document rows.
// Two implementations exist: an in-memory store for unit tests and
// development, and a postgres store for production. Both answer the review
// queue query so the admin work queue behaves identically against either.
package store

import (
	"context"

	"aseara/internal/supplier/models"
	id "aseara/pkg/domain"
)

// QueueQuery is the review-queue filter set. Scoping and defaulting happen
// in the review service; by the time a query reaches a store it is fully
// resolved.
type QueueQuery struct {
	// Statuses restricts to an exact status set. Empty means no status
	// restriction (the service always sets at least the default pair).
	Statuses []models.SupplierStatus
	// CountryCode restricts to suppliers scoped to this country. Empty
	// means all countries.
	CountryCode string
	// Search is matched case-insensitively as a substring against the
	// business name, the registration number and the owning user's email.
	Search string
}

// Store is the persistence port for supplier records and document rows.
//
// Mutations called inside a transaction (see the service StoreTx) must
// observe the context-carried transaction; the postgres implementation
// does this via pkg/platform/tx.
type Store interface {
	Create(ctx context.Context, supplier *models.Supplier) error
	FindByID(ctx context.Context, supplierID id.SupplierID) (*models.Supplier, error)
	FindByUserID(ctx context.Context, userID id.UserID) (*models.Supplier, error)
	Update(ctx context.Context, supplier *models.Supplier) error

	// UpsertDocument inserts or overwrites the single live row for
	// (supplier, kind) and returns the storage key the row previously
	// held, or "" when the slot was empty.
	UpsertDocument(ctx context.Context, doc *models.SupplierDocument) (previousKey string, err error)
	FindDocument(ctx context.Context, supplierID id.SupplierID, kind models.DocumentKind) (*models.SupplierDocument, error)
	ListDocuments(ctx context.Context, supplierID id.SupplierID) ([]*models.SupplierDocument, error)

	// ListQueue returns suppliers matching the query ordered by
	// submitted_at descending with nulls last, then id descending.
	ListQueue(ctx context.Context, query QueueQuery) ([]*models.Supplier, error)
}

// UserEmails resolves the owning user's email for queue search. The
// identity store satisfies this; the postgres supplier store joins the
// users table directly instead.
type UserEmails interface {
	FindEmail(ctx context.Context, userID id.UserID) (string, error)
}
