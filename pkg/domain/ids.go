// Package domain defines typed identifiers shared across modules.
//
// IDs are distinct named types over uuid.UUID so the compiler rejects
// cross-type assignment (a SupplierID can never be passed where an
// AdminID is expected). Parse helpers enforce the trust-boundary
// invariant that IDs are valid, non-nil UUIDs.
package domain

import (
	"github.com/google/uuid"

	dErrors "aseara/pkg/domain-errors"
)

type (
	// UserID identifies an account holder (customer, supplier or admin).
	UserID uuid.UUID
	// SupplierID identifies a supplier business entity.
	SupplierID uuid.UUID
	// AdminID identifies an administrative user.
	AdminID uuid.UUID
	// DocumentID identifies a stored supplier document row.
	DocumentID uuid.UUID
	// ProductID identifies a catalog product.
	ProductID uuid.UUID
)

func (id UserID) String() string     { return uuid.UUID(id).String() }
func (id SupplierID) String() string { return uuid.UUID(id).String() }
func (id AdminID) String() string    { return uuid.UUID(id).String() }
func (id DocumentID) String() string { return uuid.UUID(id).String() }
func (id ProductID) String() string  { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id SupplierID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id AdminID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id DocumentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ProductID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }

// NewUserID returns a fresh random UserID.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewSupplierID returns a fresh random SupplierID.
func NewSupplierID() SupplierID { return SupplierID(uuid.New()) }

// NewAdminID returns a fresh random AdminID.
func NewAdminID() AdminID { return AdminID(uuid.New()) }

// NewDocumentID returns a fresh random DocumentID.
func NewDocumentID() DocumentID { return DocumentID(uuid.New()) }

// NewProductID returns a fresh random ProductID.
func NewProductID() ProductID { return ProductID(uuid.New()) }

func parseUUID(raw, kind string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id cannot be empty")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind+" id")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id cannot be nil")
	}
	return parsed, nil
}

// ParseUserID parses and validates a user ID from its string form.
func ParseUserID(raw string) (UserID, error) {
	parsed, err := parseUUID(raw, "user")
	return UserID(parsed), err
}

// ParseSupplierID parses and validates a supplier ID from its string form.
func ParseSupplierID(raw string) (SupplierID, error) {
	parsed, err := parseUUID(raw, "supplier")
	return SupplierID(parsed), err
}

// ParseAdminID parses and validates an admin ID from its string form.
func ParseAdminID(raw string) (AdminID, error) {
	parsed, err := parseUUID(raw, "admin")
	return AdminID(parsed), err
}

// ParseProductID parses and validates a product ID from its string form.
func ParseProductID(raw string) (ProductID, error) {
	parsed, err := parseUUID(raw, "product")
	return ProductID(parsed), err
}
