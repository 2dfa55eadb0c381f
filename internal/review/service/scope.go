package service

import (
	"context"
	"errors"

	"aseara/internal/review/models"
	suppliermodels "aseara/internal/supplier/models"
	id "aseara/pkg/domain"
	dErrors "aseara/pkg/domain-errors"
	"aseara/pkg/platform/sentinel"
)

// CanAct reports whether the admin's scope covers the supplier. Absolute
// admins cover everything; country admins cover suppliers whose country
// code equals their own.
func CanAct(admin *models.Admin, supplier *suppliermodels.Supplier) bool {
	if admin == nil || supplier == nil {
		return false
	}
	if admin.IsAbsolute() {
		return true
	}
	return admin.CountryCode != "" && admin.CountryCode == supplier.CountryCode
}

// errAccessDenied is the uniform denial for out-of-scope direct access.
// The message deliberately matches nothing about the record so a country
// admin probing supplier ids learns nothing about what exists.
func errAccessDenied() error {
	return dErrors.New(dErrors.CodeForbidden, "access denied")
}

// loadScoped fetches a supplier and enforces scope. A record the admin
// may not see yields the same Forbidden as a record outside their scope
// would on any other path; a genuinely missing record is NotFound.
func (s *Service) loadScoped(ctx context.Context, admin *models.Admin, supplierID id.SupplierID) (*suppliermodels.Supplier, error) {
	if admin == nil {
		return nil, errAccessDenied()
	}
	supplier, err := s.suppliers.FindByID(ctx, supplierID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "supplier not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load supplier")
	}
	if !CanAct(admin, supplier) {
		return nil, errAccessDenied()
	}
	return supplier, nil
}
