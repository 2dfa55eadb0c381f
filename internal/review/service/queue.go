package service

import (
	"context"
	"strings"

	"aseara/internal/review/models"
	suppliermodels "aseara/internal/supplier/models"
	supplierstore "aseara/internal/supplier/store"
	dErrors "aseara/pkg/domain-errors"
)

// QueueFilters are the caller-supplied review queue filters, straight from
// query parameters. Every field is optional and tolerated when malformed:
// an unknown status token falls back to the default view rather than
// erroring, and the country filter is ignored for country admins whose
// scope already fixes the country.
type QueueFilters struct {
	Status      string
	CountryCode string
	Search      string
}

// ListQueue returns the admin's work queue: suppliers within the admin's
// scope matching the filters, most recently submitted first. Scoping is
// applied before the filters and cannot be widened by them.
func (s *Service) ListQueue(ctx context.Context, admin *models.Admin, filters QueueFilters) ([]*suppliermodels.Supplier, error) {
	if admin == nil {
		return nil, errAccessDenied()
	}

	query := supplierstore.QueueQuery{
		Statuses: resolveStatusFilter(filters.Status),
		Search:   strings.TrimSpace(filters.Search),
	}
	if admin.IsAbsolute() {
		query.CountryCode = strings.ToUpper(strings.TrimSpace(filters.CountryCode))
	} else {
		query.CountryCode = admin.CountryCode
	}

	suppliers, err := s.suppliers.ListQueue(ctx, query)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list review queue")
	}
	s.metrics.RecordQueueQuery()
	return suppliers, nil
}

// resolveStatusFilter maps the raw status token to a status set. A valid
// token restricts to that exact status; empty or unrecognized tokens fall
// back to the needs-attention default.
func resolveStatusFilter(raw string) []suppliermodels.SupplierStatus {
	token := strings.ToLower(strings.TrimSpace(raw))
	if status, ok := suppliermodels.ParseSupplierStatus(token); ok {
		return []suppliermodels.SupplierStatus{status}
	}
	return suppliermodels.ReviewableStatuses()
}
