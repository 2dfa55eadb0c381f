// Package service implements the admin review side of supplier
// verification: the scoped work queue, supplier detail access and the
// review actions that drive the status lifecycle.
package service

import (
	"context"
	"errors"
	"io"
	"log/slog"

	reviewmetrics "aseara/internal/review/metrics"
	"aseara/internal/review/models"
	adminstore "aseara/internal/review/store"
	suppliermodels "aseara/internal/supplier/models"
	supplierstore "aseara/internal/supplier/store"
	id "aseara/pkg/domain"
	dErrors "aseara/pkg/domain-errors"
	"aseara/pkg/platform/sentinel"
)

// Service carries out admin review operations against supplier records.
type Service struct {
	admins       adminstore.Store
	suppliers    supplierstore.Store
	tx           StoreTx
	logger       *slog.Logger
	metrics      *reviewmetrics.Metrics
	onSuspension func(ctx context.Context, supplierID id.SupplierID)
}

// Option configures a Service.
type Option func(*Service)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics attaches the review metrics set.
func WithMetrics(m *reviewmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithStoreTx overrides the transaction boundary; cmd/server installs the
// postgres implementation here.
func WithStoreTx(tx StoreTx) Option {
	return func(s *Service) { s.tx = tx }
}

// WithSuspensionHook registers a callback invoked after a supplier is
// suspended, outside the transaction. The catalog uses it to pull the
// supplier's live listings.
func WithSuspensionHook(hook func(ctx context.Context, supplierID id.SupplierID)) Option {
	return func(s *Service) { s.onSuspension = hook }
}

// New constructs the review service.
func New(admins adminstore.Store, suppliers supplierstore.Store, opts ...Option) *Service {
	s := &Service{
		admins:    admins,
		suppliers: suppliers,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = newInMemoryTx()
	}
	return s
}

// AdminForUser resolves the admin profile behind an authenticated user.
// Handlers call this once per request to establish the acting admin.
func (s *Service) AdminForUser(ctx context.Context, userID id.UserID) (*models.Admin, error) {
	admin, err := s.admins.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeForbidden, "access denied")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve admin")
	}
	return admin, nil
}

// RegisterAdmin creates an admin profile for a user account.
func (s *Service) RegisterAdmin(ctx context.Context, userID id.UserID, adminType models.AdminType, countryCode string) (*models.Admin, error) {
	admin, err := models.NewAdmin(id.NewAdminID(), userID, adminType, countryCode)
	if err != nil {
		return nil, err
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "admin profile already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create admin profile")
	}
	return admin, nil
}

// SupplierDetail is a supplier record with its live document rows, as
// shown on the admin review page.
type SupplierDetail struct {
	Supplier  *suppliermodels.Supplier
	Documents []*suppliermodels.SupplierDocument
}

// GetSupplier returns the supplier detail iff the acting admin's scope
// covers it. Out-of-scope access is denied without confirming whether the
// record exists.
func (s *Service) GetSupplier(ctx context.Context, admin *models.Admin, supplierID id.SupplierID) (*SupplierDetail, error) {
	supplier, err := s.loadScoped(ctx, admin, supplierID)
	if err != nil {
		return nil, err
	}
	documents, err := s.suppliers.ListDocuments(ctx, supplierID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load supplier documents")
	}
	return &SupplierDetail{Supplier: supplier, Documents: documents}, nil
}
