// Package service implements catalog listing operations. Publishing is
// where supplier verification pays off: only approved suppliers may put
// listings live.
package service

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"aseara/internal/catalog/models"
	"aseara/internal/catalog/store"
	suppliermodels "aseara/internal/supplier/models"
	supplierstore "aseara/internal/supplier/store"
	id "aseara/pkg/domain"
	dErrors "aseara/pkg/domain-errors"
	"aseara/pkg/platform/sentinel"
	"aseara/pkg/requestcontext"
)

// Service carries out catalog operations.
type Service struct {
	products  store.Store
	suppliers supplierstore.Store
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New constructs the catalog service.
func New(products store.Store, suppliers supplierstore.Store, opts ...Option) *Service {
	s := &Service{
		products:  products,
		suppliers: suppliers,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// supplierForUser resolves the acting user's supplier record.
func (s *Service) supplierForUser(ctx context.Context, userID id.UserID) (*suppliermodels.Supplier, error) {
	supplier, err := s.suppliers.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "supplier profile not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load supplier profile")
	}
	return supplier, nil
}

// AddProduct creates an unpublished listing for the acting supplier. Any
// supplier may draft listings; only approved ones may publish them.
func (s *Service) AddProduct(ctx context.Context, userID id.UserID, name, description string, priceCents int64) (*models.Product, error) {
	supplier, err := s.supplierForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	product, err := models.NewProduct(id.NewProductID(), supplier.ID, name, description, priceCents, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create product")
	}
	return product, nil
}

// ListMine returns the acting supplier's listings, drafts included.
func (s *Service) ListMine(ctx context.Context, userID id.UserID) ([]*models.Product, error) {
	supplier, err := s.supplierForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	products, err := s.products.List(ctx, store.ListQuery{SupplierID: supplier.ID})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list products")
	}
	return products, nil
}

// SetPublished toggles a listing's visibility. Publishing requires the
// owning supplier to hold approved verification status right now, not
// just at creation time.
func (s *Service) SetPublished(ctx context.Context, userID id.UserID, productID id.ProductID, published bool) (*models.Product, error) {
	supplier, err := s.supplierForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "product not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load product")
	}
	if product.SupplierID != supplier.ID {
		return nil, dErrors.New(dErrors.CodeForbidden, "access denied")
	}
	if published && !supplier.CanListProducts() {
		return nil, dErrors.New(dErrors.CodeForbidden, "supplier is not approved to list products")
	}

	product.Published = published
	product.UpdatedAt = requestcontext.Now(ctx)
	if err := s.products.Update(ctx, product); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update product")
	}
	return product, nil
}

// Browse returns live listings matching the search text, newest first.
func (s *Service) Browse(ctx context.Context, search string) ([]*models.Product, error) {
	products, err := s.products.List(ctx, store.ListQuery{Search: search, PublishedOnly: true})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to browse catalog")
	}
	return products, nil
}

// GetProduct returns one live listing. Unpublished listings stay hidden
// from the public surface.
func (s *Service) GetProduct(ctx context.Context, productID id.ProductID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "product not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load product")
	}
	if !product.Published {
		return nil, dErrors.New(dErrors.CodeNotFound, "product not found")
	}
	return product, nil
}

// HandleSupplierSuspended takes all of a suspended supplier's listings
// off the catalog. Wired as the review service's suspension hook.
func (s *Service) HandleSupplierSuspended(ctx context.Context, supplierID id.SupplierID) {
	count, err := s.products.UnpublishBySupplier(ctx, supplierID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to unpublish suspended supplier's products",
			"supplier_id", supplierID.String(),
			"error", err.Error(),
		)
		return
	}
	if count > 0 {
		s.logger.InfoContext(ctx, "unpublished suspended supplier's products",
			"supplier_id", supplierID.String(),
			"count", count,
		)
	}
}
