// Package service implements the session cart. Items are validated
// against the live catalog on entry and again on read, so a listing
// pulled off the catalog drops out of carts holding it.
package service

import (
	"context"
	"io"
	"log/slog"

	"aseara/internal/cart/models"
	"aseara/internal/cart/store"
	catalogmodels "aseara/internal/catalog/models"
	id "aseara/pkg/domain"
	dErrors "aseara/pkg/domain-errors"
)

// maxQuantityPerItem caps a single entry.
const maxQuantityPerItem = 99

// Catalog resolves live listings for cart validation and display.
type Catalog interface {
	GetProduct(ctx context.Context, productID id.ProductID) (*catalogmodels.Product, error)
}

// Service carries out cart operations.
type Service struct {
	carts   store.Store
	catalog Catalog
	logger  *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New constructs the cart service.
func New(carts store.Store, catalog Catalog, opts ...Option) *Service {
	s := &Service{
		carts:   carts,
		catalog: catalog,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func requireSession(sessionID string) error {
	if sessionID == "" {
		return dErrors.New(dErrors.CodeUnauthorized, "no active session")
	}
	return nil
}

// AddItem adds quantity units of a live listing to the session cart.
func (s *Service) AddItem(ctx context.Context, sessionID string, productID id.ProductID, quantity int) (*models.Cart, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	if quantity <= 0 || quantity > maxQuantityPerItem {
		return nil, dErrors.Newf(dErrors.CodeValidation, "quantity must be between 1 and %d", maxQuantityPerItem)
	}
	// Only live listings may enter a cart.
	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load cart")
	}
	cart.Add(productID, quantity)
	if item, ok := cart.Items[productID.String()]; ok && item.Quantity > maxQuantityPerItem {
		cart.SetQuantity(productID, maxQuantityPerItem)
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save cart")
	}
	return cart, nil
}

// UpdateQuantity sets an entry's quantity; zero removes it.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID string, productID id.ProductID, quantity int) (*models.Cart, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	if quantity < 0 || quantity > maxQuantityPerItem {
		return nil, dErrors.Newf(dErrors.CodeValidation, "quantity must be between 0 and %d", maxQuantityPerItem)
	}

	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load cart")
	}
	cart.SetQuantity(productID, quantity)
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save cart")
	}
	return cart, nil
}

// RemoveItem drops an entry.
func (s *Service) RemoveItem(ctx context.Context, sessionID string, productID id.ProductID) (*models.Cart, error) {
	return s.UpdateQuantity(ctx, sessionID, productID, 0)
}

// Clear empties the session cart.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if err := requireSession(sessionID); err != nil {
		return err
	}
	if err := s.carts.Delete(ctx, sessionID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear cart")
	}
	return nil
}

// Entry is one cart line joined with its live listing.
type Entry struct {
	Product  *catalogmodels.Product `json:"product"`
	Quantity int                    `json:"quantity"`
}

// View is the rendered cart.
type View struct {
	Entries    []Entry `json:"entries"`
	TotalItems int     `json:"total_items"`
	TotalCents int64   `json:"total_cents"`
}

// GetView joins the cart with the catalog. Entries whose listings have
// gone off the catalog are dropped from the stored cart on the way
// through.
func (s *Service) GetView(ctx context.Context, sessionID string) (*View, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load cart")
	}

	view := &View{Entries: []Entry{}}
	stale := false
	for _, item := range cart.Items {
		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeNotFound) {
				cart.SetQuantity(item.ProductID, 0)
				stale = true
				continue
			}
			return nil, err
		}
		view.Entries = append(view.Entries, Entry{Product: product, Quantity: item.Quantity})
		view.TotalItems += item.Quantity
		view.TotalCents += product.PriceCents * int64(item.Quantity)
	}

	if stale {
		if err := s.carts.Save(ctx, cart); err != nil {
			s.logger.WarnContext(ctx, "failed to prune stale cart entries",
				"session_id", sessionID,
				"error", err.Error(),
			)
		}
	}
	return view, nil
}
