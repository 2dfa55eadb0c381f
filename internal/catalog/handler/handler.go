// Package handler exposes the public catalog and the supplier's own
// listing management endpoints.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"aseara/internal/catalog/models"
	identitymodels "aseara/internal/identity/models"
	"aseara/internal/platform/middleware"
	"aseara/internal/transport/http/shared"
	id "aseara/pkg/domain"
	dErrors "aseara/pkg/domain-errors"
	"aseara/pkg/requestcontext"
)

// Service defines the catalog operations the handler depends on.
type Service interface {
	AddProduct(ctx context.Context, userID id.UserID, name, description string, priceCents int64) (*models.Product, error)
	ListMine(ctx context.Context, userID id.UserID) ([]*models.Product, error)
	SetPublished(ctx context.Context, userID id.UserID, productID id.ProductID, published bool) (*models.Product, error)
	Browse(ctx context.Context, search string) ([]*models.Product, error)
	GetProduct(ctx context.Context, productID id.ProductID) (*models.Product, error)
}

// Handler handles catalog endpoints.
type Handler struct {
	logger       *slog.Logger
	catalog      Service
	jwtValidator middleware.JWTValidator
}

// New creates a catalog Handler.
func New(catalog Service, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		catalog:      catalog,
		jwtValidator: jwtValidator,
	}
}

// Register attaches the catalog routes: a public browse surface and a
// supplier-gated management surface. The shared middleware chain is the
// root router's.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(15 * time.Second))
		r.Get("/catalog/products", h.handleBrowse)
		r.Get("/catalog/products/{productID}", h.handleGetProduct)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(15 * time.Second))
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Use(middleware.RequireRole(string(identitymodels.RoleSupplier), h.logger))
		r.Get("/supplier/products", h.handleListMine)
		r.Post("/supplier/products", h.handleAddProduct)
		r.Post("/supplier/products/{productID}/publish", h.handleSetPublished(true))
		r.Post("/supplier/products/{productID}/unpublish", h.handleSetPublished(false))
	})
}

func (h *Handler) handleBrowse(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Browse(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if products == nil {
		products = []*models.Product{}
	}
	shared.WriteJSON(w, http.StatusOK, products)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := id.ParseProductID(chi.URLParam(r, "productID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid product id"))
		return
	}
	product, err := h.catalog.GetProduct(r.Context(), productID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, product)
}

func (h *Handler) handleListMine(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListMine(r.Context(), requestcontext.UserID(r.Context()))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if products == nil {
		products = []*models.Product{}
	}
	shared.WriteJSON(w, http.StatusOK, products)
}

// addProductRequest is the listing creation body.
type addProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
}

func (h *Handler) handleAddProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req addProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	product, err := h.catalog.AddProduct(ctx, requestcontext.UserID(ctx), req.Name, req.Description, req.PriceCents)
	if err != nil {
		h.logger.WarnContext(ctx, "add product failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, product)
}

func (h *Handler) handleSetPublished(published bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		productID, err := id.ParseProductID(chi.URLParam(r, "productID"))
		if err != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid product id"))
			return
		}
		product, err := h.catalog.SetPublished(ctx, requestcontext.UserID(ctx), productID, published)
		if err != nil {
			h.logger.WarnContext(ctx, "publish toggle rejected",
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
			shared.WriteError(w, err)
			return
		}
		shared.WriteJSON(w, http.StatusOK, product)
	}
}
