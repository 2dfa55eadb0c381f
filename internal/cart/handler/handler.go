// Package handler exposes the session cart endpoints.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"aseara/internal/cart/models"
	"aseara/internal/cart/service"
	"aseara/internal/platform/middleware"
	"aseara/internal/transport/http/shared"
	id "aseara/pkg/domain"
	dErrors "aseara/pkg/domain-errors"
	"aseara/pkg/requestcontext"
)

// Service defines the cart operations the handler depends on.
type Service interface {
	AddItem(ctx context.Context, sessionID string, productID id.ProductID, quantity int) (*models.Cart, error)
	UpdateQuantity(ctx context.Context, sessionID string, productID id.ProductID, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, sessionID string, productID id.ProductID) (*models.Cart, error)
	Clear(ctx context.Context, sessionID string) error
	GetView(ctx context.Context, sessionID string) (*service.View, error)
}

// Handler handles cart endpoints.
type Handler struct {
	logger       *slog.Logger
	carts        Service
	jwtValidator middleware.JWTValidator
}

// New creates a cart Handler.
func New(carts Service, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{logger: logger, carts: carts, jwtValidator: jwtValidator}
}

// Register attaches the cart routes. Any authenticated role may carry a
// cart; the session id in the token scopes it.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(15 * time.Second))
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Get("/cart", h.handleGetCart)
		r.Post("/cart/items", h.handleAddItem)
		r.Put("/cart/items/{productID}", h.handleUpdateQuantity)
		r.Delete("/cart/items/{productID}", h.handleRemoveItem)
		r.Delete("/cart", h.handleClear)
	})
}

func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view, err := h.carts.GetView(ctx, requestcontext.SessionID(ctx))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, view)
}

// itemRequest is the add/update body.
type itemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (h *Handler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	productID, err := id.ParseProductID(req.ProductID)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid product id"))
		return
	}

	cart, err := h.carts.AddItem(ctx, requestcontext.SessionID(ctx), productID, req.Quantity)
	if err != nil {
		h.logger.WarnContext(ctx, "add cart item failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, cart)
}

func (h *Handler) handleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	productID, err := id.ParseProductID(chi.URLParam(r, "productID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid product id"))
		return
	}
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	cart, err := h.carts.UpdateQuantity(ctx, requestcontext.SessionID(ctx), productID, req.Quantity)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, cart)
}

func (h *Handler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	productID, err := id.ParseProductID(chi.URLParam(r, "productID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid product id"))
		return
	}
	cart, err := h.carts.RemoveItem(ctx, requestcontext.SessionID(ctx), productID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, cart)
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.carts.Clear(ctx, requestcontext.SessionID(ctx)); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
