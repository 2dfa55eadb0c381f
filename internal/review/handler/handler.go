// Package handler exposes the admin review endpoints: the verification
// queue and the per-supplier detail and action surface.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	identitymodels "aseara/internal/identity/models"
	"aseara/internal/platform/middleware"
	"aseara/internal/review/models"
	"aseara/internal/review/service"
	suppliermodels "aseara/internal/supplier/models"
	"aseara/internal/transport/http/shared"
	id "aseara/pkg/domain"
	dErrors "aseara/pkg/domain-errors"
	"aseara/pkg/requestcontext"
)

// pageSize is the fixed queue page length.
const pageSize = 20

// Service defines the review operations the handler depends on.
type Service interface {
	AdminForUser(ctx context.Context, userID id.UserID) (*models.Admin, error)
	ListQueue(ctx context.Context, admin *models.Admin, filters service.QueueFilters) ([]*suppliermodels.Supplier, error)
	GetSupplier(ctx context.Context, admin *models.Admin, supplierID id.SupplierID) (*service.SupplierDetail, error)
	Act(ctx context.Context, admin *models.Admin, supplierID id.SupplierID, action service.Action, note string) (*suppliermodels.Supplier, error)
}

// Handler handles admin review endpoints.
type Handler struct {
	logger       *slog.Logger
	review       Service
	jwtValidator middleware.JWTValidator
}

// New creates a review Handler.
func New(review Service, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		review:       review,
		jwtValidator: jwtValidator,
	}
}

// Register attaches the admin review routes. The shared middleware chain
// is the root router's; only the auth gate lives here.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Use(middleware.RequireRole(string(identitymodels.RoleAdmin), h.logger))
		r.Get("/admin/verification_queue", h.handleListQueue)
		r.Get("/admin/verification/{supplierID}", h.handleGetSupplier)
		r.Post("/admin/verification/{supplierID}/{action}", h.handleAction)
	})
}

// actingAdmin resolves the admin profile behind the authenticated user.
func (h *Handler) actingAdmin(w http.ResponseWriter, r *http.Request) (*models.Admin, bool) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		h.logger.ErrorContext(ctx, "userID missing from context despite auth middleware",
			"request_id", requestcontext.RequestID(ctx),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return nil, false
	}
	admin, err := h.review.AdminForUser(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "admin resolution failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return nil, false
	}
	return admin, true
}

// queueResponse is one page of the verification queue.
type queueResponse struct {
	Suppliers []*suppliermodels.Supplier `json:"suppliers"`
	Page      int                        `json:"page"`
	PageSize  int                        `json:"page_size"`
	Total     int                        `json:"total"`
}

func (h *Handler) handleListQueue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	admin, ok := h.actingAdmin(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	filters := service.QueueFilters{
		Status:      query.Get("status"),
		CountryCode: query.Get("country"),
		Search:      query.Get("q"),
	}

	suppliers, err := h.review.ListQueue(ctx, admin, filters)
	if err != nil {
		h.logError(ctx, "failed to list verification queue", err)
		shared.WriteError(w, err)
		return
	}

	page := parsePage(query.Get("page"))
	shared.WriteJSON(w, http.StatusOK, paginate(suppliers, page))
}

// parsePage tolerates absent or malformed page values the same way the
// status filter tolerates unknown tokens: fall back, never error.
func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func paginate(suppliers []*suppliermodels.Supplier, page int) queueResponse {
	total := len(suppliers)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return queueResponse{
		Suppliers: suppliers[start:end],
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
	}
}

func (h *Handler) handleGetSupplier(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	admin, ok := h.actingAdmin(w, r)
	if !ok {
		return
	}

	supplierID, err := id.ParseSupplierID(chi.URLParam(r, "supplierID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid supplier id"))
		return
	}

	detail, err := h.review.GetSupplier(ctx, admin, supplierID)
	if err != nil {
		h.logError(ctx, "failed to load supplier detail", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, detail)
}

// actionRequest carries the optional reviewer note.
type actionRequest struct {
	Note string `json:"note"`
}

func (h *Handler) handleAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	admin, ok := h.actingAdmin(w, r)
	if !ok {
		return
	}

	supplierID, err := id.ParseSupplierID(chi.URLParam(r, "supplierID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid supplier id"))
		return
	}
	action, ok := service.ParseAction(chi.URLParam(r, "action"))
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "unknown review action"))
		return
	}

	var req actionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
			return
		}
	}

	supplier, err := h.review.Act(ctx, admin, supplierID, action, req.Note)
	if err != nil {
		h.logError(ctx, "review action rejected", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, supplier)
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	attrs := []any{
		"request_id", requestcontext.RequestID(ctx),
		"error", err.Error(),
	}
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg, attrs...)
		return
	}
	h.logger.WarnContext(ctx, msg, attrs...)
}
