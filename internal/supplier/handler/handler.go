// Package handler exposes the supplier-facing verification endpoints.
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	identitymodels "aseara/internal/identity/models"
	"aseara/internal/platform/middleware"
	"aseara/internal/supplier/models"
	"aseara/internal/supplier/service"
	"aseara/internal/transport/http/shared"
	id "aseara/pkg/domain"
	dErrors "aseara/pkg/domain-errors"
	"aseara/pkg/requestcontext"
)

// maxSubmissionBytes bounds a whole multipart submission, dossier fields
// plus up to three document files.
const maxSubmissionBytes = 32 << 20

// Service defines the supplier operations the handler depends on.
type Service interface {
	GetForUser(ctx context.Context, userID id.UserID) (*models.Supplier, []*models.SupplierDocument, error)
	SubmitVerification(ctx context.Context, userID id.UserID, fields service.SubmissionFields, uploads []service.DocumentUpload) (*models.Supplier, error)
}

// Handler handles supplier verification endpoints.
type Handler struct {
	logger       *slog.Logger
	suppliers    Service
	jwtValidator middleware.JWTValidator
}

// New creates a supplier Handler.
func New(suppliers Service, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		suppliers:    suppliers,
		jwtValidator: jwtValidator,
	}
}

// Register attaches the supplier verification routes. The shared
// middleware chain is the root router's; only the auth gate and the
// upload-sized timeout live here.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Use(middleware.RequireRole(string(identitymodels.RoleSupplier), h.logger))
		r.Get("/supplier/verification", h.handleGetVerification)
		r.Post("/supplier/verification", h.handleSubmitVerification)
	})
}

// verificationResponse is the supplier's view of their own dossier.
type verificationResponse struct {
	Supplier  *models.Supplier   `json:"supplier"`
	Documents []documentResponse `json:"documents"`
}

type documentResponse struct {
	Kind        models.DocumentKind `json:"kind"`
	Key         string              `json:"key"`
	ContentType string              `json:"content_type"`
	SizeBytes   int64               `json:"size_bytes"`
}

func toVerificationResponse(supplier *models.Supplier, docs []*models.SupplierDocument) verificationResponse {
	resp := verificationResponse{Supplier: supplier, Documents: []documentResponse{}}
	for _, doc := range docs {
		resp.Documents = append(resp.Documents, documentResponse{
			Kind:        doc.Kind,
			Key:         doc.Key,
			ContentType: doc.ContentType,
			SizeBytes:   doc.SizeBytes,
		})
	}
	return resp
}

func (h *Handler) handleGetVerification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		h.logger.ErrorContext(ctx, "userID missing from context despite auth middleware",
			"request_id", requestcontext.RequestID(ctx),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	supplier, docs, err := h.suppliers.GetForUser(ctx, userID)
	if err != nil {
		h.logError(ctx, "failed to load verification status", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toVerificationResponse(supplier, docs))
}

func (h *Handler) handleSubmitVerification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		h.logger.ErrorContext(ctx, "userID missing from context despite auth middleware",
			"request_id", requestcontext.RequestID(ctx),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxSubmissionBytes)
	if err := r.ParseMultipartForm(maxSubmissionBytes); err != nil {
		h.logger.WarnContext(ctx, "invalid verification submission",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid multipart form"))
		return
	}

	fields := parseFields(r)
	uploads, err := parseUploads(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	supplier, err := h.suppliers.SubmitVerification(ctx, userID, fields, uploads)
	if err != nil {
		h.logError(ctx, "verification submission failed", err)
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

func parseFields(r *http.Request) service.SubmissionFields {
	form := r.FormValue
	return service.SubmissionFields{
		BusinessName:       form("business_name"),
		RegistrationNumber: form("registration_number"),
		TaxID:              form("tax_id"),
		NatureOfBusiness:   form("nature_of_business"),
		DirectorName:       form("director_name"),
		PrimaryContact: models.Contact{
			Name:        form("primary_contact_name"),
			Designation: form("primary_contact_designation"),
			Email:       form("primary_contact_email"),
			Phone:       form("primary_contact_phone"),
		},
		AlternateContact: models.Contact{
			Name:        form("alternate_contact_name"),
			Designation: form("alternate_contact_designation"),
			Email:       form("alternate_contact_email"),
			Phone:       form("alternate_contact_phone"),
		},
		RegisteredAddress: models.Address{
			Line1:    form("registered_line1"),
			Line2:    form("registered_line2"),
			City:     form("registered_city"),
			State:    form("registered_state"),
			Postcode: form("registered_postcode"),
			Country:  form("registered_country"),
		},
		OperationalAddress: models.Address{
			Line1:    form("operational_line1"),
			Line2:    form("operational_line2"),
			City:     form("operational_city"),
			State:    form("operational_state"),
			Postcode: form("operational_postcode"),
			Country:  form("operational_country"),
		},
		Bank: models.BankDetails{
			BankName:      form("bank_name"),
			AccountNumber: form("bank_account_number"),
		},
		SubmitterNote: form("submitter_note"),
	}
}

// parseUploads reads the three optional document slots out of the
// multipart form. A slot with no file attached is passed through with an
// empty filename; the service skips it.
func parseUploads(r *http.Request) ([]service.DocumentUpload, error) {
	uploads := make([]service.DocumentUpload, 0, len(models.DocumentKinds()))
	for _, kind := range models.DocumentKinds() {
		file, header, err := r.FormFile(string(kind))
		if errors.Is(err, http.ErrMissingFile) {
			uploads = append(uploads, service.DocumentUpload{Kind: kind})
			continue
		}
		if err != nil {
			return nil, dErrors.Newf(dErrors.CodeBadRequest, "unreadable %s upload", kind)
		}
		upload, err := readUpload(kind, file, header)
		file.Close()
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, upload)
	}
	return uploads, nil
}

func readUpload(kind models.DocumentKind, file multipart.File, header *multipart.FileHeader) (service.DocumentUpload, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return service.DocumentUpload{}, dErrors.Newf(dErrors.CodeBadRequest, "unreadable %s upload", kind)
	}
	return service.DocumentUpload{
		Kind:        kind,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
