// Package service orchestrates the supplier side of the verification
// workflow: draft creation at registration, dossier submission and
// document storage. Admin review actions live in internal/review.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"aseara/internal/supplier/docstore"
	suppliermetrics "aseara/internal/supplier/metrics"
	"aseara/internal/supplier/models"
	"aseara/internal/supplier/store"
	id "aseara/pkg/domain"
	dErrors "aseara/pkg/domain-errors"
	"aseara/pkg/platform/sentinel"
	"aseara/pkg/requestcontext"
)

// SubmissionFields is the validated dossier field bag. Form parsing and
// syntactic validation happen at the transport boundary; this service
// enforces presence of the required blocks.
type SubmissionFields struct {
	BusinessName       string
	RegistrationNumber string
	TaxID              string
	NatureOfBusiness   string
	DirectorName       string
	PrimaryContact     models.Contact
	AlternateContact   models.Contact
	RegisteredAddress  models.Address
	OperationalAddress models.Address
	Bank               models.BankDetails
	SubmitterNote      string
}

// DocumentUpload is one uploaded dossier file. An upload with an empty
// filename means "no document submitted" for that slot and is skipped.
type DocumentUpload struct {
	Kind        models.DocumentKind
	Filename    string
	ContentType string
	Data        []byte
}

// Service carries out supplier-facing verification operations.
type Service struct {
	store   store.Store
	blobs   docstore.BlobStore
	cleaner *docstore.Cleaner
	tx      StoreTx
	logger  *slog.Logger
	metrics *suppliermetrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics attaches the supplier metrics set.
func WithMetrics(m *suppliermetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithCleaner attaches the background blob cleaner used for replaced
// document bytes.
func WithCleaner(c *docstore.Cleaner) Option {
	return func(s *Service) { s.cleaner = c }
}

// WithStoreTx overrides the transaction boundary; cmd/server installs the
// postgres implementation here.
func WithStoreTx(tx StoreTx) Option {
	return func(s *Service) { s.tx = tx }
}

// New constructs the supplier service.
func New(st store.Store, blobs docstore.BlobStore, opts ...Option) *Service {
	s := &Service{
		store:  st,
		blobs:  blobs,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = newInMemoryTx()
	}
	return s
}

// CreateDraft creates the DRAFT supplier row when a supplier account is
// registered. Idempotence is the caller's concern; a second call for the
// same user fails with a conflict.
func (s *Service) CreateDraft(ctx context.Context, userID id.UserID) (*models.Supplier, error) {
	supplier, err := models.NewSupplier(id.NewSupplierID(), userID, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, supplier); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "supplier profile already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create supplier profile")
	}
	return supplier, nil
}

// GetForUser returns the user's supplier record with its document rows.
func (s *Service) GetForUser(ctx context.Context, userID id.UserID) (*models.Supplier, []*models.SupplierDocument, error) {
	supplier, err := s.store.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil, dErrors.New(dErrors.CodeNotFound, "supplier profile not found")
		}
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load supplier profile")
	}
	docs, err := s.store.ListDocuments(ctx, supplier.ID)
	if err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load supplier documents")
	}
	return supplier, docs, nil
}

type storedUpload struct {
	doc *models.SupplierDocument
}

// SubmitVerification writes the dossier fields, persists uploaded
// documents and transitions the supplier to SUBMITTED in one transaction.
// Replaying the same submission is safe: document rows are upserted per
// kind and the status returns to SUBMITTED even from NEEDS_MORE_INFO.
//
// Document bytes are written to the blob backend before the transaction
// opens, so a committed document row always points at stored bytes. Blobs
// orphaned by a subsequent rollback are handed to the cleaner.
func (s *Service) SubmitVerification(ctx context.Context, userID id.UserID, fields SubmissionFields, uploads []DocumentUpload) (*models.Supplier, error) {
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	supplier, err := s.store.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "supplier profile not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load supplier profile")
	}
	if err := supplier.CanSubmit(); err != nil {
		return nil, dErrors.New(dErrors.CodeConflict, dErrors.MessageOf(err))
	}

	stored, err := s.storeUploads(ctx, supplier.ID, uploads)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	var replacedKeys []string
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		// Re-read inside the transaction; another request may have moved
		// the record since the pre-check.
		current, err := s.store.FindByUserID(txCtx, userID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load supplier profile")
		}
		if err := current.CanSubmit(); err != nil {
			return dErrors.New(dErrors.CodeConflict, dErrors.MessageOf(err))
		}

		applyFields(current, fields)
		current.ApplySubmission(now)

		if err := s.store.Update(txCtx, current); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "registration number is already in use")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save supplier profile")
		}

		for _, upload := range stored {
			upload.doc.CreatedAt = now
			previousKey, err := s.store.UpsertDocument(txCtx, upload.doc)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save supplier document")
			}
			if previousKey != "" {
				replacedKeys = append(replacedKeys, previousKey)
			}
		}

		supplier = current
		return nil
	})
	if txErr != nil {
		// The transaction never committed; the freshly stored blobs are
		// orphans now. Cleaning them up is best-effort.
		for _, upload := range stored {
			s.enqueueCleanup(upload.doc.Key)
		}
		return nil, txErr
	}

	for _, key := range replacedKeys {
		s.enqueueCleanup(key)
	}

	s.metrics.IncrementSubmissions()
	for _, upload := range stored {
		s.metrics.IncrementDocumentsStored(string(upload.doc.Kind))
	}
	s.logger.InfoContext(ctx, "supplier verification submitted",
		"supplier_id", supplier.ID.String(),
		"country_code", supplier.CountryCode,
		"documents", len(stored),
		"request_id", requestcontext.RequestID(ctx),
	)
	return supplier, nil
}

// storeUploads writes document bytes to the blob backend in parallel and
// returns the rows to upsert. A failure on any upload aborts the whole
// submission before the transaction opens.
func (s *Service) storeUploads(ctx context.Context, supplierID id.SupplierID, uploads []DocumentUpload) ([]storedUpload, error) {
	seen := make(map[models.DocumentKind]bool)
	var accepted []DocumentUpload
	for _, upload := range uploads {
		if strings.TrimSpace(upload.Filename) == "" {
			// No document submitted for this slot.
			continue
		}
		if !upload.Kind.IsValid() {
			return nil, dErrors.Newf(dErrors.CodeValidation, "unknown document kind %q", upload.Kind)
		}
		if seen[upload.Kind] {
			return nil, dErrors.Newf(dErrors.CodeValidation, "duplicate document kind %q", upload.Kind)
		}
		seen[upload.Kind] = true
		accepted = append(accepted, upload)
	}

	stored := make([]storedUpload, len(accepted))
	g, gCtx := errgroup.WithContext(ctx)
	for i, upload := range accepted {
		g.Go(func() error {
			key := docstore.DocumentKey(supplierID, upload.Kind, upload.Filename)
			if err := s.blobs.Store(gCtx, key, upload.Data); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal,
					fmt.Sprintf("failed to store %s document", upload.Kind))
			}
			stored[i] = storedUpload{doc: &models.SupplierDocument{
				ID:          id.NewDocumentID(),
				SupplierID:  supplierID,
				Kind:        upload.Kind,
				Key:         key,
				ContentType: upload.ContentType,
				SizeBytes:   int64(len(upload.Data)),
			}}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Any blobs that did land are orphans; hand them to the cleaner.
		for _, upload := range stored {
			if upload.doc != nil {
				s.enqueueCleanup(upload.doc.Key)
			}
		}
		return nil, err
	}
	return stored, nil
}

func (s *Service) enqueueCleanup(key string) {
	if s.cleaner != nil {
		s.cleaner.Enqueue(key)
	}
}

func applyFields(supplier *models.Supplier, fields SubmissionFields) {
	supplier.BusinessName = fields.BusinessName
	supplier.RegistrationNumber = fields.RegistrationNumber
	supplier.TaxID = fields.TaxID
	supplier.NatureOfBusiness = fields.NatureOfBusiness
	supplier.DirectorName = fields.DirectorName
	supplier.PrimaryContact = fields.PrimaryContact
	supplier.AlternateContact = fields.AlternateContact
	supplier.RegisteredAddress = fields.RegisteredAddress
	supplier.OperationalAddress = fields.OperationalAddress
	supplier.Bank = fields.Bank
	supplier.SubmitterNote = fields.SubmitterNote
}

func validateFields(fields SubmissionFields) error {
	var missing []string
	require := func(value, name string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	require(fields.BusinessName, "business_name")
	require(fields.RegistrationNumber, "registration_number")
	require(fields.PrimaryContact.Name, "contact_name")
	require(fields.PrimaryContact.Email, "contact_email")
	require(fields.PrimaryContact.Phone, "contact_phone")
	require(fields.RegisteredAddress.Line1, "reg_address_line1")
	require(fields.RegisteredAddress.City, "reg_city")
	require(fields.RegisteredAddress.Country, "reg_country")
	require(fields.OperationalAddress.Line1, "op_address_line1")
	require(fields.OperationalAddress.City, "op_city")
	require(fields.OperationalAddress.Country, "op_country")
	require(fields.Bank.BankName, "bank_name")
	require(fields.Bank.AccountNumber, "bank_account_number")
	if len(missing) > 0 {
		return dErrors.Newf(dErrors.CodeValidation,
			"missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
