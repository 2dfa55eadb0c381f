package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	jwttoken "aseara/internal/jwt_token"
	"aseara/internal/supplier/docstore"
	"aseara/internal/supplier/models"
	"aseara/internal/supplier/service"
	"aseara/internal/supplier/store"
	id "aseara/pkg/domain"
	"aseara/pkg/platform/sentinel"
)

type noopEmails struct{}

func (noopEmails) FindEmail(context.Context, id.UserID) (string, error) {
	return "", sentinel.ErrNotFound
}

type memoryBlobs struct {
	blobs map[string][]byte
}

func (m *memoryBlobs) Store(_ context.Context, key string, data []byte) error {
	m.blobs[key] = data
	return nil
}

func (m *memoryBlobs) Delete(_ context.Context, key string) error {
	delete(m.blobs, key)
	return nil
}

var _ docstore.BlobStore = (*memoryBlobs)(nil)

type SupplierHandlerSuite struct {
	suite.Suite
	router  chi.Router
	jwt     *jwttoken.JWTService
	service *service.Service
	ctx     context.Context
}

func (s *SupplierHandlerSuite) SetupTest() {
	s.ctx = context.Background()
	s.jwt = jwttoken.NewJWTService("test-signing-key", "test-issuer", "test-audience")
	s.service = service.New(
		store.NewInMemory(noopEmails{}),
		&memoryBlobs{blobs: make(map[string][]byte)},
	)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = chi.NewRouter()
	New(s.service, logger, s.jwt).Register(s.router)
}

func TestSupplierHandlerSuite(t *testing.T) {
	suite.Run(t, new(SupplierHandlerSuite))
}

// supplierToken creates a draft supplier and returns a token for its
// owning user.
func (s *SupplierHandlerSuite) supplierToken() (id.UserID, string) {
	userID := id.NewUserID()
	_, err := s.service.CreateDraft(s.ctx, userID)
	s.Require().NoError(err)

	token, err := s.jwt.GenerateAccessToken(uuid.UUID(userID), "supplier", uuid.New(), time.Hour)
	s.Require().NoError(err)
	return userID, token
}

// dossierForm builds a multipart body with the complete required field
// set plus the given document files.
func (s *SupplierHandlerSuite) dossierForm(files map[string]string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fields := map[string]string{
		"business_name":         "Acme Traders Sdn Bhd",
		"registration_number":   "SSM-0042",
		"primary_contact_name":  "Aminah Binti Yusof",
		"primary_contact_email": "aminah@acmetraders.example",
		"primary_contact_phone": "+60123456789",
		"registered_line1":      "12 Jalan Ampang",
		"registered_city":       "Kuala Lumpur",
		"registered_country":    "MY",
		"operational_line1":     "Lot 7, Taman Perindustrian",
		"operational_city":      "Shah Alam",
		"operational_country":   "MY",
		"bank_name":             "Maybank",
		"bank_account_number":   "514012345678",
	}
	for name, value := range fields {
		s.Require().NoError(writer.WriteField(name, value))
	}
	for field, filename := range files {
		part, err := writer.CreateFormFile(field, filename)
		s.Require().NoError(err)
		_, err = part.Write([]byte("%PDF-1.7 fake"))
		s.Require().NoError(err)
	}
	s.Require().NoError(writer.Close())
	return body, writer.FormDataContentType()
}

func (s *SupplierHandlerSuite) get(token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/supplier/verification", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *SupplierHandlerSuite) submit(token string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/supplier/verification", body)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *SupplierHandlerSuite) TestAuthGate() {
	s.Run("missing token", func() {
		rec := s.get("")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("wrong role", func() {
		token, err := s.jwt.GenerateAccessToken(uuid.New(), "customer", uuid.New(), time.Hour)
		s.Require().NoError(err)
		rec := s.get(token)
		s.Equal(http.StatusForbidden, rec.Code)
	})
}

func (s *SupplierHandlerSuite) TestGetVerification() {
	_, token := s.supplierToken()

	rec := s.get(token)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp struct {
		Supplier struct {
			Status string `json:"status"`
		} `json:"supplier"`
		Documents []json.RawMessage `json:"documents"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("draft", resp.Supplier.Status)
	s.Empty(resp.Documents)
}

func (s *SupplierHandlerSuite) TestSubmitVerification() {
	_, token := s.supplierToken()

	body, contentType := s.dossierForm(map[string]string{
		"registration_cert": "ssm-cert.pdf",
	})
	rec := s.submit(token, body, contentType)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"status":"submitted"`)

	// The document row shows up on the status view.
	rec = s.get(token)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp struct {
		Documents []struct {
			Kind models.DocumentKind `json:"kind"`
		} `json:"documents"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Require().Len(resp.Documents, 1)
	s.Equal(models.KindRegistrationCert, resp.Documents[0].Kind)
}

func (s *SupplierHandlerSuite) TestSubmitWithAllDocuments() {
	_, token := s.supplierToken()

	body, contentType := s.dossierForm(map[string]string{
		"registration_cert": "ssm-cert.pdf",
		"bank_verification": "statement.pdf",
		"director_id":       "mykad.jpg",
	})
	rec := s.submit(token, body, contentType)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.get(token)
	var resp struct {
		Documents []json.RawMessage `json:"documents"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Len(resp.Documents, 3)
}

func (s *SupplierHandlerSuite) TestSubmitValidationFailure() {
	_, token := s.supplierToken()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	s.Require().NoError(writer.WriteField("business_name", "Acme"))
	s.Require().NoError(writer.Close())

	rec := s.submit(token, body, writer.FormDataContentType())
	s.Require().Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "registration_number")
}

func (s *SupplierHandlerSuite) TestSubmitNonMultipartBody() {
	_, token := s.supplierToken()

	rec := s.submit(token, bytes.NewBufferString(`{"business_name":"Acme"}`), "application/json")
	s.Equal(http.StatusBadRequest, rec.Code)
}
