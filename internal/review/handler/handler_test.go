package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	jwttoken "aseara/internal/jwt_token"
	"aseara/internal/review/models"
	"aseara/internal/review/service"
	adminstore "aseara/internal/review/store"
	suppliermodels "aseara/internal/supplier/models"
	supplierstore "aseara/internal/supplier/store"
	id "aseara/pkg/domain"
	"aseara/pkg/platform/sentinel"
)

type nilEmails struct{}

func (nilEmails) FindEmail(context.Context, id.UserID) (string, error) {
	return "", sentinel.ErrNotFound
}

type ReviewHandlerSuite struct {
	suite.Suite
	router    chi.Router
	jwt       *jwttoken.JWTService
	service   *service.Service
	suppliers *supplierstore.InMemory
	ctx       context.Context
}

func (s *ReviewHandlerSuite) SetupTest() {
	s.ctx = context.Background()
	s.jwt = jwttoken.NewJWTService("test-signing-key", "test-issuer", "test-audience")
	s.suppliers = supplierstore.NewInMemory(nilEmails{})
	s.service = service.New(adminstore.NewInMemory(), s.suppliers)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = chi.NewRouter()
	New(s.service, logger, s.jwt).Register(s.router)
}

func TestReviewHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReviewHandlerSuite))
}

func (s *ReviewHandlerSuite) token(userID id.UserID, role string) string {
	token, err := s.jwt.GenerateAccessToken(uuid.UUID(userID), role, uuid.New(), time.Hour)
	s.Require().NoError(err)
	return token
}

// adminToken provisions an admin profile and returns a matching token.
func (s *ReviewHandlerSuite) adminToken(adminType models.AdminType, country string) string {
	userID := id.NewUserID()
	_, err := s.service.RegisterAdmin(s.ctx, userID, adminType, country)
	s.Require().NoError(err)
	return s.token(userID, "admin")
}

func (s *ReviewHandlerSuite) seedSubmitted(country string, at time.Time) *suppliermodels.Supplier {
	supplier, err := suppliermodels.NewSupplier(id.NewSupplierID(), id.NewUserID(), at)
	s.Require().NoError(err)
	supplier.BusinessName = "Supplier " + country
	supplier.Status = suppliermodels.StatusSubmitted
	supplier.CountryCode = country
	supplier.SubmittedAt = &at
	s.Require().NoError(s.suppliers.Create(s.ctx, supplier))
	return supplier
}

func (s *ReviewHandlerSuite) do(method, target, token string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

type queuePage struct {
	Suppliers []struct {
		ID          string `json:"id"`
		CountryCode string `json:"country_code"`
		Status      string `json:"status"`
	} `json:"suppliers"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

func (s *ReviewHandlerSuite) TestAuthGate() {
	s.Run("missing token", func() {
		rec := s.do(http.MethodGet, "/admin/verification_queue", "", nil)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("non-admin role", func() {
		rec := s.do(http.MethodGet, "/admin/verification_queue",
			s.token(id.NewUserID(), "supplier"), nil)
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("admin account without an admin profile", func() {
		rec := s.do(http.MethodGet, "/admin/verification_queue",
			s.token(id.NewUserID(), "admin"), nil)
		s.Equal(http.StatusForbidden, rec.Code)
	})
}

func (s *ReviewHandlerSuite) TestQueue() {
	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	my := s.seedSubmitted("MY", base.Add(time.Hour))
	s.seedSubmitted("SG", base)
	token := s.adminToken(models.AdminAbsolute, "")

	s.Run("lists newest first", func() {
		rec := s.do(http.MethodGet, "/admin/verification_queue", token, nil)
		s.Require().Equal(http.StatusOK, rec.Code)

		var page queuePage
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &page))
		s.Equal(2, page.Total)
		s.Equal(1, page.Page)
		s.Require().Len(page.Suppliers, 2)
		s.Equal(my.ID.String(), page.Suppliers[0].ID)
	})

	s.Run("country filter", func() {
		rec := s.do(http.MethodGet, "/admin/verification_queue?country=SG", token, nil)
		s.Require().Equal(http.StatusOK, rec.Code)

		var page queuePage
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &page))
		s.Require().Len(page.Suppliers, 1)
		s.Equal("SG", page.Suppliers[0].CountryCode)
	})

	s.Run("unknown status token falls back to the default view", func() {
		rec := s.do(http.MethodGet, "/admin/verification_queue?status=banana", token, nil)
		s.Require().Equal(http.StatusOK, rec.Code)

		var page queuePage
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &page))
		s.Equal(2, page.Total)
	})

	s.Run("malformed page falls back to page one", func() {
		rec := s.do(http.MethodGet, "/admin/verification_queue?page=minus-two", token, nil)
		s.Require().Equal(http.StatusOK, rec.Code)

		var page queuePage
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &page))
		s.Equal(1, page.Page)
	})

	s.Run("page past the end is empty with the full total", func() {
		rec := s.do(http.MethodGet, "/admin/verification_queue?page=9", token, nil)
		s.Require().Equal(http.StatusOK, rec.Code)

		var page queuePage
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &page))
		s.Empty(page.Suppliers)
		s.Equal(2, page.Total)
	})
}

func (s *ReviewHandlerSuite) TestQueuePagination() {
	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < pageSize+5; i++ {
		s.seedSubmitted("MY", base.Add(time.Duration(i)*time.Minute))
	}
	token := s.adminToken(models.AdminAbsolute, "")

	rec := s.do(http.MethodGet, "/admin/verification_queue?page=2", token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var page queuePage
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &page))
	s.Equal(pageSize+5, page.Total)
	s.Equal(2, page.Page)
	s.Len(page.Suppliers, 5)
}

func (s *ReviewHandlerSuite) TestGetSupplier() {
	supplier := s.seedSubmitted("TH", time.Now().UTC())

	s.Run("in scope", func() {
		token := s.adminToken(models.AdminCountry, "TH")
		rec := s.do(http.MethodGet, "/admin/verification/"+supplier.ID.String(), token, nil)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("out of scope is denied without leaking existence", func() {
		token := s.adminToken(models.AdminCountry, "MY")
		rec := s.do(http.MethodGet, "/admin/verification/"+supplier.ID.String(), token, nil)
		s.Equal(http.StatusForbidden, rec.Code)
		s.Contains(rec.Body.String(), "access denied")
	})

	s.Run("malformed id", func() {
		token := s.adminToken(models.AdminAbsolute, "")
		rec := s.do(http.MethodGet, "/admin/verification/not-a-uuid", token, nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *ReviewHandlerSuite) TestActions() {
	token := s.adminToken(models.AdminAbsolute, "")

	s.Run("approve after opening review", func() {
		supplier := s.seedSubmitted("VN", time.Now().UTC())
		rec := s.do(http.MethodPost,
			fmt.Sprintf("/admin/verification/%s/open_review", supplier.ID), token, nil)
		s.Require().Equal(http.StatusOK, rec.Code)

		rec = s.do(http.MethodPost,
			fmt.Sprintf("/admin/verification/%s/approve", supplier.ID), token,
			strings.NewReader(`{"note":"documents verified"}`))
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), `"status":"approved"`)
	})

	s.Run("guarded transition conflicts", func() {
		supplier := s.seedSubmitted("VN", time.Now().UTC())
		rec := s.do(http.MethodPost,
			fmt.Sprintf("/admin/verification/%s/reject", supplier.ID), token, nil)
		s.Require().Equal(http.StatusOK, rec.Code)

		// rejected is terminal; a follow-up approve must not move it.
		rec = s.do(http.MethodPost,
			fmt.Sprintf("/admin/verification/%s/approve", supplier.ID), token, nil)
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("unknown action", func() {
		supplier := s.seedSubmitted("VN", time.Now().UTC())
		rec := s.do(http.MethodPost,
			fmt.Sprintf("/admin/verification/%s/promote", supplier.ID), token, nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}
