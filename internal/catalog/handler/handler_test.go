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

	"aseara/internal/catalog/service"
	"aseara/internal/catalog/store"
	jwttoken "aseara/internal/jwt_token"
	suppliermodels "aseara/internal/supplier/models"
	supplierstore "aseara/internal/supplier/store"
	id "aseara/pkg/domain"
	"aseara/pkg/platform/sentinel"
)

type nilEmails struct{}

func (nilEmails) FindEmail(context.Context, id.UserID) (string, error) {
	return "", sentinel.ErrNotFound
}

type CatalogHandlerSuite struct {
	suite.Suite
	router    chi.Router
	jwt       *jwttoken.JWTService
	suppliers *supplierstore.InMemory
	ctx       context.Context
}

func (s *CatalogHandlerSuite) SetupTest() {
	s.ctx = context.Background()
	s.jwt = jwttoken.NewJWTService("test-signing-key", "test-issuer", "test-audience")
	s.suppliers = supplierstore.NewInMemory(nilEmails{})
	svc := service.New(store.NewInMemory(), s.suppliers)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = chi.NewRouter()
	New(svc, logger, s.jwt).Register(s.router)
}

func TestCatalogHandlerSuite(t *testing.T) {
	suite.Run(t, new(CatalogHandlerSuite))
}

func (s *CatalogHandlerSuite) token(userID id.UserID, role string) string {
	token, err := s.jwt.GenerateAccessToken(uuid.UUID(userID), role, uuid.New(), time.Hour)
	s.Require().NoError(err)
	return token
}

// supplierToken provisions a supplier profile in the given status and
// returns a matching token.
func (s *CatalogHandlerSuite) supplierToken(status suppliermodels.SupplierStatus) string {
	userID := id.NewUserID()
	supplier, err := suppliermodels.NewSupplier(id.NewSupplierID(), userID, time.Now())
	s.Require().NoError(err)
	supplier.Status = status
	s.Require().NoError(s.suppliers.Create(s.ctx, supplier))
	return s.token(userID, "supplier")
}

func (s *CatalogHandlerSuite) do(method, target, token string, body io.Reader) *httptest.ResponseRecorder {
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

// addProduct creates a listing through the API and returns its id.
func (s *CatalogHandlerSuite) addProduct(token, name string, priceCents int64) string {
	body := fmt.Sprintf(`{"name":%q,"price_cents":%d}`, name, priceCents)
	rec := s.do(http.MethodPost, "/supplier/products", token, strings.NewReader(body))
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID string `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &created))
	return created.ID
}

func (s *CatalogHandlerSuite) TestAuthGate() {
	s.Run("management routes require a token", func() {
		rec := s.do(http.MethodGet, "/supplier/products", "", nil)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("customers cannot manage listings", func() {
		rec := s.do(http.MethodGet, "/supplier/products", s.token(id.NewUserID(), "customer"), nil)
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("browse is public", func() {
		rec := s.do(http.MethodGet, "/catalog/products", "", nil)
		s.Equal(http.StatusOK, rec.Code)
		s.Equal("[]\n", rec.Body.String())
	})
}

func (s *CatalogHandlerSuite) TestAddAndListMine() {
	token := s.supplierToken(suppliermodels.StatusDraft)

	productID := s.addProduct(token, "Rice Cooker", 8900)
	s.NotEmpty(productID)

	s.Run("own listings include unpublished drafts", func() {
		rec := s.do(http.MethodGet, "/supplier/products", token, nil)
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), `"Rice Cooker"`)
		s.Contains(rec.Body.String(), `"published":false`)
	})

	s.Run("malformed body", func() {
		rec := s.do(http.MethodPost, "/supplier/products", token, strings.NewReader("{not json"))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Contains(rec.Body.String(), "bad_request")
	})

	s.Run("zero price is rejected", func() {
		rec := s.do(http.MethodPost, "/supplier/products", token,
			strings.NewReader(`{"name":"Freebie","price_cents":0}`))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Contains(rec.Body.String(), "validation_error")
	})
}

func (s *CatalogHandlerSuite) TestPublishFlow() {
	approved := s.supplierToken(suppliermodels.StatusApproved)
	productID := s.addProduct(approved, "Steam Basket", 4500)

	s.Run("approved supplier publishes", func() {
		rec := s.do(http.MethodPost, "/supplier/products/"+productID+"/publish", approved, nil)
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), `"published":true`)
	})

	s.Run("published listing appears in the public catalog", func() {
		rec := s.do(http.MethodGet, "/catalog/products?q=basket", "", nil)
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), `"Steam Basket"`)
	})

	s.Run("unapproved supplier cannot publish", func() {
		pending := s.supplierToken(suppliermodels.StatusSubmitted)
		pendingProduct := s.addProduct(pending, "Not Yet", 100)

		rec := s.do(http.MethodPost, "/supplier/products/"+pendingProduct+"/publish", pending, nil)
		s.Equal(http.StatusForbidden, rec.Code)
		s.Contains(rec.Body.String(), "forbidden")
	})

	s.Run("unpublish needs no approval", func() {
		rec := s.do(http.MethodPost, "/supplier/products/"+productID+"/unpublish", approved, nil)
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), `"published":false`)
	})
}

func (s *CatalogHandlerSuite) TestGetProduct() {
	token := s.supplierToken(suppliermodels.StatusApproved)
	productID := s.addProduct(token, "Wok", 12000)

	s.Run("unpublished listing stays hidden", func() {
		rec := s.do(http.MethodGet, "/catalog/products/"+productID, "", nil)
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("published listing is served", func() {
		s.do(http.MethodPost, "/supplier/products/"+productID+"/publish", token, nil)

		rec := s.do(http.MethodGet, "/catalog/products/"+productID, "", nil)
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), `"Wok"`)
	})

	s.Run("invalid id", func() {
		rec := s.do(http.MethodGet, "/catalog/products/not-a-uuid", "", nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}
