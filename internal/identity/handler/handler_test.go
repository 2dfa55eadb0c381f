package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aseara/internal/identity/service"
	"aseara/internal/identity/store"
	suppliermodels "aseara/internal/supplier/models"
	id "aseara/pkg/domain"
	"aseara/pkg/testutil"
)

type noopProfiles struct{}

func (noopProfiles) CreateDraft(_ context.Context, userID id.UserID) (*suppliermodels.Supplier, error) {
	return &suppliermodels.Supplier{ID: id.NewSupplierID(), UserID: userID}, nil
}

type staticTokens struct{}

func (staticTokens) GenerateAccessToken(uuid.UUID, string, uuid.UUID, time.Duration) (string, error) {
	return "signed-token", nil
}

func newRouter(t *testing.T) chi.Router {
	t.Helper()
	svc := service.New(store.NewInMemory(), noopProfiles{}, staticTokens{})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := chi.NewRouter()
	New(svc, logger).Register(router)
	return router
}

func registerBody(email, role string) map[string]string {
	return map[string]string{
		"first_name": "Nur",
		"last_name":  "Tan",
		"email":      email,
		"password":   "correct horse battery",
		"role":       role,
	}
}

func Test_Register(t *testing.T) {
	router := newRouter(t)

	t.Run("creates an account", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/register",
			registerBody("nur@example.com", "customer"))
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusCreated)
		testutil.AssertJSONContains(t, rr, "email", "nur@example.com")
		testutil.AssertJSONHasKey(t, rr, "id")
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/register",
			registerBody("nur@example.com", "customer"))
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusConflict, "conflict")
	})

	t.Run("admin role cannot self-register", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/register",
			registerBody("boss@example.com", "admin"))
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "forbidden")
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/register",
			registerBody("root@example.com", "root"))
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := testutil.NewRequestWithBody(t, http.MethodPost, "/auth/register", "{not json")
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
	})
}

func Test_Login(t *testing.T) {
	router := newRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/register",
		registerBody("nur@example.com", "supplier"))
	rr := testutil.DoRequest(router, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	t.Run("valid credentials return a bearer token", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/login", map[string]string{
			"email":    "nur@example.com",
			"password": "correct horse battery",
		})
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusOK(t, rr)
		resp := testutil.UnmarshalResponse[struct {
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
		}](t, rr)
		assert.Equal(t, "signed-token", resp.AccessToken)
		assert.Equal(t, "Bearer", resp.TokenType)
	})

	t.Run("bad credentials are unauthorized", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/login", map[string]string{
			"email":    "nur@example.com",
			"password": "wrong",
		})
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
	})

	t.Run("password hash never leaks", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/login", map[string]string{
			"email":    "nur@example.com",
			"password": "correct horse battery",
		})
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatusOK(t, rr)
		assert.NotContains(t, rr.Body.String(), "password")
	})
}
