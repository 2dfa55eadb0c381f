// Package service implements account registration and login. Registering
// a supplier account also creates the DRAFT supplier record the
// verification workflow starts from.
package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"aseara/internal/identity/models"
	"aseara/internal/identity/store"
	suppliermodels "aseara/internal/supplier/models"
	id "aseara/pkg/domain"
	dErrors "aseara/pkg/domain-errors"
	"aseara/pkg/email"
	"aseara/pkg/platform/sentinel"
	"aseara/pkg/requestcontext"
)

// accessTokenTTL is the lifetime of a login token.
const accessTokenTTL = 24 * time.Hour

// minPasswordLength is the only password rule enforced server-side.
const minPasswordLength = 8

// SupplierProfiles creates the DRAFT supplier row for a new supplier
// account. Satisfied by the supplier service.
type SupplierProfiles interface {
	CreateDraft(ctx context.Context, userID id.UserID) (*suppliermodels.Supplier, error)
}

// TokenIssuer signs access tokens. Satisfied by the jwt_token service.
type TokenIssuer interface {
	GenerateAccessToken(userID uuid.UUID, role string, sessionID uuid.UUID, expiresIn time.Duration) (string, error)
}

// Service carries out account operations.
type Service struct {
	users     store.Store
	suppliers SupplierProfiles
	tokens    TokenIssuer
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New constructs the identity service.
func New(users store.Store, suppliers SupplierProfiles, tokens TokenIssuer, opts ...Option) *Service {
	s := &Service{
		users:     users,
		suppliers: suppliers,
		tokens:    tokens,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registration is the account creation input.
type Registration struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      models.Role
}

// Register creates an account. Supplier accounts additionally get their
// DRAFT supplier record; admin accounts are provisioned their admin
// profile out of band.
func (s *Service) Register(ctx context.Context, reg Registration) (*models.User, error) {
	if len(reg.Password) < minPasswordLength {
		return nil, dErrors.Newf(dErrors.CodeValidation, "password must be at least %d characters", minPasswordLength)
	}

	if reg.FirstName == "" && reg.LastName == "" {
		// Names are optional at signup; derive a display name.
		reg.FirstName, reg.LastName = email.DeriveNameFromEmail(reg.Email)
	}

	user, err := models.NewUser(id.NewUserID(), reg.FirstName, reg.LastName, reg.Email, reg.Role, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}
	user.PasswordHash = string(hash)

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "an account with this email already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create account")
	}

	if reg.Role == models.RoleSupplier {
		if _, err := s.suppliers.CreateDraft(ctx, user.ID); err != nil {
			// The account exists without its profile; the next login
			// cannot repair this, so surface it loudly.
			s.logger.ErrorContext(ctx, "supplier draft creation failed after registration",
				"user_id", user.ID.String(),
				"error", err.Error(),
			)
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create supplier profile")
		}
	}

	s.logger.InfoContext(ctx, "account registered",
		"user_id", user.ID.String(),
		"role", string(user.Role),
	)
	return user, nil
}

// LoginResult is a successful authentication.
type LoginResult struct {
	User        *models.User
	AccessToken string
	SessionID   string
}

// Login verifies credentials and mints an access token carrying the role
// and a fresh cart session id.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			// Same error as a bad password; do not reveal which.
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
	}

	sessionID := uuid.New()
	token, err := s.tokens.GenerateAccessToken(uuid.UUID(user.ID), string(user.Role), sessionID, accessTokenTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue access token")
	}

	s.logger.InfoContext(ctx, "login succeeded",
		"user_id", user.ID.String(),
		"role", string(user.Role),
	)
	return &LoginResult{User: user, AccessToken: token, SessionID: sessionID.String()}, nil
}
