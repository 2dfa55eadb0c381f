package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"aseara/internal/identity/models"
	id "aseara/pkg/domain"
	"aseara/pkg/platform/sentinel"
	txcontext "aseara/pkg/platform/tx"
)

// Postgres persists users in the users table.
type Postgres struct {
	db *sql.DB
}

// NewPostgres wraps a database handle.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const userColumns = "id, first_name, last_name, email, role, password_hash, created_at"

func (s *Postgres) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, first_name, last_name, email, role, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := txcontext.ExecerFor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(user.ID), user.FirstName, user.LastName,
		strings.ToLower(user.Email), string(user.Role), user.PasswordHash, user.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1", userColumns)
	return s.scan(txcontext.ExecerFor(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(userID)))
}

func (s *Postgres) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE email = $1", userColumns)
	return s.scan(txcontext.ExecerFor(ctx, s.db).QueryRowContext(ctx, query, strings.ToLower(email)))
}

func (s *Postgres) FindEmail(ctx context.Context, userID id.UserID) (string, error) {
	var email string
	query := `SELECT email FROM users WHERE id = $1`
	err := txcontext.ExecerFor(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(userID)).Scan(&email)
	if errors.Is(err, sql.ErrNoRows) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select user email: %w", err)
	}
	return email, nil
}

func (s *Postgres) scan(row *sql.Row) (*models.User, error) {
	var (
		user   models.User
		userID uuid.UUID
		role   string
	)
	err := row.Scan(&userID, &user.FirstName, &user.LastName, &user.Email, &role, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.ID = id.UserID(userID)
	user.Role = models.Role(role)
	return &user, nil
}
