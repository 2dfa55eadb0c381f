package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"aseara/internal/review/models"
	id "aseara/pkg/domain"
	"aseara/pkg/platform/sentinel"
	txcontext "aseara/pkg/platform/tx"
)

// Postgres persists admins in the admins table.
type Postgres struct {
	db *sql.DB
}

// NewPostgres wraps a database handle.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, admin *models.Admin) error {
	query := `
		INSERT INTO admins (id, user_id, admin_type, country_code)
		VALUES ($1, $2, $3, $4)
	`
	var countryCode sql.NullString
	if admin.CountryCode != "" {
		countryCode = sql.NullString{String: admin.CountryCode, Valid: true}
	}
	_, err := txcontext.ExecerFor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(admin.ID), uuid.UUID(admin.UserID), string(admin.Type), countryCode)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, adminID id.AdminID) (*models.Admin, error) {
	query := `SELECT id, user_id, admin_type, country_code FROM admins WHERE id = $1`
	return s.scan(txcontext.ExecerFor(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(adminID)))
}

func (s *Postgres) FindByUserID(ctx context.Context, userID id.UserID) (*models.Admin, error) {
	query := `SELECT id, user_id, admin_type, country_code FROM admins WHERE user_id = $1`
	return s.scan(txcontext.ExecerFor(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(userID)))
}

func (s *Postgres) scan(row *sql.Row) (*models.Admin, error) {
	var (
		admin       models.Admin
		adminID     uuid.UUID
		userID      uuid.UUID
		adminType   string
		countryCode sql.NullString
	)
	err := row.Scan(&adminID, &userID, &adminType, &countryCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan admin: %w", err)
	}
	admin.ID = id.AdminID(adminID)
	admin.UserID = id.UserID(userID)
	admin.Type = models.AdminType(adminType)
	admin.CountryCode = countryCode.String
	return &admin, nil
}
