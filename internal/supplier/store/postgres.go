package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"aseara/internal/supplier/models"
	id "aseara/pkg/domain"
	"aseara/pkg/platform/sentinel"
	txcontext "aseara/pkg/platform/tx"
)

// Postgres persists suppliers and document rows in the suppliers and
// supplier_documents tables. Mutations observe a context-carried
// transaction so the submission and review flows commit atomically.
type Postgres struct {
	db *sql.DB
}

// NewPostgres wraps a database handle.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) execer(ctx context.Context) txcontext.Executor {
	return txcontext.ExecerFor(ctx, s.db)
}

const supplierColumns = `
	id, user_id, business_name, registration_number, tax_id,
	nature_of_business, director_name,
	contact_name, contact_designation, contact_email, contact_phone,
	alt_contact_name, alt_contact_designation, alt_contact_email, alt_contact_phone,
	reg_line1, reg_line2, reg_city, reg_state, reg_postcode, reg_country,
	op_line1, op_line2, op_city, op_state, op_postcode, op_country,
	bank_name, bank_account_number,
	country_code, status, submitted_at, reviewed_at, reviewed_by,
	reviewer_note, submitter_note, created_at, updated_at`

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (s *Postgres) Create(ctx context.Context, supplier *models.Supplier) error {
	query := `
		INSERT INTO suppliers (` + supplierColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		        $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24,
		        $25, $26, $27, $28, $29, $30, $31, $32, $33, $34, $35,
		        $36, $37, $38)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query, supplierArgs(supplier)...)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

func (s *Postgres) Update(ctx context.Context, supplier *models.Supplier) error {
	query := `
		UPDATE suppliers SET
			business_name = $2, registration_number = $3, tax_id = $4,
			nature_of_business = $5, director_name = $6,
			contact_name = $7, contact_designation = $8, contact_email = $9, contact_phone = $10,
			alt_contact_name = $11, alt_contact_designation = $12, alt_contact_email = $13, alt_contact_phone = $14,
			reg_line1 = $15, reg_line2 = $16, reg_city = $17, reg_state = $18, reg_postcode = $19, reg_country = $20,
			op_line1 = $21, op_line2 = $22, op_city = $23, op_state = $24, op_postcode = $25, op_country = $26,
			bank_name = $27, bank_account_number = $28,
			country_code = $29, status = $30, submitted_at = $31,
			reviewed_at = $32, reviewed_by = $33, reviewer_note = $34,
			submitter_note = $35, updated_at = $36
		WHERE id = $1
	`
	args := []any{
		uuid.UUID(supplier.ID),
		supplier.BusinessName, nullString(supplier.RegistrationNumber), supplier.TaxID,
		supplier.NatureOfBusiness, supplier.DirectorName,
		supplier.PrimaryContact.Name, supplier.PrimaryContact.Designation,
		supplier.PrimaryContact.Email, supplier.PrimaryContact.Phone,
		supplier.AlternateContact.Name, supplier.AlternateContact.Designation,
		supplier.AlternateContact.Email, supplier.AlternateContact.Phone,
		supplier.RegisteredAddress.Line1, supplier.RegisteredAddress.Line2,
		supplier.RegisteredAddress.City, supplier.RegisteredAddress.State,
		supplier.RegisteredAddress.Postcode, supplier.RegisteredAddress.Country,
		supplier.OperationalAddress.Line1, supplier.OperationalAddress.Line2,
		supplier.OperationalAddress.City, supplier.OperationalAddress.State,
		supplier.OperationalAddress.Postcode, supplier.OperationalAddress.Country,
		supplier.Bank.BankName, supplier.Bank.AccountNumber,
		supplier.CountryCode, string(supplier.Status), supplier.SubmittedAt,
		supplier.ReviewedAt, nullAdminID(supplier.ReviewedBy), supplier.ReviewerNote,
		supplier.SubmitterNote, supplier.UpdatedAt,
	}
	result, err := s.execer(ctx).ExecContext(ctx, query, args...)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update supplier rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func supplierArgs(supplier *models.Supplier) []any {
	return []any{
		uuid.UUID(supplier.ID), uuid.UUID(supplier.UserID),
		supplier.BusinessName, nullString(supplier.RegistrationNumber), supplier.TaxID,
		supplier.NatureOfBusiness, supplier.DirectorName,
		supplier.PrimaryContact.Name, supplier.PrimaryContact.Designation,
		supplier.PrimaryContact.Email, supplier.PrimaryContact.Phone,
		supplier.AlternateContact.Name, supplier.AlternateContact.Designation,
		supplier.AlternateContact.Email, supplier.AlternateContact.Phone,
		supplier.RegisteredAddress.Line1, supplier.RegisteredAddress.Line2,
		supplier.RegisteredAddress.City, supplier.RegisteredAddress.State,
		supplier.RegisteredAddress.Postcode, supplier.RegisteredAddress.Country,
		supplier.OperationalAddress.Line1, supplier.OperationalAddress.Line2,
		supplier.OperationalAddress.City, supplier.OperationalAddress.State,
		supplier.OperationalAddress.Postcode, supplier.OperationalAddress.Country,
		supplier.Bank.BankName, supplier.Bank.AccountNumber,
		supplier.CountryCode, string(supplier.Status), supplier.SubmittedAt,
		supplier.ReviewedAt, nullAdminID(supplier.ReviewedBy), supplier.ReviewerNote,
		supplier.SubmitterNote, supplier.CreatedAt, supplier.UpdatedAt,
	}
}

// Registration numbers are unique when present; empty pre-submission
// values are stored as NULL so the constraint ignores them.
func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func nullAdminID(adminID id.AdminID) any {
	if adminID.IsNil() {
		return nil
	}
	return uuid.UUID(adminID)
}

func (s *Postgres) FindByID(ctx context.Context, supplierID id.SupplierID) (*models.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE id = $1`
	return s.scanOne(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(supplierID)))
}

func (s *Postgres) FindByUserID(ctx context.Context, userID id.UserID) (*models.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE user_id = $1`
	return s.scanOne(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(userID)))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Postgres) scanOne(row rowScanner) (*models.Supplier, error) {
	supplier, err := scanSupplier(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan supplier: %w", err)
	}
	return supplier, nil
}

func scanSupplier(row rowScanner) (*models.Supplier, error) {
	var (
		supplier   models.Supplier
		supplierID uuid.UUID
		userID     uuid.UUID
		regNumber  sql.NullString
		status     string
		reviewedBy uuid.NullUUID
	)
	err := row.Scan(
		&supplierID, &userID, &supplier.BusinessName, &regNumber, &supplier.TaxID,
		&supplier.NatureOfBusiness, &supplier.DirectorName,
		&supplier.PrimaryContact.Name, &supplier.PrimaryContact.Designation,
		&supplier.PrimaryContact.Email, &supplier.PrimaryContact.Phone,
		&supplier.AlternateContact.Name, &supplier.AlternateContact.Designation,
		&supplier.AlternateContact.Email, &supplier.AlternateContact.Phone,
		&supplier.RegisteredAddress.Line1, &supplier.RegisteredAddress.Line2,
		&supplier.RegisteredAddress.City, &supplier.RegisteredAddress.State,
		&supplier.RegisteredAddress.Postcode, &supplier.RegisteredAddress.Country,
		&supplier.OperationalAddress.Line1, &supplier.OperationalAddress.Line2,
		&supplier.OperationalAddress.City, &supplier.OperationalAddress.State,
		&supplier.OperationalAddress.Postcode, &supplier.OperationalAddress.Country,
		&supplier.Bank.BankName, &supplier.Bank.AccountNumber,
		&supplier.CountryCode, &status, &supplier.SubmittedAt,
		&supplier.ReviewedAt, &reviewedBy, &supplier.ReviewerNote,
		&supplier.SubmitterNote, &supplier.CreatedAt, &supplier.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	supplier.ID = id.SupplierID(supplierID)
	supplier.UserID = id.UserID(userID)
	supplier.RegistrationNumber = regNumber.String
	supplier.Status = models.SupplierStatus(status)
	if reviewedBy.Valid {
		supplier.ReviewedBy = id.AdminID(reviewedBy.UUID)
	}
	return &supplier, nil
}

func (s *Postgres) UpsertDocument(ctx context.Context, doc *models.SupplierDocument) (string, error) {
	// Single round trip: the previous key comes back from the conflicting
	// row when the slot was already filled.
	query := `
		INSERT INTO supplier_documents (id, supplier_id, kind, key, content_type, size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (supplier_id, kind) DO UPDATE
		SET key = EXCLUDED.key,
		    content_type = EXCLUDED.content_type,
		    size_bytes = EXCLUDED.size_bytes,
		    created_at = EXCLUDED.created_at
		RETURNING (SELECT d.key FROM supplier_documents d
		           WHERE d.supplier_id = $2 AND d.kind = $3)
	`
	var previousKey sql.NullString
	err := s.execer(ctx).QueryRowContext(ctx, query,
		uuid.UUID(doc.ID),
		uuid.UUID(doc.SupplierID),
		string(doc.Kind),
		doc.Key,
		doc.ContentType,
		doc.SizeBytes,
		doc.CreatedAt,
	).Scan(&previousKey)
	if err != nil {
		return "", fmt.Errorf("upsert supplier document: %w", err)
	}
	if previousKey.String == doc.Key {
		return "", nil
	}
	return previousKey.String, nil
}

func (s *Postgres) FindDocument(ctx context.Context, supplierID id.SupplierID, kind models.DocumentKind) (*models.SupplierDocument, error) {
	query := `
		SELECT id, supplier_id, kind, key, content_type, size_bytes, created_at
		FROM supplier_documents
		WHERE supplier_id = $1 AND kind = $2
	`
	doc, err := scanDocument(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(supplierID), string(kind)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find supplier document: %w", err)
	}
	return doc, nil
}

func (s *Postgres) ListDocuments(ctx context.Context, supplierID id.SupplierID) ([]*models.SupplierDocument, error) {
	query := `
		SELECT id, supplier_id, kind, key, content_type, size_bytes, created_at
		FROM supplier_documents
		WHERE supplier_id = $1
		ORDER BY kind
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(supplierID))
	if err != nil {
		return nil, fmt.Errorf("list supplier documents: %w", err)
	}
	defer rows.Close()

	var docs []*models.SupplierDocument
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func scanDocument(row rowScanner) (*models.SupplierDocument, error) {
	var (
		doc        models.SupplierDocument
		docID      uuid.UUID
		supplierID uuid.UUID
		kind       string
	)
	err := row.Scan(&docID, &supplierID, &kind, &doc.Key, &doc.ContentType, &doc.SizeBytes, &doc.CreatedAt)
	if err != nil {
		return nil, err
	}
	doc.ID = id.DocumentID(docID)
	doc.SupplierID = id.SupplierID(supplierID)
	doc.Kind = models.DocumentKind(kind)
	return &doc, nil
}

func (s *Postgres) ListQueue(ctx context.Context, query QueueQuery) ([]*models.Supplier, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(query.Statuses) > 0 {
		statuses := make([]string, len(query.Statuses))
		for i, st := range query.Statuses {
			statuses[i] = string(st)
		}
		where = append(where, "s.status = ANY("+arg(pq.Array(statuses))+")")
	}
	if query.CountryCode != "" {
		where = append(where, "s.country_code = "+arg(query.CountryCode))
	}
	if search := strings.TrimSpace(query.Search); search != "" {
		like := "%" + search + "%"
		placeholder := arg(like)
		where = append(where, "(s.business_name ILIKE "+placeholder+
			" OR s.registration_number ILIKE "+placeholder+
			" OR u.email ILIKE "+placeholder+")")
	}

	sqlQuery := `SELECT ` + prefixColumns("s") + `
		FROM suppliers s
		LEFT JOIN users u ON u.id = s.user_id`
	if len(where) > 0 {
		sqlQuery += " WHERE " + strings.Join(where, " AND ")
	}
	sqlQuery += " ORDER BY s.submitted_at DESC NULLS LAST, s.id DESC"

	rows, err := s.execer(ctx).QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("list review queue: %w", err)
	}
	defer rows.Close()

	var suppliers []*models.Supplier
	for rows.Next() {
		supplier, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review queue row: %w", err)
		}
		suppliers = append(suppliers, supplier)
	}
	return suppliers, rows.Err()
}

func prefixColumns(alias string) string {
	cols := strings.Split(supplierColumns, ",")
	for i, col := range cols {
		cols[i] = alias + "." + strings.TrimSpace(col)
	}
	return strings.Join(cols, ", ")
}
