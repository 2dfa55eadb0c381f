package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"aseara/internal/catalog/models"
	id "aseara/pkg/domain"
	"aseara/pkg/platform/sentinel"
	txcontext "aseara/pkg/platform/tx"
)

// Postgres persists products in the products table.
type Postgres struct {
	db *sql.DB
}

// NewPostgres wraps a database handle.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const productColumns = "id, supplier_id, name, description, price_cents, published, created_at, updated_at"

func (s *Postgres) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, supplier_id, name, description, price_cents, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := txcontext.ExecerFor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(product.ID), uuid.UUID(product.SupplierID), product.Name,
		product.Description, product.PriceCents, product.Published,
		product.CreatedAt, product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, productID id.ProductID) (*models.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE id = $1", productColumns)
	row := txcontext.ExecerFor(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(productID))
	product, err := scanProduct(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return product, nil
}

func (s *Postgres) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price_cents = $4, published = $5, updated_at = $6
		WHERE id = $1
	`
	result, err := txcontext.ExecerFor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(product.ID), product.Name, product.Description,
		product.PriceCents, product.Published, product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) List(ctx context.Context, query ListQuery) ([]*models.Product, error) {
	var (
		conditions []string
		args       []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if query.PublishedOnly {
		conditions = append(conditions, "published = TRUE")
	}
	if !query.SupplierID.IsNil() {
		conditions = append(conditions, "supplier_id = "+arg(uuid.UUID(query.SupplierID)))
	}
	if search := strings.TrimSpace(query.Search); search != "" {
		conditions = append(conditions, "name ILIKE "+arg("%"+search+"%"))
	}

	sqlQuery := fmt.Sprintf("SELECT %s FROM products", productColumns)
	if len(conditions) > 0 {
		sqlQuery += " WHERE " + strings.Join(conditions, " AND ")
	}
	sqlQuery += " ORDER BY created_at DESC, id DESC"

	rows, err := txcontext.ExecerFor(ctx, s.db).QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *Postgres) UnpublishBySupplier(ctx context.Context, supplierID id.SupplierID) (int, error) {
	query := `UPDATE products SET published = FALSE WHERE supplier_id = $1 AND published = TRUE`
	result, err := txcontext.ExecerFor(ctx, s.db).ExecContext(ctx, query, uuid.UUID(supplierID))
	if err != nil {
		return 0, fmt.Errorf("unpublish products: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("unpublish products: %w", err)
	}
	return int(affected), nil
}

func scanProduct(scan func(dest ...any) error) (*models.Product, error) {
	var (
		product    models.Product
		productID  uuid.UUID
		supplierID uuid.UUID
	)
	err := scan(&productID, &supplierID, &product.Name, &product.Description,
		&product.PriceCents, &product.Published, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}
	product.ID = id.ProductID(productID)
	product.SupplierID = id.SupplierID(supplierID)
	return &product, nil
}
