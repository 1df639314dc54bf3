package sql

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productRowColumns = []string{"id", "name", "description", "price", "sale_start", "sale_end", "photo", "created_at", "updated_at"}

func TestProductRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProductRepository(db)
	ctx := context.Background()

	t.Run("successful creation", func(t *testing.T) {
		product := &model.Product{
			Name:        "Test Product",
			Description: "Test Description",
			Price:       decimal.RequireFromString("99.99"),
		}

		mock.ExpectPrepare("INSERT INTO products").
			ExpectQuery().
			WithArgs(product.Name, product.Description, product.Price, sql.NullTime{}, sql.NullTime{}, "", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

		result, err := repo.Create(ctx, product)
		require.NoError(t, err)
		assert.NotNil(t, result)

		assert.Equal(t, int64(7), result.ID)
		assert.Equal(t, product.Name, result.Name)
		assert.False(t, result.CreatedAt.IsZero())
		assert.False(t, result.UpdatedAt.IsZero())

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("sale window is stored", func(t *testing.T) {
		start := time.Date(2018, time.April, 16, 12, 3, 0, 0, time.UTC)
		end := start.Add(24 * time.Hour)
		product := &model.Product{
			Name:        "Sale Product",
			Description: "On sale",
			Price:       decimal.RequireFromString("10.00"),
			SaleStart:   &start,
			SaleEnd:     &end,
		}

		mock.ExpectPrepare("INSERT INTO products").
			ExpectQuery().
			WithArgs(product.Name, product.Description, product.Price, start, end, "", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(8)))

		_, err := repo.Create(ctx, product)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("check violation becomes constraint error", func(t *testing.T) {
		product := &model.Product{
			Name:        "Cheap",
			Description: "Too cheap",
			Price:       decimal.RequireFromString("0.50"),
		}

		mock.ExpectPrepare("INSERT INTO products").
			ExpectQuery().
			WillReturnError(&pgconn.PgError{Code: pqCheckViolationErrCode, ConstraintName: "products_price_range"})

		_, err := repo.Create(ctx, product)
		require.Error(t, err)

		var constraintErr *repository.ConstraintError
		require.True(t, errors.As(err, &constraintErr))
		assert.Equal(t, "products_price_range", constraintErr.Constraint)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepository_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProductRepository(db)
	ctx := context.Background()

	t.Run("successful find", func(t *testing.T) {
		now := time.Now()
		start := now.Add(-time.Hour)
		rows := sqlmock.NewRows(productRowColumns).
			AddRow(int64(1), "Test Product", "Test Description", "99.99", start, nil, "products/a.jpg", now, now)

		mock.ExpectPrepare("SELECT (.+) FROM products WHERE id = \\$1$").
			ExpectQuery().
			WithArgs(int64(1)).
			WillReturnRows(rows)

		result, err := repo.FindByID(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, result)

		assert.Equal(t, int64(1), result.ID)
		assert.Equal(t, "Test Product", result.Name)
		assert.Equal(t, "99.99", result.Price.StringFixed(2))
		require.NotNil(t, result.SaleStart)
		assert.True(t, start.Equal(*result.SaleStart))
		assert.Nil(t, result.SaleEnd)
		assert.Equal(t, "products/a.jpg", result.Photo)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("product not found", func(t *testing.T) {
		mock.ExpectPrepare("SELECT (.+) FROM products WHERE id = \\$1").
			ExpectQuery().
			WithArgs(int64(404)).
			WillReturnError(sql.ErrNoRows)

		result, err := repo.FindByID(ctx, 404)
		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, errors.Is(err, repository.ErrNotFound))
		assert.Contains(t, err.Error(), "product not found")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProductRepository(db)
	ctx := context.Background()

	t.Run("list without filters", func(t *testing.T) {
		query := repository.NewQuery()
		query.ApplyPagination("", "")

		now := time.Now()
		rows := sqlmock.NewRows(productRowColumns).
			AddRow(int64(1), "Product 1", "Description 1", "99.99", nil, nil, "", now, now).
			AddRow(int64(2), "Product 2", "Description 2", "149.99", nil, nil, "", now, now)

		mock.ExpectPrepare("SELECT (.+) FROM products WHERE 1=1 ORDER BY id LIMIT \\$1 OFFSET \\$2").
			ExpectQuery().
			WithArgs(10, 0).
			WillReturnRows(rows)

		result, err := repo.List(ctx, *query)
		require.NoError(t, err)
		assert.Len(t, result, 2)
		assert.Equal(t, "Product 2", result[1].Name)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unbounded list has no limit", func(t *testing.T) {
		mock.ExpectPrepare("SELECT (.+) FROM products WHERE 1=1 ORDER BY id$").
			ExpectQuery().
			WillReturnRows(sqlmock.NewRows(productRowColumns))

		result, err := repo.List(ctx, *repository.NewQuery())
		require.NoError(t, err)
		assert.NotNil(t, result)
		assert.Empty(t, result)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("list with name, search and on sale filters", func(t *testing.T) {
		now := time.Now()
		query := repository.NewQuery().WithName("Lamp").WithSearch("desk 100%").WithOnSale(now)
		query.ApplyPagination("5", "10")

		expectedSQL := strings.Join([]string{
			"SELECT (.+) FROM products WHERE 1=1",
			"AND name = \\$1",
			"AND \\(name ILIKE \\$2 OR description ILIKE \\$2\\)",
			"AND \\(name ILIKE \\$3 OR description ILIKE \\$3\\)",
			"AND sale_start <= \\$4 AND sale_end <= \\$4",
			"ORDER BY id LIMIT \\$5 OFFSET \\$6",
		}, " ")

		mock.ExpectPrepare(expectedSQL).
			ExpectQuery().
			WithArgs("Lamp", "%desk%", `%100\%%`, now, 5, 10).
			WillReturnRows(sqlmock.NewRows(productRowColumns))

		_, err := repo.List(ctx, *query)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepository_Count(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProductRepository(db)
	ctx := context.Background()

	query := repository.NewQuery().WithName("Lamp")
	query.ApplyPagination("1", "3")

	mock.ExpectPrepare("SELECT COUNT\\(\\*\\) FROM products WHERE 1=1 AND name = \\$1$").
		ExpectQuery().
		WithArgs("Lamp").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	count, err := repo.Count(ctx, *query)
	require.NoError(t, err)
	assert.Equal(t, 12, count)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProductRepository(db)
	ctx := context.Background()

	t.Run("successful update", func(t *testing.T) {
		product := &model.Product{
			ID:          3,
			Name:        "New Product",
			Description: "Awesome Product",
			Price:       decimal.RequireFromString("20.00"),
			Photo:       "products/new.jpg",
		}

		mock.ExpectPrepare("UPDATE products").
			ExpectExec().
			WithArgs(product.Name, product.Description, product.Price, sql.NullTime{}, sql.NullTime{}, "products/new.jpg", sqlmock.AnyArg(), int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		result, err := repo.Update(ctx, product)
		require.NoError(t, err)
		assert.False(t, result.UpdatedAt.IsZero())

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("product not found", func(t *testing.T) {
		product := &model.Product{ID: 99, Price: decimal.RequireFromString("20.00")}

		mock.ExpectPrepare("UPDATE products").
			ExpectExec().
			WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := repo.Update(ctx, product)
		require.Error(t, err)
		assert.True(t, errors.Is(err, repository.ErrNotFound))

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepository_DeleteByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProductRepository(db)
	ctx := context.Background()

	t.Run("successful delete", func(t *testing.T) {
		mock.ExpectPrepare("DELETE FROM products WHERE id").
			ExpectExec().
			WithArgs(int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.DeleteByID(ctx, 5)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("product not found", func(t *testing.T) {
		mock.ExpectPrepare("DELETE FROM products WHERE id").
			ExpectExec().
			WithArgs(int64(6)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeleteByID(ctx, 6)
		require.Error(t, err)
		assert.True(t, errors.Is(err, repository.ErrNotFound))
		assert.Contains(t, err.Error(), "product not found")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
