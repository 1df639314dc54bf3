package sql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iyhunko/product-catalog/internal/model"
)

// CartRepository implements repository.CartRepository on PostgreSQL.
type CartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new CartRepository instance.
func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db: db}
}

// CreateCart inserts a new shopping cart and fills in its generated ID.
func (r *CartRepository) CreateCart(ctx context.Context, cart *model.ShoppingCart) (*model.ShoppingCart, error) {
	query := `INSERT INTO shopping_carts (name, address) VALUES ($1, $2) RETURNING id`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	if err := stmt.QueryRowContext(ctx, cart.Name, cart.Address).Scan(&cart.ID); err != nil {
		return nil, fmt.Errorf("failed to insert shopping cart: %w", constraintError(err))
	}
	return cart, nil
}

// AddItem validates and inserts a cart item.
func (r *CartRepository) AddItem(ctx context.Context, item *model.ShoppingCartItem) (*model.ShoppingCartItem, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}

	query := `INSERT INTO shopping_cart_items (shopping_cart_id, product_id, quantity) VALUES ($1, $2, $3) RETURNING id`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	var cartID sql.NullInt64
	if item.ShoppingCartID != nil {
		cartID = sql.NullInt64{Int64: *item.ShoppingCartID, Valid: true}
	}

	if err := stmt.QueryRowContext(ctx, cartID, item.ProductID, item.Quantity).Scan(&item.ID); err != nil {
		return nil, fmt.Errorf("failed to insert shopping cart item: %w", constraintError(err))
	}
	return item, nil
}

// ListItemsByProduct returns every cart item referencing the product.
func (r *CartRepository) ListItemsByProduct(ctx context.Context, productID int64) ([]model.ShoppingCartItem, error) {
	query := `SELECT id, shopping_cart_id, product_id, quantity FROM shopping_cart_items WHERE product_id = $1 ORDER BY id`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shopping cart items: %w", err)
	}
	defer rows.Close()

	items := []model.ShoppingCartItem{}
	for rows.Next() {
		var (
			item   model.ShoppingCartItem
			cartID sql.NullInt64
		)
		if err := rows.Scan(&item.ID, &cartID, &item.ProductID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan shopping cart item: %w", err)
		}
		if cartID.Valid {
			item.ShoppingCartID = &cartID.Int64
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return items, nil
}
