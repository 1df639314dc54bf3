package repository

import (
	"context"
	"errors"

	"github.com/iyhunko/product-catalog/internal/model"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("resource not found")
)

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) (*model.Product, error)
	FindByID(ctx context.Context, id int64) (*model.Product, error)
	List(ctx context.Context, query Query) ([]*model.Product, error)
	Count(ctx context.Context, query Query) (int, error)
	Update(ctx context.Context, product *model.Product) (*model.Product, error)
	DeleteByID(ctx context.Context, id int64) error
	// WithinTransaction runs fn with a repository bound to a single transaction.
	// The transaction is rolled back when fn returns an error.
	WithinTransaction(ctx context.Context, fn func(repo ProductRepository) error) error
}

// CartRepository defines persistence operations for shopping carts and their items.
type CartRepository interface {
	CreateCart(ctx context.Context, cart *model.ShoppingCart) (*model.ShoppingCart, error)
	AddItem(ctx context.Context, item *model.ShoppingCartItem) (*model.ShoppingCartItem, error)
	ListItemsByProduct(ctx context.Context, productID int64) ([]model.ShoppingCartItem, error)
}

// ConstraintError represents a database constraint violation (check or unique).
type ConstraintError struct {
	Constraint string
	Detail     string
}

func (c *ConstraintError) Error() string {
	msg := "constraint violated"
	if c.Constraint != "" {
		msg += ": " + c.Constraint
	}
	if c.Detail != "" {
		msg += " (" + c.Detail + ")"
	}
	return msg
}
