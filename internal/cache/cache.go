package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/iyhunko/product-catalog/internal/model"
)

// ErrMiss is returned by SummaryCache.Get when no entry is stored for the product.
var ErrMiss = errors.New("summary cache miss")

// Summary is the flattened product representation kept in the cache.
type Summary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

// NewSummary flattens product into a Summary.
func NewSummary(product *model.Product) Summary {
	return Summary{
		Name:        product.Name,
		Description: product.Description,
		Price:       model.FormatPrice(product.Price),
	}
}

// SummaryCache stores product summaries keyed by product ID.
type SummaryCache interface {
	Get(ctx context.Context, productID int64) (Summary, error)
	Set(ctx context.Context, productID int64, summary Summary) error
	Delete(ctx context.Context, productID int64) error
}

// Key returns the cache key of the product summary.
func Key(productID int64) string {
	return fmt.Sprintf("product_data_%d", productID)
}
