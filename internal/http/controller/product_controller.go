package controller

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/repository"
	"github.com/iyhunko/product-catalog/internal/service"
)

const (
	nameParam   = "name"
	searchParam = "search"
	onSaleParam = "on_sale"
)

// ProductService is the catalog use-case layer used by the controllers.
type ProductService interface {
	CreateProduct(ctx context.Context, in service.ProductInput) (*service.ProductDetails, error)
	GetProduct(ctx context.Context, id int64) (*service.ProductDetails, error)
	ListProducts(ctx context.Context, query repository.Query) (*service.ProductPage, error)
	ListAllProducts(ctx context.Context) ([]*model.Product, error)
	UpdateProduct(ctx context.Context, id int64, in service.ProductInput, partial bool) (*service.ProductDetails, error)
	DeleteProduct(ctx context.Context, id int64) error
	ProductStats(ctx context.Context, id int64) (map[string][]int, error)
}

// MediaURLs maps a stored file reference to the path it is served under.
type MediaURLs interface {
	URL(ref string) string
}

// ProductController handles HTTP requests for product operations.
type ProductController struct {
	productService ProductService
	media          MediaURLs
	now            func() time.Time
}

// NewProductController creates a new ProductController with the given product service.
func NewProductController(productService ProductService, media MediaURLs) *ProductController {
	return &ProductController{
		productService: productService,
		media:          media,
		now:            time.Now,
	}
}

// CartItemResponse represents a cart item referencing the product.
type CartItemResponse struct {
	Product  int64 `json:"product"`
	Quantity int   `json:"quantity"`
}

// ProductResponse represents the response body for a product.
type ProductResponse struct {
	ID           int64              `json:"id"`
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	Price        string             `json:"price"`
	SaleStart    *string            `json:"sale_start"`
	SaleEnd      *string            `json:"sale_end"`
	CurrentPrice float64            `json:"current_price"`
	IsOnSale     bool               `json:"is_on_sale"`
	CartItems    []CartItemResponse `json:"cart_items"`
	Photo        *string            `json:"photo"`
}

// ListProductsResponse represents one page of products.
type ListProductsResponse struct {
	Count    int               `json:"count"`
	Next     *string           `json:"next"`
	Previous *string           `json:"previous"`
	Results  []ProductResponse `json:"results"`
}

// StatsResponse represents the sales statistics of a product.
type StatsResponse struct {
	Stats map[string][]int `json:"stats"`
}

// ListProducts handles GET /api/v1/products.
func (pc *ProductController) ListProducts(c *gin.Context) {
	query := repository.NewQuery()
	if name := c.Query(nameParam); name != "" {
		query.WithName(name)
	}
	if search := c.Query(searchParam); search != "" {
		query.WithSearch(search)
	}
	if strings.EqualFold(c.Query(onSaleParam), "true") {
		query.WithOnSale(pc.now().UTC())
	}
	query.ApplyPagination(c.Query(repository.LimitParam), c.Query(repository.OffsetParam))

	page, err := pc.productService.ListProducts(c.Request.Context(), *query)
	if err != nil {
		respondError(c, err)
		return
	}

	current := requestURL(c)
	paginator := repository.NewPaginator(*query, page.Count)
	response := ListProductsResponse{
		Count:    page.Count,
		Next:     paginator.Next(current),
		Previous: paginator.Previous(current),
		Results:  make([]ProductResponse, 0, len(page.Results)),
	}
	for i := range page.Results {
		response.Results = append(response.Results, pc.toProductResponse(c, &page.Results[i]))
	}

	c.JSON(http.StatusOK, response)
}

// CreateProduct handles POST /api/v1/products/new.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	in, err := bindProductInput(c)
	if err != nil {
		respondError(c, err)
		return
	}

	created, err := pc.productService.CreateProduct(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, pc.toProductResponse(c, created))
}

// GetProduct handles GET /api/v1/products/:id/.
func (pc *ProductController) GetProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	details, err := pc.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pc.toProductResponse(c, details))
}

// PatchProduct handles PATCH /api/v1/products/:id/, a partial update.
func (pc *ProductController) PatchProduct(c *gin.Context) {
	pc.updateProduct(c, true)
}

// PutProduct handles PUT /api/v1/products/:id/, a full replacement.
func (pc *ProductController) PutProduct(c *gin.Context) {
	pc.updateProduct(c, false)
}

func (pc *ProductController) updateProduct(c *gin.Context, partial bool) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	in, err := bindProductInput(c)
	if err != nil {
		respondError(c, err)
		return
	}

	updated, err := pc.productService.UpdateProduct(c.Request.Context(), id, in, partial)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pc.toProductResponse(c, updated))
}

// DeleteProduct handles DELETE /api/v1/products/:id/.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := pc.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ProductStats handles GET /api/v1/products/:id/stats.
func (pc *ProductController) ProductStats(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	stats, err := pc.productService.ProductStats(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StatsResponse{Stats: stats})
}

func (pc *ProductController) toProductResponse(c *gin.Context, details *service.ProductDetails) ProductResponse {
	product := details.Product
	response := ProductResponse{
		ID:           product.ID,
		Name:         product.Name,
		Description:  product.Description,
		Price:        model.FormatPrice(product.Price),
		SaleStart:    formatTime(product.SaleStart),
		SaleEnd:      formatTime(product.SaleEnd),
		CurrentPrice: product.CurrentPrice(),
		IsOnSale:     product.IsOnSale(pc.now()),
		CartItems:    make([]CartItemResponse, 0, len(details.CartItems)),
	}
	for _, item := range details.CartItems {
		response.CartItems = append(response.CartItems, CartItemResponse{Product: item.ProductID, Quantity: item.Quantity})
	}
	if product.Photo != "" {
		photo := absoluteURL(c, pc.media.URL(product.Photo))
		response.Photo = &photo
	}
	return response
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

// requestURL reconstructs the absolute URL of the current request.
func requestURL(c *gin.Context) *url.URL {
	u := *c.Request.URL
	u.Scheme = requestScheme(c)
	u.Host = c.Request.Host
	return &u
}

func absoluteURL(c *gin.Context, path string) string {
	u := url.URL{Scheme: requestScheme(c), Host: c.Request.Host, Path: path}
	return u.String()
}

func requestScheme(c *gin.Context) string {
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}

// respondError maps service errors onto HTTP responses.
func respondError(c *gin.Context, err error) {
	var validationErr *model.ValidationError
	var constraintErr *repository.ConstraintError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, validationErr.Fields)
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, errInvalidID):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	case errors.As(err, &constraintErr):
		c.JSON(http.StatusBadRequest, gin.H{model.FieldNonField: []string{constraintErr.Error()}})
	default:
		slog.Error("request failed", slog.Any("err", err), slog.String("path", c.Request.URL.Path), slog.String("method", c.Request.Method))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
