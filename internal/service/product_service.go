package service

import (
	"context"
	"log/slog"

	"github.com/iyhunko/product-catalog/internal/cache"
	"github.com/iyhunko/product-catalog/internal/media"
	"github.com/iyhunko/product-catalog/internal/metrics"
	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/repository"
	"github.com/iyhunko/product-catalog/internal/sqs"
)

// ImageStorage stores uploaded product photos.
type ImageStorage interface {
	SaveImage(upload media.Upload) (string, error)
}

// Notifier publishes product change notifications.
type Notifier interface {
	PublishProductMessage(ctx context.Context, msg sqs.ProductMessage) error
}

// ProductInput carries the raw fields of a create or update request. A nil field was
// not submitted.
type ProductInput struct {
	Name        *string
	Description *string
	Price       *string
	SaleStart   *string
	SaleEnd     *string
	Photo       *media.Upload
	Warranty    *media.Upload

	// Null holds the non-nullable fields that were sent as an explicit null.
	Null map[string]bool
}

// ProductDetails is a product together with the cart items that reference it.
type ProductDetails struct {
	Product   *model.Product
	CartItems []model.ShoppingCartItem
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Count   int
	Results []ProductDetails
}

type ProductService struct {
	repo      repository.ProductRepository
	cartRepo  repository.CartRepository
	summaries cache.SummaryCache
	images    ImageStorage
	publisher Notifier
}

// NewProductService wires the catalog use cases. publisher may be nil to disable notifications.
func NewProductService(
	repo repository.ProductRepository,
	cartRepo repository.CartRepository,
	summaries cache.SummaryCache,
	images ImageStorage,
	publisher Notifier,
) *ProductService {
	return &ProductService{
		repo:      repo,
		cartRepo:  cartRepo,
		summaries: summaries,
		images:    images,
		publisher: publisher,
	}
}

func (ps *ProductService) CreateProduct(ctx context.Context, in ProductInput) (*ProductDetails, error) {
	if in.Price != nil {
		if err := model.CheckPriceIsPositive(*in.Price); err != nil {
			return nil, err
		}
	}

	product := &model.Product{}
	if err := applyInput(product, in, true); err != nil {
		return nil, err
	}
	if err := ps.storePhoto(product, in, true); err != nil {
		return nil, err
	}
	// a warranty sent on create is ignored

	created, err := ps.repo.Create(ctx, product)
	if err != nil {
		return nil, err
	}

	metrics.ProductsCreated.Inc()
	ps.notify(ctx, sqs.ActionCreated, created)

	return &ProductDetails{Product: created, CartItems: []model.ShoppingCartItem{}}, nil
}

func (ps *ProductService) GetProduct(ctx context.Context, id int64) (*ProductDetails, error) {
	product, err := ps.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ps.withCartItems(ctx, product)
}

// ListProducts returns the page selected by query and the total number of matches.
func (ps *ProductService) ListProducts(ctx context.Context, query repository.Query) (*ProductPage, error) {
	count, err := ps.repo.Count(ctx, query)
	if err != nil {
		return nil, err
	}

	products, err := ps.repo.List(ctx, query)
	if err != nil {
		return nil, err
	}

	page := &ProductPage{Count: count, Results: make([]ProductDetails, 0, len(products))}
	for _, product := range products {
		details, err := ps.withCartItems(ctx, product)
		if err != nil {
			return nil, err
		}
		page.Results = append(page.Results, *details)
	}
	return page, nil
}

// ListAllProducts returns every product, unpaginated.
func (ps *ProductService) ListAllProducts(ctx context.Context) ([]*model.Product, error) {
	return ps.repo.List(ctx, *repository.NewQuery())
}

// UpdateProduct applies in to the stored product. With partial unset every writable
// field is replaced and name, description and price are required.
func (ps *ProductService) UpdateProduct(ctx context.Context, id int64, in ProductInput, partial bool) (*ProductDetails, error) {
	var updated *model.Product
	err := ps.repo.WithinTransaction(ctx, func(txRepo repository.ProductRepository) error {
		product, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if err := applyInput(product, in, !partial); err != nil {
			return err
		}
		if err := ps.storePhoto(product, in, !partial); err != nil {
			return err
		}
		if in.Warranty != nil {
			if len(in.Warranty.Content) == 0 {
				return model.NewValidationError(model.FieldWarranty, model.MsgEmptyUpload)
			}
			if err := product.AppendWarranty(in.Warranty.Content); err != nil {
				return err
			}
		}

		updated, err = txRepo.Update(ctx, product)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.ProductsUpdated.Inc()
	if err := ps.summaries.Set(ctx, updated.ID, cache.NewSummary(updated)); err != nil {
		metrics.SummaryCacheErrors.WithLabelValues("set").Inc()
		slog.Error("failed to cache product summary", slog.Any("err", err), slog.Int64("product_id", updated.ID))
	}
	ps.notify(ctx, sqs.ActionUpdated, updated)

	return ps.withCartItems(ctx, updated)
}

func (ps *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	var deleted *model.Product
	err := ps.repo.WithinTransaction(ctx, func(txRepo repository.ProductRepository) error {
		product, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := txRepo.DeleteByID(ctx, id); err != nil {
			return err
		}
		deleted = product
		return nil
	})
	if err != nil {
		return err
	}

	metrics.ProductsDeleted.Inc()
	if err := ps.summaries.Delete(ctx, id); err != nil {
		metrics.SummaryCacheErrors.WithLabelValues("delete").Inc()
		slog.Error("failed to evict product summary", slog.Any("err", err), slog.Int64("product_id", id))
	}
	ps.notify(ctx, sqs.ActionDeleted, deleted)

	return nil
}

// ProductStats returns sales statistics of the product. The figures are a fixed placeholder.
func (ps *ProductService) ProductStats(ctx context.Context, id int64) (map[string][]int, error) {
	if _, err := ps.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return map[string][]int{
		"2019-01-01": {5, 10, 15},
		"2019-01-02": {20, 1, 1},
	}, nil
}

func (ps *ProductService) withCartItems(ctx context.Context, product *model.Product) (*ProductDetails, error) {
	items, err := ps.cartRepo.ListItemsByProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	return &ProductDetails{Product: product, CartItems: items}, nil
}

// storePhoto saves an uploaded photo. Without an upload a full replacement clears the photo.
func (ps *ProductService) storePhoto(product *model.Product, in ProductInput, replace bool) error {
	if in.Photo == nil {
		if replace {
			product.Photo = ""
		}
		return nil
	}
	ref, err := ps.images.SaveImage(*in.Photo)
	if err != nil {
		return err
	}
	product.Photo = ref
	return nil
}

func (ps *ProductService) notify(ctx context.Context, action string, product *model.Product) {
	if ps.publisher == nil {
		return
	}
	if err := ps.publisher.PublishProductMessage(ctx, sqs.NewProductMessage(action, product)); err != nil {
		metrics.NotificationErrors.Inc()
		// Log error but don't fail the request
		slog.Error("failed to send SQS message", slog.Any("err", err), slog.String("action", action), slog.Int64("product_id", product.ID))
	}
}

// applyInput validates the submitted fields and copies them onto product. With required
// set, name, description and price must be present.
func applyInput(product *model.Product, in ProductInput, required bool) error {
	errs := &model.ValidationError{}

	switch {
	case in.Null[model.FieldName]:
		errs.Add(model.FieldName, model.MsgNull)
	case in.Name != nil:
		product.Name = model.ValidateName(errs, *in.Name)
	case required:
		errs.Add(model.FieldName, model.MsgRequired)
	}

	switch {
	case in.Null[model.FieldDescription]:
		errs.Add(model.FieldDescription, model.MsgNull)
	case in.Description != nil:
		product.Description = model.ValidateDescription(errs, *in.Description)
	case required:
		errs.Add(model.FieldDescription, model.MsgRequired)
	}

	switch {
	case in.Null[model.FieldPrice]:
		errs.Add(model.FieldPrice, model.MsgNull)
	case in.Price != nil:
		if price, ok := model.ParsePrice(errs, *in.Price); ok {
			product.Price = price
		}
	case required:
		errs.Add(model.FieldPrice, model.MsgRequired)
	}

	if in.SaleStart != nil {
		if t, ok := model.ParseSaleBound(errs, model.FieldSaleStart, *in.SaleStart); ok {
			product.SaleStart = t
		}
	}
	if in.SaleEnd != nil {
		if t, ok := model.ParseSaleBound(errs, model.FieldSaleEnd, *in.SaleEnd); ok {
			product.SaleEnd = t
		}
	}

	return errs.OrNil()
}
