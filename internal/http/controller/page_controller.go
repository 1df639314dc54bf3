package controller

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/repository"
	"github.com/iyhunko/product-catalog/internal/web"
)

// PageController renders the read-only catalog pages.
type PageController struct {
	productService ProductService
	media          MediaURLs
	now            func() time.Time
}

func NewPageController(productService ProductService, media MediaURLs) *PageController {
	return &PageController{
		productService: productService,
		media:          media,
		now:            time.Now,
	}
}

type productView struct {
	ID          int64
	Name        string
	Description string
	Price       string
	IsOnSale    bool
	SaleEnd     string
	PhotoURL    string
}

// ListPage renders every product.
func (pc *PageController) ListPage(c *gin.Context) {
	products, err := pc.productService.ListAllProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	now := pc.now()
	views := make([]productView, 0, len(products))
	for _, product := range products {
		views = append(views, pc.toView(product, now))
	}

	c.HTML(http.StatusOK, web.IndexPage, gin.H{"Products": views})
}

// DetailPage renders one product.
func (pc *PageController) DetailPage(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pc.notFound(c)
		return
	}

	details, err := pc.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			pc.notFound(c)
			return
		}
		respondError(c, err)
		return
	}

	c.HTML(http.StatusOK, web.DetailPage, gin.H{"Product": pc.toView(details.Product, pc.now())})
}

func (pc *PageController) notFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, web.NotFoundPage, gin.H{
		"Message": fmt.Sprintf("No product matches %q.", c.Param("id")),
	})
}

func (pc *PageController) toView(product *model.Product, now time.Time) productView {
	view := productView{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       model.FormatPrice(product.Price),
		IsOnSale:    product.IsOnSale(now),
		PhotoURL:    pc.media.URL(product.Photo),
	}
	if product.SaleEnd != nil {
		view.SaleEnd = product.SaleEnd.Format(model.SaleTimeLayout)
	}
	return view
}
