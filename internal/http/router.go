package http

import (
	"github.com/gin-gonic/gin"
	"github.com/iyhunko/product-catalog/internal/config"
	"github.com/iyhunko/product-catalog/internal/http/controller"
	"github.com/iyhunko/product-catalog/internal/http/middleware"
	"github.com/iyhunko/product-catalog/internal/web"
)

// Controllers groups the handlers mounted by InitRouter.
type Controllers struct {
	General  *controller.Controller
	Products *controller.ProductController
	Pages    *controller.PageController
}

func InitRouter(conf *config.Config, server *gin.Engine, renderer *web.HTMLRenderer, ctrs Controllers) *gin.Engine {
	// Apply recovery middleware globally to prevent panics from crashing the server
	server.Use(middleware.Recovery())
	server.Use(middleware.RequestID())
	server.Use(middleware.Logger())
	server.Use(middleware.CORS())

	server.HTMLRender = renderer

	server.GET("/ping", ctrs.General.Ping)

	// Product API
	products := server.Group("/api/v1/products")
	{
		products.GET("", ctrs.Products.ListProducts)
		products.POST("/new", ctrs.Products.CreateProduct)
		products.GET("/:id/", ctrs.Products.GetProduct)
		products.PATCH("/:id/", ctrs.Products.PatchProduct)
		products.PUT("/:id/", ctrs.Products.PutProduct)
		products.DELETE("/:id/", ctrs.Products.DeleteProduct)
		products.GET("/:id/stats", ctrs.Products.ProductStats)
	}

	server.Static(conf.Media.URL, conf.Media.Root)

	// Catalog pages
	server.GET("/", ctrs.Pages.ListPage)
	server.GET("/:id/", ctrs.Pages.DetailPage)

	return server
}
