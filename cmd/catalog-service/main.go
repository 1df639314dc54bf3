package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/product-catalog/internal/cache"
	"github.com/iyhunko/product-catalog/internal/config"
	httpAPI "github.com/iyhunko/product-catalog/internal/http"
	"github.com/iyhunko/product-catalog/internal/http/controller"
	"github.com/iyhunko/product-catalog/internal/logger"
	"github.com/iyhunko/product-catalog/internal/media"
	"github.com/iyhunko/product-catalog/internal/metrics"
	"github.com/iyhunko/product-catalog/internal/repository/sql"
	"github.com/iyhunko/product-catalog/internal/service"
	sqspkg "github.com/iyhunko/product-catalog/internal/sqs"
	"github.com/iyhunko/product-catalog/internal/web"
)

const shutdownTimeout = 10 * time.Second

func main() {
	conf, err := config.LoadFromEnv()
	handleErr("loading config", err)

	logger.InitJSONLogger(conf.DebugMode)
	if !conf.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.StartDB(ctx, conf.Database)
	handleErr("starting database", err)
	defer db.Close()

	redisClient, err := cache.NewRedisClient(ctx, conf.Cache)
	handleErr("connecting to redis", err)
	defer redisClient.Close()

	// Notifications are optional, a nil publisher disables them
	var notifier service.Notifier
	publisher, err := sqspkg.NewPublisherFromConfig(ctx, conf.AWS)
	handleErr("creating SQS publisher", err)
	if publisher != nil {
		notifier = publisher
	}

	storage := media.NewLocalStorage(conf.Media)
	productService := service.NewProductService(
		sql.NewProductRepository(db),
		sql.NewCartRepository(db),
		cache.NewRedisCache(redisClient, conf.Cache.TTL),
		storage,
		notifier,
	)

	renderer, err := web.NewHTMLRenderer()
	handleErr("parsing page templates", err)

	router := httpAPI.InitRouter(conf, gin.New(), renderer, httpAPI.Controllers{
		General:  controller.New(conf),
		Products: controller.NewProductController(productService, storage),
		Pages:    controller.NewPageController(productService, storage),
	})

	httpServer := &http.Server{
		Addr:              ":" + conf.HTTPServer.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		slog.Info("HTTP server starting", slog.String("port", conf.HTTPServer.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			handleErr("listening to HTTP requests", err)
		}
	}()

	metrics.StartMetricsServer(ctx, conf)

	<-ctx.Done()
	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown failed", slog.Any("err", err))
	}
}

func handleErr(msg string, err error) {
	if err != nil {
		log.Fatalf("error while %s: %v", msg, err)
	}
}
