package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jortega-dev/inventario-backend/api/controllers"
	"github.com/jortega-dev/inventario-backend/api/middleware"
	category "github.com/jortega-dev/inventario-backend/internal/categories"
	product "github.com/jortega-dev/inventario-backend/internal/products"
	supplier "github.com/jortega-dev/inventario-backend/internal/suppliers"
	"github.com/jortega-dev/inventario-backend/pkg/config"
	"github.com/jortega-dev/inventario-backend/pkg/db"
	"github.com/jortega-dev/inventario-backend/pkg/logger"
	"github.com/jortega-dev/inventario-backend/pkg/metrics"
	"github.com/jortega-dev/inventario-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	categoryService category.Service,
	supplierService supplier.Service,
	productService product.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS),
	)

	var redisP redis.Pinger
	var idempotencyStore redis.IdempotencyStore
	if redisClient != nil {
		redisP = redisClient
		idempotencyStore = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(idempotencyStore, cfg.Inventory.IdempotencyTTL, logg))

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.ListCategories(categoryService, logg))
			r.Post("/", controllers.CreateCategory(categoryService, logg))
			r.Get("/most-products", controllers.CategoriesMostProducts(categoryService, logg))
			r.Route("/{categoryId}", func(r chi.Router) {
				r.Get("/", controllers.GetCategory(categoryService, logg))
				r.Put("/", controllers.UpdateCategory(categoryService, logg))
				r.Delete("/", controllers.DeleteCategory(categoryService, logg))
				r.Post("/toggle-active", controllers.ToggleCategoryActive(categoryService, logg))
			})
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", controllers.ListSuppliers(supplierService, logg))
			r.Post("/", controllers.CreateSupplier(supplierService, logg))
			r.Get("/most-products", controllers.SuppliersMostProducts(supplierService, logg))
			r.Get("/contact-directory", controllers.SupplierContactDirectory(supplierService, logg))
			r.Route("/{supplierId}", func(r chi.Router) {
				r.Get("/", controllers.GetSupplier(supplierService, logg))
				r.Put("/", controllers.UpdateSupplier(supplierService, logg))
				r.Delete("/", controllers.DeleteSupplier(supplierService, logg))
				r.Post("/toggle-active", controllers.ToggleSupplierActive(supplierService, logg))
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(productService, logg))
			r.Post("/", controllers.CreateProduct(productService, logg))
			r.Get("/low-stock", controllers.ProductsLowStock(productService, logg))
			r.Route("/{productId}", func(r chi.Router) {
				r.Get("/", controllers.GetProduct(productService, logg))
				r.Put("/", controllers.UpdateProduct(productService, logg))
				r.Delete("/", controllers.DeleteProduct(productService, logg))
			})
		})
	})

	return r
}
