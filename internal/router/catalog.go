package router

import (
	"time"

	"github.com/GersebO/commerce-microservices/internal/config"
	"github.com/GersebO/commerce-microservices/internal/handler"
	"github.com/GersebO/commerce-microservices/internal/middleware"
	"github.com/GersebO/commerce-microservices/internal/repository"
	"github.com/GersebO/commerce-microservices/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// NewCatalog wires the catalog service (categories + products) and returns
// a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func NewCatalog(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	cacheTTL := time.Duration(cfg.SKUCacheTTLMins) * time.Minute
	categorySvc := service.NewCategoryService(categoryRepo)
	productSvc := service.NewProductService(productRepo, categoryRepo, rdb, cacheTTL)

	// ── Handlers ─────────────────────────────────────────────────────────────
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	productsH := handler.NewProductsHandler(productSvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(db, rdb))

	categories := r.Group("/api/categories")
	{
		categories.POST("", categoriesH.Create)
		categories.GET("", categoriesH.GetAll)
		categories.GET("/active", categoriesH.GetActive)
		categories.GET("/:id", categoriesH.GetByID)
		categories.PUT("/:id", categoriesH.Update)
		categories.DELETE("/:id", categoriesH.Delete)
		categories.PATCH("/:id/activate", categoriesH.Activate)
		categories.PATCH("/:id/deactivate", categoriesH.Deactivate)
		categories.GET("/exists/:name", categoriesH.ExistsByName)
	}

	products := r.Group("/api/products")
	{
		products.POST("", productsH.Create)
		products.GET("", productsH.GetAll)
		products.GET("/active", productsH.GetActive)
		products.GET("/:id", productsH.GetByID)
		products.GET("/sku/:sku", productsH.GetBySKU)
		products.GET("/category/:categoryId", productsH.GetByCategory)
		products.GET("/status/:status", productsH.GetByStatus)
		products.PUT("/:id", productsH.Update)
		products.PATCH("/:id/stock", productsH.UpdateStock)
		products.PATCH("/:id/price", productsH.UpdatePrice)
		products.PATCH("/:id/status", productsH.ChangeStatus)
		products.DELETE("/:id", productsH.Delete)
		products.PATCH("/:id/activate", productsH.Activate)
		products.PATCH("/:id/deactivate", productsH.Deactivate)
		products.GET("/exists/:sku", productsH.ExistsBySKU)
		products.GET("/:id/has-stock", productsH.HasStock)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
