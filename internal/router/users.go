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

// NewUsers wires the user-management service (users + customers) and
// returns a configured Gin engine.
func NewUsers(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	userSvc := service.NewUserService(userRepo, cfg)
	customerSvc := service.NewCustomerService(customerRepo, cfg)

	// ── Handlers ─────────────────────────────────────────────────────────────
	usersH := handler.NewUsersHandler(userSvc)
	customersH := handler.NewCustomersHandler(customerSvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(db, rdb))

	users := r.Group("/api/users")
	{
		users.POST("", usersH.Create)
		users.GET("", usersH.GetAll)
		users.GET("/active", usersH.GetActive)
		users.GET("/:id", usersH.GetByID)
		users.GET("/email/:email", usersH.GetByEmail)
		users.GET("/role/:role", usersH.GetByRole)
		users.GET("/status/:status", usersH.GetByStatus)
		users.PUT("/:id", usersH.Update)
		users.PATCH("/:id/password", usersH.UpdatePassword)
		users.DELETE("/:id", usersH.Delete)
		users.PATCH("/:id/activate", usersH.Activate)
		users.PATCH("/:id/deactivate", usersH.Deactivate)
		users.PATCH("/:id/status", usersH.ChangeStatus)
		users.POST("/authenticate", middleware.AuthRateLimiter(), usersH.Authenticate)
		users.GET("/exists/:email", usersH.ExistsByEmail)
	}

	customers := r.Group("/api/customers")
	{
		customers.POST("", customersH.Create)
		customers.GET("", customersH.GetAll)
		customers.GET("/active", customersH.GetActive)
		customers.GET("/:id", customersH.GetByID)
		customers.GET("/email/:email", customersH.GetByEmail)
		customers.GET("/status/:status", customersH.GetByStatus)
		customers.PUT("/:id", customersH.Update)
		customers.PATCH("/:id/password", customersH.UpdatePassword)
		customers.DELETE("/:id", customersH.Delete)
		customers.PATCH("/:id/activate", customersH.Activate)
		customers.PATCH("/:id/deactivate", customersH.Deactivate)
		customers.PATCH("/:id/status", customersH.ChangeStatus)
		customers.POST("/authenticate", middleware.AuthRateLimiter(), customersH.Authenticate)
		customers.GET("/exists/:email", customersH.ExistsByEmail)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
