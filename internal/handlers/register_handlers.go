package handlers

import (
	"net/http"

	portssvc "github.com/caiomarques/debtdesk/internal/core/ports/services"
	"github.com/caiomarques/debtdesk/internal/middleware"
	"github.com/caiomarques/debtdesk/internal/platform/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ulule/limiter/v3"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
)

// RegisterValidations installs the custom binding tags the DTOs rely on.
// Safe to call more than once.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("digitsonly", digitsOnlyValidator)
	}
}

// digitsOnlyValidator accepts non-empty strings made of ASCII digits only.
// Tax ids and phones are stored unformatted; formatting is a display concern.
func digitsOnlyValidator(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	RegisterValidations()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/", getHome)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		return err
	}
	limiterInstance := limiter.New(memorystore.NewStore(), rate)

	setupAPIV1Routes(r, cfg, services, limiterInstance)
	return nil
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	limiterInstance *limiter.Limiter,
) {
	// Apply rate limiting and AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.RateLimit(limiterInstance), middleware.AuthMiddleware(cfg.JWTSecret))

	// Delegate route registration to specific handlers, passing required services
	registerClientRoutes(v1, services.Record)
	registerDebtRoutes(v1, services.Record)
	registerPaymentRoutes(v1, services.Record)
	registerSyncRoutes(v1, services.Sync)
	registerCalculatorRoutes(v1, services.Interest)
	registerDashboardRoutes(v1, services.Reporting)
	registerMessageRoutes(v1, services.Message)
}
