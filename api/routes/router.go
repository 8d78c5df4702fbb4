package routes

import (
	"net/http"
	"time"

	"flightly/internal/flights"
	"flightly/internal/notifications"
	"flightly/internal/shared/config"
	"flightly/internal/shared/database"
	"flightly/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	producer notifications.Producer
}

// NewRouter creates a new router instance. The producer may be nil when
// Kafka is disabled.
func NewRouter(cfg *config.Config, db *database.DB, producer notifications.Producer) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		producer: producer,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupFlightRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "flightly",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "flightly",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupFlightRoutes configures flight and passenger manifest routes
func (r *Router) setupFlightRoutes(rg *gin.RouterGroup) {
	flightRepo := flights.NewRepository(r.db.GetPostgreSQL())
	flightService := flights.NewService(flightRepo)

	if r.db.GetRedisClient() != nil {
		flightService.SetCacheService(cache.NewService(r.db.GetRedisClient()))
	}
	if r.producer != nil {
		flightService.SetNotificationProducer(r.producer)
	}

	flightController := flights.NewController(flightService)
	flights.SetupFlightRoutes(rg, flightController)
}
