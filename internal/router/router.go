package router

import (
	"github.com/gin-gonic/gin"

	"docverify/internal/handler"
	"docverify/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Document *handler.DocumentHandler
	Extract  *handler.ExtractHandler
	Field    *handler.FieldHandler
	Health   *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
// API routes live under basePath; health checks stay at the root.
func Setup(basePath string, corsOrigins []string, h Handlers) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	api := r.Group(basePath)
	api.GET("/health", h.Health.Health)
	api.GET("/document-types", h.Document.DocumentTypes)

	api.POST("/classify", h.Extract.Classify)
	api.POST("/extract", h.Extract.Extract)

	docs := api.Group("/documents")
	docs.GET("", h.Document.List)
	docs.GET("/:id", h.Document.Get)
	docs.DELETE("/:id", h.Document.Delete)
	docs.GET("/:id/corrections", h.Document.Corrections)
	docs.GET("/:id/history", h.Document.History)

	api.PUT("/fields/:id", h.Field.Update)

	return r
}
