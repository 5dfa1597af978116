package handlers

import (
	"net/http"

	"contactbook/internal/logger"
	"contactbook/internal/models"
	"contactbook/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services   *service.Service
	log        *logger.Logger
	uploadsDir string
}

// NewHandler constructs a new HTTP handler with dependencies. uploadsDir is
// where contact photos are stored and served from.
func NewHandler(services *service.Service, log *logger.Logger, uploadsDir string) *Handler {
	return &Handler{services: services, log: log, uploadsDir: uploadsDir}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), corsMiddleware())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Uploaded photos are served as static assets
	if h.uploadsDir != "" {
		router.Static("/uploads", h.uploadsDir)
	}

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.GET("/me", h.authMiddleware, h.me)
		auth.GET("/admin-test", h.authMiddleware, h.requireRoles(models.RoleAdmin), h.adminTest)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.authMiddleware)
	{
		h.registerContactRoutes(api)
	}
}

func (h *Handler) registerContactRoutes(api *gin.RouterGroup) {
	contacts := api.Group("/contacts")
	{
		contacts.POST("", h.createContact)
		contacts.GET("", h.listContacts)
		contacts.GET("/:id", h.getContact)
		contacts.PATCH("/:id", h.updateContact)
		contacts.DELETE("/:id", h.deleteContact)
	}
}

// corsMiddleware allows the browser frontend to call the API from another
// origin.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
