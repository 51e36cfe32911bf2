package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"libratrack-backend/internal/shared/middleware"
	"libratrack-backend/internal/shared/response"
	"libratrack-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	router.GET("/health", healthCheckHandler(c))

	setupAuthorRoutes(router, c)
	setupBookRoutes(router, c)

	return router
}

// ========================================
// AUTHOR ROUTES
// ========================================
func setupAuthorRoutes(router *gin.Engine, c *container.Container) {
	authors := router.Group("/authors")
	{
		authors.POST("", c.AuthorHandler.Create)
		authors.PUT("", c.AuthorHandler.Update)
		authors.GET("/:id/books", c.AuthorHandler.ListBooks)
	}
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(router *gin.Engine, c *container.Container) {
	books := router.Group("/books")
	{
		books.POST("", c.BookHandler.Create)
		books.PUT("", c.BookHandler.Update)
		books.GET("/:id", c.BookHandler.GetByID)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := map[string]interface{}{
			"database": "up",
			"cache":    "up",
		}

		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			status["database"] = "down"
			response.ErrorWithDetails(ctx, http.StatusServiceUnavailable, "SYSTEM_ERROR", "dependency unavailable", status)
			return
		}

		if err := c.Cache.Ping(ctx.Request.Context()); err != nil {
			// Degraded but serving: the cache is an optimization.
			status["cache"] = "down"
		}

		if stats, err := c.DB.Stats(); err == nil {
			status["pool"] = stats
		}

		response.Success(ctx, http.StatusOK, status)
	}
}
