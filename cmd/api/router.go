package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"asset-manager-backend/internal/shared/middleware"
	"asset-manager-backend/pkg/container"

	"github.com/gin-gonic/gin"
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
	router.MaxMultipartMemory = 8 << 20

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupCategoryRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

// ========================================
// CATEGORY ROUTES (public)
// ========================================
func setupCategoryRoutes(v1 *gin.RouterGroup, c *container.Container) {
	category := v1.Group("/categories")
	{
		category.GET("", c.CategoryHandler.List)
		category.GET("/by-slug/:slug", c.CategoryHandler.GetBySlug)
	}
}

// ========================================
// ADMIN ROUTES (Auth + Admin role)
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		admin.POST("/categories", c.CategoryHandler.Create)
		admin.GET("/users", c.DirectoryHandler.List)

		assets := admin.Group("/assets")
		{
			assets.GET("", c.AssetHandler.List)
			assets.POST("", c.AssetHandler.Create)

			// static paths trước :id
			assets.GET("/brands", c.AssetHandler.Brands)
			assets.GET("/dashboard", c.AssetHandler.Dashboard)
			assets.GET("/export", c.AssetHandler.Export)

			assets.GET("/:id", c.AssetHandler.Get)
			assets.PUT("/:id", c.AssetHandler.Save)
			assets.GET("/:id/history", c.AssetHandler.History)
			assets.GET("/:id/notices", c.AssetHandler.Notices)
			assets.POST("/:id/image", c.AssetHandler.AttachImage)
			assets.DELETE("/:id/image", c.AssetHandler.RemoveImage)
		}
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"store":     appCtx.Config.App.StoreDriver,
		}

		// Check database (memory store luôn ok)
		dbStatus := "ok"
		if appCtx.DB != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		// Check cache
		cacheStatus := "ok"
		if appCtx.Cache == nil {
			cacheStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				cacheStatus = fmt.Sprintf("error: %v", err)
			}
		}

		storageStatus := "disabled"
		if appCtx.Storage != nil {
			storageStatus = "ok"
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"cache":    cacheStatus,
			"storage":  storageStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
