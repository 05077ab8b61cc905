package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"music-catalog-backend/internal/shared/middleware"
	"music-catalog-backend/pkg/container"
)

// SetupRouter wires every route. Login and registration are public;
// everything else requires a bearer token.
func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	router.GET("/", greetingHandler(c))
	router.GET("/health", healthCheckHandler(c))

	router.POST("/login", c.UserHandler.Login)
	router.POST("/users", c.UserHandler.Store)

	auth := router.Group("/")
	auth.Use(middleware.RequireAuth(c.JWTManager))
	{
		users := auth.Group("/users")
		{
			// Fixed paths go first so "authenticated" and "password"
			// never match :id.
			users.GET("/authenticated", c.UserHandler.ShowAuthenticated)
			users.PUT("/authenticated", c.UserHandler.UpdateAuthenticated)
			users.PUT("/password", c.UserHandler.UpdatePassword)
			users.GET("", c.UserHandler.Index)
			users.GET("/:id", c.UserHandler.Show)
			users.PUT("/:id", c.UserHandler.Update)
			users.DELETE("/:id", c.UserHandler.Destroy)
		}

		artists := auth.Group("/artists")
		{
			artists.GET("", c.ArtistHandler.Index)
			artists.POST("", c.ArtistHandler.Store)
			artists.GET("/:id", c.ArtistHandler.Show)
			artists.PUT("/:id", c.ArtistHandler.Update)
			artists.DELETE("/:id", c.ArtistHandler.Destroy)
		}

		albums := auth.Group("/albums")
		{
			albums.GET("", c.AlbumHandler.Index)
			albums.POST("", c.AlbumHandler.Store)
			albums.GET("/:id", c.AlbumHandler.Show)
			albums.PUT("/:id", c.AlbumHandler.Update)
			albums.DELETE("/:id", c.AlbumHandler.Destroy)
		}

		images := auth.Group("/images")
		{
			images.POST("", c.ImageHandler.Store)
			images.DELETE("/:id", c.ImageHandler.Destroy)
		}
	}

	return router
}

func greetingHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Bem-vindo à API " + appCtx.Config.App.Name,
		})
	}
}

// healthCheckHandler reports the state of every backing service. The
// database is the only hard dependency.
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := "ok"

		dbStatus := "ok"
		if err := appCtx.DB.HealthCheck(ctx); err != nil {
			dbStatus = "error: " + err.Error()
			status = "degraded"
		}

		redisStatus := "ok"
		if err := appCtx.Cache.Ping(ctx); err != nil {
			redisStatus = "error: " + err.Error()
		}

		storageStatus := "ok"
		if err := appCtx.Storage.Ping(ctx); err != nil {
			storageStatus = "error: " + err.Error()
		}

		code := http.StatusOK
		if dbStatus != "ok" {
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"services": gin.H{
				"database": dbStatus,
				"redis":    redisStatus,
				"storage":  storageStatus,
			},
		})
	}
}
