// api/router.go
package api

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Annany2002/bookreader-backend/api/handlers"
	"github.com/Annany2002/bookreader-backend/api/middleware" // Import middleware package
	"github.com/Annany2002/bookreader-backend/config"
	"github.com/Annany2002/bookreader-backend/internal/auth"
	"github.com/Annany2002/bookreader-backend/internal/blob"
	"github.com/Annany2002/bookreader-backend/internal/files"
	"github.com/Annany2002/bookreader-backend/internal/translate"
)

// SetupRouter initializes the Gin router and sets up all routes. rdb may be
// nil, in which case rate limiting stays in-process and translations are not
// cached.
func SetupRouter(metaDB *sql.DB, cfg *config.Config, rdb *redis.Client) (*gin.Engine, error) {
	store, err := blob.NewFromConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiration)
	fileService := files.NewService(metaDB, store, cfg.MaxUploadBytes)
	translator := translate.NewFromConfig(cfg, translate.NewRedisCache(rdb))

	router := gin.Default() // Includes Logger and Recovery
	router.MaxMultipartMemory = 8 << 20

	router.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))
	// It should run after basic middleware like Logger/Recovery
	// but before the routing happens, so it wraps the handlers.
	router.Use(middleware.ErrorHandler())

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(metaDB, cfg, tokens)
	fileHandler := handlers.NewFileHandler(fileService, cfg.MaxUploadBytes)
	bookHandler := handlers.NewBookHandler(metaDB)
	dictionaryHandler := handlers.NewDictionaryHandler(metaDB)
	translateHandler := handlers.NewTranslateHandler(translator)
	adminHandler := handlers.NewAdminHandler(metaDB)

	// --- Public Routes ---
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	// Credential endpoints are rate limited per client IP.
	limiter := middleware.NewLimiter(rdb, cfg.AuthRateLimit, cfg.AuthRateWindow)
	publicRoutes := router.Group("/api")
	publicRoutes.Use(middleware.RateLimitMiddleware(limiter))
	{
		publicRoutes.POST("/token", authHandler.Login)
		publicRoutes.POST("/login", authHandler.Login)
		publicRoutes.POST("/register", authHandler.Register)
	}

	// --- Protected Routes ---
	apiRoutes := router.Group("/api")
	apiRoutes.Use(middleware.AuthMiddleware(metaDB, tokens))
	{
		apiRoutes.GET("/users/me", authHandler.Me)

		apiRoutes.POST("/files/upload", fileHandler.Upload)
		apiRoutes.GET("/files", fileHandler.List)
		apiRoutes.GET("/files/:file_id/content", fileHandler.Content)
		apiRoutes.DELETE("/files/:file_id", fileHandler.Delete)

		apiRoutes.POST("/prepare-book", bookHandler.PrepareBook)
		apiRoutes.GET("/book-mapping/:filename", bookHandler.GetMapping)

		apiRoutes.POST("/translate", translateHandler.Translate)

		apiRoutes.GET("/dictionary", dictionaryHandler.List)
		apiRoutes.POST("/dictionary", dictionaryHandler.Add)
		apiRoutes.GET("/dictionary/check", dictionaryHandler.Check)
		apiRoutes.DELETE("/dictionary/:entry_id", dictionaryHandler.Delete)

		adminRoutes := apiRoutes.Group("/admin")
		adminRoutes.Use(middleware.RequireSuperuser())
		adminRoutes.PATCH("/users/:user_id", adminHandler.UpdateUser)
	}

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
		corsCfg.AllowCredentials = true
	}
	return corsCfg
}
