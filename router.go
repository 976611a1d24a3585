package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"digital-ledger/auth"
	"digital-ledger/config"
	"digital-ledger/services"
	"digital-ledger/storage"
)

// newRouter assembles the full API surface. Everything the handlers need is
// passed in so tests can stand up the router against an in-memory database
// and a fake object store.
func newRouter(cfg *config.Config, db *gorm.DB, store storage.ObjectStore, mailer *services.Mailer, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Device-Token"},
	}))
	router.Use(auth.Middleware(cfg.JWTSecret))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := router.Group("/api")
	setupNewsRoutes(api, db, logger)
	setupPodcastRoutes(api, db, logger)
	setupForumRoutes(api, db, logger)
	setupResourceRoutes(api, db, logger)
	setupToolboxRoutes(api, db, logger)
	setupUserRoutes(api, db, mailer, logger)
	setupSubscriberRoutes(api, db, logger)
	setupUploadRoutes(api, store, logger)
	setupAdminRoutes(api, services.NewSeeder(db, logger), logger)

	return router
}
