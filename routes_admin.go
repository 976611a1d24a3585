package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"digital-ledger/apperr"
	"digital-ledger/auth"
	"digital-ledger/services"
)

func setupAdminRoutes(api *gin.RouterGroup, seeder *services.Seeder, log *zap.Logger) {
	rg := api.Group("/admin")

	rg.POST("/seed-database", auth.Require(auth.ActionSeedDatabase, log), func(c *gin.Context) {
		force := c.Query("force") == "true"
		result, err := seeder.Run(force)
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, result)
	})
}
