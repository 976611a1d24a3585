package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"digital-ledger/apperr"
	"digital-ledger/auth"
	"digital-ledger/models"
)

func setupToolboxRoutes(api *gin.RouterGroup, db *gorm.DB, log *zap.Logger) {
	rg := api.Group("/toolbox")

	rg.GET("", func(c *gin.Context) {
		query := db.Model(&models.ToolboxApp{})
		if section := c.Query("section"); section != "" {
			query = query.Where("section = ?", section)
		}
		if c.Query("all") != "true" {
			query = query.Where("active = ?", true)
		}
		var apps []models.ToolboxApp
		if err := query.Order("display_order asc, name asc").Find(&apps).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, apps)
	})

	rg.GET("/:id", func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}
		var app models.ToolboxApp
		if err := db.First(&app, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperr.Respond(c, log, apperr.NotFound("toolbox app"))
				return
			}
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, app)
	})

	rg.POST("", auth.Require(auth.ActionManageContent, log), func(c *gin.Context) {
		var req struct {
			Name         string `json:"name"`
			Description  string `json:"description"`
			Link         string `json:"link"`
			ImageURL     string `json:"image_url"`
			Section      string `json:"section"`
			Status       string `json:"status"`
			DisplayOrder int    `json:"display_order"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			apperr.Respond(c, log, apperr.ValidationMsg("invalid request body"))
			return
		}
		var missing []string
		if req.Name == "" {
			missing = append(missing, "name")
		}
		if req.Section == "" {
			missing = append(missing, "section")
		}
		if len(missing) > 0 {
			apperr.Respond(c, log, apperr.Validation(missing...))
			return
		}
		if !contains(models.ToolboxSections, req.Section) {
			apperr.Respond(c, log, apperr.ValidationMsg("unknown section", "section"))
			return
		}
		if req.Status == "" {
			req.Status = models.ToolboxStatuses[0]
		} else if models.ToolboxStatusIndex(req.Status) < 0 {
			apperr.Respond(c, log, apperr.ValidationMsg("unknown status", "status"))
			return
		}

		app := models.ToolboxApp{
			Name:         req.Name,
			Description:  req.Description,
			Link:         req.Link,
			ImageURL:     req.ImageURL,
			Section:      req.Section,
			Status:       req.Status,
			DisplayOrder: req.DisplayOrder,
			Active:       true,
		}
		if err := db.Create(&app).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, app)
	})

	rg.PUT("/:id", auth.Require(auth.ActionManageContent, log), func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}
		var app models.ToolboxApp
		if err := db.First(&app, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperr.Respond(c, log, apperr.NotFound("toolbox app"))
				return
			}
			apperr.Respond(c, log, err)
			return
		}

		var payload map[string]interface{}
		if err := c.ShouldBindJSON(&payload); err != nil {
			apperr.Respond(c, log, apperr.ValidationMsg("invalid request body"))
			return
		}
		updates := pickFields(payload,
			"name", "description", "link", "image_url", "section", "display_order", "active")
		if !enumField(updates, "section", models.ToolboxSections) {
			apperr.Respond(c, log, apperr.ValidationMsg("unknown section", "section"))
			return
		}
		if len(updates) == 0 {
			apperr.Respond(c, log, apperr.ValidationMsg("no updatable fields provided"))
			return
		}
		if err := db.Model(&app).Updates(updates).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, app)
	})

	// Status moves along the lifecycle one step at a time, forwards or back.
	rg.PATCH("/:id/status", auth.Require(auth.ActionManageContent, log), func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}
		var req struct {
			Status string `json:"status"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
			apperr.Respond(c, log, apperr.Validation("status"))
			return
		}
		target := models.ToolboxStatusIndex(req.Status)
		if target < 0 {
			apperr.Respond(c, log, apperr.ValidationMsg("unknown status", "status"))
			return
		}

		var app models.ToolboxApp
		if err := db.First(&app, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperr.Respond(c, log, apperr.NotFound("toolbox app"))
				return
			}
			apperr.Respond(c, log, err)
			return
		}
		current := models.ToolboxStatusIndex(app.Status)
		if diff := target - current; diff > 1 || diff < -1 {
			apperr.Respond(c, log, apperr.ValidationMsg("status can only move one step at a time", "status"))
			return
		}
		if err := db.Model(&app).Update("status", req.Status).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, app)
	})

	rg.DELETE("/:id", auth.Require(auth.ActionManageContent, log), func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}
		res := db.Delete(&models.ToolboxApp{}, id)
		if res.Error != nil {
			apperr.Respond(c, log, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			apperr.Respond(c, log, apperr.NotFound("toolbox app"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": id})
	})
}
