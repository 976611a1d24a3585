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

func setupResourceRoutes(api *gin.RouterGroup, db *gorm.DB, log *zap.Logger) {
	rg := api.Group("/resources")

	rg.GET("", func(c *gin.Context) {
		query := db.Model(&models.Resource{})
		if t := c.Query("type"); t != "" {
			query = query.Where("type = ?", t)
		}
		if category := c.Query("category"); category != "" {
			query = query.Where("category = ?", category)
		}
		limit, offset := paginate(c)
		var resources []models.Resource
		if err := query.Order("created_at desc").Limit(limit).Offset(offset).Find(&resources).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, resources)
	})

	rg.GET("/:id", func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}
		var resource models.Resource
		if err := db.First(&resource, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperr.Respond(c, log, apperr.NotFound("resource"))
				return
			}
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, resource)
	})

	rg.POST("", auth.Require(auth.ActionManageContent, log), func(c *gin.Context) {
		var req struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Type        string `json:"type"`
			Category    string `json:"category"`
			FileURL     string `json:"file_url"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			apperr.Respond(c, log, apperr.ValidationMsg("invalid request body"))
			return
		}
		var missing []string
		if req.Title == "" {
			missing = append(missing, "title")
		}
		if req.Type == "" {
			missing = append(missing, "type")
		}
		if len(missing) > 0 {
			apperr.Respond(c, log, apperr.Validation(missing...))
			return
		}
		if !contains(models.ResourceTypes, req.Type) {
			apperr.Respond(c, log, apperr.ValidationMsg("unknown resource type", "type"))
			return
		}

		resource := models.Resource{
			Title:       req.Title,
			Description: req.Description,
			Type:        req.Type,
			Category:    req.Category,
			FileURL:     req.FileURL,
		}
		if err := db.Create(&resource).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, resource)
	})

	rg.PUT("/:id", auth.Require(auth.ActionManageContent, log), func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}
		var resource models.Resource
		if err := db.First(&resource, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperr.Respond(c, log, apperr.NotFound("resource"))
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
		updates := pickFields(payload, "title", "description", "type", "category", "file_url")
		if !enumField(updates, "type", models.ResourceTypes) {
			apperr.Respond(c, log, apperr.ValidationMsg("unknown resource type", "type"))
			return
		}
		if len(updates) == 0 {
			apperr.Respond(c, log, apperr.ValidationMsg("no updatable fields provided"))
			return
		}
		if err := db.Model(&resource).Updates(updates).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, resource)
	})

	rg.DELETE("/:id", auth.Require(auth.ActionManageContent, log), func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}
		res := db.Delete(&models.Resource{}, id)
		if res.Error != nil {
			apperr.Respond(c, log, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			apperr.Respond(c, log, apperr.NotFound("resource"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": id})
	})

	rg.POST("/:id/download", func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}
		res := db.Model(&models.Resource{}).Where("id = ?", id).
			Update("downloads", gorm.Expr("downloads + 1"))
		if res.Error != nil {
			apperr.Respond(c, log, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			apperr.Respond(c, log, apperr.NotFound("resource"))
			return
		}
		var resource models.Resource
		if err := db.First(&resource, id).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id, "downloads": resource.Downloads, "file_url": resource.FileURL})
	})

	// Ratings are aggregated as sum+count; the average is derived on read.
	rg.POST("/:id/rate", func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}
		var req struct {
			Rating int `json:"rating"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Rating < 1 || req.Rating > 5 {
			apperr.Respond(c, log, apperr.ValidationMsg("rating must be between 1 and 5", "rating"))
			return
		}
		res := db.Model(&models.Resource{}).Where("id = ?", id).Updates(map[string]interface{}{
			"rating_sum":   gorm.Expr("rating_sum + ?", req.Rating),
			"rating_count": gorm.Expr("rating_count + 1"),
		})
		if res.Error != nil {
			apperr.Respond(c, log, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			apperr.Respond(c, log, apperr.NotFound("resource"))
			return
		}
		var resource models.Resource
		if err := db.First(&resource, id).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		average := 0.0
		if resource.RatingCount > 0 {
			average = float64(resource.RatingSum) / float64(resource.RatingCount)
		}
		c.JSON(http.StatusOK, gin.H{"id": id, "rating_count": resource.RatingCount, "average": average})
	})
}
