package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"digital-ledger/apperr"
	"digital-ledger/auth"
	"digital-ledger/models"
)

func setupSubscriberRoutes(api *gin.RouterGroup, db *gorm.DB, log *zap.Logger) {
	rg := api.Group("/subscribers")

	// Signing up again is not an error: the existing subscription is updated
	// with the new preferences.
	rg.POST("", func(c *gin.Context) {
		var req struct {
			Email      string   `json:"email"`
			Categories []string `json:"categories"`
			Frequency  string   `json:"frequency"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			apperr.Respond(c, log, apperr.ValidationMsg("invalid request body"))
			return
		}
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if req.Email == "" || !strings.Contains(req.Email, "@") {
			apperr.Respond(c, log, apperr.Validation("email"))
			return
		}
		if req.Frequency == "" {
			req.Frequency = "weekly"
		} else if !contains(models.DigestFrequencies, req.Frequency) {
			apperr.Respond(c, log, apperr.ValidationMsg("unknown frequency", "frequency"))
			return
		}
		for _, category := range req.Categories {
			if !contains(models.ArticleCategories, category) {
				apperr.Respond(c, log, apperr.ValidationMsg("unknown category", "categories"))
				return
			}
		}

		subscriber := models.Subscriber{
			Email:      req.Email,
			Categories: strings.Join(req.Categories, ","),
			Frequency:  req.Frequency,
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"categories", "frequency", "updated_at"}),
		}).Create(&subscriber).Error
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}
		log.Info("subscriber saved", zap.String("frequency", subscriber.Frequency))
		c.JSON(http.StatusCreated, subscriber)
	})

	rg.DELETE("", func(c *gin.Context) {
		email := strings.TrimSpace(strings.ToLower(c.Query("email")))
		if email == "" {
			apperr.Respond(c, log, apperr.Validation("email"))
			return
		}
		res := db.Where("email = ?", email).Delete(&models.Subscriber{})
		if res.Error != nil {
			apperr.Respond(c, log, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			apperr.Respond(c, log, apperr.NotFound("subscriber"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"unsubscribed": email})
	})

	rg.GET("", auth.Require(auth.ActionListSubscribers, log), func(c *gin.Context) {
		limit, offset := paginate(c)
		var subscribers []models.Subscriber
		if err := db.Order("created_at desc").Limit(limit).Offset(offset).Find(&subscribers).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, subscribers)
	})
}
