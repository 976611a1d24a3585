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

func setupPodcastRoutes(api *gin.RouterGroup, db *gorm.DB, log *zap.Logger) {
	rg := api.Group("/podcasts")

	rg.GET("", func(c *gin.Context) {
		query := db.Model(&models.PodcastEpisode{})
		if c.Query("featured") == "true" {
			query = query.Where("featured = ?", true)
		}
		limit, offset := paginate(c)
		var episodes []models.PodcastEpisode
		if err := query.Order("episode_number desc").Limit(limit).Offset(offset).Find(&episodes).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, episodes)
	})

	rg.GET("/:id", func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}
		var episode models.PodcastEpisode
		if err := db.First(&episode, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperr.Respond(c, log, apperr.NotFound("episode"))
				return
			}
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, episode)
	})

	rg.POST("", auth.Require(auth.ActionManageContent, log), func(c *gin.Context) {
		var req struct {
			EpisodeNumber int    `json:"episode_number"`
			Title         string `json:"title"`
			Description   string `json:"description"`
			AudioURL      string `json:"audio_url"`
			CoverURL      string `json:"cover_url"`
			Host          string `json:"host"`
			Guests        string `json:"guests"`
			Duration      string `json:"duration"`
			Featured      bool   `json:"featured"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			apperr.Respond(c, log, apperr.ValidationMsg("invalid request body"))
			return
		}
		var missing []string
		if req.Title == "" {
			missing = append(missing, "title")
		}
		if req.EpisodeNumber <= 0 {
			missing = append(missing, "episode_number")
		}
		if len(missing) > 0 {
			apperr.Respond(c, log, apperr.Validation(missing...))
			return
		}

		var clash int64
		if err := db.Model(&models.PodcastEpisode{}).
			Where("episode_number = ?", req.EpisodeNumber).Count(&clash).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		if clash > 0 {
			apperr.Respond(c, log, apperr.Conflict("episode number already taken"))
			return
		}

		episode := models.PodcastEpisode{
			EpisodeNumber: req.EpisodeNumber,
			Title:         req.Title,
			Description:   req.Description,
			AudioURL:      req.AudioURL,
			CoverURL:      req.CoverURL,
			Host:          req.Host,
			Guests:        req.Guests,
			Duration:      req.Duration,
			Featured:      req.Featured,
		}
		if err := db.Create(&episode).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		log.Info("podcast episode created", zap.Uint("id", episode.ID), zap.Int("episode", episode.EpisodeNumber))
		c.JSON(http.StatusCreated, episode)
	})

	rg.PUT("/:id", auth.Require(auth.ActionManageContent, log), func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}
		var episode models.PodcastEpisode
		if err := db.First(&episode, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperr.Respond(c, log, apperr.NotFound("episode"))
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
			"title", "description", "audio_url", "cover_url", "host", "guests", "duration", "featured")
		if len(updates) == 0 {
			apperr.Respond(c, log, apperr.ValidationMsg("no updatable fields provided"))
			return
		}
		if err := db.Model(&episode).Updates(updates).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, episode)
	})

	rg.DELETE("/:id", auth.Require(auth.ActionManageContent, log), func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}
		err = db.Transaction(func(tx *gorm.DB) error {
			var episode models.PodcastEpisode
			if err := tx.First(&episode, id).Error; err != nil {
				return err
			}
			if err := tx.Where("entity_type = ? AND entity_id = ?", models.LikePodcast, id).
				Delete(&models.Like{}).Error; err != nil {
				return err
			}
			return tx.Delete(&episode).Error
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperr.Respond(c, log, apperr.NotFound("episode"))
				return
			}
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": id})
	})

	rg.POST("/:id/like", likeHandler(db, log, models.LikePodcast, models.PodcastEpisode{}.TableName()))

	// Play tracking: every call counts, no dedup wanted here.
	rg.POST("/:id/play", func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}
		res := db.Model(&models.PodcastEpisode{}).Where("id = ?", id).
			Update("plays", gorm.Expr("plays + 1"))
		if res.Error != nil {
			apperr.Respond(c, log, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			apperr.Respond(c, log, apperr.NotFound("episode"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})
}
