package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"digital-ledger/apperr"
	"digital-ledger/auth"
	"digital-ledger/models"
)

func setupNewsRoutes(api *gin.RouterGroup, db *gorm.DB, log *zap.Logger) {
	rg := api.Group("/news")

	rg.GET("", func(c *gin.Context) {
		query := db.Model(&models.Article{})

		if category := c.Query("category"); category != "" {
			query = query.Where("category = ?", category)
		}
		if c.Query("featured") == "true" {
			query = query.Where("featured = ?", true)
		}
		// Archived articles stay out of the feed unless asked for.
		if c.Query("archived") == "true" {
			query = query.Where("archived = ?", true)
		} else {
			query = query.Where("archived = ?", false)
		}

		limit, offset := paginate(c)
		var articles []models.Article
		if err := query.Order("created_at desc").Limit(limit).Offset(offset).Find(&articles).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, articles)
	})

	rg.GET("/:id", func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}
		var article models.Article
		if err := db.First(&article, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperr.Respond(c, log, apperr.NotFound("article"))
				return
			}
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, article)
	})

	rg.POST("", auth.Require(auth.ActionManageContent, log), func(c *gin.Context) {
		var req struct {
			Title    string `json:"title"`
			Content  string `json:"content"`
			Excerpt  string `json:"excerpt"`
			Category string `json:"category"`
			Source   string `json:"source"`
			ImageURL string `json:"image_url"`
			Featured bool   `json:"featured"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			apperr.Respond(c, log, apperr.ValidationMsg("invalid request body"))
			return
		}

		var missing []string
		if req.Title == "" {
			missing = append(missing, "title")
		}
		if req.Content == "" {
			missing = append(missing, "content")
		}
		if req.Category == "" {
			missing = append(missing, "category")
		}
		if len(missing) > 0 {
			apperr.Respond(c, log, apperr.Validation(missing...))
			return
		}
		if !contains(models.ArticleCategories, req.Category) {
			apperr.Respond(c, log, apperr.ValidationMsg("unknown category", "category"))
			return
		}

		now := time.Now()
		article := models.Article{
			Title:       req.Title,
			Content:     req.Content,
			Excerpt:     req.Excerpt,
			Category:    req.Category,
			Source:      req.Source,
			ImageURL:    req.ImageURL,
			Featured:    req.Featured,
			PublishedAt: &now,
			AuthorID:    auth.IdentityFrom(c).UserID,
		}
		if err := db.Create(&article).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		log.Info("article created", zap.Uint("id", article.ID), zap.String("title", article.Title))
		c.JSON(http.StatusCreated, article)
	})

	rg.PUT("/:id", auth.Require(auth.ActionManageContent, log), func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}
		var article models.Article
		if err := db.First(&article, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperr.Respond(c, log, apperr.NotFound("article"))
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
			"title", "content", "excerpt", "category", "source", "image_url", "featured")
		if !enumField(updates, "category", models.ArticleCategories) {
			apperr.Respond(c, log, apperr.ValidationMsg("unknown category", "category"))
			return
		}
		if len(updates) == 0 {
			apperr.Respond(c, log, apperr.ValidationMsg("no updatable fields provided"))
			return
		}

		if err := db.Model(&article).Updates(updates).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, article)
	})

	rg.DELETE("/:id", auth.Require(auth.ActionManageContent, log), func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}
		err = db.Transaction(func(tx *gorm.DB) error {
			var article models.Article
			if err := tx.First(&article, id).Error; err != nil {
				return err
			}
			// Dependent rows go explicitly, never via implicit FK cascade.
			if err := tx.Where("article_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("entity_type = ? AND entity_id = ?", models.LikeArticle, id).
				Delete(&models.Like{}).Error; err != nil {
				return err
			}
			return tx.Delete(&article).Error
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperr.Respond(c, log, apperr.NotFound("article"))
				return
			}
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": id})
	})

	archiveHandler := func(archived bool) gin.HandlerFunc {
		return func(c *gin.Context) {
			id, err := parseID(c)
			if err != nil {
				apperr.Respond(c, log, err)
				return
			}
			res := db.Model(&models.Article{}).Where("id = ?", id).Update("archived", archived)
			if res.Error != nil {
				apperr.Respond(c, log, res.Error)
				return
			}
			if res.RowsAffected == 0 {
				apperr.Respond(c, log, apperr.NotFound("article"))
				return
			}
			c.JSON(http.StatusOK, gin.H{"id": id, "archived": archived})
		}
	}
	rg.POST("/:id/archive", auth.Require(auth.ActionManageContent, log), archiveHandler(true))
	rg.POST("/:id/unarchive", auth.Require(auth.ActionManageContent, log), archiveHandler(false))

	rg.POST("/:id/like", likeHandler(db, log, models.LikeArticle, models.Article{}.TableName()))

	setupCommentRoutes(api, rg, db, log)
}

func setupCommentRoutes(api, rg *gin.RouterGroup, db *gorm.DB, log *zap.Logger) {
	rg.GET("/:id/comments", func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}
		var comments []models.Comment
		if err := db.Where("article_id = ?", id).Order("created_at asc").Find(&comments).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, comments)
	})

	rg.POST("/:id/comments", auth.Require(auth.ActionCreateComment, log), func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}
		var article models.Article
		if err := db.First(&article, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperr.Respond(c, log, apperr.NotFound("article"))
				return
			}
			apperr.Respond(c, log, err)
			return
		}

		var req struct {
			Body string `json:"body"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Body == "" {
			apperr.Respond(c, log, apperr.Validation("body"))
			return
		}

		comment := models.Comment{
			ArticleID: article.ID,
			AuthorID:  auth.IdentityFrom(c).UserID,
			Body:      req.Body,
		}
		if err := db.Create(&comment).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, comment)
	})

	// Comments may only be removed by their author; content managers moderate.
	// Registered under /api/comments: a nested path would collide with the
	// /news/:id wildcard.
	api.DELETE("/comments/:id", func(c *gin.Context) {
		identity := auth.IdentityFrom(c)
		if identity.Anonymous() {
			apperr.Respond(c, log, apperr.Unauthenticated())
			return
		}
		id, err := parseID(c)
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}
		var comment models.Comment
		if err := db.First(&comment, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperr.Respond(c, log, apperr.NotFound("comment"))
				return
			}
			apperr.Respond(c, log, err)
			return
		}
		if comment.AuthorID != identity.UserID && !auth.Allows(identity.Role, auth.ActionManageContent) {
			apperr.Respond(c, log, apperr.Forbidden())
			return
		}
		if err := db.Delete(&comment).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": id})
	})
}
