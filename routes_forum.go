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

func setupForumRoutes(api *gin.RouterGroup, db *gorm.DB, log *zap.Logger) {
	forum := api.Group("/forum")
	setupCategoryRoutes(forum, db, log)
	setupDiscussionRoutes(forum, db, log)
	setupReplyRoutes(forum, db, log)
}

func setupCategoryRoutes(forum *gin.RouterGroup, db *gorm.DB, log *zap.Logger) {
	rg := forum.Group("/categories")

	rg.GET("", func(c *gin.Context) {
		var categories []models.ForumCategory
		if err := db.Order("name asc").Find(&categories).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	})

	rg.POST("", auth.Require(auth.ActionManageContent, log), func(c *gin.Context) {
		var req struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			Color       string `json:"color"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
			apperr.Respond(c, log, apperr.Validation("name"))
			return
		}
		category := models.ForumCategory{Name: req.Name, Description: req.Description, Color: req.Color}
		if err := db.Create(&category).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, category)
	})

	rg.PUT("/:id", auth.Require(auth.ActionManageContent, log), func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}
		var category models.ForumCategory
		if err := db.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperr.Respond(c, log, apperr.NotFound("category"))
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
		updates := pickFields(payload, "name", "description", "color")
		if len(updates) == 0 {
			apperr.Respond(c, log, apperr.ValidationMsg("no updatable fields provided"))
			return
		}
		if err := db.Model(&category).Updates(updates).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, category)
	})

	// Category deletion takes its whole discussion tree with it, explicitly
	// and inside one transaction.
	rg.DELETE("/:id", auth.Require(auth.ActionManageContent, log), func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}
		err = db.Transaction(func(tx *gorm.DB) error {
			var category models.ForumCategory
			if err := tx.First(&category, id).Error; err != nil {
				return err
			}
			var discussionIDs []uint
			if err := tx.Model(&models.ForumDiscussion{}).
				Where("category_id = ?", id).Pluck("id", &discussionIDs).Error; err != nil {
				return err
			}
			if len(discussionIDs) > 0 {
				if err := tx.Where("discussion_id IN ?", discussionIDs).
					Delete(&models.ForumReply{}).Error; err != nil {
					return err
				}
				if err := tx.Where("category_id = ?", id).
					Delete(&models.ForumDiscussion{}).Error; err != nil {
					return err
				}
			}
			return tx.Delete(&category).Error
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperr.Respond(c, log, apperr.NotFound("category"))
				return
			}
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": id})
	})
}

func setupDiscussionRoutes(forum *gin.RouterGroup, db *gorm.DB, log *zap.Logger) {
	rg := forum.Group("/discussions")

	rg.GET("", func(c *gin.Context) {
		query := db.Model(&models.ForumDiscussion{})
		if category := c.Query("category_id"); category != "" {
			query = query.Where("category_id = ?", category)
		}
		limit, offset := paginate(c)
		var discussions []models.ForumDiscussion
		if err := query.Order("pinned desc, last_reply_at desc, created_at desc").
			Limit(limit).Offset(offset).Find(&discussions).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, discussions)
	})

	rg.GET("/:id", func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}
		var discussion models.ForumDiscussion
		if err := db.First(&discussion, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperr.Respond(c, log, apperr.NotFound("discussion"))
				return
			}
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, discussion)
	})

	rg.GET("/:id/replies", func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}
		var replies []models.ForumReply
		if err := db.Where("discussion_id = ?", id).Order("created_at asc").Find(&replies).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, replies)
	})

	rg.POST("", auth.Require(auth.ActionCreateComment, log), func(c *gin.Context) {
		var req struct {
			CategoryID uint   `json:"category_id"`
			Title      string `json:"title"`
			Body       string `json:"body"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			apperr.Respond(c, log, apperr.ValidationMsg("invalid request body"))
			return
		}
		var missing []string
		if req.CategoryID == 0 {
			missing = append(missing, "category_id")
		}
		if req.Title == "" {
			missing = append(missing, "title")
		}
		if req.Body == "" {
			missing = append(missing, "body")
		}
		if len(missing) > 0 {
			apperr.Respond(c, log, apperr.Validation(missing...))
			return
		}

		var discussion models.ForumDiscussion
		err := db.Transaction(func(tx *gorm.DB) error {
			var category models.ForumCategory
			if err := tx.First(&category, req.CategoryID).Error; err != nil {
				return err
			}
			discussion = models.ForumDiscussion{
				CategoryID: category.ID,
				AuthorID:   auth.IdentityFrom(c).UserID,
				Title:      req.Title,
				Body:       req.Body,
			}
			if err := tx.Create(&discussion).Error; err != nil {
				return err
			}
			// Counter moves in the same transaction as the row it counts.
			return tx.Model(&category).
				Update("discussion_count", gorm.Expr("discussion_count + 1")).Error
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperr.Respond(c, log, apperr.NotFound("category"))
				return
			}
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, discussion)
	})

	rg.PUT("/:id", auth.Require(auth.ActionCreateComment, log), func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}
		var discussion models.ForumDiscussion
		if err := db.First(&discussion, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperr.Respond(c, log, apperr.NotFound("discussion"))
				return
			}
			apperr.Respond(c, log, err)
			return
		}
		identity := auth.IdentityFrom(c)
		if discussion.AuthorID != identity.UserID && !auth.Allows(identity.Role, auth.ActionManageContent) {
			apperr.Respond(c, log, apperr.Forbidden())
			return
		}

		var payload map[string]interface{}
		if err := c.ShouldBindJSON(&payload); err != nil {
			apperr.Respond(c, log, apperr.ValidationMsg("invalid request body"))
			return
		}
		updates := pickFields(payload, "title", "body")
		if len(updates) == 0 {
			apperr.Respond(c, log, apperr.ValidationMsg("no updatable fields provided"))
			return
		}
		if err := db.Model(&discussion).Updates(updates).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, discussion)
	})

	rg.DELETE("/:id", func(c *gin.Context) {
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
		err = db.Transaction(func(tx *gorm.DB) error {
			var discussion models.ForumDiscussion
			if err := tx.First(&discussion, id).Error; err != nil {
				return err
			}
			if discussion.AuthorID != identity.UserID && !auth.Allows(identity.Role, auth.ActionManageContent) {
				return apperr.Forbidden()
			}
			// Replies first: explicit cascade, no orphans.
			if err := tx.Where("discussion_id = ?", id).Delete(&models.ForumReply{}).Error; err != nil {
				return err
			}
			if err := tx.Where("entity_type = ? AND entity_id = ?", models.LikeDiscussion, id).
				Delete(&models.Like{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&discussion).Error; err != nil {
				return err
			}
			return tx.Model(&models.ForumCategory{}).
				Where("id = ? AND discussion_count > 0", discussion.CategoryID).
				Update("discussion_count", gorm.Expr("discussion_count - 1")).Error
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperr.Respond(c, log, apperr.NotFound("discussion"))
				return
			}
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": id})
	})

	pinHandler := func(pinned bool) gin.HandlerFunc {
		return func(c *gin.Context) {
			id, err := parseID(c)
			if err != nil {
				apperr.Respond(c, log, err)
				return
			}
			res := db.Model(&models.ForumDiscussion{}).Where("id = ?", id).Update("pinned", pinned)
			if res.Error != nil {
				apperr.Respond(c, log, res.Error)
				return
			}
			if res.RowsAffected == 0 {
				apperr.Respond(c, log, apperr.NotFound("discussion"))
				return
			}
			c.JSON(http.StatusOK, gin.H{"id": id, "pinned": pinned})
		}
	}
	rg.POST("/:id/pin", auth.Require(auth.ActionManageContent, log), pinHandler(true))
	rg.POST("/:id/unpin", auth.Require(auth.ActionManageContent, log), pinHandler(false))

	rg.POST("/:id/like", likeHandler(db, log, models.LikeDiscussion, models.ForumDiscussion{}.TableName()))
}

func setupReplyRoutes(forum *gin.RouterGroup, db *gorm.DB, log *zap.Logger) {
	rg := forum.Group("/replies")

	rg.POST("", auth.Require(auth.ActionCreateComment, log), func(c *gin.Context) {
		var req struct {
			DiscussionID uint   `json:"discussion_id"`
			Body         string `json:"body"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			apperr.Respond(c, log, apperr.ValidationMsg("invalid request body"))
			return
		}
		var missing []string
		if req.DiscussionID == 0 {
			missing = append(missing, "discussion_id")
		}
		if req.Body == "" {
			missing = append(missing, "body")
		}
		if len(missing) > 0 {
			apperr.Respond(c, log, apperr.Validation(missing...))
			return
		}

		var reply models.ForumReply
		err := db.Transaction(func(tx *gorm.DB) error {
			var discussion models.ForumDiscussion
			if err := tx.First(&discussion, req.DiscussionID).Error; err != nil {
				return err
			}
			reply = models.ForumReply{
				DiscussionID: discussion.ID,
				AuthorID:     auth.IdentityFrom(c).UserID,
				Body:         req.Body,
			}
			if err := tx.Create(&reply).Error; err != nil {
				return err
			}
			now := time.Now()
			return tx.Model(&discussion).Updates(map[string]interface{}{
				"reply_count":   gorm.Expr("reply_count + 1"),
				"last_reply_at": now,
			}).Error
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperr.Respond(c, log, apperr.NotFound("discussion"))
				return
			}
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, reply)
	})

	rg.DELETE("/:id", func(c *gin.Context) {
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
		err = db.Transaction(func(tx *gorm.DB) error {
			var reply models.ForumReply
			if err := tx.First(&reply, id).Error; err != nil {
				return err
			}
			if reply.AuthorID != identity.UserID && !auth.Allows(identity.Role, auth.ActionManageContent) {
				return apperr.Forbidden()
			}
			if err := tx.Where("entity_type = ? AND entity_id = ?", models.LikeReply, id).
				Delete(&models.Like{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&reply).Error; err != nil {
				return err
			}
			return tx.Model(&models.ForumDiscussion{}).
				Where("id = ? AND reply_count > 0", reply.DiscussionID).
				Update("reply_count", gorm.Expr("reply_count - 1")).Error
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperr.Respond(c, log, apperr.NotFound("reply"))
				return
			}
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": id})
	})

	rg.POST("/:id/like", likeHandler(db, log, models.LikeReply, models.ForumReply{}.TableName()))
}
