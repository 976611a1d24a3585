package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"digital-ledger/apperr"
	"digital-ledger/auth"
	"digital-ledger/models"
	"digital-ledger/services"
)

func setupUserRoutes(api *gin.RouterGroup, db *gorm.DB, mailer *services.Mailer, log *zap.Logger) {
	rg := api.Group("/users")

	rg.GET("", auth.Require(auth.ActionAdminUsers, log), func(c *gin.Context) {
		query := db.Model(&models.User{})
		if role := c.Query("role"); role != "" {
			query = query.Where("role = ?", role)
		}
		limit, offset := paginate(c)
		var users []models.User
		if err := query.Order("created_at desc").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, users)
	})

	rg.GET("/:id", auth.Require(auth.ActionAdminUsers, log), func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}
		var user models.User
		if err := db.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperr.Respond(c, log, apperr.NotFound("user"))
				return
			}
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, user)
	})

	rg.POST("", auth.Require(auth.ActionAdminUsers, log), func(c *gin.Context) {
		var req struct {
			Email string `json:"email"`
			Name  string `json:"name"`
			Role  string `json:"role"`
			Bio   string `json:"bio"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			apperr.Respond(c, log, apperr.ValidationMsg("invalid request body"))
			return
		}
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		var missing []string
		if req.Email == "" || !strings.Contains(req.Email, "@") {
			missing = append(missing, "email")
		}
		if req.Name == "" {
			missing = append(missing, "name")
		}
		if len(missing) > 0 {
			apperr.Respond(c, log, apperr.Validation(missing...))
			return
		}
		if req.Role == "" {
			req.Role = models.RoleSubscriber
		} else if !models.ValidRole(req.Role) {
			apperr.Respond(c, log, apperr.ValidationMsg("unknown role", "role"))
			return
		}

		var clash int64
		if err := db.Model(&models.User{}).Where("email = ?", req.Email).Count(&clash).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		if clash > 0 {
			apperr.Respond(c, log, apperr.Conflict("email already registered"))
			return
		}

		user := models.User{
			Email:  req.Email,
			Name:   req.Name,
			Role:   req.Role,
			Bio:    req.Bio,
			Active: true,
		}
		if err := db.Create(&user).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		log.Info("user created", zap.Uint("id", user.ID), zap.String("role", user.Role))
		mailer.SendWelcome(user.Email, user.Name)
		c.JSON(http.StatusCreated, user)
	})

	rg.PUT("/:id", auth.Require(auth.ActionAdminUsers, log), func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}
		var user models.User
		if err := db.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperr.Respond(c, log, apperr.NotFound("user"))
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
		// Role and active are managed through their dedicated endpoints.
		updates := pickFields(payload, "name", "bio", "avatar_url")
		if len(updates) == 0 {
			apperr.Respond(c, log, apperr.ValidationMsg("no updatable fields provided"))
			return
		}
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, user)
	})

	rg.PATCH("/:id/role", auth.Require(auth.ActionAdminUsers, log), func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}
		var req struct {
			Role string `json:"role"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || !models.ValidRole(req.Role) {
			apperr.Respond(c, log, apperr.ValidationMsg("unknown role", "role"))
			return
		}
		res := db.Model(&models.User{}).Where("id = ?", id).Update("role", req.Role)
		if res.Error != nil {
			apperr.Respond(c, log, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			apperr.Respond(c, log, apperr.NotFound("user"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id, "role": req.Role})
	})

	rg.PATCH("/:id/status", auth.Require(auth.ActionAdminUsers, log), func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}
		var req struct {
			Active *bool `json:"active"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Active == nil {
			apperr.Respond(c, log, apperr.Validation("active"))
			return
		}
		res := db.Model(&models.User{}).Where("id = ?", id).Update("active", *req.Active)
		if res.Error != nil {
			apperr.Respond(c, log, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			apperr.Respond(c, log, apperr.NotFound("user"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id, "active": *req.Active})
	})

	rg.DELETE("/:id", auth.Require(auth.ActionAdminUsers, log), func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}
		// The last admin must stay; otherwise the instance locks itself out.
		var user models.User
		if err := db.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperr.Respond(c, log, apperr.NotFound("user"))
				return
			}
			apperr.Respond(c, log, err)
			return
		}
		if user.Role == models.RoleAdmin {
			var admins int64
			if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error; err != nil {
				apperr.Respond(c, log, err)
				return
			}
			if admins <= 1 {
				apperr.Respond(c, log, apperr.Conflict("cannot delete the last admin"))
				return
			}
		}
		if err := db.Delete(&user).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": id})
	})

	setupInvitationRoutes(api, db, log)
}

func setupInvitationRoutes(api *gin.RouterGroup, db *gorm.DB, log *zap.Logger) {
	rg := api.Group("/invitations")

	rg.GET("", auth.Require(auth.ActionManageInvitations, log), func(c *gin.Context) {
		var invitations []models.UserInvitation
		if err := db.Order("created_at desc").Find(&invitations).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, invitations)
	})

	rg.POST("", auth.Require(auth.ActionManageInvitations, log), func(c *gin.Context) {
		var req struct {
			Email string `json:"email"`
			Role  string `json:"role"`
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
		if req.Role == "" {
			req.Role = models.RoleSubscriber
		} else if !models.ValidRole(req.Role) {
			apperr.Respond(c, log, apperr.ValidationMsg("unknown role", "role"))
			return
		}

		var registered int64
		if err := db.Model(&models.User{}).Where("email = ?", req.Email).Count(&registered).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		if registered > 0 {
			apperr.Respond(c, log, apperr.Conflict("email already registered"))
			return
		}

		invitation := models.UserInvitation{
			Email: req.Email,
			Role:  req.Role,
			Token: uuid.NewString(),
		}
		if err := db.Create(&invitation).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, invitation)
	})

	rg.DELETE("/:id", auth.Require(auth.ActionManageInvitations, log), func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}
		res := db.Delete(&models.UserInvitation{}, id)
		if res.Error != nil {
			apperr.Respond(c, log, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			apperr.Respond(c, log, apperr.NotFound("invitation"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"revoked": id})
	})
}
