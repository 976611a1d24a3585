package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"digital-ledger/apperr"
	"digital-ledger/auth"
	"digital-ledger/models"
)

// likeActor resolves who is liking. Authenticated users are keyed by id.
// Anonymous callers may present a device token (hashed, never stored raw);
// without one there is no dedup key and the like is acknowledged but not
// counted server-side.
func likeActor(c *gin.Context) (actor string, anonymous bool) {
	id := auth.IdentityFrom(c)
	if !id.Anonymous() {
		return fmt.Sprintf("user:%d", id.UserID), false
	}
	token := c.GetHeader("X-Device-Token")
	if token == "" {
		return "", true
	}
	sum := sha256.Sum256([]byte(token))
	return "device:" + hex.EncodeToString(sum[:]), true
}

// likeHandler implements the shared like semantics for every likeable entity.
// The uniqueness constraint on the likes table is the idempotency guarantee.
// Join-row insert and counter bump run in one transaction: either both land
// or neither does, so the counter can never diverge from the row count.
func likeHandler(db *gorm.DB, log *zap.Logger, entityType, tableName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c)
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}

		actor, anonymous := likeActor(c)
		liked := false
		err = db.Transaction(func(tx *gorm.DB) error {
			var exists int64
			if err := tx.Table(tableName).Where("id = ?", id).Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				return apperr.NotFound(entityType)
			}
			if actor == "" {
				return nil
			}

			like := models.Like{EntityType: entityType, EntityID: id, Actor: actor}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 1 {
				if err := tx.Table(tableName).Where("id = ?", id).
					Update("likes", gorm.Expr("likes + 1")).Error; err != nil {
					return err
				}
				liked = true
			}
			return nil
		})
		if err != nil {
			apperr.Respond(c, log, err)
			return
		}
		if liked {
			likesCounter.Inc()
		}

		var likes int
		if err := db.Table(tableName).Select("likes").Where("id = ?", id).Scan(&likes).Error; err != nil {
			apperr.Respond(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"likes": likes, "liked": liked, "anonymous": anonymous})
	}
}
