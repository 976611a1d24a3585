package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"digital-ledger/apperr"
	"digital-ledger/auth"
	"digital-ledger/storage"
)

func setupUploadRoutes(api *gin.RouterGroup, store storage.ObjectStore, log *zap.Logger) {
	rg := api.Group("/objects")

	rg.POST("/upload", auth.Require(auth.ActionCreateComment, log), func(c *gin.Context) {
		var req struct {
			Kind        string `json:"kind"`
			Filename    string `json:"filename"`
			Size        int64  `json:"size"`
			ContentType string `json:"content_type"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			apperr.Respond(c, log, apperr.ValidationMsg("invalid request body"))
			return
		}
		var missing []string
		if req.Kind == "" {
			missing = append(missing, "kind")
		}
		if req.Filename == "" {
			missing = append(missing, "filename")
		}
		if req.ContentType == "" {
			missing = append(missing, "content_type")
		}
		if len(missing) > 0 {
			apperr.Respond(c, log, apperr.Validation(missing...))
			return
		}
		// Limits are enforced here, before a presigned URL ever exists.
		if err := storage.Validate(req.Kind, req.Size, req.ContentType); err != nil {
			apperr.Respond(c, log, apperr.ValidationMsg(err.Error()))
			return
		}

		authz, err := store.Authorize(c.Request.Context(), req.Kind, req.Filename, req.ContentType)
		if err != nil {
			apperr.Respond(c, log, apperr.Dependency("object store unavailable", err))
			return
		}
		uploadsAuthorized.Inc()
		c.JSON(http.StatusOK, authz)
	})

	rg.POST("/complete", auth.Require(auth.ActionCreateComment, log), func(c *gin.Context) {
		var req struct {
			URL string `json:"url"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
			apperr.Respond(c, log, apperr.Validation("url"))
			return
		}

		publicURL, err := store.Finalize(c.Request.Context(), req.URL)
		if err != nil {
			apperr.Respond(c, log, apperr.Dependency("finalizing upload failed", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"url": publicURL})
	})
}
