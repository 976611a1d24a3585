package main

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital-ledger/models"
	"digital-ledger/services"
)

func TestSeedEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, request{method: http.MethodPost, path: "/api/admin/seed-database"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, request{method: http.MethodPost, path: "/api/admin/seed-database",
		token: mintToken(t, 1, models.RoleEditor)})
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := mintToken(t, 1, models.RoleAdmin)
	w = env.do(t, request{method: http.MethodPost, path: "/api/admin/seed-database", token: admin})
	require.Equal(t, http.StatusOK, w.Code)

	var result services.SeedResult
	decode(t, w, &result)
	assert.Equal(t, "seeded", result.Status)
	assert.Equal(t, services.SeedVersion, result.Version)

	// Second call is a guarded no-op.
	w = env.do(t, request{method: http.MethodPost, path: "/api/admin/seed-database", token: admin})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &result)
	assert.Equal(t, "already-seeded", result.Status)

	// Force re-seed converges back to the dataset.
	w = env.do(t, request{method: http.MethodPost, path: "/api/admin/seed-database?force=true", token: admin})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &result)
	assert.Equal(t, "seeded", result.Status)
	assert.True(t, result.Forced)

	var articles int64
	require.NoError(t, env.db.Model(&models.Article{}).Count(&articles).Error)
	assert.Equal(t, int64(services.SeedArticleCount), articles)
}
