package main

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital-ledger/models"
)

func TestUploadAuthorization(t *testing.T) {
	env := newTestEnv(t)
	token := mintToken(t, 2, models.RoleContributor)

	w := env.do(t, request{method: http.MethodPost, path: "/api/objects/upload", token: token,
		body: map[string]interface{}{
			"kind": "image", "filename": "chart.png", "size": 1 << 20, "content_type": "image/png",
		}})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		URL    string `json:"url"`
		Method string `json:"method"`
		Key    string `json:"key"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "PUT", resp.Method)
	assert.NotEmpty(t, resp.URL)
	assert.Contains(t, resp.Key, "uploads/image/")
	assert.Equal(t, 1, env.store.authorized)
}

func TestUploadLimitsCheckedBeforePresigning(t *testing.T) {
	env := newTestEnv(t)
	token := mintToken(t, 2, models.RoleContributor)

	// 6MB exceeds the 5MB image limit; the store must never be consulted.
	w := env.do(t, request{method: http.MethodPost, path: "/api/objects/upload", token: token,
		body: map[string]interface{}{
			"kind": "image", "filename": "huge.png", "size": 6 << 20, "content_type": "image/png",
		}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, env.store.authorized)

	w = env.do(t, request{method: http.MethodPost, path: "/api/objects/upload", token: token,
		body: map[string]interface{}{
			"kind": "image", "filename": "x.exe", "size": 1 << 20, "content_type": "application/x-msdownload",
		}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, env.store.authorized)
}

func TestUploadRequiresIdentity(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, request{method: http.MethodPost, path: "/api/objects/upload",
		body: map[string]interface{}{
			"kind": "image", "filename": "chart.png", "size": 1 << 20, "content_type": "image/png",
		}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUploadComplete(t *testing.T) {
	env := newTestEnv(t)
	token := mintToken(t, 2, models.RoleContributor)

	w := env.do(t, request{method: http.MethodPost, path: "/api/objects/complete", token: token,
		body: map[string]string{"url": "https://store.test/bucket/uploads/image/abc.png"}})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		URL string `json:"url"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "https://cdn.test/uploads/finalized", resp.URL)

	w = env.do(t, request{method: http.MethodPost, path: "/api/objects/complete", token: token,
		body: map[string]string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
