package main

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital-ledger/models"
)

func TestToolboxStatusTransitions(t *testing.T) {
	env := newTestEnv(t)
	editor := mintToken(t, 1, models.RoleEditor)

	w := env.do(t, request{method: http.MethodPost, path: "/api/toolbox", token: editor,
		body: map[string]interface{}{"name": "Forecast Helper", "section": "fpa"}})
	require.Equal(t, http.StatusCreated, w.Code)
	var app models.ToolboxApp
	decode(t, w, &app)
	assert.Equal(t, "developing", app.Status)
	statusPath := fmt.Sprintf("/api/toolbox/%d/status", app.ID)

	// One step forward is fine.
	w = env.do(t, request{method: http.MethodPatch, path: statusPath, token: editor,
		body: map[string]string{"status": "testing"}})
	require.Equal(t, http.StatusOK, w.Code)

	// Skipping a stage is not.
	w = env.do(t, request{method: http.MethodPatch, path: statusPath, token: editor,
		body: map[string]string{"status": "ready_for_commercial_use"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Stepping back is allowed.
	w = env.do(t, request{method: http.MethodPatch, path: statusPath, token: editor,
		body: map[string]string{"status": "developing"}})
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, request{method: http.MethodPatch, path: statusPath, token: editor,
		body: map[string]string{"status": "abandoned"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToolboxListingFiltersInactive(t *testing.T) {
	env := newTestEnv(t)
	editor := mintToken(t, 1, models.RoleEditor)

	w := env.do(t, request{method: http.MethodPost, path: "/api/toolbox", token: editor,
		body: map[string]interface{}{"name": "Visible", "section": "controller", "display_order": 2}})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, request{method: http.MethodPost, path: "/api/toolbox", token: editor,
		body: map[string]interface{}{"name": "Hidden", "section": "controller", "display_order": 1}})
	require.Equal(t, http.StatusCreated, w.Code)
	var hidden models.ToolboxApp
	decode(t, w, &hidden)

	w = env.do(t, request{method: http.MethodPut, path: fmt.Sprintf("/api/toolbox/%d", hidden.ID), token: editor,
		body: map[string]interface{}{"active": false}})
	require.Equal(t, http.StatusOK, w.Code)

	var listed []models.ToolboxApp
	w = env.do(t, request{method: http.MethodGet, path: "/api/toolbox?section=controller"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, "Visible", listed[0].Name)

	w = env.do(t, request{method: http.MethodGet, path: "/api/toolbox?all=true"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &listed)
	assert.Len(t, listed, 2)
}

func TestToolboxSectionValidation(t *testing.T) {
	env := newTestEnv(t)
	editor := mintToken(t, 1, models.RoleEditor)

	w := env.do(t, request{method: http.MethodPost, path: "/api/toolbox", token: editor,
		body: map[string]interface{}{"name": "Oddball", "section": "warehouse"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, request{method: http.MethodPost, path: "/api/toolbox", token: editor,
		body: map[string]interface{}{"name": "Fine", "section": "fpa"}})
	require.Equal(t, http.StatusCreated, w.Code)
	var app models.ToolboxApp
	decode(t, w, &app)
	path := fmt.Sprintf("/api/toolbox/%d", app.ID)

	// Updates get the same treatment, including non-string values.
	w = env.do(t, request{method: http.MethodPut, path: path, token: editor,
		body: map[string]interface{}{"section": "warehouse"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = env.do(t, request{method: http.MethodPut, path: path, token: editor,
		body: map[string]interface{}{"section": 3}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var stored models.ToolboxApp
	require.NoError(t, env.db.First(&stored, app.ID).Error)
	assert.Equal(t, "fpa", stored.Section)
}
