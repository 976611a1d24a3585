package main

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital-ledger/models"
)

func TestUserAdminGate(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, request{method: http.MethodGet, path: "/api/users"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, request{method: http.MethodGet, path: "/api/users", token: mintToken(t, 1, models.RoleEditor)})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, request{method: http.MethodGet, path: "/api/users", token: mintToken(t, 1, models.RoleAdmin)})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUserCreate(t *testing.T) {
	env := newTestEnv(t)
	admin := mintToken(t, 1, models.RoleAdmin)

	w := env.do(t, request{method: http.MethodPost, path: "/api/users", token: admin,
		body: map[string]string{"email": "Sofia@X.Test", "name": "Sofia"}})
	require.Equal(t, http.StatusCreated, w.Code)
	var user models.User
	decode(t, w, &user)
	assert.Equal(t, "sofia@x.test", user.Email, "emails are normalized to lower case")
	assert.Equal(t, models.RoleSubscriber, user.Role)
	assert.True(t, user.Active)

	// Duplicate emails conflict, case-insensitively.
	w = env.do(t, request{method: http.MethodPost, path: "/api/users", token: admin,
		body: map[string]string{"email": "sofia@x.test", "name": "Sofia Again"}})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, request{method: http.MethodPost, path: "/api/users", token: admin,
		body: map[string]string{"email": "not-an-email", "name": "X"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, request{method: http.MethodPost, path: "/api/users", token: admin,
		body: map[string]string{"email": "y@x.test", "name": "Y", "role": "overlord"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserRoleAndStatusEndpoints(t *testing.T) {
	env := newTestEnv(t)
	admin := mintToken(t, 1, models.RoleAdmin)

	user := models.User{Email: "jonas@x.test", Name: "Jonas", Role: models.RoleSubscriber, Active: true}
	require.NoError(t, env.db.Create(&user).Error)

	w := env.do(t, request{method: http.MethodPatch, path: fmt.Sprintf("/api/users/%d/role", user.ID),
		token: admin, body: map[string]string{"role": models.RoleEditor}})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, request{method: http.MethodPatch, path: fmt.Sprintf("/api/users/%d/status", user.ID),
		token: admin, body: map[string]bool{"active": false}})
	require.Equal(t, http.StatusOK, w.Code)

	var fresh models.User
	require.NoError(t, env.db.First(&fresh, user.ID).Error)
	assert.Equal(t, models.RoleEditor, fresh.Role)
	assert.False(t, fresh.Active)

	// Role and active are not reachable through the generic update.
	w = env.do(t, request{method: http.MethodPut, path: fmt.Sprintf("/api/users/%d", user.ID),
		token: admin, body: map[string]interface{}{"role": models.RoleAdmin, "active": true}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLastAdminCannotBeDeleted(t *testing.T) {
	env := newTestEnv(t)
	admin := mintToken(t, 1, models.RoleAdmin)

	only := models.User{Email: "root@x.test", Name: "Root", Role: models.RoleAdmin, Active: true}
	require.NoError(t, env.db.Create(&only).Error)

	w := env.do(t, request{method: http.MethodDelete, path: fmt.Sprintf("/api/users/%d", only.ID), token: admin})
	assert.Equal(t, http.StatusConflict, w.Code)

	second := models.User{Email: "root2@x.test", Name: "Root II", Role: models.RoleAdmin, Active: true}
	require.NoError(t, env.db.Create(&second).Error)

	w = env.do(t, request{method: http.MethodDelete, path: fmt.Sprintf("/api/users/%d", only.ID), token: admin})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInvitationFlow(t *testing.T) {
	env := newTestEnv(t)
	editor := mintToken(t, 1, models.RoleEditor)

	w := env.do(t, request{method: http.MethodPost, path: "/api/invitations",
		token: mintToken(t, 2, models.RoleContributor), body: map[string]string{"email": "new@x.test"}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, request{method: http.MethodPost, path: "/api/invitations", token: editor,
		body: map[string]string{"email": "new@x.test", "role": models.RoleContributor}})
	require.Equal(t, http.StatusCreated, w.Code)
	var invitation models.UserInvitation
	decode(t, w, &invitation)
	assert.NotEmpty(t, invitation.Token)
	assert.Equal(t, models.RoleContributor, invitation.Role)

	// Inviting an already registered email conflicts.
	require.NoError(t, env.db.Create(&models.User{Email: "taken@x.test", Name: "T"}).Error)
	w = env.do(t, request{method: http.MethodPost, path: "/api/invitations", token: editor,
		body: map[string]string{"email": "taken@x.test"}})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, request{method: http.MethodDelete, path: fmt.Sprintf("/api/invitations/%d", invitation.ID), token: editor})
	require.Equal(t, http.StatusOK, w.Code)

	var remaining int64
	require.NoError(t, env.db.Model(&models.UserInvitation{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
}
