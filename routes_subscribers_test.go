package main

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital-ledger/models"
)

func TestSubscriberSignupAndUpsert(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, request{method: http.MethodPost, path: "/api/subscribers",
		body: map[string]interface{}{"email": "Reader@X.Test", "categories": []string{"automation"}, "frequency": "daily"}})
	require.Equal(t, http.StatusCreated, w.Code)

	// Signing up again updates preferences instead of failing.
	w = env.do(t, request{method: http.MethodPost, path: "/api/subscribers",
		body: map[string]interface{}{"email": "reader@x.test", "frequency": "monthly"}})
	require.Equal(t, http.StatusCreated, w.Code)

	var subscribers []models.Subscriber
	require.NoError(t, env.db.Find(&subscribers).Error)
	require.Len(t, subscribers, 1)
	assert.Equal(t, "reader@x.test", subscribers[0].Email)
	assert.Equal(t, "monthly", subscribers[0].Frequency)
}

func TestSubscriberValidation(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, request{method: http.MethodPost, path: "/api/subscribers",
		body: map[string]string{"email": "not-an-email"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, request{method: http.MethodPost, path: "/api/subscribers",
		body: map[string]interface{}{"email": "a@x.test", "frequency": "hourly"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, request{method: http.MethodPost, path: "/api/subscribers",
		body: map[string]interface{}{"email": "a@x.test", "categories": []string{"astrology"}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscriberUnsubscribe(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.db.Create(&models.Subscriber{Email: "gone@x.test", Frequency: "weekly"}).Error)

	w := env.do(t, request{method: http.MethodDelete, path: "/api/subscribers?email=gone@x.test"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, request{method: http.MethodDelete, path: "/api/subscribers?email=gone@x.test"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubscriberListIsAdminOnly(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, request{method: http.MethodGet, path: "/api/subscribers"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, request{method: http.MethodGet, path: "/api/subscribers", token: mintToken(t, 1, models.RoleEditor)})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, request{method: http.MethodGet, path: "/api/subscribers", token: mintToken(t, 1, models.RoleAdmin)})
	assert.Equal(t, http.StatusOK, w.Code)
}
