package main

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital-ledger/models"
)

func TestPodcastEpisodeNumberIsUnique(t *testing.T) {
	env := newTestEnv(t)
	editor := mintToken(t, 1, models.RoleEditor)

	w := env.do(t, request{method: http.MethodPost, path: "/api/podcasts", token: editor,
		body: map[string]interface{}{"title": "Kickoff", "episode_number": 1}})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, request{method: http.MethodPost, path: "/api/podcasts", token: editor,
		body: map[string]interface{}{"title": "Duplicate", "episode_number": 1}})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, request{method: http.MethodPost, path: "/api/podcasts", token: editor,
		body: map[string]interface{}{"title": "No number", "episode_number": 0}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPodcastPlayCounter(t *testing.T) {
	env := newTestEnv(t)
	editor := mintToken(t, 1, models.RoleEditor)

	w := env.do(t, request{method: http.MethodPost, path: "/api/podcasts", token: editor,
		body: map[string]interface{}{"title": "Counted", "episode_number": 1}})
	require.Equal(t, http.StatusCreated, w.Code)
	var episode models.PodcastEpisode
	decode(t, w, &episode)

	// Plays count every call; no dedup, no auth required.
	playPath := fmt.Sprintf("/api/podcasts/%d/play", episode.ID)
	for i := 0; i < 3; i++ {
		w = env.do(t, request{method: http.MethodPost, path: playPath})
		require.Equal(t, http.StatusOK, w.Code)
	}

	var fresh models.PodcastEpisode
	require.NoError(t, env.db.First(&fresh, episode.ID).Error)
	assert.Equal(t, 3, fresh.Plays)

	w = env.do(t, request{method: http.MethodPost, path: "/api/podcasts/9999/play"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
