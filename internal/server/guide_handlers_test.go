package server

import (
	"net/http"
	"testing"

	"okai/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuideNotFoundBeforeFirstWrite(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestServer(t)
	app := authedApp(0)
	app.Get("/api/guide", s.GetGuide)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/guide", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGuideUpsertAndRead(t *testing.T) {
	t.Parallel()

	s, db, _ := newTestServer(t)
	admin := createTestUser(t, db, "admin@example.com", models.UserStatusApproved, models.RoleAdmin)

	writeApp := adminApp(s, admin.ID)
	writeApp.Post("/api/guide", s.UpdateGuide)

	resp, err := writeApp.Test(jsonRequest(t, http.MethodPost, "/api/guide", map[string]string{
		"title":   "이용 안내",
		"content": "커뮤니티 이용 방법",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	// Second write replaces, not duplicates.
	resp, err = writeApp.Test(jsonRequest(t, http.MethodPost, "/api/guide", map[string]string{
		"title":   "이용 안내 v2",
		"content": "수정된 방법",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	var count int64
	db.Model(&models.Greeting{}).Count(&count)
	assert.Equal(t, int64(1), count)

	readApp := authedApp(0)
	readApp.Get("/api/guide", s.GetGuide)

	resp, err = readApp.Test(jsonRequest(t, http.MethodGet, "/api/guide", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var greeting models.Greeting
	decodeBody(t, resp, &greeting)
	assert.Equal(t, "이용 안내 v2", greeting.Title)
	assert.Equal(t, "수정된 방법", greeting.Content)
}
